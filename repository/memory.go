package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"barbertrack-backend/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory record store with the same semantics as Store.
// It is safe for concurrent use and is intended for tests and local
// development.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[uuid.UUID]models.Profile
	serviceTypes map[uuid.UUID]models.ServiceType
	transactions map[uuid.UUID]models.Transaction
	reportLogs   []models.ReportLog
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:     make(map[uuid.UUID]models.Profile),
		serviceTypes: make(map[uuid.UUID]models.ServiceType),
		transactions: make(map[uuid.UUID]models.Transaction),
		now:          time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) CreateProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	for _, existing := range m.profiles {
		if existing.Email == p.Email {
			return ErrAlreadyExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := m.now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.profiles[p.ID] = *p
	return nil
}

func (m *MemoryStore) ProfileByID(_ context.Context, id uuid.UUID) (models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) ProfileByEmail(_ context.Context, email string) (models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return models.Profile{}, ErrNotFound
}

func (m *MemoryStore) ActiveEmployees(_ context.Context) ([]models.Profile, error) {
	return m.activeByRole(models.RoleEmployee), nil
}

func (m *MemoryStore) ActiveAdmins(_ context.Context) ([]models.Profile, error) {
	return m.activeByRole(models.RoleAdmin), nil
}

func (m *MemoryStore) activeByRole(role models.Role) []models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Profile{}
	for _, p := range m.profiles {
		if p.Role == role && p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

func (m *MemoryStore) UpdateProfile(_ context.Context, caller models.Caller, updates map[string]interface{}) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[caller.ID]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "full_name":
			p.FullName = v.(string)
		case "shop_name":
			p.ShopName = v.(*string)
		case "phone":
			p.Phone = v.(*string)
		}
	}
	p.UpdatedAt = m.now()
	m.profiles[p.ID] = p
	return p, nil
}

func (m *MemoryStore) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.LastLogin = &at
	m.profiles[id] = p
	return nil
}

func (m *MemoryStore) DeactivateEmployee(_ context.Context, caller models.Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok || p.Role != models.RoleEmployee {
		return ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = m.now()
	m.profiles[id] = p
	return nil
}

func (m *MemoryStore) ActiveServiceTypes(_ context.Context) ([]models.ServiceType, error) {
	return m.serviceTypeList(true), nil
}

func (m *MemoryStore) AllServiceTypes(_ context.Context) ([]models.ServiceType, error) {
	return m.serviceTypeList(false), nil
}

func (m *MemoryStore) serviceTypeList(activeOnly bool) []models.ServiceType {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.ServiceType{}
	for _, st := range m.serviceTypes {
		if activeOnly && !st.IsActive {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (m *MemoryStore) ServiceTypeByID(_ context.Context, id uuid.UUID) (models.ServiceType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.serviceTypes[id]
	if !ok {
		return models.ServiceType{}, ErrNotFound
	}
	return st, nil
}

func (m *MemoryStore) CreateServiceType(_ context.Context, caller models.Caller, st *models.ServiceType) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.serviceTypes {
		if existing.Name == st.Name {
			return ErrAlreadyExists
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	st.CreatedAt = m.now()
	m.serviceTypes[st.ID] = *st
	return nil
}

// SeedServiceType inserts st without an authorization check. It backs seed
// data, which is administered outside any caller's session.
func (m *MemoryStore) SeedServiceType(st models.ServiceType) models.ServiceType {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = m.now()
	}
	m.serviceTypes[st.ID] = st
	return st
}

func (m *MemoryStore) UpdateServiceType(_ context.Context, caller models.Caller, id uuid.UUID, updates map[string]interface{}) (models.ServiceType, error) {
	if err := requireAdmin(caller); err != nil {
		return models.ServiceType{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.serviceTypes[id]
	if !ok {
		return models.ServiceType{}, ErrNotFound
	}
	if name, ok := updates["name"].(string); ok {
		for otherID, other := range m.serviceTypes {
			if otherID != id && other.Name == name {
				return models.ServiceType{}, ErrAlreadyExists
			}
		}
	}
	for k, v := range updates {
		switch k {
		case "name":
			st.Name = v.(string)
		case "display_order":
			st.DisplayOrder = v.(int)
		case "is_active":
			st.IsActive = v.(bool)
		}
	}
	m.serviceTypes[id] = st
	return st, nil
}

func (m *MemoryStore) Transactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Transaction{}
	for _, t := range m.transactions {
		if !filter.Match(t) {
			continue
		}
		if st, ok := m.serviceTypes[t.ServiceTypeID]; ok {
			t.ServiceType = &st
		}
		if p, ok := m.profiles[t.EmployeeID]; ok {
			t.Employee = &p
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	return out, nil
}

func (m *MemoryStore) CreateTransaction(_ context.Context, caller models.Caller, t *models.Transaction) error {
	if caller.Role != models.RoleEmployee || !caller.IsActive || caller.ID != t.EmployeeID {
		return ErrForbidden
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := m.now()
	if t.PerformedAt.IsZero() {
		t.PerformedAt = now
	}
	t.CreatedAt, t.UpdatedAt = now, now
	stored := *t
	stored.ServiceType, stored.Employee = nil, nil
	m.transactions[t.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, caller models.Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MemoryStore) CreateReportLog(_ context.Context, l *models.ReportLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = m.now()
	m.reportLogs = append(m.reportLogs, *l)
	return nil
}

func (m *MemoryStore) ReportLogs() []models.ReportLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.ReportLog(nil), m.reportLogs...)
}
