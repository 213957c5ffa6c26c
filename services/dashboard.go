package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"barbertrack-backend/metrics"
	"barbertrack-backend/models"
	"barbertrack-backend/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// HistoryLimit caps the expanded history view. It is applied after the full
// history is retrieved and sorted.
const HistoryLimit = 30

// DashboardState is the render-ready view of one session.
type DashboardState struct {
	Caller             models.Caller          `json:"caller"`
	Ready              bool                   `json:"ready"`
	Services           []models.ServiceType   `json:"services"`
	Stats              []models.EmployeeStats `json:"stats"`
	Summary            Summary                `json:"summary"`
	ExpandedEmployeeID *uuid.UUID             `json:"expanded_employee_id"`
	History            []models.Transaction   `json:"history"`
	Notice             string                 `json:"notice,omitempty"`
	LoadedAt           time.Time              `json:"loaded_at"`
}

// Dashboard builds sessions over a shared store.
type Dashboard struct {
	store DashboardStore
	agg   Aggregator
	log   logrus.FieldLogger
}

func NewDashboard(store DashboardStore, agg Aggregator, log logrus.FieldLogger) *Dashboard {
	return &Dashboard{store: store, agg: agg, log: log}
}

// Open starts a session for caller. The access policy is chosen here, once.
// A nil caller yields a session that is not ready to load transactions.
func (d *Dashboard) Open(id string, caller *models.Caller) *Session {
	s := &Session{
		id:       id,
		dash:     d,
		inflight: make(map[string]struct{}),
		log:      d.log.WithField("session", id),
	}
	if caller != nil {
		c := *caller
		s.caller = &c
		s.policy = PolicyFor(c)
		s.state.Caller = c
	}
	return s
}

// Session holds the view state of one signed-in caller. Its methods may be
// called from concurrent requests; state writes are serialized.
type Session struct {
	id     string
	dash   *Dashboard
	caller *models.Caller
	policy AccessPolicy
	log    logrus.FieldLogger

	mu        sync.Mutex
	state     DashboardState
	expanded  *uuid.UUID
	inflight  map[string]struct{}
	closed    bool
	expiresAt time.Time
	// loadSeq numbers loads as they start; applied is the newest one whose
	// result is in state.
	loadSeq uint64
	applied uint64
}

func (s *Session) ID() string { return s.id }

// Caller returns the session's caller, or false if none is resolved.
func (s *Session) Caller() (models.Caller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caller == nil {
		return models.Caller{}, false
	}
	return *s.caller, true
}

// Refresh replaces the caller's display fields with a freshly read copy.
// Identity and role are fixed for the life of the session.
func (s *Session) Refresh(caller models.Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caller == nil || s.caller.ID != caller.ID || s.caller.Role != caller.Role {
		return
	}
	c := caller
	s.caller = &c
	s.state.Caller = c
}

// Expired reports whether the token behind the session has lapsed at now.
// A session without an expiry never lapses.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

func (s *Session) setExpiry(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = at
}

func (s *Session) Policy() AccessPolicy { return s.policy }

// State returns a copy of the current view state.
func (s *Session) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close tears the session down. Loads still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load re-fetches everything from the store and rebuilds the view. Employees
// and services load concurrently; transactions and aggregation wait for both.
// On failure the previous state is kept and a notice is set.
func (s *Session) Load(ctx context.Context) (DashboardState, error) {
	start := time.Now()
	state, err := s.load(ctx)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveDashboardLoad(result, time.Since(start))
	return state, err
}

func (s *Session) load(ctx context.Context) (DashboardState, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return DashboardState{}, ErrSessionClosed
	}
	if s.caller == nil {
		st := s.state
		s.mu.Unlock()
		return st, ErrNotReady
	}
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	var (
		employees []models.Profile
		services  []models.ServiceType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.dash.store.ActiveEmployees(gctx)
		if err != nil {
			return fmt.Errorf("load employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		services, err = s.dash.store.ActiveServiceTypes(gctx)
		if err != nil {
			return fmt.Errorf("load service types: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.fail(seq, err)
	}

	txs, err := s.dash.store.Transactions(ctx, s.policy.TransactionFilter())
	if err != nil {
		return s.fail(seq, fmt.Errorf("load transactions: %w", err))
	}
	txs = s.policy.Filter(txs)

	stats := s.dash.agg.Aggregate(s.policy.Roster(employees), services, txs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DashboardState{}, ErrSessionClosed
	}
	if seq < s.applied {
		// a later load already landed; keep its result
		return s.state, nil
	}
	s.applied = seq
	s.state = DashboardState{
		Caller:   *s.caller,
		Ready:    true,
		Services: services,
		Stats:    stats,
		Summary:  Summarize(stats),
		LoadedAt: time.Now(),
	}
	s.refreshHistoryLocked()
	return s.state, nil
}

func (s *Session) fail(seq uint64, err error) (DashboardState, error) {
	s.log.WithError(err).Error("dashboard load failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DashboardState{}, ErrSessionClosed
	}
	if seq < s.applied {
		return s.state, err
	}
	s.state.Notice = "Could not refresh the dashboard. Showing the last loaded data."
	return s.state, err
}

// Toggle expands employeeID's history, or collapses it if it is already the
// expanded one. At most one employee is expanded.
func (s *Session) Toggle(employeeID uuid.UUID) (DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DashboardState{}, ErrSessionClosed
	}

	if s.expanded != nil && *s.expanded == employeeID {
		s.expanded = nil
		s.refreshHistoryLocked()
		return s.state, nil
	}
	if _, ok := s.statFor(employeeID); !ok {
		return s.state, repository.ErrNotFound
	}
	id := employeeID
	s.expanded = &id
	s.refreshHistoryLocked()
	return s.state, nil
}

func (s *Session) statFor(employeeID uuid.UUID) (models.EmployeeStats, bool) {
	for _, st := range s.state.Stats {
		if st.Profile.ID == employeeID {
			return st, true
		}
	}
	return models.EmployeeStats{}, false
}

// refreshHistoryLocked rebuilds the history for the expanded employee. An
// expanded employee who dropped off the roster is collapsed.
func (s *Session) refreshHistoryLocked() {
	s.state.ExpandedEmployeeID = nil
	s.state.History = nil
	if s.expanded == nil {
		return
	}
	stat, ok := s.statFor(*s.expanded)
	if !ok {
		s.expanded = nil
		return
	}
	id := *s.expanded
	s.state.ExpandedEmployeeID = &id
	s.state.History = RecentHistory(stat.Transactions, HistoryLimit)
}

// RecentHistory sorts txs newest first by PerformedAt and keeps the first
// limit entries. txs is not modified.
func RecentHistory(txs []models.Transaction, limit int) []models.Transaction {
	sorted := append([]models.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PerformedAt.After(sorted[j].PerformedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// DeleteTransaction removes a transaction and reloads the view. Admin only.
func (s *Session) DeleteTransaction(ctx context.Context, id uuid.UUID) (DashboardState, error) {
	return s.mutate(ctx, "delete_transaction", id, func(p AccessPolicy) bool {
		return p.CanDeleteTransaction()
	}, func(caller models.Caller) error {
		return s.dash.store.DeleteTransaction(ctx, caller, id)
	})
}

// DeactivateEmployee soft-deletes an employee and reloads the view. Admin
// only. The employee's transactions stay in the store.
func (s *Session) DeactivateEmployee(ctx context.Context, id uuid.UUID) (DashboardState, error) {
	return s.mutate(ctx, "deactivate_employee", id, func(p AccessPolicy) bool {
		return p.CanDeactivateEmployee()
	}, func(caller models.Caller) error {
		return s.dash.store.DeactivateEmployee(ctx, caller, id)
	})
}

func (s *Session) mutate(ctx context.Context, kind string, target uuid.UUID, allowed func(AccessPolicy) bool, apply func(models.Caller) error) (DashboardState, error) {
	caller, ok := s.Caller()
	if !ok {
		return s.State(), ErrNotReady
	}
	if !allowed(s.policy) {
		metrics.RecordMutation(kind, "forbidden")
		return s.State(), repository.ErrForbidden
	}

	key := kind + ":" + target.String()
	if err := s.acquire(key); err != nil {
		return s.State(), err
	}
	defer s.release(key)

	log := s.log.WithFields(logrus.Fields{"action": kind, "target": target})
	if err := apply(caller); err != nil {
		metrics.RecordMutation(kind, "error")
		log.WithError(err).Error("mutation failed")
		s.mu.Lock()
		if !s.closed {
			s.state.Notice = "The action could not be completed."
		}
		st := s.state
		s.mu.Unlock()
		return st, err
	}
	metrics.RecordMutation(kind, "ok")
	log.Info("mutation applied")

	return s.Load(ctx)
}

func (s *Session) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if _, busy := s.inflight[key]; busy {
		return ErrBusy
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *Session) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
