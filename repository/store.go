package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbertrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the gorm-backed record store over profiles, service types and
// transactions. Mutations take the caller so the store rejects disallowed
// commands even if the layers above it are bypassed.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.Profile{},
		&models.ServiceType{},
		&models.Transaction{},
		&models.ReportLog{},
	)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func requireAdmin(caller models.Caller) error {
	if !caller.IsAdmin() || !caller.IsActive {
		return ErrForbidden
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Profiles

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	var existing models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", p.Email).First(&existing).Error
	if err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup profile: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Store) ProfileByID(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.Profile{}, notFound(err)
	}
	return p, nil
}

func (s *Store) ProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	if err != nil {
		return models.Profile{}, notFound(err)
	}
	return p, nil
}

// ActiveEmployees returns the active roster ordered by name.
func (s *Store) ActiveEmployees(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleEmployee, true).
		Order("full_name ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) ActiveAdmins(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Order("full_name ASC").
		Find(&out).Error
	return out, err
}

// UpdateProfile changes the caller's own profile fields.
func (s *Store) UpdateProfile(ctx context.Context, caller models.Caller, updates map[string]interface{}) (models.Profile, error) {
	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", caller.ID).
		Updates(updates)
	if result.Error != nil {
		return models.Profile{}, fmt.Errorf("update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Profile{}, ErrNotFound
	}
	return s.ProfileByID(ctx, caller.ID)
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// DeactivateEmployee flips is_active off. Transactions are left untouched.
func (s *Store) DeactivateEmployee(ctx context.Context, caller models.Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND role = ?", id, models.RoleEmployee).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Service types

// ActiveServiceTypes returns active service types in display order.
func (s *Store) ActiveServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	var out []models.ServiceType
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) AllServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	var out []models.ServiceType
	err := s.db.WithContext(ctx).Order("display_order ASC").Find(&out).Error
	return out, err
}

func (s *Store) ServiceTypeByID(ctx context.Context, id uuid.UUID) (models.ServiceType, error) {
	var st models.ServiceType
	if err := s.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		return models.ServiceType{}, notFound(err)
	}
	return st, nil
}

func (s *Store) CreateServiceType(ctx context.Context, caller models.Caller, st *models.ServiceType) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create service type: %w", err)
	}
	return nil
}

func (s *Store) UpdateServiceType(ctx context.Context, caller models.Caller, id uuid.UUID, updates map[string]interface{}) (models.ServiceType, error) {
	if err := requireAdmin(caller); err != nil {
		return models.ServiceType{}, err
	}
	result := s.db.WithContext(ctx).Model(&models.ServiceType{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return models.ServiceType{}, ErrAlreadyExists
		}
		return models.ServiceType{}, fmt.Errorf("update service type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ServiceType{}, ErrNotFound
	}
	return s.ServiceTypeByID(ctx, id)
}

// Transactions

// Transactions reads transactions matching filter, newest first, with their
// service type and employee embedded.
func (s *Store) Transactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.db.WithContext(ctx).
		Scopes(filter.Scope).
		Preload("ServiceType").
		Preload("Employee").
		Order("performed_at DESC").
		Find(&out).Error
	return out, err
}

// CreateTransaction records a service the caller performed themself.
func (s *Store) CreateTransaction(ctx context.Context, caller models.Caller, t *models.Transaction) error {
	if caller.Role != models.RoleEmployee || !caller.IsActive || caller.ID != t.EmployeeID {
		return ErrForbidden
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, caller models.Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Report logs

func (s *Store) CreateReportLog(ctx context.Context, l *models.ReportLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}
