package services

import (
	"context"
	"time"

	"barbertrack-backend/models"
	"barbertrack-backend/repository"

	"github.com/google/uuid"
)

// DashboardStore is the part of the record store the dashboard reads and
// mutates.
type DashboardStore interface {
	ActiveEmployees(ctx context.Context) ([]models.Profile, error)
	ActiveServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	Transactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, caller models.Caller, id uuid.UUID) error
	DeactivateEmployee(ctx context.Context, caller models.Caller, id uuid.UUID) error
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	ProfileByID(ctx context.Context, id uuid.UUID) (models.Profile, error)
	ProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	UpdateProfile(ctx context.Context, caller models.Caller, updates map[string]interface{}) (models.Profile, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type CatalogStore interface {
	ActiveServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	AllServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	ServiceTypeByID(ctx context.Context, id uuid.UUID) (models.ServiceType, error)
	CreateServiceType(ctx context.Context, caller models.Caller, st *models.ServiceType) error
	UpdateServiceType(ctx context.Context, caller models.Caller, id uuid.UUID, updates map[string]interface{}) (models.ServiceType, error)
	CreateTransaction(ctx context.Context, caller models.Caller, t *models.Transaction) error
}

type ReportStore interface {
	ActiveEmployees(ctx context.Context) ([]models.Profile, error)
	ActiveAdmins(ctx context.Context) ([]models.Profile, error)
	ActiveServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	Transactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error)
	CreateReportLog(ctx context.Context, l *models.ReportLog) error
}

// Store is everything the services need from the record store.
type Store interface {
	DashboardStore
	ProfileStore
	CatalogStore
	ReportStore
}

var (
	_ Store = (*repository.Store)(nil)
	_ Store = (*repository.MemoryStore)(nil)
)
