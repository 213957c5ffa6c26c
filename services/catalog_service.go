package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbertrack-backend/models"
	"barbertrack-backend/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CatalogService administers service types and records the services
// employees perform.
type CatalogService struct {
	store CatalogStore
	log   logrus.FieldLogger
}

func NewCatalogService(store CatalogStore, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{store: store, log: log}
}

// ServiceTypes lists active service types, or all of them for callers who
// manage the catalog and ask for inactive ones too.
func (c *CatalogService) ServiceTypes(ctx context.Context, caller models.Caller, includeInactive bool) ([]models.ServiceType, error) {
	if includeInactive && PolicyFor(caller).CanManageServiceTypes() {
		return c.store.AllServiceTypes(ctx)
	}
	return c.store.ActiveServiceTypes(ctx)
}

func (c *CatalogService) CreateServiceType(ctx context.Context, caller models.Caller, name string, displayOrder int) (models.ServiceType, error) {
	if !PolicyFor(caller).CanManageServiceTypes() {
		return models.ServiceType{}, repository.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ServiceType{}, ErrNameRequired
	}
	st := models.ServiceType{
		Name:         name,
		DisplayOrder: displayOrder,
		IsActive:     true,
	}
	if err := c.store.CreateServiceType(ctx, caller, &st); err != nil {
		return models.ServiceType{}, err
	}
	c.log.WithFields(logrus.Fields{"service_type": st.ID, "name": st.Name}).Info("service type created")
	return st, nil
}

type ServiceTypeUpdate struct {
	Name         *string
	DisplayOrder *int
	IsActive     *bool
}

func (c *CatalogService) UpdateServiceType(ctx context.Context, caller models.Caller, id uuid.UUID, in ServiceTypeUpdate) (models.ServiceType, error) {
	if !PolicyFor(caller).CanManageServiceTypes() {
		return models.ServiceType{}, repository.ErrForbidden
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.ServiceType{}, ErrNameRequired
		}
		updates["name"] = name
	}
	if in.DisplayOrder != nil {
		updates["display_order"] = *in.DisplayOrder
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return c.store.ServiceTypeByID(ctx, id)
	}
	return c.store.UpdateServiceType(ctx, caller, id, updates)
}

// LogTransaction records a service the caller performed. The service type
// must exist and be active.
func (c *CatalogService) LogTransaction(ctx context.Context, caller models.Caller, serviceTypeID uuid.UUID, performedAt *time.Time, notes *string) (models.Transaction, error) {
	if !PolicyFor(caller).CanLogTransaction() {
		return models.Transaction{}, repository.ErrForbidden
	}
	st, err := c.store.ServiceTypeByID(ctx, serviceTypeID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !st.IsActive {
		return models.Transaction{}, ErrInactiveService
	}

	tx := models.Transaction{
		EmployeeID:    caller.ID,
		ServiceTypeID: st.ID,
		Notes:         trimmedOrNil(notes),
	}
	if performedAt != nil {
		tx.PerformedAt = *performedAt
	}
	if err := c.store.CreateTransaction(ctx, caller, &tx); err != nil {
		if !errors.Is(err, repository.ErrForbidden) {
			c.log.WithError(err).WithField("employee", caller.ID).Error("log transaction failed")
		}
		return models.Transaction{}, fmt.Errorf("log transaction: %w", err)
	}
	tx.ServiceType = &st
	return tx, nil
}
