package repository

import (
	"context"
	"testing"
	"time"

	"barbertrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployee(t *testing.T, m *MemoryStore, name string) models.Profile {
	t.Helper()
	p := models.Profile{Email: name + "@shop.test", FullName: name, Role: models.RoleEmployee, IsActive: true}
	require.NoError(t, m.CreateProfile(context.Background(), &p))
	return p
}

func TestMemoryCreateProfileRejectsDuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	seedEmployee(t, m, "ann")

	dup := models.Profile{Email: " ANN@shop.test ", FullName: "Other", Role: models.RoleEmployee}
	assert.ErrorIs(t, m.CreateProfile(context.Background(), &dup), ErrAlreadyExists)
}

func TestMemoryActiveEmployeesSortedByName(t *testing.T) {
	m := NewMemoryStore()
	seedEmployee(t, m, "zoe")
	seedEmployee(t, m, "bob")
	admin := models.Profile{Email: "boss@shop.test", FullName: "Boss", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, m.CreateProfile(context.Background(), &admin))

	employees, err := m.ActiveEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "bob", employees[0].FullName)
	assert.Equal(t, "zoe", employees[1].FullName)
}

func TestMemoryDeactivatedEmployeeKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	emp := seedEmployee(t, m, "ann")
	st := m.SeedServiceType(models.ServiceType{Name: "Haircut", DisplayOrder: 1, IsActive: true})

	tx := models.Transaction{EmployeeID: emp.ID, ServiceTypeID: st.ID}
	require.NoError(t, m.CreateTransaction(ctx, emp.Caller(), &tx))

	admin := models.Caller{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, m.DeactivateEmployee(ctx, admin, emp.ID))

	employees, err := m.ActiveEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)

	txs, err := m.Transactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)
	require.NotNil(t, txs[0].ServiceType)
	assert.Equal(t, "Haircut", txs[0].ServiceType.Name)
}

func TestMemoryDeactivateUnknownOrAdmin(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	admin := models.Profile{Email: "boss@shop.test", FullName: "Boss", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, m.CreateProfile(ctx, &admin))

	assert.ErrorIs(t, m.DeactivateEmployee(ctx, admin.Caller(), uuid.New()), ErrNotFound)
	assert.ErrorIs(t, m.DeactivateEmployee(ctx, admin.Caller(), admin.ID), ErrNotFound)
}

func TestMemoryTransactionsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	ann := seedEmployee(t, m, "ann")
	bob := seedEmployee(t, m, "bob")
	st := m.SeedServiceType(models.ServiceType{Name: "Shave", DisplayOrder: 1, IsActive: true})

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, emp := range []models.Profile{ann, bob, ann} {
		tx := models.Transaction{EmployeeID: emp.ID, ServiceTypeID: st.ID, PerformedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, m.CreateTransaction(ctx, emp.Caller(), &tx))
	}

	txs, err := m.Transactions(ctx, TransactionFilter{EmployeeID: &ann.ID})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].PerformedAt.After(txs[1].PerformedAt))
	for _, tx := range txs {
		assert.Equal(t, ann.ID, tx.EmployeeID)
	}

	since := base.Add(90 * time.Minute)
	txs, err = m.Transactions(ctx, TransactionFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestMemoryDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	emp := seedEmployee(t, m, "ann")
	st := m.SeedServiceType(models.ServiceType{Name: "Shave", IsActive: true})
	tx := models.Transaction{EmployeeID: emp.ID, ServiceTypeID: st.ID}
	require.NoError(t, m.CreateTransaction(ctx, emp.Caller(), &tx))

	assert.ErrorIs(t, m.DeleteTransaction(ctx, emp.Caller(), tx.ID), ErrForbidden)

	admin := models.Caller{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, m.DeleteTransaction(ctx, admin, tx.ID))
	assert.ErrorIs(t, m.DeleteTransaction(ctx, admin, tx.ID), ErrNotFound)
}

func TestMemoryServiceTypes(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	admin := models.Caller{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}

	second := models.ServiceType{Name: "Shave", DisplayOrder: 2, IsActive: true}
	first := models.ServiceType{Name: "Haircut", DisplayOrder: 1, IsActive: true}
	require.NoError(t, m.CreateServiceType(ctx, admin, &second))
	require.NoError(t, m.CreateServiceType(ctx, admin, &first))

	dup := models.ServiceType{Name: "Shave"}
	assert.ErrorIs(t, m.CreateServiceType(ctx, admin, &dup), ErrAlreadyExists)

	_, err := m.UpdateServiceType(ctx, admin, second.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	active, err := m.ActiveServiceTypes(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Haircut", active[0].Name)

	all, err := m.AllServiceTypes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Haircut", all[0].Name)
}

func TestMemoryRenameToExistingName(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	admin := models.Caller{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	haircut := m.SeedServiceType(models.ServiceType{Name: "Haircut", DisplayOrder: 1, IsActive: true})
	m.SeedServiceType(models.ServiceType{Name: "Shave", DisplayOrder: 2, IsActive: true})

	_, err := m.UpdateServiceType(ctx, admin, haircut.ID, map[string]interface{}{"name": "Shave"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// keeping its own name is not a clash
	st, err := m.UpdateServiceType(ctx, admin, haircut.ID, map[string]interface{}{"name": "Haircut", "display_order": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, st.DisplayOrder)
}
