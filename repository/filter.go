package repository

import (
	"time"

	"barbertrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows a transaction read at the query level. A nil
// EmployeeID means every employee.
type TransactionFilter struct {
	EmployeeID *uuid.UUID
	Since      *time.Time
}

// Scope applies the filter as SQL conditions so rows outside it never leave
// the database.
func (f TransactionFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.EmployeeID != nil {
		db = db.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.Since != nil {
		db = db.Where("performed_at >= ?", *f.Since)
	}
	return db
}

// Match is the in-memory form of Scope.
func (f TransactionFilter) Match(t models.Transaction) bool {
	if f.EmployeeID != nil && *f.EmployeeID != t.EmployeeID {
		return false
	}
	if f.Since != nil && t.PerformedAt.Before(*f.Since) {
		return false
	}
	return true
}
