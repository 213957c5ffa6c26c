package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction records one service performed by one employee. Rows are hard
// deleted by admins only.
type Transaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index;not null" json:"employee_id"`
	ServiceTypeID uuid.UUID `gorm:"type:uuid;index;not null" json:"service_type_id"`
	PerformedAt   time.Time `gorm:"not null;index" json:"performed_at"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	ServiceType *ServiceType `gorm:"foreignKey:ServiceTypeID" json:"service_type,omitempty"`
	Employee    *Profile     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.PerformedAt.IsZero() {
		t.PerformedAt = time.Now()
	}
	return
}
