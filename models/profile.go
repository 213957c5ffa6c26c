package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Profile is a shop member. Profiles are deactivated, never deleted, so the
// transactions they performed stay attributable.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null;index" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	ShopName     *string   `json:"shop_name"`
	Phone        *string   `json:"phone,omitempty"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Initialize UUID before creating
func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Caller is the identity resolved for the current request.
func (p Profile) Caller() Caller {
	return Caller{
		ID:       p.ID,
		Role:     p.Role,
		Email:    p.Email,
		FullName: p.FullName,
		ShopName: p.ShopName,
		IsActive: p.IsActive,
	}
}
