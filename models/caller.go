package models

import "github.com/google/uuid"

// Caller is the authenticated identity performing an operation. It is passed
// explicitly into every policy and aggregation call.
type Caller struct {
	ID       uuid.UUID `json:"id"`
	Role     Role      `json:"role"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	ShopName *string   `json:"shop_name"`
	IsActive bool      `json:"is_active"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
