package services

import "errors"

var (
	ErrNotReady           = errors.New("caller identity not resolved yet")
	ErrBusy               = errors.New("an action on this control is still in progress")
	ErrSessionClosed      = errors.New("session closed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveProfile    = errors.New("profile is deactivated")
	ErrShopNameRequired   = errors.New("shop name is required for admin sign-up")
	ErrInvalidRole        = errors.New("role must be admin or employee")
	ErrInactiveService    = errors.New("service type is not active")
	ErrNameRequired       = errors.New("service type name is required")
)
