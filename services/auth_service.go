package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbertrack-backend/models"
	"barbertrack-backend/repository"
	"barbertrack-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
	ShopName *string
	Phone    *string
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	Profile models.Profile
	Token   string
	Session *Session
}

// AuthService is the identity collaborator: it creates profiles, issues
// session tokens and resolves the caller behind a token.
type AuthService struct {
	store    ProfileStore
	sessions *SessionRegistry
	tokens   *utils.TokenManager
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(store ProfileStore, sessions *SessionRegistry, tokens *utils.TokenManager, log logrus.FieldLogger) *AuthService {
	return &AuthService{store: store, sessions: sessions, tokens: tokens, log: log, now: time.Now}
}

// SignUp creates a profile and signs it in. Admins must name their shop.
func (a *AuthService) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	if !in.Role.Valid() {
		return AuthResult{}, ErrInvalidRole
	}
	shopName := trimmedOrNil(in.ShopName)
	if in.Role == models.RoleAdmin && shopName == nil {
		return AuthResult{}, ErrShopNameRequired
	}
	if in.Role == models.RoleEmployee {
		shopName = nil
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	profile := models.Profile{
		Email:        utils.NormalizeEmail(in.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		ShopName:     shopName,
		Phone:        trimmedOrNil(in.Phone),
		IsActive:     true,
	}
	if err := a.store.CreateProfile(ctx, &profile); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return AuthResult{}, err
		}
		a.log.WithError(err).Error("sign-up failed")
		return AuthResult{}, err
	}
	a.log.WithFields(logrus.Fields{"profile": profile.ID, "role": profile.Role}).Info("profile created")

	return a.startSession(profile)
}

// SignIn checks credentials and opens a session. Deactivated profiles are
// refused.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	profile, err := a.store.ProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup profile: %w", err)
	}
	if !utils.CheckPasswordHash(password, profile.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !profile.IsActive {
		return AuthResult{}, ErrInactiveProfile
	}

	now := a.now()
	if err := a.store.TouchLastLogin(ctx, profile.ID, now); err != nil {
		a.log.WithError(err).WithField("profile", profile.ID).Warn("could not record last login")
	} else {
		profile.LastLogin = &now
	}

	return a.startSession(profile)
}

func (a *AuthService) startSession(profile models.Profile) (AuthResult, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := a.tokens.GenerateToken(profile.ID.String(), string(profile.Role), sessionID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}
	session := a.sessions.Open(sessionID, profile.Caller(), expiresAt)
	return AuthResult{Profile: profile, Token: token, Session: session}, nil
}

// SignOut drops the session; its token stops authenticating.
func (a *AuthService) SignOut(sessionID string) {
	if a.sessions.Close(sessionID) {
		a.log.WithField("session", sessionID).Info("signed out")
	}
}

// Authenticate resolves the session and current profile behind a token. The
// profile is re-read so a deactivated caller loses access immediately and
// profile edits show up in the session. An expired token drops its session.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*Session, models.Profile, error) {
	claims, err := a.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) && claims != nil {
			if a.sessions.Close(claims.ID) {
				a.log.WithField("session", claims.ID).Info("session expired")
			}
		}
		return nil, models.Profile{}, ErrInvalidCredentials
	}
	session, ok := a.sessions.Get(claims.ID)
	if !ok {
		return nil, models.Profile{}, ErrInvalidCredentials
	}
	caller, ok := session.Caller()
	if !ok || caller.ID.String() != claims.Subject {
		return nil, models.Profile{}, ErrInvalidCredentials
	}

	profile, err := a.store.ProfileByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.sessions.Close(claims.ID)
			return nil, models.Profile{}, ErrInvalidCredentials
		}
		return nil, models.Profile{}, err
	}
	if !profile.IsActive {
		a.sessions.Close(claims.ID)
		return nil, models.Profile{}, ErrInactiveProfile
	}
	session.Refresh(profile.Caller())
	return session, profile, nil
}

// UpdateProfile changes the caller's own display fields.
func (a *AuthService) UpdateProfile(ctx context.Context, caller models.Caller, fullName, shopName, phone *string) (models.Profile, error) {
	updates := map[string]interface{}{}
	if fullName != nil && strings.TrimSpace(*fullName) != "" {
		updates["full_name"] = strings.TrimSpace(*fullName)
	}
	if shopName != nil {
		if caller.Role != models.RoleAdmin {
			return models.Profile{}, repository.ErrForbidden
		}
		sn := trimmedOrNil(shopName)
		if sn == nil {
			return models.Profile{}, ErrShopNameRequired
		}
		updates["shop_name"] = sn
	}
	if phone != nil {
		updates["phone"] = trimmedOrNil(phone)
	}
	if len(updates) == 0 {
		return a.store.ProfileByID(ctx, caller.ID)
	}
	return a.store.UpdateProfile(ctx, caller, updates)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
