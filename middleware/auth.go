package middleware

import (
	"context"
	"errors"
	"net/http"

	"barbertrack-backend/models"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	profileKey = "profile"
)

// Authenticator resolves the session behind a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Session, models.Profile, error)
}

// AuthMiddleware requires a valid token bound to a live session and stores
// the session and the caller's current profile on the context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		session, profile, err := auth.Authenticate(c.Request.Context(), utils.BearerToken(tokenString))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInactiveProfile):
				utils.RespondWithError(c, http.StatusUnauthorized, "Profile is deactivated")
			case errors.Is(err, services.ErrInvalidCredentials):
				utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			default:
				utils.RespondWithError(c, http.StatusInternalServerError, "Could not resolve session")
			}
			return
		}

		c.Set(sessionKey, session)
		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := map[models.Role]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		profile, ok := CurrentProfile(c)
		if !ok {
			utils.RespondWithError(c, http.StatusUnauthorized, "Not signed in")
			return
		}
		if _, ok := allowed[profile.Role]; !ok {
			utils.RespondWithError(c, http.StatusForbidden, "Not allowed for your role")
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (*services.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*services.Session)
	return s, ok
}

func CurrentProfile(c *gin.Context) (models.Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return models.Profile{}, false
	}
	p, ok := v.(models.Profile)
	return p, ok
}

// CurrentCaller is the caller the session was opened for.
func CurrentCaller(c *gin.Context) (models.Caller, bool) {
	s, ok := CurrentSession(c)
	if !ok {
		return models.Caller{}, false
	}
	return s.Caller()
}
