package services

import (
	"context"
	"testing"
	"time"

	"barbertrack-backend/models"
	"barbertrack-backend/repository"
	"barbertrack-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*AuthService, *SessionRegistry, *fixture) {
	t.Helper()
	f := newFixture(t)
	sessions := NewSessionRegistry(f.dashboard())
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(f.store, sessions, tokens, quietLogger()), sessions, f
}

func TestSignUpAdminRequiresShopName(t *testing.T) {
	auth, _, _ := newAuth(t)

	_, err := auth.SignUp(context.Background(), SignUpInput{
		Email: "new@shop.test", Password: "password1", FullName: "New Admin", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrShopNameRequired)

	blank := "   "
	_, err = auth.SignUp(context.Background(), SignUpInput{
		Email: "new@shop.test", Password: "password1", FullName: "New Admin", Role: models.RoleAdmin, ShopName: &blank,
	})
	assert.ErrorIs(t, err, ErrShopNameRequired)
}

func TestSignUpEmployeeIgnoresShopName(t *testing.T) {
	auth, sessions, _ := newAuth(t)
	shop := "Somewhere"

	result, err := auth.SignUp(context.Background(), SignUpInput{
		Email: " Carl@Shop.test ", Password: "password1", FullName: "Carl", Role: models.RoleEmployee, ShopName: &shop,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Profile.ShopName)
	assert.Equal(t, "carl@shop.test", result.Profile.Email)
	assert.True(t, result.Profile.IsActive)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 1, sessions.Len())
}

func TestSignUpRejectsBadRoleAndDuplicates(t *testing.T) {
	auth, _, f := newAuth(t)

	_, err := auth.SignUp(context.Background(), SignUpInput{
		Email: "x@shop.test", Password: "password1", FullName: "X", Role: models.Role("owner"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = auth.SignUp(context.Background(), SignUpInput{
		Email: f.ann.Email, Password: "password1", FullName: "Ann Again", Role: models.RoleEmployee,
	})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestSignInAuthenticateSignOut(t *testing.T) {
	auth, sessions, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.SignUp(ctx, SignUpInput{
		Email: "dee@shop.test", Password: "password1", FullName: "Dee", Role: models.RoleEmployee,
	})
	require.NoError(t, err)

	_, err = auth.SignIn(ctx, "dee@shop.test", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.SignIn(ctx, "nobody@shop.test", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := auth.SignIn(ctx, "DEE@shop.test", "password1")
	require.NoError(t, err)
	require.NotNil(t, result.Profile.LastLogin)

	session, profile, err := auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID(), session.ID())
	assert.Equal(t, "Dee", profile.FullName)

	auth.SignOut(session.ID())
	_, _, err = auth.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	auth, _, _ := newAuth(t)
	_, _, err := auth.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeactivatedEmployeeLosesAccess(t *testing.T) {
	auth, sessions, f := newAuth(t)
	ctx := context.Background()
	result, err := auth.SignUp(ctx, SignUpInput{
		Email: "eve@shop.test", Password: "password1", FullName: "Eve", Role: models.RoleEmployee,
	})
	require.NoError(t, err)

	require.NoError(t, f.store.DeactivateEmployee(ctx, f.admin.Caller(), result.Profile.ID))

	_, _, err = auth.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrInactiveProfile)
	assert.Equal(t, 0, sessions.Len())

	_, err = auth.SignIn(ctx, "eve@shop.test", "password1")
	assert.ErrorIs(t, err, ErrInactiveProfile)
}

func TestUpdateProfile(t *testing.T) {
	auth, _, f := newAuth(t)
	ctx := context.Background()

	name := " Annie "
	updated, err := auth.UpdateProfile(ctx, f.ann.Caller(), &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.FullName)

	shop := "Ann's Place"
	_, err = auth.UpdateProfile(ctx, f.ann.Caller(), nil, &shop, nil)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	updated, err = auth.UpdateProfile(ctx, f.admin.Caller(), nil, &shop, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.ShopName)
	assert.Equal(t, shop, *updated.ShopName)

	empty := ""
	_, err = auth.UpdateProfile(ctx, f.admin.Caller(), nil, &empty, nil)
	assert.ErrorIs(t, err, ErrShopNameRequired)
}

func TestExpiredTokenDropsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := fixedNow
	sessions := NewSessionRegistry(f.dashboard())
	tokens := utils.NewTokenManager("test-secret", time.Hour).WithClock(func() time.Time { return now })
	auth := NewAuthService(f.store, sessions, tokens, quietLogger())

	_, err := auth.SignUp(ctx, SignUpInput{
		Email: "fay@shop.test", Password: "password1", FullName: "Fay", Role: models.RoleEmployee,
	})
	require.NoError(t, err)
	var results []AuthResult
	for i := 0; i < 3; i++ {
		r, err := auth.SignIn(ctx, "fay@shop.test", "password1")
		require.NoError(t, err)
		results = append(results, r)
	}
	require.Equal(t, 4, sessions.Len())

	now = now.Add(2 * time.Hour)
	for _, r := range results {
		_, _, err := auth.Authenticate(ctx, r.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	// only the sign-up session is left, and the sweep takes it
	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, 1, sessions.Sweep(now))
	assert.Equal(t, 0, sessions.Len())
}

func TestSweepKeepsLiveSessions(t *testing.T) {
	f := newFixture(t)
	reg := NewSessionRegistry(f.dashboard())
	reg.Open("old", f.ann.Caller(), fixedNow.Add(-time.Minute))
	live := reg.Open("live", f.bob.Caller(), fixedNow.Add(time.Hour))
	reg.Open("forever", f.admin.Caller(), time.Time{})

	assert.Equal(t, 1, reg.Sweep(fixedNow))
	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Get("old")
	assert.False(t, ok)
	got, ok := reg.Get("live")
	require.True(t, ok)
	assert.Same(t, live, got)
}

func TestProfileEditsReachTheSession(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	shop := "Old Name"
	result, err := auth.SignUp(ctx, SignUpInput{
		Email: "gus@shop.test", Password: "password1", FullName: "Gus", Role: models.RoleAdmin, ShopName: &shop,
	})
	require.NoError(t, err)
	_, err = result.Session.Load(ctx)
	require.NoError(t, err)

	renamed := "New Name"
	_, err = auth.UpdateProfile(ctx, result.Profile.Caller(), nil, &renamed, nil)
	require.NoError(t, err)

	session, _, err := auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	caller, ok := session.Caller()
	require.True(t, ok)
	require.NotNil(t, caller.ShopName)
	assert.Equal(t, "New Name", *caller.ShopName)
	require.NotNil(t, session.State().Caller.ShopName)
	assert.Equal(t, "New Name", *session.State().Caller.ShopName)

	state, err := session.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New Name", *state.Caller.ShopName)
}
