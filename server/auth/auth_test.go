package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	store, err := metadata.NewStore(filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store, ttl)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "grace", "grace@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password must be stored hashed")

	token, loggedIn, err := svc.Login(ctx, "grace", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "grace", "grace@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "grace", "wrong")
	require.Error(t, err)

	_, _, err = svc.Login(ctx, "nobody", "hunter22")
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.c", "pw")
	require.Error(t, err)

	_, err = svc.Register(ctx, "grace", "a@b.c", "")
	require.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	svc := newTestService(t, 10*time.Millisecond)
	ctx := context.Background()

	_, err := svc.Register(ctx, "grace", "grace@example.com", "hunter22")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "grace", "hunter22")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = svc.Authenticate(token)
	require.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "grace", "grace@example.com", "hunter22")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "grace", "hunter22")
	require.NoError(t, err)

	svc.Logout(token)
	_, err = svc.Authenticate(token)
	require.Error(t, err)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc := newTestService(t, time.Hour)
	_, err := svc.Authenticate("not-a-token")
	require.Error(t, err)
}
