// ABOUTME: Tests for registration, login, and logout
// ABOUTME: Covers pin validation, name conflicts, id assignment, and sessions

package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	svc, _ := setupService(t)

	auth, err := svc.Register(context.Background(), "alice", "1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", auth.Name)
	assert.NotEmpty(t, auth.Token)
}

func TestRegister_SequentialIDs(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	registerUser(t, svc, "alice")
	registerUser(t, svc, "bob")

	users, err := fs.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)
}

func TestRegister_DuplicateName(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	registerUser(t, svc, "alice")

	_, err := svc.Register(ctx, "alice", "9999")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_NameIsCaseSensitive(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	registerUser(t, svc, "alice")

	_, err := svc.Register(ctx, "Alice", "1234")
	assert.NoError(t, err, "names differing only by case are distinct users")
}

func TestRegister_InvalidPIN(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, pin := range []string{"", "123", "12345", "12a4", "  12", "١٢٣٤"} {
		_, err := svc.Register(ctx, "alice", pin)
		assert.ErrorIs(t, err, ErrValidation, "pin %q must be rejected", pin)
	}
}

func TestRegister_EmptyName(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Register(context.Background(), "", "1234")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	registerUser(t, svc, "alice")

	auth, err := svc.Login(ctx, "alice", "1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", auth.Name)
	assert.NotEmpty(t, auth.Token)
}

func TestLogin_WrongPIN(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	registerUser(t, svc, "alice")

	_, err := svc.Login(ctx, "alice", "0000")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownName(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Login(context.Background(), "nobody", "1234")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")
	svc.Logout(token)

	_, err := svc.Dashboard(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_UnknownToken_NoOp(t *testing.T) {
	svc, _ := setupService(t)

	svc.Logout("no-such-token")
}
