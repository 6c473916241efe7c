// ABOUTME: Shared test helpers for tracker service tests
// ABOUTME: Builds a service over a temp-dir file store with a pinned clock

package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streakfit/streakd/internal/session"
	"github.com/streakfit/streakd/internal/store"
)

// testToday is the pinned "now" for all service tests.
var testToday = time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*Service, *store.FileStore) {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	svc := NewWithClock(fs, session.NewRegistry(), func() time.Time { return testToday })
	return svc, fs
}

// registerUser registers a user and returns its session token.
func registerUser(t *testing.T, svc *Service, name string) string {
	t.Helper()

	auth, err := svc.Register(context.Background(), name, "1234")
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestTotalDone(t *testing.T) {
	records := []store.Record{
		{UserID: 1, Date: "2024-01-01", Done: true},
		{UserID: 1, Date: "2024-01-02", Done: false},
		{UserID: 2, Date: "2024-01-01", Done: true},
	}
	require.Equal(t, 1, totalDone(records, 1))
	require.Equal(t, 1, totalDone(records, 2))
	require.Equal(t, 0, totalDone(records, 3))
}
