// ABOUTME: Tests for mark and unmark mutations
// ABOUTME: Covers idempotence, future rejection, round trips, and streaks

package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark_DefaultsToToday(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	res, err := svc.Mark(ctx, token, "")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, res.Total)

	dash, err := svc.Dashboard(ctx, token)
	require.NoError(t, err)
	assert.True(t, dash.TodayMarked)
}

func TestMark_Idempotent(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	first, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, first.Streak, second.Streak)
	assert.Equal(t, first.Total, second.Total)
}

func TestMark_FutureDateRejected(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	_, err := svc.Mark(ctx, token, "2024-01-04")
	assert.ErrorIs(t, err, ErrValidation)

	// No record may have been created.
	dash, err := svc.Dashboard(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 0, dash.Total)
}

func TestMark_InvalidDate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	_, err := svc.Mark(ctx, token, "03/01/2024")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMark_RequiresSession(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Mark(context.Background(), "bogus-token", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMark_ThreeDayScenario(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		res, err := svc.Mark(ctx, token, date)
		require.NoError(t, err)
		require.True(t, res.Applied)
	}

	res, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 3, res.Streak)
	assert.Equal(t, 3, res.Total)
}

func TestUnmark_RequiresDate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	_, err := svc.Unmark(ctx, token, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUnmark_NotFound(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	res, err := svc.Unmark(ctx, token, "2024-01-02")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 0, res.Total)
}

func TestUnmark_RemovesRecord(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	_, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)

	res, err := svc.Unmark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 0, res.Streak)
	assert.Equal(t, 0, res.Total)
}

func TestMarkUnmarkMark_RoundTrip(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	first, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	afterFirst, err := fs.LoadRecords(ctx)
	require.NoError(t, err)

	_, err = svc.Unmark(ctx, token, "2024-01-03")
	require.NoError(t, err)

	again, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)
	afterAgain, err := fs.LoadRecords(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, afterFirst, afterAgain)
}

func TestUnmark_OnlyTouchesOwnRecords(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice")
	bob := registerUser(t, svc, "bob")

	_, err := svc.Mark(ctx, alice, "2024-01-03")
	require.NoError(t, err)
	_, err = svc.Mark(ctx, bob, "2024-01-03")
	require.NoError(t, err)

	res, err := svc.Unmark(ctx, alice, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	dash, err := svc.Dashboard(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Total, "bob's record must survive alice's unmark")
}
