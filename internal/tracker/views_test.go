// ABOUTME: Tests for dashboard, leaderboard, and snapshot views
// ABOUTME: Covers history limits, dense ranking, tiebreaks, and consistency

package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streakfit/streakd/internal/store"
)

func TestDashboard_EmptyUser(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	dash, err := svc.Dashboard(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", dash.Name)
	assert.Equal(t, "2024-01-03", dash.Today)
	assert.Equal(t, 0, dash.Streak)
	assert.Equal(t, 0, dash.Total)
	assert.Empty(t, dash.LastDate)
	assert.False(t, dash.TodayMarked)
	assert.Empty(t, dash.History)
}

func TestDashboard_WithActivity(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, err := svc.Mark(ctx, token, date)
		require.NoError(t, err)
	}

	dash, err := svc.Dashboard(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.Streak)
	assert.Equal(t, 3, dash.Total)
	assert.Equal(t, "2024-01-03", dash.LastDate)
	assert.True(t, dash.TodayMarked)

	require.Len(t, dash.History, 3)
	assert.Equal(t, "2024-01-03", dash.History[0].Date)
	assert.Equal(t, "Completed", dash.History[0].Status)
	assert.Equal(t, "2024-01-01", dash.History[2].Date)
}

func TestDashboard_HistoryCappedAtTen(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")

	var records []store.Record
	for i := 1; i <= 14; i++ {
		records = append(records, store.Record{UserID: 1, Date: fmt.Sprintf("2023-12-%02d", i), Done: true})
	}
	require.NoError(t, fs.SaveRecords(ctx, records))

	dash, err := svc.Dashboard(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 14, dash.Total)
	require.Len(t, dash.History, 10)
	assert.Equal(t, "2023-12-14", dash.History[0].Date)
	assert.Equal(t, "2023-12-05", dash.History[9].Date)
}

func TestLeaderboard_DenseRankingAndExclusion(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	tokenA := registerUser(t, svc, "a")
	registerUser(t, svc, "b")
	registerUser(t, svc, "c")

	// a: streak 5, total 5. b: streak 5, total 3 after... a 5-day chain beats
	// that, so give b a 3-day chain plus nothing else: streak 3, total 3.
	// c: no activity at all, excluded.
	var records []store.Record
	for _, date := range []string{"2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"} {
		records = append(records, store.Record{UserID: 1, Date: date, Done: true})
	}
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		records = append(records, store.Record{UserID: 2, Date: date, Done: true})
	}
	require.NoError(t, fs.SaveRecords(ctx, records))

	entries, err := svc.Leaderboard(ctx, tokenA)
	require.NoError(t, err)
	require.Len(t, entries, 2, "user with no activity is excluded")

	assert.Equal(t, Entry{Rank: 1, Name: "a", Streak: 5, Total: 5, IsCurrentUser: true}, entries[0])
	assert.Equal(t, Entry{Rank: 2, Name: "b", Streak: 3, Total: 3, IsCurrentUser: false}, entries[1])
}

func TestLeaderboard_TotalBreaksStreakTie(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "a")
	registerUser(t, svc, "b")

	// Both hold a 2-day streak; b has an extra older day.
	records := []store.Record{
		{UserID: 1, Date: "2024-01-02", Done: true},
		{UserID: 1, Date: "2024-01-03", Done: true},
		{UserID: 2, Date: "2024-01-02", Done: true},
		{UserID: 2, Date: "2024-01-03", Done: true},
		{UserID: 2, Date: "2023-12-25", Done: true},
	}
	require.NoError(t, fs.SaveRecords(ctx, records))

	entries, err := svc.Leaderboard(ctx, token)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "a", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboard_FullTieFallsBackToUserID(t *testing.T) {
	svc, fs := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "zoe")
	registerUser(t, svc, "amy")

	records := []store.Record{
		{UserID: 1, Date: "2024-01-03", Done: true},
		{UserID: 2, Date: "2024-01-03", Done: true},
	}
	require.NoError(t, fs.SaveRecords(ctx, records))

	entries, err := svc.Leaderboard(ctx, token)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Identical streak and total: the earlier-registered user ranks first.
	assert.Equal(t, "zoe", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "amy", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboard_RequiresSession(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Leaderboard(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSnapshot_ConsistentPair(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	token := registerUser(t, svc, "alice")
	_, err := svc.Mark(ctx, token, "2024-01-03")
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, snap.Users[0].ID, snap.Records[0].UserID)
}
