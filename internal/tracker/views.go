// ABOUTME: Read-only composite views: dashboard, leaderboard, and snapshot
// ABOUTME: Derive streak and totals from the same engine the mutations use

package tracker

import (
	"context"
	"fmt"
	"sort"

	"github.com/streakfit/streakd/internal/store"
	"github.com/streakfit/streakd/internal/streak"
)

// historyLimit caps the dashboard workout history at the most recent days.
const historyLimit = 10

// Dashboard is the per-user summary view.
type Dashboard struct {
	Name        string
	Today       string
	Streak      int
	Total       int
	LastDate    string // empty when the user has no records
	TodayMarked bool
	History     []HistoryEntry
}

// HistoryEntry is one completed day in the dashboard history.
type HistoryEntry struct {
	Date   string
	Status string
}

// Entry is one row of the leaderboard. The internal user id is resolved to
// IsCurrentUser and never exposed.
type Entry struct {
	Rank          int
	Name          string
	Streak        int
	Total         int
	IsCurrentUser bool
}

// Snapshot is a consistent copy of both collections, taken under the write
// lock so a backup never pairs users from before a mutation with records
// from after it.
type Snapshot struct {
	Users   []store.User
	Records []store.Record
}

// Dashboard builds the summary view for the session's user.
func (s *Service) Dashboard(ctx context.Context, token string) (Dashboard, error) {
	id, err := s.identify(token)
	if err != nil {
		return Dashboard{}, err
	}

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("loading records: %w", err)
	}

	today := s.today()
	todayStr := store.FormatDay(today)

	var dates []string
	todayMarked := false
	for _, r := range records {
		if r.UserID != id.UserID || !r.Done {
			continue
		}
		dates = append(dates, r.Date)
		if r.Date == todayStr {
			todayMarked = true
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	d := Dashboard{
		Name:        id.Name,
		Today:       todayStr,
		Streak:      streak.Compute(id.UserID, records, today),
		Total:       len(dates),
		TodayMarked: todayMarked,
		History:     []HistoryEntry{},
	}
	if len(dates) > 0 {
		d.LastDate = dates[0]
	}
	for i, date := range dates {
		if i == historyLimit {
			break
		}
		d.History = append(d.History, HistoryEntry{Date: date, Status: "Completed"})
	}

	return d, nil
}

// Leaderboard ranks every user with any activity by streak, then total done
// days. Full ties fall back to ascending user id so the order is
// deterministic. Ranks are dense: 1..N with no position shared or skipped.
func (s *Service) Leaderboard(ctx context.Context, token string) ([]Entry, error) {
	id, err := s.identify(token)
	if err != nil {
		return nil, err
	}

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	today := s.today()

	type scored struct {
		userID int64
		entry  Entry
	}
	var board []scored
	for _, u := range users {
		st := streak.Compute(u.ID, records, today)
		total := totalDone(records, u.ID)
		if st == 0 && total == 0 {
			continue
		}
		board = append(board, scored{
			userID: u.ID,
			entry: Entry{
				Name:          u.Name,
				Streak:        st,
				Total:         total,
				IsCurrentUser: u.ID == id.UserID,
			},
		})
	}

	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.entry.Streak != b.entry.Streak {
			return a.entry.Streak > b.entry.Streak
		}
		if a.entry.Total != b.entry.Total {
			return a.entry.Total > b.entry.Total
		}
		return a.userID < b.userID
	})

	entries := make([]Entry, len(board))
	for i, s := range board {
		s.entry.Rank = i + 1
		entries[i] = s.entry
	}
	return entries, nil
}

// Snapshot reads both collections under the write lock, giving background
// collaborators a consistent pair.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading users: %w", err)
	}
	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading records: %w", err)
	}
	return Snapshot{Users: users, Records: records}, nil
}
