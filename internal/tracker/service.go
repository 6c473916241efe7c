// ABOUTME: Tracker service coordinating store, sessions, and streak engine
// ABOUTME: Serializes every load-mutate-save cycle behind a single write lock

package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/streakfit/streakd/internal/session"
	"github.com/streakfit/streakd/internal/store"
)

// Service implements the workout ledger operations: registration, login,
// mark/unmark, dashboard, and leaderboard. It owns the single write lock that
// serializes mutation cycles against the store; without it two concurrent
// full-collection rewrites would silently drop one writer's update.
type Service struct {
	store    store.Store
	sessions *session.Registry
	logger   *slog.Logger
	now      func() time.Time

	// mu serializes every load-mutate-save cycle across both collections.
	mu sync.Mutex
}

// New creates a tracker service using the wall clock.
func New(st store.Store, sessions *session.Registry) *Service {
	return NewWithClock(st, sessions, time.Now)
}

// NewWithClock creates a tracker service with an injected clock, so tests can
// pin "today" to a fixed date.
func NewWithClock(st store.Store, sessions *session.Registry, now func() time.Time) *Service {
	return &Service{
		store:    st,
		sessions: sessions,
		logger:   slog.Default().With("component", "tracker"),
		now:      now,
	}
}

// today returns the current calendar day at UTC midnight.
func (s *Service) today() time.Time {
	return store.DayOf(s.now())
}

// identify resolves a session token to its identity.
func (s *Service) identify(token string) (session.Identity, error) {
	id, ok := s.sessions.Lookup(token)
	if !ok {
		return session.Identity{}, ErrUnauthorized
	}
	return id, nil
}

// totalDone counts a user's done records.
func totalDone(records []store.Record, userID int64) int {
	n := 0
	for _, r := range records {
		if r.UserID == userID && r.Done {
			n++
		}
	}
	return n
}
