// ABOUTME: Mark and unmark mutation operations against the workout ledger
// ABOUTME: Read-modify-write cycles under the service write lock, idempotent

package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/streakfit/streakd/internal/store"
	"github.com/streakfit/streakd/internal/streak"
)

// Result is the outcome of a mark or unmark. Applied=false is a soft
// failure, not an error: the message explains why and the streak and total
// still reflect the (unchanged) post-operation state.
type Result struct {
	Applied bool
	Message string
	Streak  int
	Total   int
}

// Mark records a done workout for the session's user on the given date, or
// on the current date when date is empty. Future dates are rejected. Marking
// an already-marked date is an idempotent no-op.
func (s *Service) Mark(ctx context.Context, token, date string) (Result, error) {
	id, err := s.identify(token)
	if err != nil {
		return Result{}, err
	}

	today := s.today()
	if date == "" {
		date = store.FormatDay(today)
	}
	day, err := store.ParseDay(date)
	if err != nil {
		return Result{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if day.After(today) {
		return Result{}, fmt.Errorf("%w: cannot mark a future date", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading records: %w", err)
	}

	for _, r := range records {
		if r.UserID == id.UserID && r.Date == date && r.Done {
			s.logger.Debug("duplicate mark ignored", "user_id", id.UserID, "date", date)
			return s.result(false, "Workout already marked for this date", id.UserID, records, today), nil
		}
	}

	records = append(records, store.Record{UserID: id.UserID, Date: date, Done: true})
	if err := s.store.SaveRecords(ctx, records); err != nil {
		return Result{}, fmt.Errorf("saving records: %w", err)
	}

	s.logger.Info("workout marked", "user_id", id.UserID, "date", date)
	return s.result(true, "Workout marked successfully", id.UserID, records, today), nil
}

// Unmark removes the workout record for the session's user on the given
// date. The date is required. Removing a date that was never marked is an
// idempotent no-op.
func (s *Service) Unmark(ctx context.Context, token, date string) (Result, error) {
	id, err := s.identify(token)
	if err != nil {
		return Result{}, err
	}

	if date == "" {
		return Result{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := store.ParseDay(date); err != nil {
		return Result{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading records: %w", err)
	}

	kept := records[:0:0]
	removed := false
	for _, r := range records {
		if r.UserID == id.UserID && r.Date == date {
			removed = true
			continue
		}
		kept = append(kept, r)
	}

	today := s.today()
	if !removed {
		s.logger.Debug("unmark target not found", "user_id", id.UserID, "date", date)
		return s.result(false, "No workout found for this date", id.UserID, kept, today), nil
	}

	if err := s.store.SaveRecords(ctx, kept); err != nil {
		return Result{}, fmt.Errorf("saving records: %w", err)
	}

	s.logger.Info("workout unmarked", "user_id", id.UserID, "date", date)
	return s.result(true, "Workout unmarked", id.UserID, kept, today), nil
}

// result assembles a Result with freshly recomputed statistics.
func (s *Service) result(applied bool, msg string, userID int64, records []store.Record, today time.Time) Result {
	return Result{
		Applied: applied,
		Message: msg,
		Streak:  streak.Compute(userID, records, today),
		Total:   totalDone(records, userID),
	}
}
