// ABOUTME: Store interface and data types for streakd persistence
// ABOUTME: Defines User, Record structs and the Store interface for ledger operations

package store

import (
	"context"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used everywhere in the ledger.
const DateLayout = "2006-01-02"

// User represents a registered account.
// IDs are assigned sequentially at registration and never reused.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PIN       string    `json:"pin"`
	CreatedAt time.Time `json:"created_at"`
}

// Record represents a single day's activity for a user.
// Date is a calendar day in YYYY-MM-DD form with no time component.
// At most one record exists per (UserID, Date) pair.
type Record struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
	Done   bool   `json:"done"`
}

// Store defines the interface for user and activity record persistence.
// Loads tolerate missing or corrupt backing data by returning empty
// collections; saves replace the full collection.
type Store interface {
	LoadUsers(ctx context.Context) ([]User, error)
	LoadRecords(ctx context.Context) ([]Record, error)
	SaveUsers(ctx context.Context, users []User) error
	SaveRecords(ctx context.Context, records []Record) error

	// Close releases any resources held by the store
	Close() error
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// DayOf truncates a timestamp to its calendar day at UTC midnight.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a timestamp as a YYYY-MM-DD string.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
