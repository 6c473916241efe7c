// ABOUTME: Pure streak computation over activity records
// ABOUTME: Counts consecutive done days ending at or just before today

package streak

import (
	"sort"
	"time"

	"github.com/streakfit/streakd/internal/store"
)

// Compute returns the consecutive-day streak for a user as of today.
// It is pure and deterministic: the same records and today always yield the
// same count, and the input slice is never modified.
//
// The walk runs over the user's done records sorted by date descending. A
// record on the expected day extends the streak. Before the first match, a
// record on yesterday anchors the chain there instead, so a user who marked
// yesterday but has not yet marked today still holds their streak. Dates
// ahead of the expected day are skipped rather than counted, which keeps
// duplicate or future entries from corrupting the result. The first genuine
// gap ends the walk.
func Compute(userID int64, records []store.Record, today time.Time) int {
	days := doneDays(userID, records)
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	count := 0
	day := store.DayOf(today)
	expected := day
	yesterday := day.AddDate(0, 0, -1)

	for _, d := range days {
		switch {
		case d.Equal(expected):
			count++
			expected = d.AddDate(0, 0, -1)
		case count == 0 && d.Equal(yesterday):
			// Today not yet marked; the chain ends at yesterday.
			count = 1
			expected = d.AddDate(0, 0, -1)
		case d.After(expected):
			// Duplicate or future entry, skip.
		default:
			return count
		}
	}

	return count
}

// doneDays collects the parsed dates of a user's done records. Records whose
// date does not parse are ignored; the store validates dates on load, so this
// only guards hand-edited data.
func doneDays(userID int64, records []store.Record) []time.Time {
	var days []time.Time
	for _, r := range records {
		if r.UserID != userID || !r.Done {
			continue
		}
		day, err := store.ParseDay(r.Date)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}
