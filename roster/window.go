/*
window.go - Edit-cutoff policy for roster mutation

PURPOSE:
  Decides whether a roster for (year, month) is still editable. Each project
  configures a day-of-month deadline that falls either inside the rostered
  month or the following one. Mutation endpoints check IsOpen before
  accepting any write.

CLAMPING CONTRACT:
  These functions never fail. A cutoff day outside [1, 31] is clamped, and a
  cutoff day past the end of the target month is clamped down to the month's
  last day (cutoff 30 targeting February becomes the 28th or 29th). Callers
  validate year/month separately; see ValidMonth.

BOUNDARY:
  The deadline is end-of-day, 23:59:59.999, in the timezone of the supplied
  "now". The boundary is inclusive: exactly at the deadline instant the
  window is still open.

SEE ALSO:
  - calendar.go: DaysInMonth, NextMonth
  - api/handlers.go: maps a closed window to a distinct 403 response
*/
package roster

import "time"

// EditWindow is a project's edit-cutoff configuration.
type EditWindow struct {
	// CutoffDay is the day-of-month deadline, clamped to [1, 31].
	CutoffDay int
	// NextMonth places the deadline in the month after the rostered one.
	NextMonth bool
}

// Deadline returns the last editable instant for the roster of (year, month),
// expressed in loc.
func (w EditWindow) Deadline(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}

	day := w.CutoffDay
	if day < 1 {
		day = 1
	} else if day > 31 {
		day = 31
	}

	targetYear, targetMonth := year, month
	if w.NextMonth {
		targetYear, targetMonth = NextMonth(year, month)
	}

	if max := DaysInMonth(targetYear, targetMonth); day > max {
		day = max
	}

	return time.Date(targetYear, targetMonth, day, 23, 59, 59, 999_000_000, loc)
}

// IsOpen reports whether the roster of (year, month) may still be edited at
// the given instant. The deadline instant itself counts as open.
func (w EditWindow) IsOpen(year int, month time.Month, now time.Time) bool {
	return !now.After(w.Deadline(year, month, now.Location()))
}
