package roster

import "time"

// =============================================================================
// CALENDAR HELPERS - Month arithmetic used across the engine
// =============================================================================

// DaysInMonth returns the day count of (year, month), leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf returns midnight UTC for a day within (year, month). Used for
// weekday lookups, which only depend on the calendar date.
func DateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekdayOf returns the actual calendar weekday of (year, month, day).
// Weekly-off alignment shifts across months, so this must never be
// approximated from the weekday of day 1.
func WeekdayOf(year int, month time.Month, day int) time.Weekday {
	return DateOf(year, month, day).Weekday()
}

// NextMonth rolls (year, month) forward one calendar month,
// December -> January of the following year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// MonthBefore reports whether (aYear, aMonth) is strictly earlier than
// (bYear, bMonth). Propagation uses it to select past rosters.
func MonthBefore(aYear int, aMonth time.Month, bYear int, bMonth time.Month) bool {
	if aYear != bYear {
		return aYear < bYear
	}
	return aMonth < bMonth
}

// ValidMonth reports whether month is a real calendar month. Callers validate
// year/month before invoking the clamping-only EditWindow functions.
func ValidMonth(month time.Month) bool {
	return month >= time.January && month <= time.December
}
