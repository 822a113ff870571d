/*
Package roster provides the core staff-roster engine.

PURPOSE:
  This package contains the domain types and algorithms for monthly shift
  rosters: building the fully-resolved staff × day matrix, enforcing the
  edit-cutoff window, freezing history when staff defaults change, and
  validating bulk imports.

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftCode: A shift-type token assigned to one staff member on one day
  - Project: Owns staff and one roster per (year, month)
  - Staff: Carries the per-day defaults (default shift, weekly off day)
  - Roster/RosterEntry: The only persisted roster state; absence of an
    entry means "resolve from the staff defaults"
  - ShiftType: Catalog entry classifying a code (work shift or not)

DESIGN PRINCIPLES:
  1. Two-layer resolution: computed defaults below, sparse explicit
     entries above. "No row" is never conflated with "off".
  2. Explicit time: all date-relative logic takes an injected now/Clock.
  3. Type safety: distinct ID types prevent mixing project/staff/roster IDs.

SEE ALSO:
  - matrix.go: Matrix build (defaults + overlay)
  - window.go: Edit-cutoff policy
  - propagate.go: Past-month freezing on default changes
  - store.go: Persistence interfaces
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProjectID string
type StaffID string
type RosterID string
type EntryID string

// ShiftCode is a human-entered shift-type token. Codes may be non-ASCII
// (the leave codes in the default catalog are Thai).
type ShiftCode string

// CodeOff is the built-in fallback code: it is used for weekly off days and
// for staff with no default shift configured.
const CodeOff ShiftCode = "OFF"

// =============================================================================
// PROJECT
// =============================================================================

// Project owns staff and at most one roster per (year, month).
type Project struct {
	ID   ProjectID
	Name string

	// Edit cutoff configuration, see EditWindow.
	EditCutoffDay       int  // day-of-month deadline, clamped to [1, 31]
	EditCutoffNextMonth bool // deadline falls in the month after the rostered one

	CreatedAt time.Time
}

// Window returns the project's edit-cutoff policy.
func (p *Project) Window() EditWindow {
	return EditWindow{CutoffDay: p.EditCutoffDay, NextMonth: p.EditCutoffNextMonth}
}

// =============================================================================
// STAFF
// =============================================================================

// StaffKind classifies staff for row ordering in the matrix (e.g. supervisors
// before guards). Unknown kinds sort after known ones.
type StaffKind string

const (
	KindSupervisor StaffKind = "supervisor"
	KindRegular    StaffKind = "regular"
	KindReliever   StaffKind = "reliever"
)

// kindRank orders staff kinds for matrix rows.
func kindRank(k StaffKind) int {
	switch k {
	case KindSupervisor:
		return 0
	case KindRegular:
		return 1
	case KindReliever:
		return 2
	default:
		return 3
	}
}

// Staff is one roster-able person within a project.
//
// DefaultShift and WeeklyOffDay drive the computed default for any day that
// has no explicit entry. Changing them through the dedicated apply operations
// triggers past-month freezing (see propagate.go); ordinary field edits do not.
type Staff struct {
	ID        StaffID
	ProjectID ProjectID
	Name      string
	Kind      StaffKind

	// DefaultShift is the fallback code for days without an explicit entry.
	// Empty means CodeOff.
	DefaultShift ShiftCode

	// WeeklyOffDay is the recurring day off (Sunday=0). nil means no fixed
	// weekly off. A value of time.Sunday (0) is meaningful and must never be
	// collapsed into nil.
	WeeklyOffDay *time.Weekday

	// WagePerDay feeds the attendance/salary aggregation.
	WagePerDay decimal.Decimal

	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
}

// DefaultCodeOn resolves the staff member's computed default for a calendar
// date: the weekly off day wins, then the default shift, then CodeOff.
func (s *Staff) DefaultCodeOn(date time.Time) ShiftCode {
	return defaultCode(s.DefaultShift, s.WeeklyOffDay, date)
}

// defaultCode is the shared per-day default rule. propagate.go calls it with
// the OLD values while freezing history, so it is kept separate from Staff.
func defaultCode(defaultShift ShiftCode, weeklyOff *time.Weekday, date time.Time) ShiftCode {
	if weeklyOff != nil && date.Weekday() == *weeklyOff {
		return CodeOff
	}
	if defaultShift == "" {
		return CodeOff
	}
	return defaultShift
}

// =============================================================================
// ROSTER AND ENTRIES
// =============================================================================

// Roster is the per-(project, year, month) container of explicit entries.
// It is created lazily on first access and never deleted.
type Roster struct {
	ID        RosterID
	ProjectID ProjectID
	Year      int
	Month     time.Month
	CreatedAt time.Time
}

// DaysInMonth returns the roster's calendar day count.
func (r *Roster) DaysInMonth() int {
	return DaysInMonth(r.Year, r.Month)
}

// RosterEntry is an explicit override of one staff member's code on one day.
// (RosterID, StaffID, Day) is unique; writes are upserts.
type RosterEntry struct {
	ID        EntryID
	RosterID  RosterID
	StaffID   StaffID
	Day       int // 1..DaysInMonth
	ShiftCode ShiftCode
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// SHIFT TYPE CATALOG
// =============================================================================

// ShiftType is one catalog entry. Codes referenced by entries or staff
// defaults must exist in the catalog at write time.
type ShiftType struct {
	Code        ShiftCode
	Name        string
	IsWorkShift bool
	// IsSystemDefault protects built-in codes (e.g. OFF) from deletion.
	IsSystemDefault bool
	CreatedAt       time.Time
}

// CodeSet builds a membership set from a catalog slice.
func CodeSet(catalog []ShiftType) map[ShiftCode]bool {
	set := make(map[ShiftCode]bool, len(catalog))
	for _, st := range catalog {
		set[st.Code] = true
	}
	return set
}
