/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error kinds in one place for consistency and discoverability. The HTTP
  layer classifies errors through the helpers at the bottom rather than
  switching on concrete types.

ERROR CATEGORIES:
  1. Not-found errors   - Referenced project/staff/roster/entry missing
  2. Validation errors  - Malformed input, detected before any write
  3. Conflict errors    - Duplicate batch cells, staff outside project
  4. Access errors      - Edit window closed

A closed edit window is deliberately NOT a validation error: callers render
"deadline passed" differently from "bad input".

SEE ALSO:
  - importer.go: Returns BatchEntryError for per-entry failures
  - window.go: Source of WindowClosedError deadlines
*/
package roster

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrRosterNotFound  = errors.New("roster not found")
	ErrEntryNotFound   = errors.New("roster entry not found")

	// ErrEditWindowClosed is returned when a mutation arrives after the
	// project's edit cutoff for the targeted month.
	ErrEditWindowClosed = errors.New("edit window closed")

	// ErrUnknownShiftCode is returned when a code is not in the catalog.
	ErrUnknownShiftCode = errors.New("unknown shift code")

	// ErrDayOutOfRange is returned when a day falls outside [1, daysInMonth].
	ErrDayOutOfRange = errors.New("day out of range")

	// ErrMissingField is returned when a required entry field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrDuplicateBatchEntry is returned when a batch contains two cells for
	// the same (staff, day).
	ErrDuplicateBatchEntry = errors.New("duplicate staff/day in batch")

	// ErrStaffOutsideProject is returned when a batch references staff that
	// do not belong to the target project.
	ErrStaffOutsideProject = errors.New("staff does not belong to project")

	// ErrShiftTypeProtected is returned when deleting a system-default
	// shift type.
	ErrShiftTypeProtected = errors.New("shift type is system-protected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WindowClosedError carries the deadline that has passed.
type WindowClosedError struct {
	Year     int
	Month    time.Month
	Deadline time.Time
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("edit window for %04d-%02d closed at %s",
		e.Year, e.Month, e.Deadline.Format(time.RFC3339))
}

func (e *WindowClosedError) Unwrap() error { return ErrEditWindowClosed }

// BatchEntryError pinpoints the offending entry of a batch or import.
type BatchEntryError struct {
	Index   int // position within the submitted batch
	StaffID StaffID
	Day     int
	Err     error
}

func (e *BatchEntryError) Error() string {
	return fmt.Sprintf("entry %d (staff %s, day %d): %v", e.Index, e.StaffID, e.Day, e.Err)
}

func (e *BatchEntryError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrRosterNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsWindowClosed reports whether err is the edit-cutoff rejection.
func IsWindowClosed(err error) bool {
	return errors.Is(err, ErrEditWindowClosed)
}

// IsConflict reports whether err is a batch-level conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateBatchEntry) ||
		errors.Is(err, ErrStaffOutsideProject)
}

// IsClientError reports whether err is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownShiftCode) ||
		errors.Is(err, ErrDayOutOfRange) ||
		errors.Is(err, ErrMissingField) ||
		IsConflict(err)
}
