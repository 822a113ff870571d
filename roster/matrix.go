/*
matrix.go - Roster matrix build (defaults + explicit-entry overlay)

PURPOSE:
  Produces the fully-resolved staff × day grid for one (year, month):
  every active staff member gets exactly one shift code for every day of the
  month. The grid is computed in two layers:

    base layer:     per-day defaults from the staff record
                    (weekly off day -> OFF, else default shift, else OFF)
    override layer: persisted RosterEntry rows, which always win

COMPLETENESS INVARIANT:
  BuildMatrix never returns a row with a missing or duplicated day. Entries
  referencing staff outside the active list are ignored; entries with an
  out-of-range day are ignored rather than panicking (they cannot be written
  through the validated paths, but old data must not break reads).

ROW ORDER:
  Display order ascending, then staff kind (supervisors first), then creation
  time. UI tables rely on this being stable across reads.

SEE ALSO:
  - types.go: defaultCode, the shared per-day default rule
  - propagate.go: Reuses defaultCode to freeze history with OLD defaults
*/
package roster

import (
	"sort"
	"time"
)

// =============================================================================
// MATRIX TYPES
// =============================================================================

// Cell is one resolved day for one staff member.
type Cell struct {
	Day       int
	ShiftCode ShiftCode
	Notes     string
	// EntryID is set only when the cell comes from an explicit entry.
	EntryID EntryID
	// IsOverride distinguishes an explicit entry from a computed default,
	// even when both carry the same code.
	IsOverride bool
}

// StaffRow is one staff member's full month. Cells[day-1] is day.
type StaffRow struct {
	Staff Staff
	Cells []Cell
}

// Cell returns the resolved cell for a 1-based day.
func (r *StaffRow) Cell(day int) Cell { return r.Cells[day-1] }

// Codes returns just the shift codes, in day order. The attendance
// aggregator consumes this shape.
func (r *StaffRow) Codes() []ShiftCode {
	codes := make([]ShiftCode, len(r.Cells))
	for i, c := range r.Cells {
		codes[i] = c.ShiftCode
	}
	return codes
}

// Matrix is the resolved grid for one roster period.
type Matrix struct {
	Year  int
	Month time.Month
	Days  int
	Rows  []StaffRow

	rowIndex map[StaffID]int
}

// Row returns the row for a staff member, or nil if the staff member is not
// part of the matrix (inactive or foreign).
func (m *Matrix) Row(staffID StaffID) *StaffRow {
	i, ok := m.rowIndex[staffID]
	if !ok {
		return nil
	}
	return &m.Rows[i]
}

// =============================================================================
// BUILD
// =============================================================================

// BuildMatrix resolves the grid for (year, month) from the project's active
// staff and the persisted entries of the period's roster.
func BuildMatrix(activeStaff []Staff, entries []RosterEntry, year int, month time.Month) *Matrix {
	days := DaysInMonth(year, month)

	m := &Matrix{
		Year:     year,
		Month:    month,
		Days:     days,
		Rows:     make([]StaffRow, 0, len(activeStaff)),
		rowIndex: make(map[StaffID]int, len(activeStaff)),
	}

	// Base layer: one default cell per staff per day.
	for _, s := range activeStaff {
		row := StaffRow{Staff: s, Cells: make([]Cell, days)}
		for day := 1; day <= days; day++ {
			row.Cells[day-1] = Cell{
				Day:       day,
				ShiftCode: s.DefaultCodeOn(DateOf(year, month, day)),
			}
		}
		m.Rows = append(m.Rows, row)
	}

	sortRows(m.Rows)
	for i := range m.Rows {
		m.rowIndex[m.Rows[i].Staff.ID] = i
	}

	// Override layer: explicit entries win. Entries for staff outside the
	// active set are historical leftovers and are skipped silently.
	for _, e := range entries {
		i, ok := m.rowIndex[e.StaffID]
		if !ok {
			continue
		}
		if e.Day < 1 || e.Day > days {
			continue
		}
		m.Rows[i].Cells[e.Day-1] = Cell{
			Day:        e.Day,
			ShiftCode:  e.ShiftCode,
			Notes:      e.Notes,
			EntryID:    e.ID,
			IsOverride: true,
		}
	}

	return m
}

func sortRows(rows []StaffRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Staff, rows[j].Staff
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if ra, rb := kindRank(a.Kind), kindRank(b.Kind); ra != rb {
			return ra < rb
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
