/*
propagate.go - Past-month freezing when staff defaults change

PURPOSE:
  A day without an explicit entry resolves from the staff member's CURRENT
  defaults. If those defaults change, every past month would silently change
  its appearance. The Propagator prevents that: before a default is updated,
  it materializes explicit entries for every default-only day of every past
  roster, using the OLD rule, so history stays exactly as it looked.

SCOPE:
  Only rosters strictly before the clock's current (year, month) are frozen.
  The current and future months keep resolving from the new default live.

TRIGGERS:
  Only the dedicated apply operations (ApplyDefaultShift, ApplyWeeklyOffDay)
  freeze. Ordinary staff edits write through the store directly and do not.

ATOMICITY:
  The whole scan -> materialize -> update-defaults sequence runs inside one
  WithTx. A failure anywhere leaves both the rosters and the staff record
  untouched; there is no half-frozen history.

SEE ALSO:
  - types.go: defaultCode, the per-day rule applied with the OLD values
  - store.go: TxStore
*/
package roster

import (
	"context"
	"fmt"
	"time"
)

// Propagator applies staff default changes with past-month freezing.
type Propagator struct {
	Store TxStore
	Clock Clock
}

// NewPropagator wires a propagator with the system clock.
func NewPropagator(store TxStore) *Propagator {
	return &Propagator{Store: store, Clock: SystemClock{}}
}

// ApplyDefaultShift changes a staff member's default shift, freezing all past
// months first. Equal old/new values are a no-op with no store scan.
func (p *Propagator) ApplyDefaultShift(ctx context.Context, staffID StaffID, newShift ShiftCode) error {
	staff, err := p.Store.GetStaff(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}
	if staff.DefaultShift == newShift {
		return nil
	}

	if err := p.validateCode(ctx, newShift); err != nil {
		return err
	}

	return p.freezeAndUpdate(ctx, staff, newShift, staff.WeeklyOffDay)
}

// ApplyWeeklyOffDay changes a staff member's weekly off day, freezing all
// past months first. nil clears the weekly off; Sunday (0) is a real value.
func (p *Propagator) ApplyWeeklyOffDay(ctx context.Context, staffID StaffID, newOff *time.Weekday) error {
	staff, err := p.Store.GetStaff(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}
	if weekdayEqual(staff.WeeklyOffDay, newOff) {
		return nil
	}
	if newOff != nil && (*newOff < time.Sunday || *newOff > time.Saturday) {
		return fmt.Errorf("%w: weekly off day %d", ErrDayOutOfRange, int(*newOff))
	}

	return p.freezeAndUpdate(ctx, staff, staff.DefaultShift, newOff)
}

// freezeAndUpdate materializes the OLD rule into every past roster, then
// writes the new defaults. staff still carries the old values here.
func (p *Propagator) freezeAndUpdate(ctx context.Context, staff *Staff, newShift ShiftCode, newOff *time.Weekday) error {
	now := p.Clock.Now()

	return p.Store.WithTx(ctx, func(s Store) error {
		past, err := s.ListRostersBefore(ctx, staff.ProjectID, now.Year(), now.Month())
		if err != nil {
			return err
		}

		for i := range past {
			if err := freezeRoster(ctx, s, &past[i], staff); err != nil {
				return err
			}
		}

		return s.UpdateStaffDefaults(ctx, staff.ID, newShift, newOff)
	})
}

// freezeRoster writes an explicit entry for every day of one past roster
// that has none, using the staff member's current (soon to be old) rule.
// Existing entries record a real historical decision and are left untouched.
func freezeRoster(ctx context.Context, s Store, r *Roster, staff *Staff) error {
	existing, err := s.ListEntriesForStaff(ctx, r.ID, staff.ID)
	if err != nil {
		return err
	}

	covered := make(map[int]bool, len(existing))
	for _, e := range existing {
		covered[e.Day] = true
	}

	days := r.DaysInMonth()
	for day := 1; day <= days; day++ {
		if covered[day] {
			continue
		}
		_, err := s.UpsertEntry(ctx, RosterEntry{
			RosterID:  r.ID,
			StaffID:   staff.ID,
			Day:       day,
			ShiftCode: defaultCode(staff.DefaultShift, staff.WeeklyOffDay, DateOf(r.Year, r.Month, day)),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Propagator) validateCode(ctx context.Context, code ShiftCode) error {
	if code == "" {
		return fmt.Errorf("%w: default shift", ErrMissingField)
	}
	catalog, err := p.Store.ListShiftTypes(ctx)
	if err != nil {
		return err
	}
	if !CodeSet(catalog)[code] {
		return fmt.Errorf("%w: %q", ErrUnknownShiftCode, code)
	}
	return nil
}

func weekdayEqual(a, b *time.Weekday) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
