/*
importer.go - Bulk "replace all entries for a month" import

PURPOSE:
  Validates an import batch against structural and business rules, then
  commits it as a single atomic replace: delete every existing entry of the
  roster, bulk-insert the validated batch. A batch with one bad entry writes
  nothing.

VALIDATION ORDER (first failure wins):
  1. Required fields (staff id, positive day, shift code)
  2. Day within [1, daysInMonth]
  3. Shift code in the catalog
  4. No duplicate (staff, day) within the batch
  5. Every staff id belongs to the target project

Duplicate detection uses a structural composite key, not concatenated
strings, so ids containing any separator character cannot collide.

SEE ALSO:
  - store.go: DeleteEntries + UpsertEntry inside WithTx
  - errors.go: BatchEntryError pinpointing the offending entry
*/
package roster

import (
	"context"
	"fmt"
)

// ImportEntry is one cell of an import or batch-upsert payload.
type ImportEntry struct {
	StaffID   StaffID
	Day       int
	ShiftCode ShiftCode
	Notes     string
}

// cellKey is the structural dedup key for (staff, day).
type cellKey struct {
	StaffID StaffID
	Day     int
}

// ValidateImportBatch checks a batch against the rules above. It performs no
// I/O; callers supply the month length, catalog code set, and project staff
// membership. Returns nil when the batch is committable.
func ValidateImportBatch(entries []ImportEntry, daysInMonth int, validCodes map[ShiftCode]bool, projectStaff map[StaffID]bool) error {
	seen := make(map[cellKey]bool, len(entries))

	for i, e := range entries {
		if e.StaffID == "" {
			return &BatchEntryError{Index: i, Day: e.Day, Err: fmt.Errorf("%w: staff id", ErrMissingField)}
		}
		if e.ShiftCode == "" {
			return &BatchEntryError{Index: i, StaffID: e.StaffID, Day: e.Day, Err: fmt.Errorf("%w: shift code", ErrMissingField)}
		}
		if e.Day < 1 || e.Day > daysInMonth {
			return &BatchEntryError{Index: i, StaffID: e.StaffID, Day: e.Day,
				Err: fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, e.Day, daysInMonth)}
		}
		if !validCodes[e.ShiftCode] {
			return &BatchEntryError{Index: i, StaffID: e.StaffID, Day: e.Day,
				Err: fmt.Errorf("%w: %q", ErrUnknownShiftCode, e.ShiftCode)}
		}
		k := cellKey{StaffID: e.StaffID, Day: e.Day}
		if seen[k] {
			return &BatchEntryError{Index: i, StaffID: e.StaffID, Day: e.Day, Err: ErrDuplicateBatchEntry}
		}
		seen[k] = true
		if !projectStaff[e.StaffID] {
			return &BatchEntryError{Index: i, StaffID: e.StaffID, Day: e.Day, Err: ErrStaffOutsideProject}
		}
	}
	return nil
}

// Importer commits validated batches.
type Importer struct {
	Store TxStore
}

// ReplaceMonth validates the batch for the roster's period, then atomically
// replaces every entry of the roster with the batch. On any validation
// failure or write error zero entries change.
func (im *Importer) ReplaceMonth(ctx context.Context, rosterID RosterID, entries []ImportEntry) error {
	r, err := im.Store.GetRoster(ctx, rosterID)
	if err != nil {
		return err
	}
	if r == nil {
		return ErrRosterNotFound
	}

	if err := im.validate(ctx, r, entries); err != nil {
		return err
	}

	return im.Store.WithTx(ctx, func(s Store) error {
		if err := s.DeleteEntries(ctx, r.ID); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := s.UpsertEntry(ctx, RosterEntry{
				RosterID:  r.ID,
				StaffID:   e.StaffID,
				Day:       e.Day,
				ShiftCode: e.ShiftCode,
				Notes:     e.Notes,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertBatch validates the batch, then writes it atomically WITHOUT removing
// existing entries: a merge, unlike the import's full replace.
func (im *Importer) UpsertBatch(ctx context.Context, rosterID RosterID, entries []ImportEntry) error {
	r, err := im.Store.GetRoster(ctx, rosterID)
	if err != nil {
		return err
	}
	if r == nil {
		return ErrRosterNotFound
	}

	if err := im.validate(ctx, r, entries); err != nil {
		return err
	}

	return im.Store.WithTx(ctx, func(s Store) error {
		for _, e := range entries {
			if _, err := s.UpsertEntry(ctx, RosterEntry{
				RosterID:  r.ID,
				StaffID:   e.StaffID,
				Day:       e.Day,
				ShiftCode: e.ShiftCode,
				Notes:     e.Notes,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (im *Importer) validate(ctx context.Context, r *Roster, entries []ImportEntry) error {
	catalog, err := im.Store.ListShiftTypes(ctx)
	if err != nil {
		return err
	}
	staff, err := im.Store.ListStaff(ctx, r.ProjectID)
	if err != nil {
		return err
	}
	members := make(map[StaffID]bool, len(staff))
	for _, s := range staff {
		members[s.ID] = true
	}

	return ValidateImportBatch(entries, r.DaysInMonth(), CodeSet(catalog), members)
}
