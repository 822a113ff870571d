package roster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/roster/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func importFixture(t *testing.T) (*store.TxMemory, *roster.Importer, roster.RosterID) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewTxMemory()

	if err := mem.SaveProject(ctx, roster.Project{ID: "site-1", Name: "Site 1", EditCutoffDay: 5}); err != nil {
		t.Fatal(err)
	}
	for _, code := range []roster.ShiftCode{roster.CodeOff, "D", "N"} {
		if err := mem.SaveShiftType(ctx, roster.ShiftType{Code: code}); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range []roster.StaffID{"g1", "g2"} {
		if err := mem.SaveStaff(ctx, roster.Staff{
			ID: id, ProjectID: "site-1", Name: string(id),
			Kind: roster.KindRegular, DefaultShift: "D",
			WagePerDay: decimal.NewFromInt(500), IsActive: true,
		}); err != nil {
			t.Fatal(err)
		}
	}
	r, err := mem.FindOrCreateRoster(ctx, "site-1", 2025, time.June)
	if err != nil {
		t.Fatal(err)
	}
	return mem, &roster.Importer{Store: mem}, r.ID
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateImportBatch_FirstFailureWins(t *testing.T) {
	codes := map[roster.ShiftCode]bool{"D": true, "N": true}
	staff := map[roster.StaffID]bool{"g1": true}

	cases := []struct {
		name    string
		entries []roster.ImportEntry
		want    error
	}{
		{
			name:    "missing staff id",
			entries: []roster.ImportEntry{{Day: 1, ShiftCode: "D"}},
			want:    roster.ErrMissingField,
		},
		{
			name:    "missing shift code",
			entries: []roster.ImportEntry{{StaffID: "g1", Day: 1}},
			want:    roster.ErrMissingField,
		},
		{
			name:    "day zero",
			entries: []roster.ImportEntry{{StaffID: "g1", Day: 0, ShiftCode: "D"}},
			want:    roster.ErrDayOutOfRange,
		},
		{
			name:    "day past month end",
			entries: []roster.ImportEntry{{StaffID: "g1", Day: 31, ShiftCode: "D"}},
			want:    roster.ErrDayOutOfRange,
		},
		{
			name:    "unknown code",
			entries: []roster.ImportEntry{{StaffID: "g1", Day: 1, ShiftCode: "X"}},
			want:    roster.ErrUnknownShiftCode,
		},
		{
			name: "duplicate staff+day",
			entries: []roster.ImportEntry{
				{StaffID: "g1", Day: 1, ShiftCode: "D"},
				{StaffID: "g1", Day: 1, ShiftCode: "N"},
			},
			want: roster.ErrDuplicateBatchEntry,
		},
		{
			name:    "staff outside project",
			entries: []roster.ImportEntry{{StaffID: "stranger", Day: 1, ShiftCode: "D"}},
			want:    roster.ErrStaffOutsideProject,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := roster.ValidateImportBatch(tc.entries, 30, codes, staff)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
			var be *roster.BatchEntryError
			if !errors.As(err, &be) {
				t.Fatalf("Expected a BatchEntryError, got %T", err)
			}
		})
	}
}

func TestValidateImportBatch_ReportsOffendingIndex(t *testing.T) {
	// GIVEN: A batch whose third entry is bad
	// WHEN: Validating
	// THEN: The error pinpoints index 2

	entries := []roster.ImportEntry{
		{StaffID: "g1", Day: 1, ShiftCode: "D"},
		{StaffID: "g1", Day: 2, ShiftCode: "D"},
		{StaffID: "g1", Day: 99, ShiftCode: "D"},
	}
	err := roster.ValidateImportBatch(entries, 30,
		map[roster.ShiftCode]bool{"D": true}, map[roster.StaffID]bool{"g1": true})

	var be *roster.BatchEntryError
	if !errors.As(err, &be) {
		t.Fatalf("Expected BatchEntryError, got %v", err)
	}
	if be.Index != 2 || be.Day != 99 {
		t.Errorf("Expected index 2 / day 99, got index %d / day %d", be.Index, be.Day)
	}
}

func TestValidateImportBatch_SameDayDifferentStaffOK(t *testing.T) {
	// Two staff on the same day is not a duplicate.
	entries := []roster.ImportEntry{
		{StaffID: "g1", Day: 1, ShiftCode: "D"},
		{StaffID: "g2", Day: 1, ShiftCode: "D"},
	}
	err := roster.ValidateImportBatch(entries, 30,
		map[roster.ShiftCode]bool{"D": true},
		map[roster.StaffID]bool{"g1": true, "g2": true})
	if err != nil {
		t.Fatalf("Expected valid batch, got %v", err)
	}
}

// =============================================================================
// REPLACE-MONTH TESTS
// =============================================================================

func TestReplaceMonth_ReplacesEverything(t *testing.T) {
	// GIVEN: Existing entries for g1 and g2
	// WHEN: Importing a batch that only mentions g1
	// THEN: Only the batch remains; g2's old entry is gone

	mem, im, rosterID := importFixture(t)
	ctx := context.Background()

	for _, e := range []roster.RosterEntry{
		{RosterID: rosterID, StaffID: "g1", Day: 1, ShiftCode: "N"},
		{RosterID: rosterID, StaffID: "g2", Day: 2, ShiftCode: "N"},
	} {
		if _, err := mem.UpsertEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	err := im.ReplaceMonth(ctx, rosterID, []roster.ImportEntry{
		{StaffID: "g1", Day: 5, ShiftCode: "D"},
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := mem.ListEntries(ctx, rosterID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected exactly the imported entry, got %d entries", len(entries))
	}
	if entries[0].StaffID != "g1" || entries[0].Day != 5 {
		t.Errorf("Unexpected surviving entry: %+v", entries[0])
	}
}

func TestReplaceMonth_OneBadEntryWritesNothing(t *testing.T) {
	// GIVEN: An existing entry and a 30-entry batch with one bad row
	// WHEN: Importing
	// THEN: Validation fails and the existing entry is untouched

	mem, im, rosterID := importFixture(t)
	ctx := context.Background()

	if _, err := mem.UpsertEntry(ctx, roster.RosterEntry{
		RosterID: rosterID, StaffID: "g2", Day: 2, ShiftCode: "N",
	}); err != nil {
		t.Fatal(err)
	}

	batch := make([]roster.ImportEntry, 0, 30)
	for day := 1; day <= 29; day++ {
		batch = append(batch, roster.ImportEntry{StaffID: "g1", Day: day, ShiftCode: "D"})
	}
	batch = append(batch, roster.ImportEntry{StaffID: "g1", Day: 30, ShiftCode: "BOGUS"})

	err := im.ReplaceMonth(ctx, rosterID, batch)
	if !errors.Is(err, roster.ErrUnknownShiftCode) {
		t.Fatalf("Expected ErrUnknownShiftCode, got %v", err)
	}

	entries, listErr := mem.ListEntries(ctx, rosterID)
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(entries) != 1 || entries[0].StaffID != "g2" {
		t.Errorf("Expected the pre-existing entry untouched, got %d entries", len(entries))
	}
}

func TestReplaceMonth_UnknownRoster(t *testing.T) {
	_, im, _ := importFixture(t)
	err := im.ReplaceMonth(context.Background(), "nope", nil)
	if !errors.Is(err, roster.ErrRosterNotFound) {
		t.Fatalf("Expected ErrRosterNotFound, got %v", err)
	}
}

func TestReplaceMonth_EmptyBatchClearsMonth(t *testing.T) {
	// An empty import is a valid "clear the month".
	mem, im, rosterID := importFixture(t)
	ctx := context.Background()

	if _, err := mem.UpsertEntry(ctx, roster.RosterEntry{
		RosterID: rosterID, StaffID: "g1", Day: 1, ShiftCode: "N",
	}); err != nil {
		t.Fatal(err)
	}
	if err := im.ReplaceMonth(ctx, rosterID, nil); err != nil {
		t.Fatal(err)
	}
	entries, err := mem.ListEntries(ctx, rosterID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected cleared month, got %d entries", len(entries))
	}
}

// =============================================================================
// BATCH-UPSERT TESTS
// =============================================================================

func TestUpsertBatch_MergesWithExisting(t *testing.T) {
	// GIVEN: An existing entry for g2
	// WHEN: Batch-upserting entries for g1
	// THEN: Both are present afterwards (merge, not replace)

	mem, im, rosterID := importFixture(t)
	ctx := context.Background()

	if _, err := mem.UpsertEntry(ctx, roster.RosterEntry{
		RosterID: rosterID, StaffID: "g2", Day: 2, ShiftCode: "N",
	}); err != nil {
		t.Fatal(err)
	}

	err := im.UpsertBatch(ctx, rosterID, []roster.ImportEntry{
		{StaffID: "g1", Day: 1, ShiftCode: "D"},
		{StaffID: "g1", Day: 2, ShiftCode: roster.CodeOff},
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := mem.ListEntries(ctx, rosterID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries after merge, got %d", len(entries))
	}
}

func TestUpsertBatch_ConvergesOnRepeat(t *testing.T) {
	// GIVEN: The same (staff, day) upserted twice with different codes
	// WHEN: Listing entries
	// THEN: One row, carrying the latest code

	mem, im, rosterID := importFixture(t)
	ctx := context.Background()

	for _, code := range []roster.ShiftCode{"D", "N"} {
		if err := im.UpsertBatch(ctx, rosterID, []roster.ImportEntry{
			{StaffID: "g1", Day: 1, ShiftCode: code},
		}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := mem.ListEntries(ctx, rosterID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected upserts to converge on one row, got %d", len(entries))
	}
	if entries[0].ShiftCode != "N" {
		t.Errorf("Expected latest code N, got %q", entries[0].ShiftCode)
	}
}
