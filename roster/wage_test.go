package roster_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/roster/store"
)

func TestApplyPositionWage_UpdatesOnlyMatchingWages(t *testing.T) {
	// GIVEN: Two staff on the 500 position default, one on a manual 520
	// WHEN: Raising the position default 500 -> 550
	// THEN: Only the two matching staff change; the count says 2

	mem := store.NewTxMemory()
	ctx := context.Background()

	for _, s := range []roster.Staff{
		{ID: "a", ProjectID: "p1", Name: "A", WagePerDay: decimal.NewFromInt(500), IsActive: true},
		{ID: "b", ProjectID: "p1", Name: "B", WagePerDay: decimal.NewFromInt(500), IsActive: true},
		{ID: "c", ProjectID: "p1", Name: "C", WagePerDay: decimal.NewFromInt(520), IsActive: true},
		{ID: "d", ProjectID: "p2", Name: "D", WagePerDay: decimal.NewFromInt(500), IsActive: true},
	} {
		if err := mem.SaveStaff(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	updated, err := roster.ApplyPositionWage(ctx, mem, "p1",
		decimal.NewFromInt(500), decimal.NewFromInt(550))
	if err != nil {
		t.Fatal(err)
	}
	if updated != 2 {
		t.Fatalf("Expected 2 staff updated, got %d", updated)
	}

	want := map[roster.StaffID]int64{"a": 550, "b": 550, "c": 520, "d": 500}
	for id, wage := range want {
		s, err := mem.GetStaff(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if !s.WagePerDay.Equal(decimal.NewFromInt(wage)) {
			t.Errorf("Staff %s: expected wage %d, got %s", id, wage, s.WagePerDay)
		}
	}
}

func TestApplyPositionWage_EquivalentDecimalsMatch(t *testing.T) {
	// 500 and 500.00 are the same wage; Equal, not string comparison.
	mem := store.NewTxMemory()
	ctx := context.Background()

	if err := mem.SaveStaff(ctx, roster.Staff{
		ID: "a", ProjectID: "p1", Name: "A",
		WagePerDay: decimal.RequireFromString("500.00"), IsActive: true,
	}); err != nil {
		t.Fatal(err)
	}

	updated, err := roster.ApplyPositionWage(ctx, mem, "p1",
		decimal.NewFromInt(500), decimal.NewFromInt(550))
	if err != nil {
		t.Fatal(err)
	}
	if updated != 1 {
		t.Fatalf("Expected scale-insensitive match, got %d updates", updated)
	}
}
