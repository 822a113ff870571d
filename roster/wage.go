package roster

import (
	"context"

	"github.com/shopspring/decimal"
)

// ApplyPositionWage raises the wage of every staff member in the project
// whose wage still equals the position's previous default. Staff on a
// different wage are assumed to carry a manual override and are skipped.
//
// There is no explicit "is this wage an override" flag; equality with the
// previous default is the heuristic. The scan and updates run in one
// transaction. Returns the number of staff updated.
func ApplyPositionWage(ctx context.Context, store TxStore, projectID ProjectID, previous, next decimal.Decimal) (int, error) {
	updated := 0
	err := store.WithTx(ctx, func(s Store) error {
		staff, err := s.ListStaff(ctx, projectID)
		if err != nil {
			return err
		}
		for _, m := range staff {
			if !m.WagePerDay.Equal(previous) {
				continue
			}
			if err := s.UpdateStaffWage(ctx, m.ID, next); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
