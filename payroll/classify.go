/*
Package payroll derives monthly attendance and salary figures from resolved
daily shift codes.

PURPOSE:
  Turns a staff member's month of shift codes into work/leave counts and the
  expected, deduction and net salary amounts. The catalog-to-category
  resolution lives here (classify.go); the arithmetic lives in aggregate.go.

CLASSIFICATION:
  Leave categories are identified by convention, not by a typed catalog
  field: the catalog is probed for the preferred human token first, then the
  short form, then a built-in fallback. The resolution runs ONCE per catalog
  fetch and yields a Classification value the aggregator consults per day,
  so no token matching happens inside the per-day loop.

  Category   Preferred  Short  Fallback
  absent     ขาด        ข      ขาด
  sick       ป่วย       ป      ป
  personal   กิจ        ก      ก
  vacation   ลา         พ      พ

  Work days come from the catalog's IsWorkShift flag. Codes matching no
  category (OFF among them) are simply uncounted.

SEE ALSO:
  - aggregate.go: Monthly summary computation
  - roster/types.go: ShiftType catalog
*/
package payroll

import "github.com/warp/roster-engine/roster"

// Category tokens. Exported so catalog seeds and tests share one source.
const (
	TokenAbsent        roster.ShiftCode = "ขาด"
	TokenAbsentShort   roster.ShiftCode = "ข"
	TokenSick          roster.ShiftCode = "ป่วย"
	TokenSickShort     roster.ShiftCode = "ป"
	TokenPersonal      roster.ShiftCode = "กิจ"
	TokenPersonalShort roster.ShiftCode = "ก"
	TokenVacation      roster.ShiftCode = "ลา"
	TokenVacationShort roster.ShiftCode = "พ"
)

// Classification is the resolved catalog lookup table, built once per
// catalog fetch.
type Classification struct {
	work map[roster.ShiftCode]bool

	Absent   roster.ShiftCode
	Sick     roster.ShiftCode
	Personal roster.ShiftCode
	Vacation roster.ShiftCode
}

// IsWork reports whether a code counts as a work day.
func (c Classification) IsWork(code roster.ShiftCode) bool { return c.work[code] }

// Classify resolves the category codes for a catalog.
func Classify(catalog []roster.ShiftType) Classification {
	present := roster.CodeSet(catalog)

	c := Classification{
		work:     make(map[roster.ShiftCode]bool, len(catalog)),
		Absent:   resolve(present, TokenAbsent, TokenAbsentShort, TokenAbsent),
		Sick:     resolve(present, TokenSick, TokenSickShort, TokenSickShort),
		Personal: resolve(present, TokenPersonal, TokenPersonalShort, TokenPersonalShort),
		Vacation: resolve(present, TokenVacation, TokenVacationShort, TokenVacationShort),
	}
	for _, st := range catalog {
		if st.IsWorkShift {
			c.work[st.Code] = true
		}
	}
	return c
}

// resolve walks the fallback chain: preferred token if cataloged, else the
// short form if cataloged, else the hardwired fallback.
func resolve(present map[roster.ShiftCode]bool, preferred, short, fallback roster.ShiftCode) roster.ShiftCode {
	if present[preferred] {
		return preferred
	}
	if present[short] {
		return short
	}
	return fallback
}
