/*
Package factory provides JSON to Go shift-type catalog conversion.

PURPOSE:
  Converts JSON catalog definitions into roster.ShiftType records. This
  enables catalog configuration without code changes - administrators can
  define shift codes in JSON, and the factory creates the proper Go structs.

JSON SCHEMA:
  {
    "shift_types": [
      {"code": "D", "name": "Day shift", "is_work_shift": true},
      {"code": "OFF", "name": "Day off", "is_system_default": true},
      {"code": "ขาด", "name": "Absent"}
    ]
  }

KEY FEATURES:
  - Validates structure (non-empty codes, no duplicates)
  - Ships a built-in default catalog used to seed new databases

USAGE:
  types, err := factory.ParseCatalog(jsonStr)
  // or the built-in defaults:
  types := factory.DefaultCatalog()

SEE ALSO:
  - payroll/classify.go: Category resolution over a parsed catalog
  - api/scenarios.go: Seeds the default catalog for demos
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a shift-type catalog.
type CatalogJSON struct {
	ShiftTypes []ShiftTypeJSON `json:"shift_types"`
}

// ShiftTypeJSON is one catalog entry in JSON form.
type ShiftTypeJSON struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	IsWorkShift     bool   `json:"is_work_shift,omitempty"`
	IsSystemDefault bool   `json:"is_system_default,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalog converts a JSON catalog into shift-type records.
func ParseCatalog(jsonStr string) ([]roster.ShiftType, error) {
	var c CatalogJSON
	if err := json.Unmarshal([]byte(jsonStr), &c); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	if len(c.ShiftTypes) == 0 {
		return nil, fmt.Errorf("catalog has no shift types")
	}

	seen := make(map[roster.ShiftCode]bool, len(c.ShiftTypes))
	types := make([]roster.ShiftType, 0, len(c.ShiftTypes))
	for i, st := range c.ShiftTypes {
		if st.Code == "" {
			return nil, fmt.Errorf("shift type %d: empty code", i)
		}
		code := roster.ShiftCode(st.Code)
		if seen[code] {
			return nil, fmt.Errorf("shift type %d: duplicate code %q", i, st.Code)
		}
		seen[code] = true

		types = append(types, roster.ShiftType{
			Code:            code,
			Name:            st.Name,
			IsWorkShift:     st.IsWorkShift,
			IsSystemDefault: st.IsSystemDefault,
		})
	}
	return types, nil
}

// =============================================================================
// DEFAULT CATALOG
// =============================================================================

// DefaultCatalog returns the built-in catalog new installations are seeded
// with: the OFF fallback, day/night work shifts, and the conventional Thai
// leave codes the payroll classification recognizes.
func DefaultCatalog() []roster.ShiftType {
	return []roster.ShiftType{
		{Code: roster.CodeOff, Name: "Day off", IsSystemDefault: true},
		{Code: "D", Name: "Day shift", IsWorkShift: true, IsSystemDefault: true},
		{Code: "N", Name: "Night shift", IsWorkShift: true, IsSystemDefault: true},
		{Code: payroll.TokenAbsent, Name: "Absent", IsSystemDefault: true},
		{Code: payroll.TokenSickShort, Name: "Sick leave", IsSystemDefault: true},
		{Code: payroll.TokenPersonalShort, Name: "Personal leave", IsSystemDefault: true},
		{Code: payroll.TokenVacationShort, Name: "Vacation", IsSystemDefault: true},
	}
}
