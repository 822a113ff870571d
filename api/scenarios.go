/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates a project, staff,
	the shift-type catalog, and roster entries that demonstrate specific
	features.

AVAILABLE SCENARIOS:

	guard-site:    One security site with supervisor, guards and a reliever
	leave-heavy:   A month with absences and leave for the payroll report
	imported:      A month populated through the atomic import path

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed the default shift-type catalog via factory
 3. Create a project and its staff
 4. Write roster entries for the current month

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "guard-site"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared response helpers
  - factory/catalog.go: Default shift-type catalog
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "guard-site",
		Name:        "Guard Site",
		Description: "One site with a supervisor, day/night guards and a reliever",
	},
	{
		ID:          "leave-heavy",
		Name:        "Leave-Heavy Month",
		Description: "Absences, sick and personal leave to exercise the payroll report",
	},
	{
		ID:          "imported",
		Name:        "Imported Month",
		Description: "A month populated through the atomic replace-month import",
	},
}

// resetter is implemented by stores that can wipe all data.
type resetter interface {
	Reset(ctx context.Context) error
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.resetAll(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "guard-site":
		err = h.loadGuardSiteScenario(ctx)
	case "leave-heavy":
		err = h.loadLeaveHeavyScenario(ctx)
	case "imported":
		err = h.loadImportedScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.resetAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) resetAll(ctx context.Context) error {
	rs, ok := h.Store.(resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	return rs.Reset(ctx)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedCatalog(ctx context.Context) error {
	for _, st := range factory.DefaultCatalog() {
		if err := h.Store.SaveShiftType(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) seedProjectWithStaff(ctx context.Context, id roster.ProjectID, name string) error {
	if err := h.seedCatalog(ctx); err != nil {
		return err
	}
	if err := h.Store.SaveProject(ctx, roster.Project{
		ID:            id,
		Name:          name,
		EditCutoffDay: 5,
	}); err != nil {
		return err
	}

	sunday := time.Sunday
	monday := time.Monday
	staff := []roster.Staff{
		{
			ID: "sup-01", ProjectID: id, Name: "Somchai P.",
			Kind: roster.KindSupervisor, DefaultShift: "D",
			WeeklyOffDay: &sunday,
			WagePerDay:   decimal.NewFromInt(700),
			IsActive:     true, DisplayOrder: 1,
		},
		{
			ID: "grd-01", ProjectID: id, Name: "Anan K.",
			Kind: roster.KindRegular, DefaultShift: "D",
			WeeklyOffDay: &monday,
			WagePerDay:   decimal.NewFromInt(500),
			IsActive:     true, DisplayOrder: 2,
		},
		{
			ID: "grd-02", ProjectID: id, Name: "Wichai S.",
			Kind: roster.KindRegular, DefaultShift: "N",
			WeeklyOffDay: &sunday,
			WagePerDay:   decimal.NewFromInt(500),
			IsActive:     true, DisplayOrder: 3,
		},
		{
			ID: "rel-01", ProjectID: id, Name: "Prasert T.",
			Kind: roster.KindReliever, DefaultShift: "",
			WagePerDay: decimal.NewFromInt(520),
			IsActive:   true, DisplayOrder: 4,
		},
	}
	for _, s := range staff {
		if err := h.Store.SaveStaff(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// loadGuardSiteScenario seeds a plain site for the current month with a few
// manual overrides on top of the defaults.
func (h *Handler) loadGuardSiteScenario(ctx context.Context) error {
	const projectID = roster.ProjectID("site-central")
	if err := h.seedProjectWithStaff(ctx, projectID, "Central Plaza"); err != nil {
		return err
	}

	now := h.Clock.Now()
	ro, err := h.Store.FindOrCreateRoster(ctx, projectID, now.Year(), now.Month())
	if err != nil {
		return err
	}

	return h.importer.UpsertBatch(ctx, ro.ID, []roster.ImportEntry{
		{StaffID: "rel-01", Day: 2, ShiftCode: "D", Notes: "covering grd-01"},
		{StaffID: "grd-01", Day: 2, ShiftCode: roster.CodeOff},
		{StaffID: "grd-02", Day: 10, ShiftCode: "D", Notes: "shift swap"},
	})
}

// loadLeaveHeavyScenario seeds a month with every leave category so the
// attendance report has something to show.
func (h *Handler) loadLeaveHeavyScenario(ctx context.Context) error {
	const projectID = roster.ProjectID("site-harbor")
	if err := h.seedProjectWithStaff(ctx, projectID, "Harbor Warehouse"); err != nil {
		return err
	}

	now := h.Clock.Now()
	ro, err := h.Store.FindOrCreateRoster(ctx, projectID, now.Year(), now.Month())
	if err != nil {
		return err
	}

	return h.importer.UpsertBatch(ctx, ro.ID, []roster.ImportEntry{
		{StaffID: "grd-01", Day: 3, ShiftCode: payroll.TokenAbsent},
		{StaffID: "grd-01", Day: 4, ShiftCode: payroll.TokenAbsent},
		{StaffID: "grd-02", Day: 8, ShiftCode: payroll.TokenSickShort, Notes: "doctor's note"},
		{StaffID: "grd-02", Day: 9, ShiftCode: payroll.TokenSickShort},
		{StaffID: "sup-01", Day: 15, ShiftCode: payroll.TokenPersonalShort},
		{StaffID: "grd-01", Day: 20, ShiftCode: payroll.TokenVacationShort},
	})
}

// loadImportedScenario populates a month through ReplaceMonth, the same path
// a spreadsheet import takes.
func (h *Handler) loadImportedScenario(ctx context.Context) error {
	const projectID = roster.ProjectID("site-tower")
	if err := h.seedProjectWithStaff(ctx, projectID, "Tower Office"); err != nil {
		return err
	}

	now := h.Clock.Now()
	ro, err := h.Store.FindOrCreateRoster(ctx, projectID, now.Year(), now.Month())
	if err != nil {
		return err
	}

	days := roster.DaysInMonth(now.Year(), now.Month())
	var batch []roster.ImportEntry
	for day := 1; day <= days; day++ {
		code := roster.ShiftCode("D")
		if day%7 == 0 {
			code = roster.CodeOff
		}
		batch = append(batch, roster.ImportEntry{StaffID: "grd-01", Day: day, ShiftCode: code})
	}
	return h.importer.ReplaceMonth(ctx, ro.ID, batch)
}
