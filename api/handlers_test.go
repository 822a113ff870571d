/*
handlers_test.go - HTTP-level tests for the roster API

Exercises the full stack: router, handlers, SQLite store (in-memory) and the
domain packages behind them. The clock is fixed at June 15, 2025 UTC; the test
project's cutoff is day 5 of the following month, so June is editable and May
is not.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	store  *sqlite.Store
	router http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, st := range factory.DefaultCatalog() {
		require.NoError(t, store.SaveShiftType(ctx, st))
	}
	require.NoError(t, store.SaveProject(ctx, roster.Project{
		ID: "site-1", Name: "Site 1",
		EditCutoffDay: 5, EditCutoffNextMonth: true,
	}))

	sunday := time.Sunday
	require.NoError(t, store.SaveStaff(ctx, roster.Staff{
		ID: "g1", ProjectID: "site-1", Name: "Guard 1",
		Kind: roster.KindRegular, DefaultShift: "D", WeeklyOffDay: &sunday,
		WagePerDay: decimal.NewFromInt(500), IsActive: true, DisplayOrder: 1,
	}))
	require.NoError(t, store.SaveStaff(ctx, roster.Staff{
		ID: "g2", ProjectID: "site-1", Name: "Guard 2",
		Kind: roster.KindRegular, DefaultShift: "N",
		WagePerDay: decimal.NewFromInt(400), IsActive: true, DisplayOrder: 2,
	}))

	h := NewHandlerWithClock(store, roster.FixedClock{At: testNow})
	return &harness{store: store, router: NewRouter(h)}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// =============================================================================
// MATRIX AND ENTRY TESTS
// =============================================================================

func TestGetRoster_ResolvedMatrix(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	m := decode[MatrixDTO](t, rec)
	assert.Equal(t, 30, m.Days)
	assert.True(t, m.EditOpen)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, "g1", m.Rows[0].Staff.ID)
	require.Len(t, m.Rows[0].Cells, 30)

	// June 1, 2025 is a Sunday: g1's weekly off.
	assert.Equal(t, "OFF", m.Rows[0].Cells[0].ShiftCode)
	assert.Equal(t, "D", m.Rows[0].Cells[1].ShiftCode)
}

func TestUpsertEntry_OverridesDefault(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPut, "/api/projects/site-1/rosters/2025/6/entries", EntryRequest{
		StaffID: "g1", Day: 3, ShiftCode: "N", Notes: "swap",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	e := decode[EntryDTO](t, rec)
	assert.Equal(t, "N", e.ShiftCode)
	assert.NotEmpty(t, e.ID)

	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil))
	cell := m.Rows[0].Cells[2]
	assert.Equal(t, "N", cell.ShiftCode)
	assert.True(t, cell.IsOverride)
	assert.Equal(t, "swap", cell.Notes)
}

func TestUpsertEntry_RejectsUnknownCode(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPut, "/api/projects/site-1/rosters/2025/6/entries", EntryRequest{
		StaffID: "g1", Day: 3, ShiftCode: "BOGUS",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteEntry_FallsBackToDefault(t *testing.T) {
	h := newHarness(t)

	e := decode[EntryDTO](t, h.do(t, http.MethodPut,
		"/api/projects/site-1/rosters/2025/6/entries",
		EntryRequest{StaffID: "g1", Day: 3, ShiftCode: "N"}))

	rec := h.do(t, http.MethodDelete, "/api/entries/"+e.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil))
	cell := m.Rows[0].Cells[2]
	assert.Equal(t, "D", cell.ShiftCode)
	assert.False(t, cell.IsOverride)
}

// =============================================================================
// EDIT WINDOW TESTS
// =============================================================================

func TestMutations_ClosedWindowReturns403(t *testing.T) {
	// May's deadline was June 5; the clock says June 15.
	h := newHarness(t)

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, "/api/projects/site-1/rosters/2025/5/entries",
			EntryRequest{StaffID: "g1", Day: 1, ShiftCode: "D"}},
		{http.MethodPost, "/api/projects/site-1/rosters/2025/5/batch",
			BatchRequest{Entries: []EntryRequest{{StaffID: "g1", Day: 1, ShiftCode: "D"}}}},
		{http.MethodPost, "/api/projects/site-1/rosters/2025/5/import",
			BatchRequest{Entries: []EntryRequest{{StaffID: "g1", Day: 1, ShiftCode: "D"}}}},
	}
	for _, tc := range cases {
		rec := h.do(t, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusForbidden, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())

		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, "edit_window_closed", resp.Code, "closed window must be distinguishable from bad input")
	}
}

func TestDeleteEntry_ClosedWindowReturns403(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Plant a May entry directly; the API would refuse to create it now.
	r, err := h.store.FindOrCreateRoster(ctx, "site-1", 2025, time.May)
	require.NoError(t, err)
	e, err := h.store.UpsertEntry(ctx, roster.RosterEntry{
		RosterID: r.ID, StaffID: "g1", Day: 1, ShiftCode: "D",
	})
	require.NoError(t, err)

	rec := h.do(t, http.MethodDelete, "/api/entries/"+string(e.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "edit_window_closed", decode[ErrorResponse](t, rec).Code)
}

func TestGetRoster_ClosedMonthStillReadable(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/5/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	m := decode[MatrixDTO](t, rec)
	assert.False(t, m.EditOpen)
	assert.Equal(t, 31, m.Days)
}

// =============================================================================
// BATCH AND IMPORT TESTS
// =============================================================================

func TestBatchUpsert_AtomicOnBadEntry(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/projects/site-1/rosters/2025/6/batch", BatchRequest{
		Entries: []EntryRequest{
			{StaffID: "g1", Day: 1, ShiftCode: "N"},
			{StaffID: "g1", Day: 2, ShiftCode: "BOGUS"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil))
	for _, c := range m.Rows[0].Cells {
		assert.False(t, c.IsOverride, "day %d: bad batch must write nothing", c.Day)
	}
}

func TestBatchUpsert_DuplicateCellConflicts(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/projects/site-1/rosters/2025/6/batch", BatchRequest{
		Entries: []EntryRequest{
			{StaffID: "g1", Day: 1, ShiftCode: "N"},
			{StaffID: "g1", Day: 1, ShiftCode: "D"},
		},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestImport_ReplacesMonth(t *testing.T) {
	h := newHarness(t)

	// Pre-existing manual entry.
	rec := h.do(t, http.MethodPut, "/api/projects/site-1/rosters/2025/6/entries",
		EntryRequest{StaffID: "g2", Day: 20, ShiftCode: "D"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/projects/site-1/rosters/2025/6/import", BatchRequest{
		Entries: []EntryRequest{
			{StaffID: "g1", Day: 1, ShiftCode: "N"},
			{StaffID: "g1", Day: 2, ShiftCode: "N"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil))
	// g2's manual entry was replaced away; day 20 resolves from the default.
	assert.False(t, m.Rows[1].Cells[19].IsOverride)
	assert.True(t, m.Rows[0].Cells[0].IsOverride)
	assert.True(t, m.Rows[0].Cells[1].IsOverride)
}

// =============================================================================
// DEFAULT-CHANGE TESTS
// =============================================================================

func TestApplyDefaultShift_FreezesClosedMonths(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// A May roster exists; it is already past its edit deadline.
	mayRoster, err := h.store.FindOrCreateRoster(ctx, "site-1", 2025, time.May)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/api/staff/g2/default-shift",
		ApplyDefaultShiftRequest{ShiftCode: "D"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "D", decode[StaffDTO](t, rec).DefaultShift)

	// May now carries explicit entries with the OLD default N.
	entries, err := h.store.ListEntriesForStaff(ctx, mayRoster.ID, "g2")
	require.NoError(t, err)
	require.Len(t, entries, 31)
	for _, e := range entries {
		assert.Equal(t, roster.ShiftCode("N"), e.ShiftCode)
	}

	// June resolves live from the new default.
	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/", nil))
	assert.Equal(t, "D", m.Rows[1].Cells[0].ShiftCode)
	assert.False(t, m.Rows[1].Cells[0].IsOverride)
}

func TestApplyWeeklyOff_SundayZero(t *testing.T) {
	h := newHarness(t)

	day := 0 // Sunday
	rec := h.do(t, http.MethodPost, "/api/staff/g2/weekly-off",
		ApplyWeeklyOffRequest{WeeklyOffDay: &day})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decode[StaffDTO](t, rec)
	require.NotNil(t, dto.WeeklyOffDay)
	assert.Equal(t, 0, *dto.WeeklyOffDay)
}

func TestApplyPositionWage_UpdatesMatchingStaffOnly(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/projects/site-1/positions/wage",
		ApplyPositionWageRequest{PreviousWage: "500", NewWage: "550"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[map[string]int](t, rec)["updated"])

	staff := decode[[]StaffDTO](t, h.do(t, http.MethodGet, "/api/projects/site-1/staff", nil))
	byID := map[string]string{}
	for _, s := range staff {
		byID[s.ID] = s.WagePerDay
	}
	assert.Equal(t, "550", byID["g1"])
	assert.Equal(t, "400", byID["g2"], "staff on a different wage must be untouched")
}

// =============================================================================
// REPORT TESTS
// =============================================================================

func TestMonthlyReport_Figures(t *testing.T) {
	h := newHarness(t)

	// Two absences for g1 on working days.
	rec := h.do(t, http.MethodPost, "/api/projects/site-1/rosters/2025/6/batch", BatchRequest{
		Entries: []EntryRequest{
			{StaffID: "g1", Day: 2, ShiftCode: string(payroll.TokenAbsent)},
			{StaffID: "g1", Day: 3, ShiftCode: string(payroll.TokenAbsent)},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/projects/site-1/rosters/2025/6/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ReportDTO](t, rec)
	require.Len(t, report.Staff, 2)

	// g1: 30 days minus 5 Sundays minus 2 absences = 23 work days at 500.
	g1 := report.Staff[0].Summary
	assert.Equal(t, 23, g1.WorkDays)
	assert.Equal(t, 2, g1.Absent)
	assert.Equal(t, "11500", g1.ExpectedSalary)
	assert.Equal(t, "1000", g1.Deduction)
	assert.Equal(t, g1.ExpectedSalary, g1.NetSalary, "net equals expected; absences are never charged twice")

	// g2: every day N = 30 work days at 400.
	g2 := report.Staff[1].Summary
	assert.Equal(t, 30, g2.WorkDays)
	assert.Equal(t, "12000", g2.ExpectedSalary)

	assert.Equal(t, 53, report.Total.WorkDays)
	assert.Equal(t, "23500", report.Total.ExpectedSalary)
}

// =============================================================================
// PROJECT AND CATALOG TESTS
// =============================================================================

func TestCreateProjectAndUpdateCutoff(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/projects/", CreateProjectRequest{
		ID: "site-2", Name: "Site 2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 5, decode[ProjectDTO](t, rec).EditCutoffDay, "cutoff defaults to day 5")

	rec = h.do(t, http.MethodPut, "/api/projects/site-2/cutoff", UpdateCutoffRequest{
		EditCutoffDay: 10, EditCutoffNextMonth: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[ProjectDTO](t, rec)
	assert.Equal(t, 10, p.EditCutoffDay)
	assert.True(t, p.EditCutoffNextMonth)

	rec = h.do(t, http.MethodPut, "/api/projects/site-2/cutoff", UpdateCutoffRequest{EditCutoffDay: 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteShiftType_SystemProtected(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodDelete, "/api/shift-types/OFF", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/shift-types/", ShiftTypeDTO{Code: "E", Name: "Evening", IsWorkShift: true})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = h.do(t, http.MethodDelete, "/api/shift-types/E", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownProject404(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/projects/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidPeriod400(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{
		"/api/projects/site-1/rosters/2025/13/",
		"/api/projects/site-1/rosters/1800/6/",
	} {
		rec := h.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestLoadScenario_GuardSite(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "guard-site"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path := fmt.Sprintf("/api/projects/site-central/rosters/%d/%d/", testNow.Year(), int(testNow.Month()))
	m := decode[MatrixDTO](t, h.do(t, http.MethodGet, path, nil))
	assert.Len(t, m.Rows, 4)

	rec = h.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guard-site", decode[ScenarioDTO](t, rec).ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
