/*
handlers.go - HTTP API handlers for the roster engine

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Projects:
    GET    /api/projects                          List projects
    POST   /api/projects                          Create project
    GET    /api/projects/{id}                     Get project
    PUT    /api/projects/{id}/cutoff              Update edit-cutoff settings
    GET    /api/projects/{id}/staff               List staff
    POST   /api/projects/{id}/staff               Create staff
    POST   /api/projects/{id}/positions/wage      Apply position default wage

  Roster (period = /{year}/{month}):
    GET    /api/projects/{id}/rosters/{period}          Resolved matrix
    PUT    /api/projects/{id}/rosters/{period}/entries  Upsert one cell
    POST   /api/projects/{id}/rosters/{period}/batch    Atomic batch upsert
    POST   /api/projects/{id}/rosters/{period}/import   Atomic replace-month
    GET    /api/projects/{id}/rosters/{period}/report   Attendance report
    DELETE /api/entries/{id}                            Delete one entry

  Staff defaults (freezing paths):
    POST   /api/staff/{id}/default-shift          Apply default shift
    POST   /api/staff/{id}/weekly-off             Apply weekly off day

  Catalog:
    GET    /api/shift-types                       List catalog
    POST   /api/shift-types                       Create/update shift type
    DELETE /api/shift-types/{code}                Delete (system types refuse)

REQUEST FLOW:
  1. Parse HTTP request
  2. Resolve project/roster, check the edit window BEFORE any write
  3. Call domain logic (matrix build, importer, propagator, aggregator)
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 403: Edit window closed (distinct code so UIs can render
         "deadline passed" instead of a generic input error)
  - 404: Record not found
  - 409: Batch conflicts (duplicates, staff outside project)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization here; the deployment fronts this API
  with its own access layer. Handlers assume the caller may act on the
  project.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store roster.TxStore
	Clock roster.Clock

	propagator *roster.Propagator
	importer   *roster.Importer

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and the system clock.
func NewHandler(store roster.TxStore) *Handler {
	return NewHandlerWithClock(store, roster.SystemClock{})
}

// NewHandlerWithClock creates a handler with an explicit clock (tests).
func NewHandlerWithClock(store roster.TxStore, clock roster.Clock) *Handler {
	return &Handler{
		Store:      store,
		Clock:      clock,
		propagator: &roster.Propagator{Store: store, Clock: clock},
		importer:   &roster.Importer{Store: store},
	}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates or updates a project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.EditCutoffDay == 0 {
		req.EditCutoffDay = 5
	}

	p := roster.Project{
		ID:                  roster.ProjectID(req.ID),
		Name:                req.Name,
		EditCutoffDay:       req.EditCutoffDay,
		EditCutoffNextMonth: req.EditCutoffNextMonth,
	}
	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(p))
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*p))
}

// UpdateCutoff updates a project's edit-cutoff configuration.
func (h *Handler) UpdateCutoff(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	var req UpdateCutoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EditCutoffDay < 1 || req.EditCutoffDay > 31 {
		writeError(w, http.StatusBadRequest, "edit_cutoff_day must be within 1..31", nil)
		return
	}

	p.EditCutoffDay = req.EditCutoffDay
	p.EditCutoffNextMonth = req.EditCutoffNextMonth
	if err := h.Store.SaveProject(r.Context(), *p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*p))
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns all staff of a project.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	staff, err := h.Store.ListStaff(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}
	dtos := make([]StaffDTO, len(staff))
	for i, s := range staff {
		dtos[i] = toStaffDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStaff creates or updates a staff member. This path writes fields
// directly and does NOT freeze history; the dedicated apply endpoints do.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	wage := decimal.Zero
	if req.WagePerDay != "" {
		var err error
		wage, err = decimal.NewFromString(req.WagePerDay)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid wage_per_day", err)
			return
		}
	}
	off, err := weekdayFromRequest(req.WeeklyOffDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid weekly_off_day", err)
		return
	}

	s := roster.Staff{
		ID:           roster.StaffID(req.ID),
		ProjectID:    p.ID,
		Name:         req.Name,
		Kind:         roster.StaffKind(req.Kind),
		DefaultShift: roster.ShiftCode(req.DefaultShift),
		WeeklyOffDay: off,
		WagePerDay:   wage,
		IsActive:     req.IsActive == nil || *req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.Store.SaveStaff(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(s))
}

// ApplyDefaultShift changes a staff default shift, freezing past months.
func (h *Handler) ApplyDefaultShift(w http.ResponseWriter, r *http.Request) {
	staffID := roster.StaffID(chi.URLParam(r, "id"))
	var req ApplyDefaultShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.propagator.ApplyDefaultShift(r.Context(), staffID, roster.ShiftCode(req.ShiftCode)); err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondStaff(w, r, staffID)
}

// ApplyWeeklyOff changes a staff weekly off day, freezing past months.
func (h *Handler) ApplyWeeklyOff(w http.ResponseWriter, r *http.Request) {
	staffID := roster.StaffID(chi.URLParam(r, "id"))
	var req ApplyWeeklyOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	off, err := weekdayFromRequest(req.WeeklyOffDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid weekly_off_day", err)
		return
	}

	if err := h.propagator.ApplyWeeklyOffDay(r.Context(), staffID, off); err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondStaff(w, r, staffID)
}

// ApplyPositionWage raises the wage of staff still on the previous position
// default.
func (h *Handler) ApplyPositionWage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	var req ApplyPositionWageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	previous, err := decimal.NewFromString(req.PreviousWage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid previous_wage", err)
		return
	}
	next, err := decimal.NewFromString(req.NewWage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_wage", err)
		return
	}

	updated, err := roster.ApplyPositionWage(r.Context(), h.Store, p.ID, previous, next)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handler) respondStaff(w http.ResponseWriter, r *http.Request, id roster.StaffID) {
	s, err := h.Store.GetStaff(r.Context(), id)
	if err != nil || s == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload staff", err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTO(*s))
}

// =============================================================================
// SHIFT TYPE HANDLERS
// =============================================================================

// ListShiftTypes returns the catalog.
func (h *Handler) ListShiftTypes(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Store.ListShiftTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shift types", err)
		return
	}
	dtos := make([]ShiftTypeDTO, len(catalog))
	for i, st := range catalog {
		dtos[i] = ShiftTypeDTO{
			Code:            string(st.Code),
			Name:            st.Name,
			IsWorkShift:     st.IsWorkShift,
			IsSystemDefault: st.IsSystemDefault,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShiftType creates or updates a catalog entry.
func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req ShiftTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required", nil)
		return
	}
	st := roster.ShiftType{
		Code:            roster.ShiftCode(req.Code),
		Name:            req.Name,
		IsWorkShift:     req.IsWorkShift,
		IsSystemDefault: req.IsSystemDefault,
	}
	if err := h.Store.SaveShiftType(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift type", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// DeleteShiftType removes a catalog entry; system defaults refuse.
func (h *Handler) DeleteShiftType(w http.ResponseWriter, r *http.Request) {
	code := roster.ShiftCode(chi.URLParam(r, "code"))
	if err := h.Store.DeleteShiftType(r.Context(), code); err != nil {
		if errors.Is(err, roster.ErrShiftTypeProtected) {
			writeError(w, http.StatusConflict, "Shift type is system-protected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete shift type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GetRoster returns the resolved matrix for (project, year, month), creating
// the roster record lazily on first access.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	p, year, month, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	ro, err := h.Store.FindOrCreateRoster(ctx, p.ID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	staff, err := h.Store.ListActiveStaff(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}
	entries, err := h.Store.ListEntries(ctx, ro.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	m := roster.BuildMatrix(staff, entries, year, month)
	now := h.Clock.Now()
	win := p.Window()
	writeJSON(w, http.StatusOK, toMatrixDTO(ro.ID, m,
		win.IsOpen(year, month, now), win.Deadline(year, month, now.Location())))
}

// UpsertEntry writes one explicit cell.
func (h *Handler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	p, year, month, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	if !h.requireOpenWindow(w, p, year, month) {
		return
	}
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	ro, err := h.Store.FindOrCreateRoster(ctx, p.ID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}

	// A single edit goes through the same validated, transactional path as
	// a batch of one.
	if err := h.importer.UpsertBatch(ctx, ro.ID, []roster.ImportEntry{{
		StaffID:   roster.StaffID(req.StaffID),
		Day:       req.Day,
		ShiftCode: roster.ShiftCode(req.ShiftCode),
		Notes:     req.Notes,
	}}); err != nil {
		respondDomainError(w, err)
		return
	}

	e, err := h.Store.GetEntry(ctx, roster.NewEntryID(ro.ID, roster.StaffID(req.StaffID), req.Day))
	if err != nil || e == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload entry", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*e))
}

// BatchUpsert writes multiple cells atomically (merge, not replace).
func (h *Handler) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, h.importer.UpsertBatch)
}

// ImportReplace atomically replaces every entry of the month with the batch.
func (h *Handler) ImportReplace(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, h.importer.ReplaceMonth)
}

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request,
	commit func(ctx context.Context, rosterID roster.RosterID, entries []roster.ImportEntry) error) {
	p, year, month, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	if !h.requireOpenWindow(w, p, year, month) {
		return
	}
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	ro, err := h.Store.FindOrCreateRoster(ctx, p.ID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}

	entries := make([]roster.ImportEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = roster.ImportEntry{
			StaffID:   roster.StaffID(e.StaffID),
			Day:       e.Day,
			ShiftCode: roster.ShiftCode(e.ShiftCode),
			Notes:     e.Notes,
		}
	}

	if err := commit(ctx, ro.ID, entries); err != nil {
		respondDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roster_id": string(ro.ID),
		"applied":   len(entries),
	})
}

// DeleteEntry removes one explicit cell; the day falls back to the default.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := roster.EntryID(chi.URLParam(r, "id"))

	e, err := h.Store.GetEntry(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entry", err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	ro, err := h.Store.GetRoster(ctx, e.RosterID)
	if err != nil || ro == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	p, err := h.Store.GetProject(ctx, ro.ProjectID)
	if err != nil || p == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load project", err)
		return
	}
	if !h.requireOpenWindow(w, p, ro.Year, ro.Month) {
		return
	}

	if err := h.Store.DeleteEntry(ctx, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// MonthlyReport returns per-staff attendance summaries and the project
// rollup for (project, year, month).
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	p, year, month, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	ro, err := h.Store.FindOrCreateRoster(ctx, p.ID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	staff, err := h.Store.ListActiveStaff(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}
	entries, err := h.Store.ListEntries(ctx, ro.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	catalog, err := h.Store.ListShiftTypes(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shift types", err)
		return
	}

	m := roster.BuildMatrix(staff, entries, year, month)
	cls := payroll.Classify(catalog)

	report := ReportDTO{
		ProjectID: string(p.ID),
		Year:      year,
		Month:     int(month),
		Staff:     make([]StaffReportDTO, len(m.Rows)),
	}
	summaries := make([]payroll.MonthlySummary, len(m.Rows))
	for i, row := range m.Rows {
		summaries[i] = payroll.AggregateMonth(row.Codes(), row.Staff.WagePerDay, cls)
		report.Staff[i] = StaffReportDTO{
			Staff:   toStaffDTO(row.Staff),
			Summary: toSummaryDTO(summaries[i]),
		}
	}
	report.Total = toSummaryDTO(payroll.Rollup(summaries))

	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (*roster.Project, bool) {
	id := roster.ProjectID(chi.URLParam(r, "id"))
	p, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return nil, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return nil, false
	}
	return p, true
}

// loadPeriod resolves {id}/{year}/{month} and validates the period. The
// window functions only clamp, so year/month are range-checked here.
func (h *Handler) loadPeriod(w http.ResponseWriter, r *http.Request) (*roster.Project, int, time.Month, bool) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return nil, 0, 0, false
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return nil, 0, 0, false
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || !roster.ValidMonth(time.Month(monthNum)) {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return nil, 0, 0, false
	}
	return p, year, time.Month(monthNum), true
}

// requireOpenWindow rejects mutations after the edit cutoff. Returns true
// when the caller may proceed.
func (h *Handler) requireOpenWindow(w http.ResponseWriter, p *roster.Project, year int, month time.Month) bool {
	now := h.Clock.Now()
	win := p.Window()
	if win.IsOpen(year, month, now) {
		return true
	}
	respondDomainError(w, &roster.WindowClosedError{
		Year:     year,
		Month:    month,
		Deadline: win.Deadline(year, month, now.Location()),
	})
	return false
}

func weekdayFromRequest(v *int) (*time.Weekday, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || *v > 6 {
		return nil, fmt.Errorf("weekly off day %d out of range 0..6", *v)
	}
	d := time.Weekday(*v)
	return &d, nil
}

// respondDomainError maps the error taxonomy to HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case roster.IsWindowClosed(err):
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error: "Edit deadline has passed, contact an administrator",
			Code:  "edit_window_closed",
		})
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case roster.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Error = fmt.Sprintf("%s: %v", msg, err)
	}
	writeJSON(w, status, resp)
}
