/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the roster package, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/matrix.go: Source of the matrix shape
*/
package api

import (
	"time"

	"github.com/warp/roster-engine/payroll"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// PROJECT TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	EditCutoffDay       int    `json:"edit_cutoff_day"`
	EditCutoffNextMonth bool   `json:"edit_cutoff_next_month"`
	CreatedAt           string `json:"created_at,omitempty"`
}

// CreateProjectRequest is the request to create or update a project.
type CreateProjectRequest struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	EditCutoffDay       int    `json:"edit_cutoff_day"`
	EditCutoffNextMonth bool   `json:"edit_cutoff_next_month"`
}

// UpdateCutoffRequest updates only the edit-cutoff configuration.
type UpdateCutoffRequest struct {
	EditCutoffDay       int  `json:"edit_cutoff_day"`
	EditCutoffNextMonth bool `json:"edit_cutoff_next_month"`
}

// =============================================================================
// STAFF TYPES
// =============================================================================

// StaffDTO represents a staff member in API responses.
type StaffDTO struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	DefaultShift string `json:"default_shift"`
	WeeklyOffDay *int   `json:"weekly_off_day"` // 0=Sunday..6=Saturday, null = none
	WagePerDay   string `json:"wage_per_day"`
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateStaffRequest is the request to create or update a staff member.
type CreateStaffRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind,omitempty"`
	DefaultShift string `json:"default_shift,omitempty"`
	WeeklyOffDay *int   `json:"weekly_off_day,omitempty"`
	WagePerDay   string `json:"wage_per_day,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
}

// ApplyDefaultShiftRequest changes a staff default shift with freezing.
type ApplyDefaultShiftRequest struct {
	ShiftCode string `json:"shift_code"`
}

// ApplyWeeklyOffRequest changes a staff weekly off day with freezing.
// null clears the weekly off; 0 is Sunday.
type ApplyWeeklyOffRequest struct {
	WeeklyOffDay *int `json:"weekly_off_day"`
}

// ApplyPositionWageRequest raises the wage of staff still on the previous
// position default.
type ApplyPositionWageRequest struct {
	PreviousWage string `json:"previous_wage"`
	NewWage      string `json:"new_wage"`
}

// =============================================================================
// SHIFT TYPE CATALOG
// =============================================================================

// ShiftTypeDTO represents a catalog entry.
type ShiftTypeDTO struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	IsWorkShift     bool   `json:"is_work_shift"`
	IsSystemDefault bool   `json:"is_system_default"`
}

// =============================================================================
// ROSTER MATRIX TYPES
// =============================================================================

// CellDTO is one resolved day cell.
type CellDTO struct {
	Day        int    `json:"day"`
	ShiftCode  string `json:"shift_code"`
	Notes      string `json:"notes,omitempty"`
	EntryID    string `json:"entry_id,omitempty"`
	IsOverride bool   `json:"is_override"`
}

// MatrixRowDTO is one staff member's month.
type MatrixRowDTO struct {
	Staff StaffDTO  `json:"staff"`
	Cells []CellDTO `json:"cells"`
}

// MatrixDTO is the fully resolved roster grid.
type MatrixDTO struct {
	RosterID string         `json:"roster_id"`
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Days     int            `json:"days"`
	EditOpen bool           `json:"edit_open"`
	Deadline string         `json:"edit_deadline"`
	Rows     []MatrixRowDTO `json:"rows"`
}

// EntryRequest is one cell in entry upsert, batch and import payloads.
type EntryRequest struct {
	StaffID   string `json:"staff_id"`
	Day       int    `json:"day"`
	ShiftCode string `json:"shift_code"`
	Notes     string `json:"notes,omitempty"`
}

// BatchRequest carries multiple cells for batch upsert or import.
type BatchRequest struct {
	Entries []EntryRequest `json:"entries"`
}

// EntryDTO is a persisted entry in responses.
type EntryDTO struct {
	ID        string `json:"id"`
	RosterID  string `json:"roster_id"`
	StaffID   string `json:"staff_id"`
	Day       int    `json:"day"`
	ShiftCode string `json:"shift_code"`
	Notes     string `json:"notes,omitempty"`
}

// =============================================================================
// ATTENDANCE REPORT TYPES
// =============================================================================

// SummaryDTO carries one attendance/salary summary.
type SummaryDTO struct {
	WorkDays       int    `json:"work_days"`
	Absent         int    `json:"absent"`
	SickLeave      int    `json:"sick_leave"`
	PersonalLeave  int    `json:"personal_leave"`
	Vacation       int    `json:"vacation"`
	Late           int    `json:"late"`
	ExpectedSalary string `json:"expected_salary"`
	Deduction      string `json:"deduction"`
	NetSalary      string `json:"net_salary"`
}

// StaffReportDTO is one staff member's row in the monthly report.
type StaffReportDTO struct {
	Staff   StaffDTO   `json:"staff"`
	Summary SummaryDTO `json:"summary"`
}

// ReportDTO is the monthly attendance report for one project.
type ReportDTO struct {
	ProjectID string           `json:"project_id"`
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Staff     []StaffReportDTO `json:"staff"`
	Total     SummaryDTO       `json:"total"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProjectDTO(p roster.Project) ProjectDTO {
	return ProjectDTO{
		ID:                  string(p.ID),
		Name:                p.Name,
		EditCutoffDay:       p.EditCutoffDay,
		EditCutoffNextMonth: p.EditCutoffNextMonth,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
	}
}

func toStaffDTO(s roster.Staff) StaffDTO {
	var off *int
	if s.WeeklyOffDay != nil {
		d := int(*s.WeeklyOffDay)
		off = &d
	}
	return StaffDTO{
		ID:           string(s.ID),
		ProjectID:    string(s.ProjectID),
		Name:         s.Name,
		Kind:         string(s.Kind),
		DefaultShift: string(s.DefaultShift),
		WeeklyOffDay: off,
		WagePerDay:   s.WagePerDay.String(),
		IsActive:     s.IsActive,
		DisplayOrder: s.DisplayOrder,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

func toEntryDTO(e roster.RosterEntry) EntryDTO {
	return EntryDTO{
		ID:        string(e.ID),
		RosterID:  string(e.RosterID),
		StaffID:   string(e.StaffID),
		Day:       e.Day,
		ShiftCode: string(e.ShiftCode),
		Notes:     e.Notes,
	}
}

func toSummaryDTO(s payroll.MonthlySummary) SummaryDTO {
	return SummaryDTO{
		WorkDays:       s.WorkDays,
		Absent:         s.Absent,
		SickLeave:      s.SickLeave,
		PersonalLeave:  s.PersonalLeave,
		Vacation:       s.Vacation,
		Late:           s.Late,
		ExpectedSalary: s.ExpectedSalary.String(),
		Deduction:      s.Deduction.String(),
		NetSalary:      s.NetSalary.String(),
	}
}

func toMatrixDTO(rosterID roster.RosterID, m *roster.Matrix, editOpen bool, deadline time.Time) MatrixDTO {
	dto := MatrixDTO{
		RosterID: string(rosterID),
		Year:     m.Year,
		Month:    int(m.Month),
		Days:     m.Days,
		EditOpen: editOpen,
		Deadline: deadline.Format(time.RFC3339),
		Rows:     make([]MatrixRowDTO, len(m.Rows)),
	}
	for i, row := range m.Rows {
		cells := make([]CellDTO, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellDTO{
				Day:        c.Day,
				ShiftCode:  string(c.ShiftCode),
				Notes:      c.Notes,
				EntryID:    string(c.EntryID),
				IsOverride: c.IsOverride,
			}
		}
		dto.Rows[i] = MatrixRowDTO{Staff: toStaffDTO(row.Staff), Cells: cells}
	}
	return dto
}
