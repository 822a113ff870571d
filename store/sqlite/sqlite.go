/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements roster.Store and roster.TxStore using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  projects:       Project records with edit-cutoff configuration
  staff:          Staff records with roster defaults and wages
  shift_types:    The shift-code catalog
  rosters:        One row per (project, year, month), created lazily
  roster_entries: Explicit per-day overrides, unique per (roster, staff, day)

UNIQUE KEYS:
  rosters(project_id, year, month) makes find-or-create idempotent.
  roster_entries(roster_id, staff_id, day) makes entry writes upserts:
  INSERT ... ON CONFLICT DO UPDATE, so the final write for a cell is
  well-defined even under concurrent edits.

TRANSACTIONS:
  WithTx wraps a database transaction; the batch-upsert, import-replace and
  default-change-propagation paths run entirely inside it, so a failure
  rolls every write back.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definitions
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
)

// Store implements roster.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes transactions; SQLite allows one writer
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite allows a single writer anyway, and ":memory:"
	// databases exist per connection, not per pool.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		edit_cutoff_day INTEGER NOT NULL DEFAULT 5,
		edit_cutoff_next_month BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'regular',
		default_shift TEXT NOT NULL DEFAULT '',
		weekly_off_day INTEGER,
		wage_per_day TEXT NOT NULL DEFAULT '0',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_staff_project
		ON staff(project_id);
	CREATE INDEX IF NOT EXISTS idx_staff_project_active
		ON staff(project_id, is_active);

	CREATE TABLE IF NOT EXISTS shift_types (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		is_work_shift BOOLEAN NOT NULL DEFAULT FALSE,
		is_system_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- One roster per project-month; find-or-create relies on this key.
	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(project_id, year, month)
	);

	CREATE INDEX IF NOT EXISTS idx_rosters_project_period
		ON rosters(project_id, year, month);

	-- CRITICAL: one explicit entry per (roster, staff, day). Entry writes
	-- are upserts against this key.
	CREATE TABLE IF NOT EXISTS roster_entries (
		id TEXT PRIMARY KEY,
		roster_id TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		shift_code TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(roster_id, staff_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_roster
		ON roster_entries(roster_id);
	CREATE INDEX IF NOT EXISTS idx_entries_roster_staff
		ON roster_entries(roster_id, staff_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx so the same statement
// helpers serve direct calls and transactional views.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(roster.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&txView{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txView adapts an open transaction to roster.Store.
type txView struct {
	q *sql.Tx
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) SaveProject(ctx context.Context, p roster.Project) error {
	return saveProject(ctx, s.db, p)
}
func (v *txView) SaveProject(ctx context.Context, p roster.Project) error {
	return saveProject(ctx, v.q, p)
}

func saveProject(ctx context.Context, q querier, p roster.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, name, edit_cutoff_day, edit_cutoff_next_month, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			edit_cutoff_day = excluded.edit_cutoff_day,
			edit_cutoff_next_month = excluded.edit_cutoff_next_month`,
		p.ID, p.Name, p.EditCutoffDay, p.EditCutoffNextMonth, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id roster.ProjectID) (*roster.Project, error) {
	return getProject(ctx, s.db, id)
}
func (v *txView) GetProject(ctx context.Context, id roster.ProjectID) (*roster.Project, error) {
	return getProject(ctx, v.q, id)
}

func getProject(ctx context.Context, q querier, id roster.ProjectID) (*roster.Project, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, edit_cutoff_day, edit_cutoff_next_month, created_at
		FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *Store) ListProjects(ctx context.Context) ([]roster.Project, error) {
	return listProjects(ctx, s.db)
}
func (v *txView) ListProjects(ctx context.Context) ([]roster.Project, error) {
	return listProjects(ctx, v.q)
}

func listProjects(ctx context.Context, q querier) ([]roster.Project, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, edit_cutoff_day, edit_cutoff_next_month, created_at
		FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var result []roster.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProject(r rowScanner) (*roster.Project, error) {
	var p roster.Project
	var createdAt string
	if err := r.Scan(&p.ID, &p.Name, &p.EditCutoffDay, &p.EditCutoffNextMonth, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// =============================================================================
// STAFF
// =============================================================================

const staffSelect = `
	SELECT id, project_id, name, kind, default_shift, weekly_off_day,
	       wage_per_day, is_active, display_order, created_at
	FROM staff`

func (s *Store) SaveStaff(ctx context.Context, st roster.Staff) error {
	return saveStaff(ctx, s.db, st)
}
func (v *txView) SaveStaff(ctx context.Context, st roster.Staff) error {
	return saveStaff(ctx, v.q, st)
}

func saveStaff(ctx context.Context, q querier, st roster.Staff) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	if st.Kind == "" {
		st.Kind = roster.KindRegular
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO staff
			(id, project_id, name, kind, default_shift, weekly_off_day,
			 wage_per_day, is_active, display_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			name = excluded.name,
			kind = excluded.kind,
			default_shift = excluded.default_shift,
			weekly_off_day = excluded.weekly_off_day,
			wage_per_day = excluded.wage_per_day,
			is_active = excluded.is_active,
			display_order = excluded.display_order`,
		st.ID, st.ProjectID, st.Name, st.Kind, string(st.DefaultShift),
		weekdayValue(st.WeeklyOffDay), st.WagePerDay.String(), st.IsActive,
		st.DisplayOrder, st.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save staff: %w", err)
	}
	return nil
}

func (s *Store) GetStaff(ctx context.Context, id roster.StaffID) (*roster.Staff, error) {
	return getStaff(ctx, s.db, id)
}
func (v *txView) GetStaff(ctx context.Context, id roster.StaffID) (*roster.Staff, error) {
	return getStaff(ctx, v.q, id)
}

func getStaff(ctx context.Context, q querier, id roster.StaffID) (*roster.Staff, error) {
	row := q.QueryRowContext(ctx, staffSelect+` WHERE id = ?`, id)
	st, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return st, err
}

func (s *Store) ListStaff(ctx context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return listStaff(ctx, s.db, projectID, false)
}
func (v *txView) ListStaff(ctx context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return listStaff(ctx, v.q, projectID, false)
}
func (s *Store) ListActiveStaff(ctx context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return listStaff(ctx, s.db, projectID, true)
}
func (v *txView) ListActiveStaff(ctx context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return listStaff(ctx, v.q, projectID, true)
}

func listStaff(ctx context.Context, q querier, projectID roster.ProjectID, activeOnly bool) ([]roster.Staff, error) {
	query := staffSelect + ` WHERE project_id = ?`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY display_order, created_at, id`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var result []roster.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}
	return result, rows.Err()
}

func scanStaff(r rowScanner) (*roster.Staff, error) {
	var st roster.Staff
	var weeklyOff sql.NullInt64
	var wage, createdAt string
	if err := r.Scan(&st.ID, &st.ProjectID, &st.Name, &st.Kind, &st.DefaultShift,
		&weeklyOff, &wage, &st.IsActive, &st.DisplayOrder, &createdAt); err != nil {
		return nil, err
	}
	if weeklyOff.Valid {
		d := time.Weekday(weeklyOff.Int64)
		st.WeeklyOffDay = &d
	}
	st.WagePerDay, _ = decimal.NewFromString(wage)
	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &st, nil
}

// weekdayValue maps the nullable weekly off day to its column value.
// Sunday is 0 and must round-trip as 0, never as NULL.
func weekdayValue(d *time.Weekday) any {
	if d == nil {
		return nil
	}
	return int(*d)
}

func (s *Store) UpdateStaffDefaults(ctx context.Context, id roster.StaffID, shift roster.ShiftCode, weeklyOff *time.Weekday) error {
	return updateStaffDefaults(ctx, s.db, id, shift, weeklyOff)
}
func (v *txView) UpdateStaffDefaults(ctx context.Context, id roster.StaffID, shift roster.ShiftCode, weeklyOff *time.Weekday) error {
	return updateStaffDefaults(ctx, v.q, id, shift, weeklyOff)
}

func updateStaffDefaults(ctx context.Context, q querier, id roster.StaffID, shift roster.ShiftCode, weeklyOff *time.Weekday) error {
	res, err := q.ExecContext(ctx,
		`UPDATE staff SET default_shift = ?, weekly_off_day = ? WHERE id = ?`,
		string(shift), weekdayValue(weeklyOff), id)
	if err != nil {
		return fmt.Errorf("failed to update staff defaults: %w", err)
	}
	return requireRow(res, roster.ErrStaffNotFound)
}

func (s *Store) UpdateStaffWage(ctx context.Context, id roster.StaffID, wage decimal.Decimal) error {
	return updateStaffWage(ctx, s.db, id, wage)
}
func (v *txView) UpdateStaffWage(ctx context.Context, id roster.StaffID, wage decimal.Decimal) error {
	return updateStaffWage(ctx, v.q, id, wage)
}

func updateStaffWage(ctx context.Context, q querier, id roster.StaffID, wage decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE staff SET wage_per_day = ? WHERE id = ?`, wage.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update staff wage: %w", err)
	}
	return requireRow(res, roster.ErrStaffNotFound)
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// =============================================================================
// SHIFT TYPES
// =============================================================================

func (s *Store) SaveShiftType(ctx context.Context, st roster.ShiftType) error {
	return saveShiftType(ctx, s.db, st)
}
func (v *txView) SaveShiftType(ctx context.Context, st roster.ShiftType) error {
	return saveShiftType(ctx, v.q, st)
}

func saveShiftType(ctx context.Context, q querier, st roster.ShiftType) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO shift_types (code, name, is_work_shift, is_system_default, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			is_work_shift = excluded.is_work_shift,
			is_system_default = excluded.is_system_default`,
		string(st.Code), st.Name, st.IsWorkShift, st.IsSystemDefault,
		st.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save shift type: %w", err)
	}
	return nil
}

func (s *Store) ListShiftTypes(ctx context.Context) ([]roster.ShiftType, error) {
	return listShiftTypes(ctx, s.db)
}
func (v *txView) ListShiftTypes(ctx context.Context) ([]roster.ShiftType, error) {
	return listShiftTypes(ctx, v.q)
}

func listShiftTypes(ctx context.Context, q querier) ([]roster.ShiftType, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT code, name, is_work_shift, is_system_default, created_at
		FROM shift_types ORDER BY created_at, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift types: %w", err)
	}
	defer rows.Close()

	var result []roster.ShiftType
	for rows.Next() {
		var st roster.ShiftType
		var createdAt string
		if err := rows.Scan(&st.Code, &st.Name, &st.IsWorkShift, &st.IsSystemDefault, &createdAt); err != nil {
			return nil, err
		}
		st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, st)
	}
	return result, rows.Err()
}

func (s *Store) DeleteShiftType(ctx context.Context, code roster.ShiftCode) error {
	return deleteShiftType(ctx, s.db, code)
}
func (v *txView) DeleteShiftType(ctx context.Context, code roster.ShiftCode) error {
	return deleteShiftType(ctx, v.q, code)
}

func deleteShiftType(ctx context.Context, q querier, code roster.ShiftCode) error {
	var protected bool
	err := q.QueryRowContext(ctx,
		`SELECT is_system_default FROM shift_types WHERE code = ?`, string(code)).Scan(&protected)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check shift type: %w", err)
	}
	if protected {
		return roster.ErrShiftTypeProtected
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM shift_types WHERE code = ?`, string(code)); err != nil {
		return fmt.Errorf("failed to delete shift type: %w", err)
	}
	return nil
}

// =============================================================================
// ROSTERS
// =============================================================================

func (s *Store) FindOrCreateRoster(ctx context.Context, projectID roster.ProjectID, year int, month time.Month) (*roster.Roster, error) {
	return findOrCreateRoster(ctx, s.db, projectID, year, month)
}
func (v *txView) FindOrCreateRoster(ctx context.Context, projectID roster.ProjectID, year int, month time.Month) (*roster.Roster, error) {
	return findOrCreateRoster(ctx, v.q, projectID, year, month)
}

func findOrCreateRoster(ctx context.Context, q querier, projectID roster.ProjectID, year int, month time.Month) (*roster.Roster, error) {
	id := roster.NewRosterID(projectID, year, month)

	// INSERT OR IGNORE + SELECT keeps creation idempotent under races:
	// the unique (project_id, year, month) key decides.
	_, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO rosters (id, project_id, year, month, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, projectID, year, int(month), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to create roster: %w", err)
	}

	return getRoster(ctx, q, id)
}

func (s *Store) GetRoster(ctx context.Context, id roster.RosterID) (*roster.Roster, error) {
	return getRoster(ctx, s.db, id)
}
func (v *txView) GetRoster(ctx context.Context, id roster.RosterID) (*roster.Roster, error) {
	return getRoster(ctx, v.q, id)
}

func getRoster(ctx context.Context, q querier, id roster.RosterID) (*roster.Roster, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, project_id, year, month, created_at FROM rosters WHERE id = ?`, id)
	r, err := scanRoster(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *Store) ListRostersBefore(ctx context.Context, projectID roster.ProjectID, year int, month time.Month) ([]roster.Roster, error) {
	return listRostersBefore(ctx, s.db, projectID, year, month)
}
func (v *txView) ListRostersBefore(ctx context.Context, projectID roster.ProjectID, year int, month time.Month) ([]roster.Roster, error) {
	return listRostersBefore(ctx, v.q, projectID, year, month)
}

func listRostersBefore(ctx context.Context, q querier, projectID roster.ProjectID, year int, month time.Month) ([]roster.Roster, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, year, month, created_at
		FROM rosters
		WHERE project_id = ? AND (year < ? OR (year = ? AND month < ?))
		ORDER BY year, month`,
		projectID, year, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	defer rows.Close()

	var result []roster.Roster
	for rows.Next() {
		r, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func scanRoster(r rowScanner) (*roster.Roster, error) {
	var ro roster.Roster
	var month int
	var createdAt string
	if err := r.Scan(&ro.ID, &ro.ProjectID, &ro.Year, &month, &createdAt); err != nil {
		return nil, err
	}
	ro.Month = time.Month(month)
	ro.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ro, nil
}

// =============================================================================
// ENTRIES
// =============================================================================

func (s *Store) ListEntries(ctx context.Context, rosterID roster.RosterID) ([]roster.RosterEntry, error) {
	return listEntries(ctx, s.db, rosterID, "")
}
func (v *txView) ListEntries(ctx context.Context, rosterID roster.RosterID) ([]roster.RosterEntry, error) {
	return listEntries(ctx, v.q, rosterID, "")
}
func (s *Store) ListEntriesForStaff(ctx context.Context, rosterID roster.RosterID, staffID roster.StaffID) ([]roster.RosterEntry, error) {
	return listEntries(ctx, s.db, rosterID, staffID)
}
func (v *txView) ListEntriesForStaff(ctx context.Context, rosterID roster.RosterID, staffID roster.StaffID) ([]roster.RosterEntry, error) {
	return listEntries(ctx, v.q, rosterID, staffID)
}

func listEntries(ctx context.Context, q querier, rosterID roster.RosterID, staffID roster.StaffID) ([]roster.RosterEntry, error) {
	query := `
		SELECT id, roster_id, staff_id, day, shift_code, notes, created_at, updated_at
		FROM roster_entries WHERE roster_id = ?`
	args := []any{rosterID}
	if staffID != "" {
		query += ` AND staff_id = ?`
		args = append(args, staffID)
	}
	query += ` ORDER BY staff_id, day`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var result []roster.RosterEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, id roster.EntryID) (*roster.RosterEntry, error) {
	return getEntry(ctx, s.db, id)
}
func (v *txView) GetEntry(ctx context.Context, id roster.EntryID) (*roster.RosterEntry, error) {
	return getEntry(ctx, v.q, id)
}

func getEntry(ctx context.Context, q querier, id roster.EntryID) (*roster.RosterEntry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, roster_id, staff_id, day, shift_code, notes, created_at, updated_at
		FROM roster_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func scanEntry(r rowScanner) (*roster.RosterEntry, error) {
	var e roster.RosterEntry
	var createdAt, updatedAt string
	if err := r.Scan(&e.ID, &e.RosterID, &e.StaffID, &e.Day, &e.ShiftCode,
		&e.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

func (s *Store) UpsertEntry(ctx context.Context, e roster.RosterEntry) (*roster.RosterEntry, error) {
	return upsertEntry(ctx, s.db, e)
}
func (v *txView) UpsertEntry(ctx context.Context, e roster.RosterEntry) (*roster.RosterEntry, error) {
	return upsertEntry(ctx, v.q, e)
}

func upsertEntry(ctx context.Context, q querier, e roster.RosterEntry) (*roster.RosterEntry, error) {
	e.ID = roster.NewEntryID(e.RosterID, e.StaffID, e.Day)
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := q.ExecContext(ctx, `
		INSERT INTO roster_entries
			(id, roster_id, staff_id, day, shift_code, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(roster_id, staff_id, day) DO UPDATE SET
			shift_code = excluded.shift_code,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		e.ID, e.RosterID, e.StaffID, e.Day, string(e.ShiftCode), e.Notes, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entry: %w", err)
	}

	return getEntry(ctx, q, e.ID)
}

func (s *Store) DeleteEntry(ctx context.Context, id roster.EntryID) error {
	return deleteEntry(ctx, s.db, id)
}
func (v *txView) DeleteEntry(ctx context.Context, id roster.EntryID) error {
	return deleteEntry(ctx, v.q, id)
}

func deleteEntry(ctx context.Context, q querier, id roster.EntryID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM roster_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return requireRow(res, roster.ErrEntryNotFound)
}

func (s *Store) DeleteEntries(ctx context.Context, rosterID roster.RosterID) error {
	return deleteEntries(ctx, s.db, rosterID)
}
func (v *txView) DeleteEntries(ctx context.Context, rosterID roster.RosterID) error {
	return deleteEntries(ctx, v.q, rosterID)
}

func deleteEntries(ctx context.Context, q querier, rosterID roster.RosterID) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM roster_entries WHERE roster_id = ?`, rosterID); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears every table. Used by demo scenario loading; never called in
// normal operation.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"roster_entries", "rosters", "staff", "shift_types", "projects"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
