/*
store.go - Persistence interfaces for the roster engine

PURPOSE:
  Defines the interface between domain logic and the database. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  Store:   Record persistence with the unique-key semantics the engine needs
  TxStore: Transactional operations (atomic multi-write paths)

UNIQUE-KEY SEMANTICS:
  - Roster: (project, year, month) unique; FindOrCreateRoster is idempotent.
  - RosterEntry: (roster, staff, day) unique; UpsertEntry is the only write.
    Concurrent upserts to the same cell are last-write-wins by design; the
    unique key makes the final state well-defined.

ATOMIC PATHS:
  Batch upsert, import replace, and default-change propagation run inside
  WithTx: either every write lands or none do.

IDENTIFIERS:
  Roster and entry IDs are derived from their unique keys, so an upsert
  always converges on the same row identity.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - roster/store/memory.go: In-memory for testing

SEE ALSO:
  - propagate.go: Multi-roster freeze inside WithTx
  - importer.go: Replace-month inside WithTx
*/
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE - Record persistence
// =============================================================================

// Store handles persistence of projects, staff, shift types, rosters and
// entries. Implementations must honor the unique-key semantics above.
type Store interface {
	// Projects
	SaveProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)

	// Staff
	SaveStaff(ctx context.Context, s Staff) error
	GetStaff(ctx context.Context, id StaffID) (*Staff, error)
	// ListStaff returns every staff record of a project, active or not.
	ListStaff(ctx context.Context, projectID ProjectID) ([]Staff, error)
	// ListActiveStaff returns only active staff, the matrix population.
	ListActiveStaff(ctx context.Context, projectID ProjectID) ([]Staff, error)
	// UpdateStaffDefaults rewrites only the default shift and weekly off day.
	UpdateStaffDefaults(ctx context.Context, id StaffID, shift ShiftCode, weeklyOff *time.Weekday) error
	// UpdateStaffWage rewrites only the daily wage.
	UpdateStaffWage(ctx context.Context, id StaffID, wage decimal.Decimal) error

	// Shift types
	SaveShiftType(ctx context.Context, st ShiftType) error
	ListShiftTypes(ctx context.Context) ([]ShiftType, error)
	// DeleteShiftType fails with ErrShiftTypeProtected for system defaults.
	DeleteShiftType(ctx context.Context, code ShiftCode) error

	// Rosters
	FindOrCreateRoster(ctx context.Context, projectID ProjectID, year int, month time.Month) (*Roster, error)
	GetRoster(ctx context.Context, id RosterID) (*Roster, error)
	// ListRostersBefore returns every roster of the project strictly earlier
	// than (year, month), oldest first.
	ListRostersBefore(ctx context.Context, projectID ProjectID, year int, month time.Month) ([]Roster, error)

	// Entries
	ListEntries(ctx context.Context, rosterID RosterID) ([]RosterEntry, error)
	ListEntriesForStaff(ctx context.Context, rosterID RosterID, staffID StaffID) ([]RosterEntry, error)
	GetEntry(ctx context.Context, id EntryID) (*RosterEntry, error)
	// UpsertEntry inserts or overwrites the (roster, staff, day) cell and
	// returns the persisted entry.
	UpsertEntry(ctx context.Context, e RosterEntry) (*RosterEntry, error)
	DeleteEntry(ctx context.Context, id EntryID) error
	// DeleteEntries removes every entry of a roster (import replace).
	DeleteEntries(ctx context.Context, rosterID RosterID) error
}

// TxStore wraps Store with transaction support. If fn returns an error the
// transaction is rolled back, otherwise committed.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// DERIVED IDENTIFIERS
// =============================================================================

// NewRosterID derives the roster identity from its unique key, keeping
// find-or-create idempotent across store implementations.
func NewRosterID(projectID ProjectID, year int, month time.Month) RosterID {
	return RosterID(fmt.Sprintf("%s@%04d-%02d", projectID, year, int(month)))
}

// NewEntryID derives the entry identity from its unique key, so upserts
// always converge on one row.
func NewEntryID(rosterID RosterID, staffID StaffID, day int) EntryID {
	return EntryID(fmt.Sprintf("%s#%s#%02d", rosterID, staffID, day))
}
