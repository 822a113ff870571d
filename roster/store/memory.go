// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	txMu       sync.Mutex // serializes WithTx blocks
	projects   map[roster.ProjectID]roster.Project
	staff      map[roster.StaffID]roster.Staff
	shiftTypes map[roster.ShiftCode]roster.ShiftType
	rosters    map[roster.RosterID]roster.Roster
	entries    map[roster.EntryID]roster.RosterEntry
}

func NewMemory() *Memory {
	return &Memory{
		projects:   make(map[roster.ProjectID]roster.Project),
		staff:      make(map[roster.StaffID]roster.Staff),
		shiftTypes: make(map[roster.ShiftCode]roster.ShiftType),
		rosters:    make(map[roster.RosterID]roster.Roster),
		entries:    make(map[roster.EntryID]roster.RosterEntry),
	}
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

func (m *Memory) SaveProject(_ context.Context, p roster.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id roster.ProjectID) (*roster.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]roster.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]roster.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// -----------------------------------------------------------------------------
// Staff
// -----------------------------------------------------------------------------

func (m *Memory) SaveStaff(_ context.Context, s roster.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.staff[s.ID] = s
	return nil
}

func (m *Memory) GetStaff(_ context.Context, id roster.StaffID) (*roster.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.staff[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *Memory) ListStaff(_ context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return m.listStaff(projectID, false)
}

func (m *Memory) ListActiveStaff(_ context.Context, projectID roster.ProjectID) ([]roster.Staff, error) {
	return m.listStaff(projectID, true)
}

func (m *Memory) listStaff(projectID roster.ProjectID, activeOnly bool) ([]roster.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.Staff
	for _, s := range m.staff {
		if s.ProjectID != projectID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) UpdateStaffDefaults(_ context.Context, id roster.StaffID, shift roster.ShiftCode, weeklyOff *time.Weekday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return roster.ErrStaffNotFound
	}
	s.DefaultShift = shift
	if weeklyOff != nil {
		d := *weeklyOff
		s.WeeklyOffDay = &d
	} else {
		s.WeeklyOffDay = nil
	}
	m.staff[id] = s
	return nil
}

func (m *Memory) UpdateStaffWage(_ context.Context, id roster.StaffID, wage decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return roster.ErrStaffNotFound
	}
	s.WagePerDay = wage
	m.staff[id] = s
	return nil
}

// -----------------------------------------------------------------------------
// Shift types
// -----------------------------------------------------------------------------

func (m *Memory) SaveShiftType(_ context.Context, st roster.ShiftType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	m.shiftTypes[st.Code] = st
	return nil
}

func (m *Memory) ListShiftTypes(_ context.Context) ([]roster.ShiftType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]roster.ShiftType, 0, len(m.shiftTypes))
	for _, st := range m.shiftTypes {
		result = append(result, st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *Memory) DeleteShiftType(_ context.Context, code roster.ShiftCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.shiftTypes[code]
	if !ok {
		return nil
	}
	if st.IsSystemDefault {
		return roster.ErrShiftTypeProtected
	}
	delete(m.shiftTypes, code)
	return nil
}

// -----------------------------------------------------------------------------
// Rosters
// -----------------------------------------------------------------------------

func (m *Memory) FindOrCreateRoster(_ context.Context, projectID roster.ProjectID, year int, month time.Month) (*roster.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := roster.NewRosterID(projectID, year, month)
	if r, ok := m.rosters[id]; ok {
		return &r, nil
	}
	r := roster.Roster{
		ID:        id,
		ProjectID: projectID,
		Year:      year,
		Month:     month,
		CreatedAt: time.Now().UTC(),
	}
	m.rosters[id] = r
	return &r, nil
}

func (m *Memory) GetRoster(_ context.Context, id roster.RosterID) (*roster.Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rosters[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *Memory) ListRostersBefore(_ context.Context, projectID roster.ProjectID, year int, month time.Month) ([]roster.Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.Roster
	for _, r := range m.rosters {
		if r.ProjectID != projectID {
			continue
		}
		if roster.MonthBefore(r.Year, r.Month, year, month) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return roster.MonthBefore(result[i].Year, result[i].Month, result[j].Year, result[j].Month)
	})
	return result, nil
}

// -----------------------------------------------------------------------------
// Entries
// -----------------------------------------------------------------------------

func (m *Memory) ListEntries(_ context.Context, rosterID roster.RosterID) ([]roster.RosterEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.RosterEntry
	for _, e := range m.entries {
		if e.RosterID == rosterID {
			result = append(result, e)
		}
	}
	sortEntries(result)
	return result, nil
}

func (m *Memory) ListEntriesForStaff(_ context.Context, rosterID roster.RosterID, staffID roster.StaffID) ([]roster.RosterEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.RosterEntry
	for _, e := range m.entries {
		if e.RosterID == rosterID && e.StaffID == staffID {
			result = append(result, e)
		}
	}
	sortEntries(result)
	return result, nil
}

func (m *Memory) GetEntry(_ context.Context, id roster.EntryID) (*roster.RosterEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) UpsertEntry(_ context.Context, e roster.RosterEntry) (*roster.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = roster.NewEntryID(e.RosterID, e.StaffID, e.Day)
	now := time.Now().UTC()
	if prev, ok := m.entries[e.ID]; ok {
		e.CreatedAt = prev.CreatedAt
	} else {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	m.entries[e.ID] = e
	return &e, nil
}

func (m *Memory) DeleteEntry(_ context.Context, id roster.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return roster.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) DeleteEntries(_ context.Context, rosterID roster.RosterID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.RosterID == rosterID {
			delete(m.entries, id)
		}
	}
	return nil
}

func sortEntries(entries []roster.RosterEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StaffID != entries[j].StaffID {
			return entries[i].StaffID < entries[j].StaffID
		}
		return entries[i].Day < entries[j].Day
	})
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn against the store. For the memory store the transaction
// is simulated: the state is snapshotted first and restored if fn fails.
// Transactions are serialized via txMu.
func (tm *TxMemory) WithTx(_ context.Context, fn func(roster.Store) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snapshot := tm.snapshot()
	if err := fn(tm.Memory); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	projects   map[roster.ProjectID]roster.Project
	staff      map[roster.StaffID]roster.Staff
	shiftTypes map[roster.ShiftCode]roster.ShiftType
	rosters    map[roster.RosterID]roster.Roster
	entries    map[roster.EntryID]roster.RosterEntry
}

func (tm *TxMemory) snapshot() memorySnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return memorySnapshot{
		projects:   copyMap(tm.projects),
		staff:      copyMap(tm.staff),
		shiftTypes: copyMap(tm.shiftTypes),
		rosters:    copyMap(tm.rosters),
		entries:    copyMap(tm.entries),
	}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.projects = s.projects
	tm.staff = s.staff
	tm.shiftTypes = s.shiftTypes
	tm.rosters = s.rosters
	tm.entries = s.entries
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Reset clears everything. Matches the sqlite store's maintenance surface so
// demo scenarios work against either backend.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = make(map[roster.ProjectID]roster.Project)
	m.staff = make(map[roster.StaffID]roster.Staff)
	m.shiftTypes = make(map[roster.ShiftCode]roster.ShiftType)
	m.rosters = make(map[roster.RosterID]roster.Roster)
	m.entries = make(map[roster.EntryID]roster.RosterEntry)
	return nil
}
