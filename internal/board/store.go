// Package board holds the client-side mirror of the server's tasks and staff
// together with the pure functions that derive every rendered view from it.
//
// The Store is the single source of truth on the client. Only the
// interaction controller mutates it, and only with data returned by a
// successful API call. Renderers read Snapshots.
package board

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"eisenhower-board/internal/models"

	"go.uber.org/zap"
)

// Store is an explicit state container; construct one per page (or test).
type Store struct {
	mu           sync.RWMutex
	tasks        []models.Task
	staff        []models.Staff
	presentation models.Presentation
}

// NewStore returns an empty store with the default presentation tables.
func NewStore() *Store {
	return &Store{presentation: models.DefaultPresentation()}
}

// LoadPayload parses the embedded initial payload. A malformed payload
// leaves the store empty and is logged; it is never surfaced to the user.
func LoadPayload(raw []byte, log *zap.Logger) *Store {
	s := NewStore()
	if log == nil {
		log = zap.NewNop()
	}
	var payload models.BoardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("initial payload could not be parsed; starting empty", zap.Error(err))
		return s
	}
	s.tasks = slices.Clone(payload.Tasks)
	s.staff = slices.Clone(payload.Staff)
	if payload.QuadrantLabels != nil {
		s.presentation.QuadrantLabels = maps.Clone(payload.QuadrantLabels)
	}
	if payload.QuadrantFaces != nil {
		s.presentation.QuadrantFaces = maps.Clone(payload.QuadrantFaces)
	}
	if payload.StatusColors != nil {
		s.presentation.StatusColors = maps.Clone(payload.StatusColors)
	}
	return s
}

// Snapshot is a read-only view of the store at one point in time.
// Renderers must treat its slices and maps as immutable.
type Snapshot struct {
	Tasks        []models.Task
	Staff        []models.Staff
	Presentation models.Presentation
}

// Snapshot returns the current collections. The slices are replaced, never
// modified in place, by the mutators below, so sharing them is safe.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Tasks: s.tasks, Staff: s.staff, Presentation: s.presentation}
}

// Task looks up a task by id.
func (s *Store) Task(id int64) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// StaffMember looks up a staff member by id.
func (s *Store) StaffMember(id int64) (models.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.staff, func(m models.Staff) bool { return m.ID == id })
	if i < 0 {
		return models.Staff{}, false
	}
	return s.staff[i], true
}

// ReplaceTasks swaps in a whole new task collection.
func (s *Store) ReplaceTasks(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.Clone(tasks)
}

// AppendTask adds a task the server just created.
func (s *Store) AppendTask(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Task, 0, len(s.tasks)+1)
	s.tasks = append(append(next, s.tasks...), t)
}

// ReplaceTask replaces the element with t.ID. It reports false when no such
// task is mirrored.
func (s *Store) ReplaceTask(t models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.tasks, func(x models.Task) bool { return x.ID == t.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(s.tasks)
	next[i] = t
	s.tasks = next
	return true
}

// RemoveTask drops the task with id.
func (s *Store) RemoveTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.DeleteFunc(slices.Clone(s.tasks), func(t models.Task) bool { return t.ID == id })
	removed := len(next) != len(s.tasks)
	s.tasks = next
	return removed
}

// ReplaceStaff swaps in a whole new staff collection.
func (s *Store) ReplaceStaff(staff []models.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = slices.Clone(staff)
}

// AppendStaff adds a staff member the server just created.
func (s *Store) AppendStaff(m models.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Staff, 0, len(s.staff)+1)
	s.staff = append(append(next, s.staff...), m)
}

// ReplaceStaffMember replaces the element with m.ID.
func (s *Store) ReplaceStaffMember(m models.Staff) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.staff, func(x models.Staff) bool { return x.ID == m.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(s.staff)
	next[i] = m
	s.staff = next
	return true
}

// RemoveStaff drops the staff member with id. Tasks owned by it stay and
// render with a placeholder owner.
func (s *Store) RemoveStaff(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.DeleteFunc(slices.Clone(s.staff), func(m models.Staff) bool { return m.ID == id })
	removed := len(next) != len(s.staff)
	s.staff = next
	return removed
}
