package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"eisenhower-board/internal/models"
)

// JSONStore keeps tasks and staff in two flat JSON files. Both collections
// are loaded once and every mutation rewrites the affected file.
type JSONStore struct {
	mu          sync.Mutex
	tasksPath   string
	staffPath   string
	tasks       []models.Task
	staff       []models.Staff
	nextTaskID  int64
	nextStaffID int64
}

// NewJSONStore opens (or initializes) the store under dir.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &JSONStore{
		tasksPath: filepath.Join(dir, "tasks.json"),
		staffPath: filepath.Join(dir, "staff.json"),
	}
	if err := loadJSON(s.tasksPath, &s.tasks); err != nil {
		return nil, err
	}
	if err := loadJSON(s.staffPath, &s.staff); err != nil {
		return nil, err
	}
	for _, t := range s.tasks {
		s.nextTaskID = max(s.nextTaskID, t.ID)
	}
	for _, st := range s.staff {
		s.nextStaffID = max(s.nextStaffID, st.ID)
	}
	s.nextTaskID++
	s.nextStaffID++
	return s, nil
}

func (s *JSONStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks), nil
}

func (s *JSONStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	t := cloneTask(s.tasks[i])
	return &t, nil
}

func (s *JSONStore) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextTaskID
	task.Owner = nil
	next := append(cloneTasks(s.tasks), cloneTask(*task))
	if err := writeJSON(s.tasksPath, next); err != nil {
		return err
	}
	s.tasks = next
	s.nextTaskID++
	return nil
}

func (s *JSONStore) UpdateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(task.ID)
	if i < 0 {
		return ErrTaskNotFound
	}
	next := cloneTasks(s.tasks)
	next[i] = cloneTask(*task)
	next[i].Owner = nil
	if err := writeJSON(s.tasksPath, next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *JSONStore) MoveTask(ctx context.Context, id int64, quadrant int) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	next := cloneTasks(s.tasks)
	next[i].Quadrant = quadrant
	if err := writeJSON(s.tasksPath, next); err != nil {
		return nil, err
	}
	s.tasks = next
	t := cloneTask(next[i])
	return &t, nil
}

func (s *JSONStore) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	next := slices.Delete(cloneTasks(s.tasks), i, i+1)
	if err := writeJSON(s.tasksPath, next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *JSONStore) ListStaff(ctx context.Context) ([]models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.staff), nil
}

func (s *JSONStore) GetStaff(ctx context.Context, id int64) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.staffIndex(id)
	if i < 0 {
		return nil, ErrStaffNotFound
	}
	st := s.staff[i]
	return &st, nil
}

func (s *JSONStore) CreateStaff(ctx context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staff.ID = s.nextStaffID
	next := append(slices.Clone(s.staff), *staff)
	if err := writeJSON(s.staffPath, next); err != nil {
		return err
	}
	s.staff = next
	s.nextStaffID++
	return nil
}

func (s *JSONStore) UpdateStaff(ctx context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.staffIndex(staff.ID)
	if i < 0 {
		return ErrStaffNotFound
	}
	next := slices.Clone(s.staff)
	next[i] = *staff
	if err := writeJSON(s.staffPath, next); err != nil {
		return err
	}
	s.staff = next
	return nil
}

func (s *JSONStore) DeleteStaff(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.staffIndex(id)
	if i < 0 {
		return ErrStaffNotFound
	}
	next := slices.Delete(slices.Clone(s.staff), i, i+1)
	if err := writeJSON(s.staffPath, next); err != nil {
		return err
	}
	s.staff = next
	return nil
}

func (s *JSONStore) taskIndex(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *JSONStore) staffIndex(id int64) int {
	return slices.IndexFunc(s.staff, func(st models.Staff) bool { return st.ID == id })
}

func loadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path atomically with the indented encoding of v.
func writeJSON(path string, v any) error {
	data, err := marshalIndent(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// marshalIndent encodes without escaping HTML so Japanese text and symbols
// stay readable in the data files.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	t.Owner = nil
	return t
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

var _ Repository = (*JSONStore)(nil)
