package repository

import (
	"context"
	"errors"

	"eisenhower-board/internal/models"
)

var (
	// ErrTaskNotFound is returned when a task id does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrStaffNotFound is returned when a staff id does not exist
	ErrStaffNotFound = errors.New("staff not found")
)

// Repository is the persistence contract shared by the JSON file store and
// the SQL store.
type Repository interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, task *models.Task) error
	MoveTask(ctx context.Context, id int64, quadrant int) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	ListStaff(ctx context.Context) ([]models.Staff, error)
	GetStaff(ctx context.Context, id int64) (*models.Staff, error)
	CreateStaff(ctx context.Context, staff *models.Staff) error
	UpdateStaff(ctx context.Context, staff *models.Staff) error
	DeleteStaff(ctx context.Context, id int64) error
}

// StaffMap indexes the staff list by id.
func StaffMap(staff []models.Staff) map[int64]models.Staff {
	m := make(map[int64]models.Staff, len(staff))
	for _, s := range staff {
		m[s.ID] = s
	}
	return m
}
