package repository

import (
	"context"
	"errors"

	"eisenhower-board/internal/models"

	"gorm.io/gorm"
)

// GormStore persists the board in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListTasks returns every task in insertion order
func (r *GormStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a task by its ID
func (r *GormStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// CreateTask inserts a task and fills in its ID
func (r *GormStore) CreateTask(ctx context.Context, task *models.Task) error {
	task.ID = 0
	return r.db.WithContext(ctx).Create(task).Error
}

// UpdateTask saves every column of an existing task
func (r *GormStore) UpdateTask(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", task.ID).
		Select("*").
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// MoveTask changes only the quadrant column
func (r *GormStore) MoveTask(ctx context.Context, id int64, quadrant int) (*models.Task, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("quadrant", quadrant)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.GetTask(ctx, id)
}

// DeleteTask removes a task by its ID
func (r *GormStore) DeleteTask(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *GormStore) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).Order("id").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *GormStore) GetStaff(ctx context.Context, id int64) (*models.Staff, error) {
	var staff models.Staff
	result := r.db.WithContext(ctx).First(&staff, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, result.Error
	}
	return &staff, nil
}

func (r *GormStore) CreateStaff(ctx context.Context, staff *models.Staff) error {
	staff.ID = 0
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *GormStore) UpdateStaff(ctx context.Context, staff *models.Staff) error {
	result := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("id = ?", staff.ID).
		Select("*").
		Updates(staff)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *GormStore) DeleteStaff(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Staff{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

var _ Repository = (*GormStore)(nil)
