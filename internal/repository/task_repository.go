package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
)

// TaskFilter describes the optional, conjunctive predicates applied by
// List. Nil fields are skipped; set fields must all hold simultaneously.
type TaskFilter struct {
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	Page        int
	PageSize    int
}

// DefaultPageSize is applied when a filter does not specify one.
const DefaultPageSize = 10

// TaskRepository defines task persistence operations. Every lookup is
// scoped to the owning user; a task owned by someone else behaves exactly
// like a task that does not exist.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id, userID uint) (bool, error)
	List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, error)
	ListByStatus(ctx context.Context, userID uint, status model.TaskStatus) ([]model.Task, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status model.TaskStatus) (int64, error)
	CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes the task if it exists and is owned by userID. Returns
// false, not an error, when there was nothing to delete.
func (r *taskRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List applies the conjunctive filter, orders by creation time descending
// and paginates with skip = (page-1)*pageSize.
func (r *taskRepository) List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("due_date <= ?", *filter.DueDateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var tasks []model.Task
	if err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListByStatus(ctx context.Context, userID uint, status model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) CountByUserAndStatus(ctx context.Context, userID uint, status model.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOverdue counts tasks due before now that are not completed.
func (r *taskRepository) CountOverdue(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date < ? AND status <> ?", userID, now, model.StatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
