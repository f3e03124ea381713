package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/cache"
	apperrors "github.com/FabioRibeiro1904/Task-Manager-Api/internal/errors"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
)

const statsCacheTTL = 30 * time.Second

// StatsCache is the cache surface used for statistics snapshots.
// *cache.Client satisfies it; tests substitute an in-memory fake.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateTaskInput holds the fields a client may set on creation. Status is
// not among them: new tasks always start Pending.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    *model.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput is a partial patch. Nil fields leave the stored value
// untouched. A non-nil empty Title is also treated as "no change", while a
// non-nil empty Description is applied.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	DueDate     *time.Time
}

// TaskStatistics is a point-in-time aggregate over a user's tasks. It is
// not isolated from concurrent mutation.
type TaskStatistics struct {
	TotalTasks      int64   `json:"totalTasks"`
	CompletedTasks  int64   `json:"completedTasks"`
	PendingTasks    int64   `json:"pendingTasks"`
	InProgressTasks int64   `json:"inProgressTasks"`
	OverdueTasks    int64   `json:"overdueTasks"`
	CompletionRate  float64 `json:"completionRate"`
}

// TaskService handles task queries and mutations, always scoped to the
// requesting user.
type TaskService interface {
	ListTasks(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, error)
	ListByStatus(ctx context.Context, userID uint, status model.TaskStatus) ([]model.Task, error)
	GetTask(ctx context.Context, taskID, userID uint) (*model.Task, error)
	CreateTask(ctx context.Context, userID uint, input CreateTaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, taskID, userID uint, patch UpdateTaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uint) (bool, error)
	CompleteTask(ctx context.Context, taskID, userID uint) (*model.Task, error)
	Statistics(ctx context.Context, userID uint) (*TaskStatistics, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	cache    StatsCache
}

// Ensure the redis client satisfies the cache surface.
var _ StatsCache = (*cache.Client)(nil)

// NewTaskService creates a new task service. A nil cache disables
// statistics caching.
func NewTaskService(taskRepo repository.TaskRepository, cache StatsCache) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		cache:    cache,
	}
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// ListTasks returns the user's tasks matching all set filter predicates,
// most recently created first.
func (s *taskService) ListTasks(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.List(ctx, userID, filter)
}

// ListByStatus returns all of the user's tasks in the given status.
func (s *taskService) ListByStatus(ctx context.Context, userID uint, status model.TaskStatus) ([]model.Task, error) {
	return s.taskRepo.ListByStatus(ctx, userID, status)
}

// GetTask fetches a single owned task. Absence and foreign ownership are
// indistinguishable to the caller.
func (s *taskService) GetTask(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUser(ctx, taskID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// CreateTask persists a new task owned by userID. Status is forced to
// Pending regardless of client input.
func (s *taskService) CreateTask(ctx context.Context, userID uint, input CreateTaskInput) (*model.Task, error) {
	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
		DueDate:     input.DueDate,
		UserID:      userID,
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return task, nil
}

// UpdateTask applies a partial patch to an owned task. UpdatedAt is
// refreshed on every successful call, even when the patch is a no-op.
func (s *taskService) UpdateTask(ctx context.Context, taskID, userID uint, patch UpdateTaskInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUser(ctx, taskID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return task, nil
}

// DeleteTask removes an owned task, reporting false when there was no
// matching record.
func (s *taskService) DeleteTask(ctx context.Context, taskID, userID uint) (bool, error) {
	deleted, err := s.taskRepo.Delete(ctx, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	if deleted {
		s.invalidateStats(ctx, userID)
	}
	return deleted, nil
}

// CompleteTask marks an owned task Completed. Completing an already
// completed task succeeds and leaves it Completed.
func (s *taskService) CompleteTask(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	completed := model.StatusCompleted
	return s.UpdateTask(ctx, taskID, userID, UpdateTaskInput{Status: &completed})
}

// Statistics computes aggregate counts over the user's tasks, with a short
// redis-cached snapshot that mutations invalidate.
func (s *taskService) Statistics(ctx context.Context, userID uint) (*TaskStatistics, error) {
	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, statsCacheKey(userID)); data != nil {
			var cached TaskStatistics
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	total, err := s.taskRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	completed, err := s.taskRepo.CountByUserAndStatus(ctx, userID, model.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}
	pending, err := s.taskRepo.CountByUserAndStatus(ctx, userID, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending tasks: %w", err)
	}
	inProgress, err := s.taskRepo.CountByUserAndStatus(ctx, userID, model.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("count in-progress tasks: %w", err)
	}
	overdue, err := s.taskRepo.CountOverdue(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count overdue tasks: %w", err)
	}

	stats := &TaskStatistics{
		TotalTasks:      total,
		CompletedTasks:  completed,
		PendingTasks:    pending,
		InProgressTasks: inProgress,
		OverdueTasks:    overdue,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, statsCacheKey(userID), payload, statsCacheTTL)
		}
	}

	return stats, nil
}

func (s *taskService) invalidateStats(ctx context.Context, userID uint) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, statsCacheKey(userID))
	}
}
