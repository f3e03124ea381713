package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
)

// Demo seeds the two demo users and three demo tasks the frontend expects.
// It is idempotent: nothing is written when users already exist.
func Demo(ctx context.Context, userRepo repository.UserRepository, taskRepo repository.TaskRepository) error {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	users := []struct {
		name     string
		email    string
		password string
	}{
		{"Admin User", "admin@taskmanager.com", "admin123"},
		{"John Doe", "john@example.com", "password123"},
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		user := &model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		ids = append(ids, user.ID)
	}

	now := time.Now()
	due := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}
	str := func(s string) *string { return &s }

	tasks := []model.Task{
		{
			Title:       "Implement JWT authentication",
			Description: str("Build the authentication flow using JWT tokens"),
			Status:      model.StatusInProgress,
			Priority:    model.PriorityHigh,
			DueDate:     due(7),
			UserID:      ids[0],
		},
		{
			Title:       "Write API documentation",
			Description: str("Document every endpoint of the API using Swagger"),
			Status:      model.StatusPending,
			Priority:    model.PriorityMedium,
			DueDate:     due(14),
			UserID:      ids[0],
		},
		{
			Title:       "Set up CI/CD",
			Description: str("Configure the continuous integration pipeline"),
			Status:      model.StatusPending,
			Priority:    model.PriorityLow,
			DueDate:     due(21),
			UserID:      ids[1],
		},
	}
	for i := range tasks {
		if err := taskRepo.Create(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("seed task %q: %w", tasks[i].Title, err)
		}
	}

	return nil
}
