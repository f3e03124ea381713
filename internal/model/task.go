package model

import (
	"fmt"
	"strconv"
	"time"
)

// TaskStatus enumerates the lifecycle states of a task.
// Values are serialized as integers for compatibility with existing clients.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

// TaskPriority enumerates task urgency levels.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var statusNames = map[string]TaskStatus{
	"Pending":    StatusPending,
	"InProgress": StatusInProgress,
	"Completed":  StatusCompleted,
	"Cancelled":  StatusCancelled,
}

var priorityNames = map[string]TaskPriority{
	"Low":      PriorityLow,
	"Medium":   PriorityMedium,
	"High":     PriorityHigh,
	"Critical": PriorityCritical,
}

// Valid reports whether the status is one of the defined enum values.
func (s TaskStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s TaskStatus) String() string {
	for name, v := range statusNames {
		if v == s {
			return name
		}
	}
	return strconv.Itoa(int(s))
}

// Valid reports whether the priority is one of the defined enum values.
func (p TaskPriority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

func (p TaskPriority) String() string {
	for name, v := range priorityNames {
		if v == p {
			return name
		}
	}
	return strconv.Itoa(int(p))
}

// ParseTaskStatus accepts either the numeric form ("2") or the name
// ("Completed"), mirroring how clients address the status route.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if v, ok := statusNames[s]; ok {
		return v, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !TaskStatus(n).Valid() {
		return 0, fmt.Errorf("invalid task status %q", s)
	}
	return TaskStatus(n), nil
}

// ParseTaskPriority accepts either the numeric form or the name.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if v, ok := priorityNames[s]; ok {
		return v, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !TaskPriority(n).Valid() {
		return 0, fmt.Errorf("invalid task priority %q", s)
	}
	return TaskPriority(n), nil
}

// Task represents a unit of work owned by exactly one user.
type Task struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"size:200;not null"`
	Description *string      `json:"description,omitempty" gorm:"size:1000"`
	// No gorm defaults here: a default tag makes GORM omit zero-valued
	// fields from the INSERT, which would rewrite an explicit Low
	// priority or Pending status. The service sets both before Create.
	Status      TaskStatus   `json:"status" gorm:"not null"`
	Priority    TaskPriority `json:"priority" gorm:"not null"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	UserID      uint         `json:"userId" gorm:"index;not null"`
}
