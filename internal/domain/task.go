package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates the lifecycle values of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusOnHold     TaskStatus = "On Hold"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// TaskComment is one entry in a task's ordered comment list.
type TaskComment struct {
	Text      string    `json:"text"`
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is a unit of work within a stage.
type Task struct {
	ID               uuid.UUID     `json:"id"`
	TaskID           string        `json:"taskId"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	ChampionID       uuid.UUID     `json:"championId,omitempty"`
	AssignedTo       []uuid.UUID   `json:"assignedTo,omitempty"`
	StageID          uuid.UUID     `json:"stageId"`
	OnboardingCaseID uuid.UUID     `json:"onboardingCaseId"`
	Status           TaskStatus    `json:"status"`
	Priority         Priority      `json:"priority"`
	Sequence         int           `json:"sequence"`
	DueDate          *time.Time    `json:"dueDate,omitempty"`
	StartDate        *time.Time    `json:"startDate,omitempty"`
	CompletedDate    *time.Time    `json:"completedDate,omitempty"`
	EstimatedHours   float64       `json:"estimatedHours,omitempty"`
	ActualDuration   float64       `json:"actualDuration,omitempty"` // hours
	Progress         int           `json:"progress"`
	Comments         []TaskComment `json:"comments,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	IsRequired       bool          `json:"isRequired"`
	IsBlocking       bool          `json:"isBlocking,omitempty"`
	Dependencies     []uuid.UUID   `json:"dependencies,omitempty"`
	Tags             []string      `json:"tags,omitempty"`
	ReminderSent     bool          `json:"reminderSent,omitempty"`
	CreatedBy        uuid.UUID     `json:"createdBy,omitempty"`
	LastModifiedBy   uuid.UUID     `json:"lastModifiedBy,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// IsAssignedTo reports whether the given user is in the task's assignee
// set.
func (t Task) IsAssignedTo(userID uuid.UUID) bool {
	for _, assignee := range t.AssignedTo {
		if assignee == userID {
			return true
		}
	}
	return false
}

// IsOpen reports whether the task is still actionable (not started or in
// progress).
func (t Task) IsOpen() bool {
	return t.Status == TaskStatusNotStarted || t.Status == TaskStatusInProgress
}

// IsOverdue reports whether the task is open with a due date in the past.
func (t Task) IsOverdue(now time.Time) bool {
	return t.IsOpen() && t.DueDate != nil && t.DueDate.Before(now)
}

// WithComment returns a copy of the task with a comment appended.
func (t Task) WithComment(text string, userID uuid.UUID, at time.Time) Task {
	comments := make([]TaskComment, len(t.Comments), len(t.Comments)+1)
	copy(comments, t.Comments)
	t.Comments = append(comments, TaskComment{Text: text, UserID: userID, Timestamp: at})
	t.UpdatedAt = at
	return t
}
