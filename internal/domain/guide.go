package domain

import (
	"time"

	"github.com/google/uuid"
)

// GuideStatus enumerates the publication states of a workflow guide.
type GuideStatus string

const (
	GuideStatusDraft      GuideStatus = "Draft"
	GuideStatusPublished  GuideStatus = "Published"
	GuideStatusArchived   GuideStatus = "Archived"
	GuideStatusDeprecated GuideStatus = "Deprecated"
)

// WorkflowGuide is a reusable set of instructional steps.
type WorkflowGuide struct {
	ID             uuid.UUID   `json:"id"`
	GuideID        string      `json:"guideId"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Category       string      `json:"category,omitempty"`
	Status         GuideStatus `json:"status"`
	IsActive       bool        `json:"isActive"`
	TargetRoles    []string    `json:"targetRoles,omitempty"`
	StepCount      int         `json:"stepCount"`
	UsageCount     int         `json:"usageCount"`
	AverageRating  float64     `json:"averageRating,omitempty"`
	FeedbackCount  int         `json:"feedbackCount,omitempty"`
	CreatedBy      uuid.UUID   `json:"createdBy"`
	LastModifiedBy uuid.UUID   `json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
