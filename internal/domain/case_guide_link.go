package domain

import (
	"time"

	"github.com/google/uuid"
)

// LinkStatus enumerates the per-case usage states of a linked guide.
type LinkStatus string

const (
	LinkStatusAssigned  LinkStatus = "Assigned"
	LinkStatusInUse     LinkStatus = "In Use"
	LinkStatusCompleted LinkStatus = "Completed"
	LinkStatusSkipped   LinkStatus = "Skipped"
	LinkStatusRemoved   LinkStatus = "Removed"
)

// ActiveLinkStatuses are the states in which a linked guide contributes
// hints.
func ActiveLinkStatuses() []LinkStatus {
	return []LinkStatus{LinkStatusAssigned, LinkStatusInUse}
}

// CaseGuideLink is the many-to-many binding between a case and a guide,
// carrying per-case usage state.
type CaseGuideLink struct {
	ID                   uuid.UUID  `json:"id"`
	OnboardingCaseID     uuid.UUID  `json:"onboardingCaseId"`
	GuideID              uuid.UUID  `json:"guideId"`
	LinkedBy             uuid.UUID  `json:"linkedBy"`
	AssignmentDate       time.Time  `json:"assignmentDate"`
	AssignmentReason     string     `json:"assignmentReason,omitempty"`
	SpecificInstructions string     `json:"specificInstructions,omitempty"`
	Priority             Priority   `json:"priority"`
	Status               LinkStatus `json:"status"`
	StartedDate          *time.Time `json:"startedDate,omitempty"`
	CompletedDate        *time.Time `json:"completedDate,omitempty"`
	ViewCount            int        `json:"viewCount"`
	StepsCompleted       int        `json:"stepsCompleted"`
	TotalSteps           int        `json:"totalSteps"`
	TimeSpent            int        `json:"timeSpent"` // minutes
	UserRating           *int       `json:"userRating,omitempty"`
	UserFeedback         string     `json:"userFeedback,omitempty"`
	IsActive             bool       `json:"isActive"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
