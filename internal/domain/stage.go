package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageStatus enumerates the lifecycle values of a stage.
type StageStatus string

const (
	StageStatusNotStarted StageStatus = "Not Started"
	StageStatusInProgress StageStatus = "In Progress"
	StageStatusCompleted  StageStatus = "Completed"
	StageStatusOnHold     StageStatus = "On Hold"
)

// Stage is an ordered phase within a case. Sequence is the unique ordering
// key within the owning case.
type Stage struct {
	ID                uuid.UUID   `json:"id"`
	StageID           string      `json:"stageId"`
	Name              string      `json:"name"`
	Sequence          int         `json:"sequence"`
	Description       string      `json:"description,omitempty"`
	OnboardingCaseID  uuid.UUID   `json:"onboardingCaseId"`
	ChampionID        uuid.UUID   `json:"championId,omitempty"`
	AssignedTo        []uuid.UUID `json:"assignedTo,omitempty"`
	Status            StageStatus `json:"status"`
	StartDate         *time.Time  `json:"startDate,omitempty"`
	DueDate           *time.Time  `json:"dueDate,omitempty"`
	CompletedDate     *time.Time  `json:"completedDate,omitempty"`
	EstimatedDuration float64     `json:"estimatedDuration,omitempty"` // days
	ActualDuration    float64     `json:"actualDuration,omitempty"`    // days
	Progress          int         `json:"progress"`
	IsRequired        bool        `json:"isRequired"`
	IsParallel        bool        `json:"isParallel,omitempty"`
	Dependencies      []uuid.UUID `json:"dependencies,omitempty"`
	Notes             string      `json:"notes,omitempty"`
	CreatedBy         uuid.UUID   `json:"createdBy,omitempty"`
	LastModifiedBy    uuid.UUID   `json:"lastModifiedBy,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// DurationOrDefault returns the stage's actual duration if recorded, the
// estimate otherwise, or fallback days when neither is set.
func (s Stage) DurationOrDefault(fallback float64) float64 {
	if s.ActualDuration > 0 {
		return s.ActualDuration
	}
	if s.EstimatedDuration > 0 {
		return s.EstimatedDuration
	}
	return fallback
}
