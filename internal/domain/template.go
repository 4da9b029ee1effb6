package domain

import (
	"time"

	"github.com/google/uuid"
)

// TemplateType names the aggregate a template instantiates.
type TemplateType string

const (
	TemplateTypeCase  TemplateType = "OnboardingCase"
	TemplateTypeStage TemplateType = "Stage"
	TemplateTypeTask  TemplateType = "Task"
	TemplateTypeGuide TemplateType = "WorkflowGuide"
)

// TemplateStatus enumerates a template's publication states.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "Draft"
	TemplateStatusPublished TemplateStatus = "Published"
	TemplateStatusArchived  TemplateStatus = "Archived"
)

// Template is a reusable, versioned blueprint for case/stage/task/guide
// creation, carrying usage statistics maintained as running averages.
type Template struct {
	ID                    uuid.UUID      `json:"id"`
	TemplateID            string         `json:"templateId"`
	Name                  string         `json:"name"`
	Description           string         `json:"description,omitempty"`
	Type                  TemplateType   `json:"type"`
	Status                TemplateStatus `json:"status"`
	Version               string         `json:"version"`
	IsDefault             bool           `json:"isDefault"`
	Content               map[string]any `json:"content,omitempty"`
	ParentTemplateID      uuid.UUID      `json:"parentTemplateId,omitempty"`
	UsageCount            int            `json:"usageCount"`
	SuccessRate           int            `json:"successRate"`           // percent
	AverageCompletionTime int            `json:"averageCompletionTime"` // days
	ApprovedBy            uuid.UUID      `json:"approvedBy,omitempty"`
	ApprovalDate          *time.Time     `json:"approvalDate,omitempty"`
	CreatedBy             uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}
