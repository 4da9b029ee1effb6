package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityType discriminates the aggregate a stored record belongs to.
type EntityType string

const (
	EntityTypeCase          EntityType = "OnboardingCase"
	EntityTypeStage         EntityType = "Stage"
	EntityTypeTask          EntityType = "Task"
	EntityTypeDocument      EntityType = "Document"
	EntityTypeGuide         EntityType = "WorkflowGuide"
	EntityTypeGuideStep     EntityType = "GuideStep"
	EntityTypeCaseGuideLink EntityType = "CaseGuideLink"
	EntityTypeNotification  EntityType = "Notification"
	EntityTypeAuditLog      EntityType = "AuditLog"
	EntityTypeTemplate      EntityType = "Template"
	EntityTypeUser          EntityType = "User"
	EntityTypeClient        EntityType = "Client"
	EntityTypeWorkflowType  EntityType = "WorkflowType"
)

// Record is the raw persisted form of any entity: one JSONB document plus
// the columns the store indexes on.
type Record struct {
	ID         uuid.UUID       `json:"id"`
	EntityType EntityType      `json:"entityType"`
	Document   json.RawMessage `json:"document"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewRecord wraps an entity document for storage.
func NewRecord(id uuid.UUID, entityType EntityType, document json.RawMessage) Record {
	now := time.Now()
	return Record{
		ID:         id,
		EntityType: entityType,
		Document:   document,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Decode unmarshals the record document into a typed entity.
func (r Record) Decode(target any) error {
	return json.Unmarshal(r.Document, target)
}

// EncodeRecord marshals a typed entity into its stored record form.
func EncodeRecord(id uuid.UUID, entityType EntityType, entity any) (Record, error) {
	doc, err := json.Marshal(entity)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(id, entityType, doc), nil
}
