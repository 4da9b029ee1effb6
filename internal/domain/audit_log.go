package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions. The action field is free-form in principle; these cover
// every action the services write.
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionView         = "VIEW"
	AuditActionStatusUpdate = "STATUS_UPDATE"
	AuditActionAssign       = "ASSIGN"
	AuditActionAssignTeam   = "ASSIGN_TEAM"
	AuditActionRemind       = "SEND_REMINDERS"
)

// RiskLevel classifies an audit entry for compliance review.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

// FieldChange records one field-level difference for UPDATE actions.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
}

// AuditLog is an append-only trail entry. Entries are never mutated except
// to mark them reviewed.
type AuditLog struct {
	ID              uuid.UUID     `json:"id"`
	LogID           string        `json:"logId"`
	Action          string        `json:"action"`
	EntityType      EntityType    `json:"entityType"`
	EntityID        string        `json:"entityId"`
	UserID          uuid.UUID     `json:"userId"`
	Changes         []FieldChange `json:"changes,omitempty"`
	Description     string        `json:"description,omitempty"`
	RiskLevel       RiskLevel     `json:"riskLevel"`
	ComplianceFlags []string      `json:"complianceFlags,omitempty"`
	IsReviewed      bool          `json:"isReviewed"`
	ReviewedBy      uuid.UUID     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewedAt,omitempty"`
	ReviewNotes     string        `json:"reviewNotes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// StatusChange builds the change list for a status transition entry.
func StatusChange(oldStatus, newStatus, comments string) []FieldChange {
	changes := []FieldChange{{Field: "status", OldValue: oldStatus, NewValue: newStatus}}
	if comments != "" {
		changes = append(changes, FieldChange{Field: "comments", NewValue: comments})
	}
	return changes
}
