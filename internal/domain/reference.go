package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a person acting in the system. Credentials and roles are issued
// by the external identity collaborator; this is the directory record only.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Client is the organization being onboarded.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WorkflowType categorizes cases and donates the prefix for generated case
// ids. Exactly one type is the system-wide default.
type WorkflowType struct {
	ID             uuid.UUID `json:"id"`
	WorkflowTypeID string    `json:"workflowTypeId"`
	Name           string    `json:"name"`
	Prefix         string    `json:"prefix"`
	Description    string    `json:"description,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsDefault      bool      `json:"isDefault"`
	TotalCases     int       `json:"totalCases"`
	ActiveCases    int       `json:"activeCases"`
	CreatedBy      uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Document tracks a file attached to a case or task. Storage of the file
// itself is external; only the tracking record lives here.
type Document struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	OnboardingCaseID uuid.UUID  `json:"onboardingCaseId,omitempty"`
	TaskID           uuid.UUID  `json:"taskId,omitempty"`
	UploadedBy       uuid.UUID  `json:"uploadedBy"`
	ContentType      string     `json:"contentType,omitempty"`
	SizeBytes        int64      `json:"sizeBytes,omitempty"`
	IsVital          bool       `json:"isVital"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
