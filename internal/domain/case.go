package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus enumerates the lifecycle values of an onboarding case.
// Transitions between values are unrestricted.
type CaseStatus string

const (
	CaseStatusNotStarted CaseStatus = "Not Started"
	CaseStatusPlanning   CaseStatus = "Planning"
	CaseStatusInProgress CaseStatus = "In Progress"
	CaseStatusOnHold     CaseStatus = "On Hold"
	CaseStatusCompleted  CaseStatus = "Completed"
	CaseStatusCancelled  CaseStatus = "Cancelled"
)

// Valid reports whether the status is one of the enumerated values.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusNotStarted, CaseStatusPlanning, CaseStatusInProgress,
		CaseStatusOnHold, CaseStatusCompleted, CaseStatusCancelled:
		return true
	}
	return false
}

// OnboardingCase is the root workflow unit for one client engagement.
type OnboardingCase struct {
	ID                     uuid.UUID   `json:"id"`
	CaseID                 string      `json:"caseId"`
	ClientID               uuid.UUID   `json:"clientId"`
	WorkflowTypeID         uuid.UUID   `json:"workflowTypeId"`
	StartDate              time.Time   `json:"startDate"`
	ExpectedCompletionDate *time.Time  `json:"expectedCompletionDate,omitempty"`
	ActualCompletionDate   *time.Time  `json:"actualCompletionDate,omitempty"`
	AssignedChampion       uuid.UUID   `json:"assignedChampion"`
	AssignedTeam           []uuid.UUID `json:"assignedTeam"`
	Status                 CaseStatus  `json:"status"`
	Progress               int         `json:"progress"`
	Priority               Priority    `json:"priority"`
	LinkedGuides           []uuid.UUID `json:"linkedGuides"`
	Notes                  string      `json:"notes,omitempty"`
	Tags                   []string    `json:"tags,omitempty"`
	IsActive               bool        `json:"isActive"`
	CreatedBy              uuid.UUID   `json:"createdBy"`
	LastModifiedBy         uuid.UUID   `json:"lastModifiedBy,omitempty"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// ClampProgress bounds a progress percentage to [0,100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// IsOverdue reports whether the case has passed its expected completion
// date without being completed or cancelled.
func (c OnboardingCase) IsOverdue(now time.Time) bool {
	if c.ExpectedCompletionDate == nil {
		return false
	}
	if c.Status == CaseStatusCompleted || c.Status == CaseStatusCancelled {
		return false
	}
	return c.ExpectedCompletionDate.Before(now)
}

// HasTeamMember reports whether the given user is in the assigned team.
func (c OnboardingCase) HasTeamMember(userID uuid.UUID) bool {
	for _, member := range c.AssignedTeam {
		if member == userID {
			return true
		}
	}
	return false
}

// WithTeamMembers returns a copy of the case with the given members merged
// into the assigned team. The team is a set; existing members are not
// duplicated.
func (c OnboardingCase) WithTeamMembers(memberIDs []uuid.UUID) OnboardingCase {
	team := make([]uuid.UUID, len(c.AssignedTeam), len(c.AssignedTeam)+len(memberIDs))
	copy(team, c.AssignedTeam)
	for _, id := range memberIDs {
		exists := false
		for _, member := range team {
			if member == id {
				exists = true
				break
			}
		}
		if !exists {
			team = append(team, id)
		}
	}
	c.AssignedTeam = team
	c.UpdatedAt = time.Now()
	return c
}

// Stakeholders returns the case creator, every assigned-team member and the
// client contact, excluding the given actor and without duplicates.
func (c OnboardingCase) Stakeholders(excluding uuid.UUID) []uuid.UUID {
	candidates := make([]uuid.UUID, 0, len(c.AssignedTeam)+2)
	candidates = append(candidates, c.CreatedBy)
	candidates = append(candidates, c.AssignedTeam...)
	candidates = append(candidates, c.ClientID)

	seen := make(map[uuid.UUID]struct{}, len(candidates))
	recipients := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		if id == uuid.Nil || id == excluding {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	return recipients
}
