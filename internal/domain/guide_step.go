package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReferenceType discriminates what a guide step points at.
type ReferenceType string

const (
	ReferenceTypeStage   ReferenceType = "Stage"
	ReferenceTypeTask    ReferenceType = "Task"
	ReferenceTypeGeneral ReferenceType = "General"
)

// StepReference is the tagged union {Stage(id) | Task(id) | General}. The
// id is only meaningful when the kind is Stage or Task.
type StepReference struct {
	kind ReferenceType
	id   uuid.UUID
}

// StageReference builds a reference to a stage.
func StageReference(stageID uuid.UUID) StepReference {
	return StepReference{kind: ReferenceTypeStage, id: stageID}
}

// TaskReference builds a reference to a task.
func TaskReference(taskID uuid.UUID) StepReference {
	return StepReference{kind: ReferenceTypeTask, id: taskID}
}

// GeneralReference builds a reference that applies everywhere.
func GeneralReference() StepReference {
	return StepReference{kind: ReferenceTypeGeneral}
}

// NewStepReference builds a reference from the wire discriminator pair. A
// missing id downgrades Stage/Task references to General.
func NewStepReference(kind ReferenceType, refID *uuid.UUID) StepReference {
	switch kind {
	case ReferenceTypeStage, ReferenceTypeTask:
		if refID == nil || *refID == uuid.Nil {
			return GeneralReference()
		}
		return StepReference{kind: kind, id: *refID}
	default:
		return GeneralReference()
	}
}

// Kind returns the reference discriminator.
func (r StepReference) Kind() ReferenceType {
	if r.kind == "" {
		return ReferenceTypeGeneral
	}
	return r.kind
}

// RefID returns the referenced stage or task id; ok is false for General
// references.
func (r StepReference) RefID() (uuid.UUID, bool) {
	if r.Kind() == ReferenceTypeGeneral {
		return uuid.Nil, false
	}
	return r.id, true
}

// IsGeneral reports whether the reference applies everywhere.
func (r StepReference) IsGeneral() bool { return r.Kind() == ReferenceTypeGeneral }

// MatchesStage reports whether the reference points at the given stage.
func (r StepReference) MatchesStage(stageID uuid.UUID) bool {
	return r.Kind() == ReferenceTypeStage && r.id == stageID
}

// MatchesTask reports whether the reference points at the given task.
func (r StepReference) MatchesTask(taskID uuid.UUID) bool {
	return r.Kind() == ReferenceTypeTask && r.id == taskID
}

// SpecificityRank orders references by how targeted they are:
// Task(0) < Stage(1) < General(2).
func (r StepReference) SpecificityRank() int {
	switch r.Kind() {
	case ReferenceTypeTask:
		return 0
	case ReferenceTypeStage:
		return 1
	default:
		return 2
	}
}

// HintType classifies how a hint is rendered.
type HintType string

const (
	HintTypeTip       HintType = "tip"
	HintTypeWarning   HintType = "warning"
	HintTypeChecklist HintType = "checklist"
	HintTypeTutorial  HintType = "tutorial"
	HintTypeInfo      HintType = "info"
	HintTypeError     HintType = "error"
	HintTypeSuccess   HintType = "success"
)

// GuideStep is one instructional step of a guide, surfaced contextually as
// a hint while working a stage or task.
type GuideStep struct {
	ID              uuid.UUID
	StepID          string
	GuideID         uuid.UUID
	Ref             StepReference
	Sequence        int
	Title           string
	Content         string
	HintType        HintType
	IsRequired      bool
	IsActive        bool
	ViewCount       int
	HelpfulVotes    int
	NotHelpfulVotes int
	ViewedBy        []uuid.UUID
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// guideStepJSON is the wire form; the tagged reference union flattens back
// into the referenceType + stageOrTaskRef field pair.
type guideStepJSON struct {
	ID              uuid.UUID     `json:"id"`
	StepID          string        `json:"stepId"`
	GuideID         uuid.UUID     `json:"guideId"`
	ReferenceType   ReferenceType `json:"referenceType"`
	StageOrTaskRef  *uuid.UUID    `json:"stageOrTaskRef,omitempty"`
	Sequence        int           `json:"sequence"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	HintType        HintType      `json:"hintType"`
	IsRequired      bool          `json:"isRequired"`
	IsActive        bool          `json:"isActive"`
	ViewCount       int           `json:"viewCount"`
	HelpfulVotes    int           `json:"helpfulVotes"`
	NotHelpfulVotes int           `json:"notHelpfulVotes"`
	ViewedBy        []uuid.UUID   `json:"viewedBy,omitempty"`
	CreatedBy       uuid.UUID     `json:"createdBy,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler.
func (s GuideStep) MarshalJSON() ([]byte, error) {
	wire := guideStepJSON{
		ID:              s.ID,
		StepID:          s.StepID,
		GuideID:         s.GuideID,
		ReferenceType:   s.Ref.Kind(),
		Sequence:        s.Sequence,
		Title:           s.Title,
		Content:         s.Content,
		HintType:        s.HintType,
		IsRequired:      s.IsRequired,
		IsActive:        s.IsActive,
		ViewCount:       s.ViewCount,
		HelpfulVotes:    s.HelpfulVotes,
		NotHelpfulVotes: s.NotHelpfulVotes,
		ViewedBy:        s.ViewedBy,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if refID, ok := s.Ref.RefID(); ok {
		wire.StageOrTaskRef = &refID
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *GuideStep) UnmarshalJSON(data []byte) error {
	var wire guideStepJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = GuideStep{
		ID:              wire.ID,
		StepID:          wire.StepID,
		GuideID:         wire.GuideID,
		Ref:             NewStepReference(wire.ReferenceType, wire.StageOrTaskRef),
		Sequence:        wire.Sequence,
		Title:           wire.Title,
		Content:         wire.Content,
		HintType:        wire.HintType,
		IsRequired:      wire.IsRequired,
		IsActive:        wire.IsActive,
		ViewCount:       wire.ViewCount,
		HelpfulVotes:    wire.HelpfulVotes,
		NotHelpfulVotes: wire.NotHelpfulVotes,
		ViewedBy:        wire.ViewedBy,
		CreatedBy:       wire.CreatedBy,
		CreatedAt:       wire.CreatedAt,
		UpdatedAt:       wire.UpdatedAt,
	}
	return nil
}

// MarkViewed increments the view counter and adds the user to the viewer
// set. The counter increments on every call; the set is de-duplicated, so
// the two can diverge.
func (s *GuideStep) MarkViewed(userID uuid.UUID, at time.Time) {
	s.ViewCount++
	for _, viewer := range s.ViewedBy {
		if viewer == userID {
			s.UpdatedAt = at
			return
		}
	}
	s.ViewedBy = append(s.ViewedBy, userID)
	s.UpdatedAt = at
}

// RecordVote increments exactly one of the feedback counters.
func (s *GuideStep) RecordVote(helpful bool, at time.Time) {
	if helpful {
		s.HelpfulVotes++
	} else {
		s.NotHelpfulVotes++
	}
	s.UpdatedAt = at
}

// Rating is the step's net feedback score.
func (s GuideStep) Rating() int {
	return s.HelpfulVotes - s.NotHelpfulVotes
}
