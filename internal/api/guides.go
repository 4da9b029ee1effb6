package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

func (h *Handler) createGuide(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var guide domain.WorkflowGuide
	if err := decodeBody(r, &guide); err != nil {
		writeError(w, err)
		return
	}
	if guide.Title == "" {
		writeError(w, domain.NewValidationError("title", "is required"))
		return
	}

	now := time.Now().UTC()
	guide.ID = uuid.New()
	guide.GuideID = fmt.Sprintf("GDE-%d-%04d", now.UnixMilli(), rand.Intn(10000))
	guide.Status = domain.GuideStatusDraft
	guide.IsActive = true
	guide.StepCount = 0
	guide.UsageCount = 0
	guide.CreatedBy = actor
	guide.CreatedAt = now
	guide.UpdatedAt = now

	created, err := h.guides.Create(r.Context(), guide)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listGuides(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	guides, total, err := h.guides.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.WorkflowGuide]{Items: guides, TotalCount: total})
}

func (h *Handler) getGuide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	guide, err := h.guides.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *Handler) saveGuide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	existing, err := h.guides.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var guide domain.WorkflowGuide
	if err := decodeBody(r, &guide); err != nil {
		writeError(w, err)
		return
	}
	guide.ID = existing.ID
	guide.GuideID = existing.GuideID
	guide.UpdatedAt = time.Now().UTC()
	saved, err := h.guides.Save(r.Context(), guide)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteGuide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.guides.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createGuideStep(w http.ResponseWriter, r *http.Request) {
	guideID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	guide, err := h.guides.GetByID(r.Context(), guideID)
	if err != nil {
		writeError(w, err)
		return
	}

	var step domain.GuideStep
	if err := decodeBody(r, &step); err != nil {
		writeError(w, err)
		return
	}
	if step.Title == "" {
		writeError(w, domain.NewValidationError("title", "is required"))
		return
	}

	now := time.Now().UTC()
	step.ID = uuid.New()
	step.StepID = fmt.Sprintf("STP-%d-%04d", now.UnixMilli(), rand.Intn(10000))
	step.GuideID = guide.ID
	step.IsActive = true
	step.ViewCount = 0
	step.HelpfulVotes = 0
	step.NotHelpfulVotes = 0
	step.ViewedBy = nil
	step.CreatedBy = actor
	step.CreatedAt = now
	step.UpdatedAt = now

	created, err := h.steps.Create(r.Context(), step)
	if err != nil {
		writeError(w, err)
		return
	}

	guide.StepCount++
	guide.UpdatedAt = now
	if _, err := h.guides.Save(r.Context(), guide); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listGuideSteps(w http.ResponseWriter, r *http.Request) {
	guideID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	steps, err := h.steps.ListActiveByGuide(r.Context(), guideID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.GuideStep]{Items: steps, TotalCount: len(steps)})
}

func (h *Handler) recordStepView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	step, err := h.hints.RecordView(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func (h *Handler) recordStepFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Helpful bool   `json:"helpful"`
		Comment string `json:"comment,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	step, err := h.hints.RecordFeedback(r.Context(), id, body.Helpful, body.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func (h *Handler) linkGuide(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		GuideID          uuid.UUID       `json:"guideId"`
		Priority         domain.Priority `json:"priority,omitempty"`
		AssignmentReason string          `json:"assignmentReason,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.cases.GetByID(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	guide, err := h.guides.GetByID(r.Context(), body.GuideID)
	if err != nil {
		writeError(w, err)
		return
	}
	steps, err := h.steps.ListActiveByGuide(r.Context(), guide.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	priority := body.Priority
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}
	now := time.Now().UTC()
	link := domain.CaseGuideLink{
		ID:               uuid.New(),
		OnboardingCaseID: c.ID,
		GuideID:          guide.ID,
		LinkedBy:         actor,
		AssignmentDate:   now,
		AssignmentReason: body.AssignmentReason,
		Priority:         priority,
		Status:           domain.LinkStatusAssigned,
		TotalSteps:       len(steps),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	created, err := h.links.Create(r.Context(), link)
	if err != nil {
		writeError(w, err)
		return
	}

	guide.UsageCount++
	guide.UpdatedAt = now
	if _, err := h.guides.Save(r.Context(), guide); err != nil {
		writeError(w, err)
		return
	}

	h.auditor.Record(r.Context(), audit.Entry{
		Action:      domain.AuditActionAssign,
		EntityType:  domain.EntityTypeCaseGuideLink,
		EntityID:    created.ID.String(),
		UserID:      actor,
		Description: fmt.Sprintf("Linked guide %s to case %s", guide.GuideID, c.CaseID),
	})
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) guideUsage(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	usage, err := h.hints.GuideUsageForCase(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (h *Handler) caseHintsSummary(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.hints.CaseHintsSummary(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) stageHints(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "caseId")
	if err != nil {
		writeError(w, err)
		return
	}
	stageID, err := pathID(r, "stageId")
	if err != nil {
		writeError(w, err)
		return
	}
	resolved, err := h.hints.ResolveStageHints(r.Context(), caseID, stageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (h *Handler) taskHints(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var caseID *uuid.UUID
	if raw := r.URL.Query().Get("caseId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, domain.NewValidationError("caseId", "invalid id"))
			return
		}
		caseID = &parsed
	}
	resolved, err := h.hints.ResolveTaskHints(r.Context(), caseID, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
