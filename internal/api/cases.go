package api

import (
	"fmt"
	"net/http"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/workflow"

	"github.com/google/uuid"
)

func (h *Handler) createCase(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req workflow.CreateCaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.CreatedBy = actor

	created, err := h.orchestrator.CreateCase(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cases, total, err := h.cases.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.OnboardingCase]{Items: cases, TotalCount: total})
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.cases.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("populate") != "" {
		refs := append([]uuid.UUID{c.ClientID, c.WorkflowTypeID, c.AssignedChampion, c.CreatedBy}, c.AssignedTeam...)
		writeJSON(w, http.StatusOK, populated[domain.OnboardingCase]{
			Item:    c,
			Related: resolveRelated(r.Context(), refs),
		})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) patchCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var patch map[string]any
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if len(patch) == 0 {
		writeError(w, domain.NewValidationError("body", "patch must not be empty"))
		return
	}
	updated, err := h.cases.Patch(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.cases.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateCaseStatus(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		Status   domain.CaseStatus `json:"status"`
		Comments string            `json:"comments,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.orchestrator.UpdateCaseStatus(r.Context(), id, body.Status, actor, body.Comments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) assignTeam(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		MemberIDs []uuid.UUID `json:"memberIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.orchestrator.AssignTeam(r.Context(), id, body.MemberIDs, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) progressReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.orchestrator.GetProgressReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) sendReminders(w http.ResponseWriter, r *http.Request) {
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
	sent, err := h.orchestrator.SendReminders(r.Context(), id, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remindersSent": sent})
}

func (h *Handler) caseDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	dashboard, err := h.orchestrator.GetDashboard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) exportCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "case-"+id.String()+".xlsx"))
	if err := h.export.WriteProgressWorkbook(r.Context(), id, w); err != nil {
		// Headers may already be out; log-and-abort is all that is left.
		writeError(w, err)
	}
}
