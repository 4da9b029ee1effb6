package api

import (
	"net/http"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"
)

func (h *Handler) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(filter.Sort) == 0 {
		filter = filter.WithSort("created_at", domain.SortDirectionDesc)
	}
	entries, total, err := h.auditor.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.AuditLog]{Items: entries, TotalCount: total})
}

func (h *Handler) reviewAuditLog(w http.ResponseWriter, r *http.Request) {
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
		Notes string `json:"notes,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.auditor.MarkReviewed(r.Context(), id, actor, body.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) caseAnalytics(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.analytics.CaseSummary(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) taskAnalytics(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.analytics.TaskSummary(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
