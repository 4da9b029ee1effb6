package api

import (
	"net/http"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	notifications, total, err := h.notify.ListForRecipient(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Notification]{Items: notifications, TotalCount: total})
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.notify.MarkRead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) dismissNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.notify.Dismiss(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// processScheduled is the endpoint the external batch sweep hits
// periodically; there is no in-process scheduler.
func (h *Handler) processScheduled(w http.ResponseWriter, r *http.Request) {
	sent, err := h.notify.ProcessScheduled(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"dispatched": sent})
}

func (h *Handler) checkOverdueTasks(w http.ResponseWriter, r *http.Request) {
	notified, err := h.notify.CheckOverdueTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"notified": notified})
}
