package api

import (
	"net/http"
	"time"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := decodeBody(r, &u); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.IsActive = true
	u.CreatedAt = now
	u.UpdatedAt = now
	created, err := h.users.Create(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	users, total, err := h.users.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.User]{Items: users, TotalCount: total})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC()
	c.ID = uuid.New()
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now
	created, err := h.clients.Create(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	clients, total, err := h.clients.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Client]{Items: clients, TotalCount: total})
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) createWorkflowType(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var wt domain.WorkflowType
	if err := decodeBody(r, &wt); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC()
	wt.ID = uuid.New()
	wt.IsActive = true
	wt.IsDefault = false
	wt.TotalCases = 0
	wt.ActiveCases = 0
	wt.CreatedBy = actor
	wt.CreatedAt = now
	wt.UpdatedAt = now
	created, err := h.wfTypes.Create(r.Context(), wt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listWorkflowTypes(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	types, total, err := h.wfTypes.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.WorkflowType]{Items: types, TotalCount: total})
}

func (h *Handler) setDefaultWorkflowType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	wt, err := h.wfTypes.SetDefault(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wt)
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var d domain.Document
	if err := decodeBody(r, &d); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC()
	d.ID = uuid.New()
	d.UploadedBy = actor
	d.CreatedAt = now
	d.UpdatedAt = now
	created, err := h.documents.Create(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listCaseDocuments(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	documents, err := h.documents.ListByCase(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Document]{Items: documents, TotalCount: len(documents)})
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.documents.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
