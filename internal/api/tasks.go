package api

import (
	"net/http"

	"github.com/caseflow/caseflow/internal/auth"
	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/workflow"

	"github.com/google/uuid"
)

func (h *Handler) createStages(w http.ResponseWriter, r *http.Request) {
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
		Stages []workflow.StageSpec `json:"stages"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.orchestrator.CreateStages(r.Context(), caseID, body.Stages, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) createStagesWithTasks(w http.ResponseWriter, r *http.Request) {
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
		Stages []workflow.StageSpec `json:"stages"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.orchestrator.CreateStagesWithTasks(r.Context(), caseID, body.Stages, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listCaseStages(w http.ResponseWriter, r *http.Request) {
	caseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	stages, err := h.stages.ListByCase(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Stage]{Items: stages, TotalCount: len(stages)})
}

func (h *Handler) getStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	stage, err := h.stages.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (h *Handler) saveStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	existing, err := h.stages.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var stage domain.Stage
	if err := decodeBody(r, &stage); err != nil {
		writeError(w, err)
		return
	}
	stage.ID = existing.ID
	stage.OnboardingCaseID = existing.OnboardingCaseID
	stage.Progress = domain.ClampProgress(stage.Progress)
	saved, err := h.stages.Save(r.Context(), stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.stages.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addTasksToStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := pathID(r, "id")
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
		Tasks []workflow.TaskSpec `json:"tasks"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.orchestrator.AddTasksToStage(r.Context(), stageID, body.Tasks, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listStageTasks(w http.ResponseWriter, r *http.Request) {
	stageID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	tasks, err := h.tasks.ListByStage(r.Context(), stageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Task]{Items: tasks, TotalCount: len(tasks)})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tasks, total, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Task]{Items: tasks, TotalCount: total})
}

func (h *Handler) myTasks(w http.ResponseWriter, r *http.Request) {
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
	view, err := h.orchestrator.MyTasks(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("populate") != "" {
		refs := append([]uuid.UUID{task.StageID, task.OnboardingCaseID, task.ChampionID}, task.AssignedTo...)
		writeJSON(w, http.StatusOK, populated[domain.Task]{
			Item:    task,
			Related: resolveRelated(r.Context(), refs),
		})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
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
		Status   domain.TaskStatus `json:"status"`
		Comments string            `json:"comments,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.orchestrator.UpdateTaskStatus(r.Context(), id, body.Status, actor, body.Comments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) assignTask(w http.ResponseWriter, r *http.Request) {
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
		AssigneeIDs []uuid.UUID `json:"assigneeIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.orchestrator.AssignTask(r.Context(), id, body.AssigneeIDs, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) addTaskComment(w http.ResponseWriter, r *http.Request) {
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
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.orchestrator.AddComment(r.Context(), id, body.Text, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
