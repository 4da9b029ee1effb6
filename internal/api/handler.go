package api

import (
	"net/http"

	"github.com/caseflow/caseflow/internal/analytics"
	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/export"
	"github.com/caseflow/caseflow/internal/hints"
	"github.com/caseflow/caseflow/internal/notify"
	"github.com/caseflow/caseflow/internal/repository"
	"github.com/caseflow/caseflow/internal/templates"
	"github.com/caseflow/caseflow/internal/workflow"
)

// Handler wires the REST surface onto the services and repositories.
type Handler struct {
	cases     repository.CaseRepository
	stages    repository.StageRepository
	tasks     repository.TaskRepository
	guides    repository.GuideRepository
	steps     repository.GuideStepRepository
	links     repository.CaseGuideLinkRepository
	users     repository.UserRepository
	clients   repository.ClientRepository
	wfTypes   repository.WorkflowTypeRepository
	documents repository.DocumentRepository

	orchestrator *workflow.Service
	hints        *hints.Service
	notify       *notify.Service
	templates    *templates.Service
	analytics    *analytics.Service
	export       *export.Service
	auditor      *audit.Recorder
}

// Deps bundles everything the handler needs.
type Deps struct {
	Cases     repository.CaseRepository
	Stages    repository.StageRepository
	Tasks     repository.TaskRepository
	Guides    repository.GuideRepository
	Steps     repository.GuideStepRepository
	Links     repository.CaseGuideLinkRepository
	Users     repository.UserRepository
	Clients   repository.ClientRepository
	WfTypes   repository.WorkflowTypeRepository
	Documents repository.DocumentRepository

	Orchestrator *workflow.Service
	Hints        *hints.Service
	Notify       *notify.Service
	Templates    *templates.Service
	Analytics    *analytics.Service
	Export       *export.Service
	Auditor      *audit.Recorder
}

// NewHandler creates the REST handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		cases:        deps.Cases,
		stages:       deps.Stages,
		tasks:        deps.Tasks,
		guides:       deps.Guides,
		steps:        deps.Steps,
		links:        deps.Links,
		users:        deps.Users,
		clients:      deps.Clients,
		wfTypes:      deps.WfTypes,
		documents:    deps.Documents,
		orchestrator: deps.Orchestrator,
		hints:        deps.Hints,
		notify:       deps.Notify,
		templates:    deps.Templates,
		analytics:    deps.Analytics,
		export:       deps.Export,
		auditor:      deps.Auditor,
	}
}

// Routes builds the route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Cases and the workflow operations hanging off them.
	mux.HandleFunc("POST /api/cases", h.createCase)
	mux.HandleFunc("GET /api/cases", h.listCases)
	mux.HandleFunc("GET /api/cases/{id}", h.getCase)
	mux.HandleFunc("PATCH /api/cases/{id}", h.patchCase)
	mux.HandleFunc("DELETE /api/cases/{id}", h.deleteCase)
	mux.HandleFunc("PATCH /api/cases/{id}/status", h.updateCaseStatus)
	mux.HandleFunc("POST /api/cases/{id}/team", h.assignTeam)
	mux.HandleFunc("GET /api/cases/{id}/progress", h.progressReport)
	mux.HandleFunc("POST /api/cases/{id}/reminders", h.sendReminders)
	mux.HandleFunc("GET /api/cases/{id}/dashboard", h.caseDashboard)
	mux.HandleFunc("GET /api/cases/{id}/export", h.exportCase)

	// Stages and tasks.
	mux.HandleFunc("POST /api/cases/{id}/stages", h.createStages)
	mux.HandleFunc("POST /api/cases/{id}/stages/with-tasks", h.createStagesWithTasks)
	mux.HandleFunc("GET /api/cases/{id}/stages", h.listCaseStages)
	mux.HandleFunc("GET /api/stages/{id}", h.getStage)
	mux.HandleFunc("PUT /api/stages/{id}", h.saveStage)
	mux.HandleFunc("DELETE /api/stages/{id}", h.deleteStage)
	mux.HandleFunc("POST /api/stages/{id}/tasks", h.addTasksToStage)
	mux.HandleFunc("GET /api/stages/{id}/tasks", h.listStageTasks)

	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("GET /api/tasks/my", h.myTasks)
	mux.HandleFunc("GET /api/tasks/{id}", h.getTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)
	mux.HandleFunc("PATCH /api/tasks/{id}/status", h.updateTaskStatus)
	mux.HandleFunc("POST /api/tasks/{id}/assign", h.assignTask)
	mux.HandleFunc("POST /api/tasks/{id}/comments", h.addTaskComment)
	mux.HandleFunc("GET /api/tasks/{id}/hints", h.taskHints)

	// Guides, steps and the hint surface.
	mux.HandleFunc("POST /api/guides", h.createGuide)
	mux.HandleFunc("GET /api/guides", h.listGuides)
	mux.HandleFunc("GET /api/guides/{id}", h.getGuide)
	mux.HandleFunc("PUT /api/guides/{id}", h.saveGuide)
	mux.HandleFunc("DELETE /api/guides/{id}", h.deleteGuide)
	mux.HandleFunc("POST /api/guides/{id}/steps", h.createGuideStep)
	mux.HandleFunc("GET /api/guides/{id}/steps", h.listGuideSteps)
	mux.HandleFunc("POST /api/steps/{id}/view", h.recordStepView)
	mux.HandleFunc("POST /api/steps/{id}/feedback", h.recordStepFeedback)

	mux.HandleFunc("POST /api/cases/{id}/guides", h.linkGuide)
	mux.HandleFunc("GET /api/cases/{id}/guides", h.guideUsage)
	mux.HandleFunc("GET /api/cases/{id}/hints/summary", h.caseHintsSummary)
	mux.HandleFunc("GET /api/cases/{caseId}/stages/{stageId}/hints", h.stageHints)

	// Notifications.
	mux.HandleFunc("GET /api/notifications", h.listNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", h.markNotificationRead)
	mux.HandleFunc("POST /api/notifications/{id}/dismiss", h.dismissNotification)
	mux.HandleFunc("POST /api/notifications/process-scheduled", h.processScheduled)
	mux.HandleFunc("POST /api/notifications/check-overdue", h.checkOverdueTasks)

	// Templates.
	mux.HandleFunc("POST /api/templates", h.createTemplate)
	mux.HandleFunc("GET /api/templates", h.listTemplates)
	mux.HandleFunc("GET /api/templates/recommendations", h.templateRecommendations)
	mux.HandleFunc("GET /api/templates/{id}", h.getTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", h.deleteTemplate)
	mux.HandleFunc("POST /api/templates/{id}/clone", h.cloneTemplate)
	mux.HandleFunc("POST /api/templates/{id}/publish", h.publishTemplate)
	mux.HandleFunc("POST /api/templates/{id}/default", h.setDefaultTemplate)
	mux.HandleFunc("POST /api/templates/{id}/usage", h.updateTemplateUsage)

	// Directory.
	mux.HandleFunc("POST /api/users", h.createUser)
	mux.HandleFunc("GET /api/users", h.listUsers)
	mux.HandleFunc("GET /api/users/{id}", h.getUser)
	mux.HandleFunc("POST /api/clients", h.createClient)
	mux.HandleFunc("GET /api/clients", h.listClients)
	mux.HandleFunc("GET /api/clients/{id}", h.getClient)
	mux.HandleFunc("POST /api/workflow-types", h.createWorkflowType)
	mux.HandleFunc("GET /api/workflow-types", h.listWorkflowTypes)
	mux.HandleFunc("POST /api/workflow-types/{id}/default", h.setDefaultWorkflowType)
	mux.HandleFunc("POST /api/documents", h.createDocument)
	mux.HandleFunc("GET /api/cases/{id}/documents", h.listCaseDocuments)
	mux.HandleFunc("DELETE /api/documents/{id}", h.deleteDocument)

	// Audit and analytics.
	mux.HandleFunc("GET /api/audit-logs", h.listAuditLogs)
	mux.HandleFunc("POST /api/audit-logs/{id}/review", h.reviewAuditLog)
	mux.HandleFunc("GET /api/analytics/cases", h.caseAnalytics)
	mux.HandleFunc("GET /api/analytics/tasks", h.taskAnalytics)

	return mux
}
