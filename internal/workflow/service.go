package workflow

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

const defaultStageDurationDays = 5

// Service orchestrates case and task mutations: status transitions,
// team and task assignment, bulk stage/task creation, reminders and
// derived progress views. Every successful mutation cascades audit and
// notification side effects post-commit, best effort.
type Service struct {
	cases   repository.CaseRepository
	stages  repository.StageRepository
	tasks   repository.TaskRepository
	wfTypes DefaultWorkflowTypeProvider
	auditor Auditor
	notify  Notifier
	now     func() time.Time
	randInt func(n int) int
}

// Option configures the workflow service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRand overrides the random source used for generated ids.
func WithRand(randInt func(n int) int) Option {
	return func(s *Service) {
		s.randInt = randInt
	}
}

// NewService creates a workflow orchestrator.
func NewService(
	cases repository.CaseRepository,
	stages repository.StageRepository,
	tasks repository.TaskRepository,
	wfTypes DefaultWorkflowTypeProvider,
	auditor Auditor,
	notify Notifier,
	opts ...Option,
) *Service {
	s := &Service{
		cases:   cases,
		stages:  stages,
		tasks:   tasks,
		wfTypes: wfTypes,
		auditor: auditor,
		notify:  notify,
		now:     time.Now,
		randInt: rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newBusinessID builds a collision-resistant human-readable id like
// ONB-1724800000000-4821. Batch members get a trailing index.
func (s *Service) newBusinessID(prefix string, index int) string {
	id := fmt.Sprintf("%s-%d-%04d", prefix, s.now().UnixMilli(), s.randInt(10000))
	if index >= 0 {
		id = fmt.Sprintf("%s-%d", id, index)
	}
	return id
}

// notifyEach sends one notification per recipient, independently best
// effort.
func (s *Service) notifyEach(ctx context.Context, recipients []uuid.UUID, spec domain.NotificationSpec) {
	for _, recipient := range recipients {
		spec.RecipientID = recipient
		if _, err := s.notify.Create(ctx, spec); err != nil {
			log.Printf("[WORKFLOW] notification to %s failed: %v", recipient, err)
		}
	}
}

// CreateCaseRequest is the input for creating an onboarding case.
type CreateCaseRequest struct {
	ClientID         uuid.UUID       `json:"clientId"`
	WorkflowTypeID   uuid.UUID       `json:"workflowTypeId,omitempty"`
	AssignedChampion uuid.UUID       `json:"assignedChampion,omitempty"`
	AssignedTeam     []uuid.UUID     `json:"assignedTeam,omitempty"`
	Priority         domain.Priority `json:"priority,omitempty"`
	StartDate        *time.Time      `json:"startDate,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	CreatedBy        uuid.UUID       `json:"createdBy"`
}

// CreateCase creates a case with a generated human-readable id. When no
// workflow type is supplied, the system default donates the id prefix.
func (s *Service) CreateCase(ctx context.Context, req CreateCaseRequest) (domain.OnboardingCase, error) {
	if req.ClientID == uuid.Nil {
		return domain.OnboardingCase{}, domain.NewValidationError("clientId", "is required")
	}

	wfTypeID := req.WorkflowTypeID
	prefix := "ONB"
	if wfType, err := s.wfTypes.GetDefault(ctx); err == nil {
		if wfTypeID == uuid.Nil {
			wfTypeID = wfType.ID
		}
		if wfTypeID == wfType.ID && wfType.Prefix != "" {
			prefix = wfType.Prefix
		}
	} else if wfTypeID == uuid.Nil {
		return domain.OnboardingCase{}, fmt.Errorf("failed to resolve default workflow type: %w", err)
	}

	now := s.now().UTC()
	startDate := now
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}
	priority := req.Priority
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}

	c := domain.OnboardingCase{
		ID:               uuid.New(),
		CaseID:           s.newBusinessID(prefix, -1),
		ClientID:         req.ClientID,
		WorkflowTypeID:   wfTypeID,
		StartDate:        startDate,
		AssignedChampion: req.AssignedChampion,
		AssignedTeam:     req.AssignedTeam,
		Status:           domain.CaseStatusNotStarted,
		Priority:         priority,
		Notes:            req.Notes,
		Tags:             req.Tags,
		IsActive:         true,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.cases.Create(ctx, c)
	if err != nil {
		return domain.OnboardingCase{}, err
	}

	runHooks(ctx, []hook{
		{name: "audit-case-create", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionCreate,
				EntityType:  domain.EntityTypeCase,
				EntityID:    created.CaseID,
				UserID:      req.CreatedBy,
				Description: fmt.Sprintf("Created onboarding case %s", created.CaseID),
			})
		}},
		{name: "notify-case-create", run: func(ctx context.Context) {
			s.notifyEach(ctx, created.Stakeholders(req.CreatedBy), domain.NotificationSpec{
				Title:             "New onboarding case",
				Message:           fmt.Sprintf("Case %s was created", created.CaseID),
				Type:              domain.NotificationTypeSystem,
				Priority:          created.Priority,
				RelatedEntityType: domain.EntityTypeCase,
				RelatedEntityID:   created.ID,
			})
		}},
	})
	return created, nil
}

// UpdateCaseStatus moves a case to the given status. Transitions are
// unrestricted; the only enforced behavior is stamping the completion
// date on transition to Completed. Leaving Completed does not clear it.
func (s *Service) UpdateCaseStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus, actor uuid.UUID, comments string) (domain.OnboardingCase, error) {
	if !status.Valid() {
		return domain.OnboardingCase{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return domain.OnboardingCase{}, err
	}

	now := s.now().UTC()
	oldStatus := c.Status
	c.Status = status
	if status == domain.CaseStatusCompleted {
		c.ActualCompletionDate = &now
		c.Progress = 100
	}
	c.LastModifiedBy = actor
	c.UpdatedAt = now

	saved, err := s.cases.Save(ctx, c)
	if err != nil {
		return domain.OnboardingCase{}, err
	}

	notifType := domain.NotificationTypeStatusUpdate
	if status == domain.CaseStatusCompleted {
		notifType = domain.NotificationTypeCaseCompleted
	}
	runHooks(ctx, []hook{
		{name: "audit-case-status", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionStatusUpdate,
				EntityType:  domain.EntityTypeCase,
				EntityID:    saved.CaseID,
				UserID:      actor,
				Changes:     domain.StatusChange(string(oldStatus), string(status), comments),
				Description: fmt.Sprintf("Case %s moved from %s to %s", saved.CaseID, oldStatus, status),
			})
		}},
		{name: "notify-case-status", run: func(ctx context.Context) {
			s.notifyEach(ctx, saved.Stakeholders(actor), domain.NotificationSpec{
				Title:             "Case status updated",
				Message:           fmt.Sprintf("Case %s is now %s", saved.CaseID, status),
				Type:              notifType,
				Priority:          saved.Priority,
				RelatedEntityType: domain.EntityTypeCase,
				RelatedEntityID:   saved.ID,
			})
		}},
	})
	return saved, nil
}

// UpdateTaskStatus moves a task to the given status. When the task has
// assignees, only an assignee may update it. Completion stamps the
// completed date; leaving Completed does not clear it.
func (s *Service) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status domain.TaskStatus, actor uuid.UUID, comments string) (domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if len(task.AssignedTo) > 0 && !task.IsAssignedTo(actor) {
		return domain.Task{}, domain.NewForbiddenError("only an assignee may update this task")
	}

	now := s.now().UTC()
	oldStatus := task.Status
	task.Status = status
	if status == domain.TaskStatusCompleted {
		task.CompletedDate = &now
		task.Progress = 100
	}
	if status == domain.TaskStatusInProgress && task.StartDate == nil {
		task.StartDate = &now
	}
	task.LastModifiedBy = actor
	task.UpdatedAt = now

	saved, err := s.tasks.Save(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	runHooks(ctx, []hook{
		{name: "audit-task-status", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionStatusUpdate,
				EntityType:  domain.EntityTypeTask,
				EntityID:    saved.TaskID,
				UserID:      actor,
				Changes:     domain.StatusChange(string(oldStatus), string(status), comments),
				Description: fmt.Sprintf("Task %s moved from %s to %s", saved.TaskID, oldStatus, status),
			})
		}},
		{name: "notify-task-status", run: func(ctx context.Context) {
			recipients := make([]uuid.UUID, 0, len(saved.AssignedTo))
			for _, assignee := range saved.AssignedTo {
				if assignee != actor {
					recipients = append(recipients, assignee)
				}
			}
			s.notifyEach(ctx, recipients, domain.NotificationSpec{
				Title:             "Task status updated",
				Message:           fmt.Sprintf("Task %q is now %s", saved.Name, status),
				Type:              domain.NotificationTypeStatusUpdate,
				Priority:          saved.Priority,
				RelatedEntityType: domain.EntityTypeTask,
				RelatedEntityID:   saved.ID,
			})
		}},
	})
	return saved, nil
}

// AssignTeam merges members into the case's team set. The union is
// idempotent; the per-member notification is sent on every call whether
// or not the member was already listed.
func (s *Service) AssignTeam(ctx context.Context, caseID uuid.UUID, memberIDs []uuid.UUID, assignedBy uuid.UUID) (domain.OnboardingCase, error) {
	if len(memberIDs) == 0 {
		return domain.OnboardingCase{}, domain.NewValidationError("memberIds", "must not be empty")
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return domain.OnboardingCase{}, err
	}

	c = c.WithTeamMembers(memberIDs)
	c.LastModifiedBy = assignedBy
	saved, err := s.cases.Save(ctx, c)
	if err != nil {
		return domain.OnboardingCase{}, err
	}

	runHooks(ctx, []hook{
		{name: "audit-assign-team", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionAssignTeam,
				EntityType:  domain.EntityTypeCase,
				EntityID:    saved.CaseID,
				UserID:      assignedBy,
				Description: fmt.Sprintf("Assigned %d member(s) to case %s", len(memberIDs), saved.CaseID),
			})
		}},
		{name: "notify-assign-team", run: func(ctx context.Context) {
			s.notifyEach(ctx, memberIDs, domain.NotificationSpec{
				Title:             "Added to case team",
				Message:           fmt.Sprintf("You were assigned to case %s", saved.CaseID),
				Type:              domain.NotificationTypeTaskAssigned,
				Priority:          saved.Priority,
				RelatedEntityType: domain.EntityTypeCase,
				RelatedEntityID:   saved.ID,
			})
		}},
	})
	return saved, nil
}

// AssignTask merges assignees into the task's assignee set and notifies
// each listed assignee.
func (s *Service) AssignTask(ctx context.Context, taskID uuid.UUID, assigneeIDs []uuid.UUID, assignedBy uuid.UUID) (domain.Task, error) {
	if len(assigneeIDs) == 0 {
		return domain.Task{}, domain.NewValidationError("assigneeIds", "must not be empty")
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	for _, id := range assigneeIDs {
		if !task.IsAssignedTo(id) {
			task.AssignedTo = append(task.AssignedTo, id)
		}
	}
	task.LastModifiedBy = assignedBy
	task.UpdatedAt = s.now().UTC()

	saved, err := s.tasks.Save(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	runHooks(ctx, []hook{
		{name: "audit-assign-task", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionAssign,
				EntityType:  domain.EntityTypeTask,
				EntityID:    saved.TaskID,
				UserID:      assignedBy,
				Description: fmt.Sprintf("Assigned %d user(s) to task %s", len(assigneeIDs), saved.TaskID),
			})
		}},
		{name: "notify-assign-task", run: func(ctx context.Context) {
			s.notifyEach(ctx, assigneeIDs, domain.NotificationSpec{
				Title:             "Task assigned",
				Message:           fmt.Sprintf("You were assigned task %q", saved.Name),
				Type:              domain.NotificationTypeTaskAssigned,
				Priority:          saved.Priority,
				RelatedEntityType: domain.EntityTypeTask,
				RelatedEntityID:   saved.ID,
			})
		}},
	})
	return saved, nil
}

// AddComment appends a comment to the task's ordered comment list.
func (s *Service) AddComment(ctx context.Context, taskID uuid.UUID, text string, userID uuid.UUID) (domain.Task, error) {
	if text == "" {
		return domain.Task{}, domain.NewValidationError("text", "is required")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task = task.WithComment(text, userID, s.now().UTC())
	return s.tasks.Save(ctx, task)
}

// ProgressReport is the derived progress view of one case.
type ProgressReport struct {
	CaseID                 uuid.UUID  `json:"caseId"`
	TotalStages            int        `json:"totalStages"`
	CompletedStages        int        `json:"completedStages"`
	StageCompletion        int        `json:"stageCompletion"`
	TotalTasks             int        `json:"totalTasks"`
	CompletedTasks         int        `json:"completedTasks"`
	TaskCompletion         int        `json:"taskCompletion"`
	EstimatedRemainingDays float64    `json:"estimatedRemainingDays"`
	ExpectedCompletionDate *time.Time `json:"expectedCompletionDate,omitempty"`
}

// GetProgressReport computes completion percentages and the estimated
// remaining effort for one case. Empty denominators yield zero, never an
// error.
func (s *Service) GetProgressReport(ctx context.Context, caseID uuid.UUID) (ProgressReport, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return ProgressReport{}, err
	}

	stages, err := s.stages.ListByCase(ctx, c.ID)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("failed to list stages: %w", err)
	}
	tasks, err := s.tasks.ListByCase(ctx, c.ID)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	report := ProgressReport{
		CaseID:      c.ID,
		TotalStages: len(stages),
		TotalTasks:  len(tasks),
	}
	durationSum := 0.0
	for _, stage := range stages {
		if stage.Status == domain.StageStatusCompleted {
			report.CompletedStages++
		}
		durationSum += stage.DurationOrDefault(defaultStageDurationDays)
	}
	for _, task := range tasks {
		if task.Status == domain.TaskStatusCompleted {
			report.CompletedTasks++
		}
	}
	if report.TotalStages > 0 {
		report.StageCompletion = int(math.Round(float64(report.CompletedStages) / float64(report.TotalStages) * 100))
		avgDuration := durationSum / float64(report.TotalStages)
		report.EstimatedRemainingDays = float64(report.TotalStages-report.CompletedStages) * avgDuration
	}
	if report.TotalTasks > 0 {
		report.TaskCompletion = int(math.Round(float64(report.CompletedTasks) / float64(report.TotalTasks) * 100))
	}

	expected := s.now().UTC().Add(time.Duration(report.EstimatedRemainingDays * 24 * float64(time.Hour)))
	report.ExpectedCompletionDate = &expected
	return report, nil
}

// SendReminders notifies the assignees of every open task past its due
// date and writes exactly one summary audit entry, overdue or not.
func (s *Service) SendReminders(ctx context.Context, caseID uuid.UUID, requestedBy uuid.UUID) (int, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return 0, err
	}

	overdue, err := s.tasks.ListOverdueByCase(ctx, c.ID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	remindersSent := 0
	for _, task := range overdue {
		if len(task.AssignedTo) == 0 {
			continue
		}
		s.notifyEach(ctx, task.AssignedTo, domain.NotificationSpec{
			Title:             "Task reminder",
			Message:           fmt.Sprintf("Task %q on case %s is overdue", task.Name, c.CaseID),
			Type:              domain.NotificationTypeReminder,
			Priority:          domain.PriorityHigh,
			RelatedEntityType: domain.EntityTypeTask,
			RelatedEntityID:   task.ID,
		})
		remindersSent++
	}

	runHooks(ctx, []hook{
		{name: "audit-reminders", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionRemind,
				EntityType:  domain.EntityTypeCase,
				EntityID:    c.CaseID,
				UserID:      requestedBy,
				Description: fmt.Sprintf("Sent %d reminder(s) for case %s", remindersSent, c.CaseID),
			})
		}},
	})
	return remindersSent, nil
}

// StageSpec is one stage in a bulk-creation request.
type StageSpec struct {
	Name              string      `json:"name"`
	Description       string      `json:"description,omitempty"`
	EstimatedDuration float64     `json:"estimatedDuration,omitempty"`
	IsRequired        bool        `json:"isRequired,omitempty"`
	AssignedTo        []uuid.UUID `json:"assignedTo,omitempty"`
	Tasks             []TaskSpec  `json:"tasks,omitempty"`
}

// TaskSpec is one task in a bulk-creation request.
type TaskSpec struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	AssignedTo     []uuid.UUID     `json:"assignedTo,omitempty"`
	Priority       domain.Priority `json:"priority,omitempty"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	EstimatedHours float64         `json:"estimatedHours,omitempty"`
	IsRequired     bool            `json:"isRequired,omitempty"`
}

// CreateStages bulk-creates stages on a case. Sequence numbers continue
// from the case's current maximum in input order; the insert is
// all-or-nothing.
func (s *Service) CreateStages(ctx context.Context, caseID uuid.UUID, specs []StageSpec, createdBy uuid.UUID) ([]domain.Stage, error) {
	if len(specs) == 0 {
		return nil, domain.NewValidationError("stages", "must not be empty")
	}
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	maxSeq, err := s.stages.MaxSequence(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stage sequence: %w", err)
	}

	now := s.now().UTC()
	stages := make([]domain.Stage, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, domain.NewValidationError("stages", fmt.Sprintf("stage %d is missing a name", i))
		}
		stages[i] = domain.Stage{
			ID:                uuid.New(),
			StageID:           s.newBusinessID("STG", i),
			Name:              spec.Name,
			Sequence:          maxSeq + i + 1,
			Description:       spec.Description,
			OnboardingCaseID:  c.ID,
			AssignedTo:        spec.AssignedTo,
			Status:            domain.StageStatusNotStarted,
			EstimatedDuration: spec.EstimatedDuration,
			IsRequired:        spec.IsRequired,
			CreatedBy:         createdBy,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}

	created, err := s.stages.CreateBatch(ctx, stages)
	if err != nil {
		return nil, err
	}

	runHooks(ctx, []hook{
		{name: "audit-stages-create", run: func(ctx context.Context) {
			s.auditor.Record(ctx, audit.Entry{
				Action:      domain.AuditActionCreate,
				EntityType:  domain.EntityTypeStage,
				EntityID:    c.CaseID,
				UserID:      createdBy,
				Description: fmt.Sprintf("Created %d stage(s) on case %s", len(created), c.CaseID),
			})
		}},
	})
	return created, nil
}

// StageWithTasks pairs a created stage with its created tasks.
type StageWithTasks struct {
	Stage domain.Stage  `json:"stage"`
	Tasks []domain.Task `json:"tasks"`
}

// CreateStagesWithTasks bulk-creates stages and their nested tasks. Each
// batch insert is all-or-nothing; per-created-task notifications are
// independently best effort.
func (s *Service) CreateStagesWithTasks(ctx context.Context, caseID uuid.UUID, specs []StageSpec, createdBy uuid.UUID) ([]StageWithTasks, error) {
	stages, err := s.CreateStages(ctx, caseID, specs, createdBy)
	if err != nil {
		return nil, err
	}

	result := make([]StageWithTasks, len(stages))
	for i, stage := range stages {
		result[i] = StageWithTasks{Stage: stage, Tasks: []domain.Task{}}
		if len(specs[i].Tasks) == 0 {
			continue
		}
		tasks, err := s.createTasks(ctx, stage, specs[i].Tasks, 0, createdBy)
		if err != nil {
			return nil, err
		}
		result[i].Tasks = tasks
	}
	return result, nil
}

// AddTasksToStage bulk-creates tasks on an existing stage, continuing the
// stage's sequence numbering.
func (s *Service) AddTasksToStage(ctx context.Context, stageID uuid.UUID, specs []TaskSpec, createdBy uuid.UUID) ([]domain.Task, error) {
	if len(specs) == 0 {
		return nil, domain.NewValidationError("tasks", "must not be empty")
	}
	stage, err := s.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	maxSeq, err := s.tasks.MaxSequence(ctx, stage.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task sequence: %w", err)
	}
	return s.createTasks(ctx, stage, specs, maxSeq, createdBy)
}

func (s *Service) createTasks(ctx context.Context, stage domain.Stage, specs []TaskSpec, startSeq int, createdBy uuid.UUID) ([]domain.Task, error) {
	now := s.now().UTC()
	tasks := make([]domain.Task, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, domain.NewValidationError("tasks", fmt.Sprintf("task %d is missing a name", i))
		}
		priority := spec.Priority
		if !priority.Valid() {
			priority = domain.PriorityMedium
		}
		tasks[i] = domain.Task{
			ID:               uuid.New(),
			TaskID:           s.newBusinessID("TSK", i),
			Name:             spec.Name,
			Description:      spec.Description,
			AssignedTo:       spec.AssignedTo,
			StageID:          stage.ID,
			OnboardingCaseID: stage.OnboardingCaseID,
			Status:           domain.TaskStatusNotStarted,
			Priority:         priority,
			Sequence:         startSeq + i + 1,
			DueDate:          spec.DueDate,
			EstimatedHours:   spec.EstimatedHours,
			IsRequired:       spec.IsRequired,
			CreatedBy:        createdBy,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	created, err := s.tasks.CreateBatch(ctx, tasks)
	if err != nil {
		return nil, err
	}

	runHooks(ctx, []hook{
		{name: "notify-tasks-create", run: func(ctx context.Context) {
			for _, task := range created {
				s.notifyEach(ctx, task.AssignedTo, domain.NotificationSpec{
					Title:             "Task assigned",
					Message:           fmt.Sprintf("You were assigned task %q", task.Name),
					Type:              domain.NotificationTypeTaskAssigned,
					Priority:          task.Priority,
					RelatedEntityType: domain.EntityTypeTask,
					RelatedEntityID:   task.ID,
				})
			}
		}},
	})
	return created, nil
}

// Dashboard is the aggregated case view.
type Dashboard struct {
	Case         domain.OnboardingCase `json:"case"`
	Stages       []domain.Stage        `json:"stages"`
	Tasks        []domain.Task         `json:"tasks"`
	OverdueTasks int                   `json:"overdueTasks"`
	Progress     ProgressReport        `json:"progress"`
}

// GetDashboard aggregates a case with its stages, tasks, overdue count
// and progress report.
func (s *Service) GetDashboard(ctx context.Context, caseID uuid.UUID) (Dashboard, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return Dashboard{}, err
	}
	stages, err := s.stages.ListByCase(ctx, c.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list stages: %w", err)
	}
	tasks, err := s.tasks.ListByCase(ctx, c.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	progress, err := s.GetProgressReport(ctx, caseID)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now().UTC()
	overdue := 0
	for _, task := range tasks {
		if task.IsOverdue(now) {
			overdue++
		}
	}
	return Dashboard{
		Case:         c,
		Stages:       stages,
		Tasks:        tasks,
		OverdueTasks: overdue,
		Progress:     progress,
	}, nil
}

// MyTasksView groups one user's assigned tasks by status.
type MyTasksView struct {
	Total        int                                 `json:"total"`
	OverdueCount int                                 `json:"overdueCount"`
	ByStatus     map[domain.TaskStatus][]domain.Task `json:"byStatus"`
}

// MyTasks returns the tasks assigned to one user, grouped by status with an
// overdue count.
func (s *Service) MyTasks(ctx context.Context, userID uuid.UUID, filter domain.ListFilter) (MyTasksView, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, userID, filter)
	if err != nil {
		return MyTasksView{}, err
	}

	now := s.now().UTC()
	view := MyTasksView{
		Total:    len(tasks),
		ByStatus: make(map[domain.TaskStatus][]domain.Task),
	}
	for _, task := range tasks {
		view.ByStatus[task.Status] = append(view.ByStatus[task.Status], task)
		if task.IsOverdue(now) {
			view.OverdueCount++
		}
	}
	return view, nil
}
