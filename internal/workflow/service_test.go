package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

type stubCaseRepo struct {
	repository.CaseRepository
	cases map[uuid.UUID]domain.OnboardingCase
}

func newStubCaseRepo(cases ...domain.OnboardingCase) *stubCaseRepo {
	repo := &stubCaseRepo{cases: make(map[uuid.UUID]domain.OnboardingCase)}
	for _, c := range cases {
		repo.cases[c.ID] = c
	}
	return repo
}

func (s *stubCaseRepo) Create(_ context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error) {
	s.cases[c.ID] = c
	return c, nil
}

func (s *stubCaseRepo) GetByID(_ context.Context, id uuid.UUID) (domain.OnboardingCase, error) {
	c, ok := s.cases[id]
	if !ok {
		return domain.OnboardingCase{}, domain.NewNotFoundError(domain.EntityTypeCase, id.String())
	}
	return c, nil
}

func (s *stubCaseRepo) Save(_ context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error) {
	s.cases[c.ID] = c
	return c, nil
}

type stubStageRepo struct {
	repository.StageRepository
	stages map[uuid.UUID]domain.Stage
	maxSeq int
}

func newStubStageRepo(stages ...domain.Stage) *stubStageRepo {
	repo := &stubStageRepo{stages: make(map[uuid.UUID]domain.Stage)}
	for _, stage := range stages {
		repo.stages[stage.ID] = stage
		if stage.Sequence > repo.maxSeq {
			repo.maxSeq = stage.Sequence
		}
	}
	return repo
}

func (s *stubStageRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Stage, error) {
	stage, ok := s.stages[id]
	if !ok {
		return domain.Stage{}, domain.NewNotFoundError(domain.EntityTypeStage, id.String())
	}
	return stage, nil
}

func (s *stubStageRepo) ListByCase(_ context.Context, caseID uuid.UUID) ([]domain.Stage, error) {
	var out []domain.Stage
	for _, stage := range s.stages {
		if stage.OnboardingCaseID == caseID {
			out = append(out, stage)
		}
	}
	return out, nil
}

func (s *stubStageRepo) MaxSequence(_ context.Context, _ uuid.UUID) (int, error) {
	return s.maxSeq, nil
}

func (s *stubStageRepo) CreateBatch(_ context.Context, stages []domain.Stage) ([]domain.Stage, error) {
	for _, stage := range stages {
		s.stages[stage.ID] = stage
	}
	return stages, nil
}

type stubTaskRepo struct {
	repository.TaskRepository
	tasks  map[uuid.UUID]domain.Task
	maxSeq int
}

func newStubTaskRepo(tasks ...domain.Task) *stubTaskRepo {
	repo := &stubTaskRepo{tasks: make(map[uuid.UUID]domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (s *stubTaskRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.NewNotFoundError(domain.EntityTypeTask, id.String())
	}
	return task, nil
}

func (s *stubTaskRepo) Save(_ context.Context, task domain.Task) (domain.Task, error) {
	s.tasks[task.ID] = task
	return task, nil
}

func (s *stubTaskRepo) ListByCase(_ context.Context, caseID uuid.UUID) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range s.tasks {
		if task.OnboardingCaseID == caseID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) ListOverdueByCase(_ context.Context, caseID uuid.UUID, now time.Time) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range s.tasks {
		if task.OnboardingCaseID == caseID && task.IsOverdue(now) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) ListByAssignee(_ context.Context, userID uuid.UUID, _ domain.ListFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range s.tasks {
		if task.IsAssignedTo(userID) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *stubTaskRepo) MaxSequence(_ context.Context, _ uuid.UUID) (int, error) {
	return s.maxSeq, nil
}

func (s *stubTaskRepo) CreateBatch(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	return tasks, nil
}

type stubWorkflowTypes struct {
	wt  domain.WorkflowType
	err error
}

func (s *stubWorkflowTypes) GetDefault(_ context.Context) (domain.WorkflowType, error) {
	return s.wt, s.err
}

type recordingAuditor struct {
	entries []audit.Entry
}

func (r *recordingAuditor) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

type panickingAuditor struct{}

func (panickingAuditor) Record(_ context.Context, _ audit.Entry) {
	panic("audit store is down")
}

type recordingNotifier struct {
	specs []domain.NotificationSpec
	err   error
}

func (r *recordingNotifier) Create(_ context.Context, spec domain.NotificationSpec) (domain.Notification, error) {
	if r.err != nil {
		return domain.Notification{}, r.err
	}
	r.specs = append(r.specs, spec)
	return domain.Notification{ID: uuid.New(), RecipientID: spec.RecipientID}, nil
}

type fixture struct {
	cases    *stubCaseRepo
	stages   *stubStageRepo
	tasks    *stubTaskRepo
	wfTypes  *stubWorkflowTypes
	auditor  *recordingAuditor
	notifier *recordingNotifier
	now      time.Time
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cases:    newStubCaseRepo(),
		stages:   newStubStageRepo(),
		tasks:    newStubTaskRepo(),
		wfTypes:  &stubWorkflowTypes{wt: domain.WorkflowType{ID: uuid.New(), Name: "Standard", Prefix: "STD", IsDefault: true}},
		auditor:  &recordingAuditor{},
		notifier: &recordingNotifier{},
		now:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.cases, f.stages, f.tasks, f.wfTypes, f.auditor, f.notifier,
		WithClock(func() time.Time { return f.now }),
		WithRand(func(int) int { return 42 }),
	)
	return f
}

func TestCreateCase(t *testing.T) {
	f := newFixture(t)
	creator := uuid.New()
	champion := uuid.New()

	created, err := f.svc.CreateCase(context.Background(), CreateCaseRequest{
		ClientID:         uuid.New(),
		AssignedChampion: champion,
		CreatedBy:        creator,
	})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	if created.Status != domain.CaseStatusNotStarted {
		t.Errorf("Status = %q, want Not Started", created.Status)
	}
	if created.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %q, want the Medium default", created.Priority)
	}
	if created.WorkflowTypeID != f.wfTypes.wt.ID {
		t.Error("case should fall back to the default workflow type")
	}
	// The default workflow type donates the business id prefix.
	want := fmt.Sprintf("STD-%d-0042", f.now.UnixMilli())
	if created.CaseID != want {
		t.Errorf("CaseID = %q, want %q", created.CaseID, want)
	}
	if len(f.auditor.entries) != 1 || f.auditor.entries[0].Action != domain.AuditActionCreate {
		t.Errorf("audit entries = %+v, want one CREATE", f.auditor.entries)
	}
}

func TestCreateCaseRequiresClient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCase(context.Background(), CreateCaseRequest{CreatedBy: uuid.New()})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) || validation.Field != "clientId" {
		t.Fatalf("err = %v, want ValidationError on clientId", err)
	}
}

func TestUpdateCaseStatusCompletionStamp(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001", Status: domain.CaseStatusInProgress}
	f.cases.cases[c.ID] = c
	actor := uuid.New()

	completed, err := f.svc.UpdateCaseStatus(context.Background(), c.ID, domain.CaseStatusCompleted, actor, "all done")
	if err != nil {
		t.Fatalf("UpdateCaseStatus: %v", err)
	}
	if completed.ActualCompletionDate == nil || !completed.ActualCompletionDate.Equal(f.now) {
		t.Errorf("ActualCompletionDate = %v, want %v", completed.ActualCompletionDate, f.now)
	}
	if completed.Progress != 100 {
		t.Errorf("Progress = %d, want 100", completed.Progress)
	}

	// Reopening does not clear the stamped completion date.
	reopened, err := f.svc.UpdateCaseStatus(context.Background(), c.ID, domain.CaseStatusInProgress, actor, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.ActualCompletionDate == nil {
		t.Error("leaving Completed cleared the completion date")
	}
}

func TestUpdateCaseStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateCaseStatus(context.Background(), uuid.New(), domain.CaseStatus("Paused"), uuid.New(), "")
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestUpdateTaskStatusAssigneeGate(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	stranger := uuid.New()
	task := domain.Task{ID: uuid.New(), TaskID: "TSK-1-0001", Status: domain.TaskStatusNotStarted, AssignedTo: []uuid.UUID{assignee}}
	f.tasks.tasks[task.ID] = task

	_, err := f.svc.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusInProgress, stranger, "")
	var forbidden *domain.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("err = %v, want ForbiddenError", err)
	}
	if f.tasks.tasks[task.ID].Status != domain.TaskStatusNotStarted {
		t.Error("forbidden update must leave the task unchanged")
	}

	updated, err := f.svc.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusInProgress, assignee, "")
	if err != nil {
		t.Fatalf("assignee update: %v", err)
	}
	if updated.StartDate == nil {
		t.Error("first move to In Progress should stamp the start date")
	}
}

func TestUpdateTaskStatusUnassignedTaskIsOpenToAnyone(t *testing.T) {
	f := newFixture(t)
	task := domain.Task{ID: uuid.New(), Status: domain.TaskStatusInProgress}
	f.tasks.tasks[task.ID] = task

	completed, err := f.svc.UpdateTaskStatus(context.Background(), task.ID, domain.TaskStatusCompleted, uuid.New(), "")
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if completed.CompletedDate == nil || completed.Progress != 100 {
		t.Errorf("completion stamp missing: date=%v progress=%d", completed.CompletedDate, completed.Progress)
	}
}

func TestAssignTeamUnionAndNotifications(t *testing.T) {
	f := newFixture(t)
	existing := uuid.New()
	newcomer := uuid.New()
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001", AssignedTeam: []uuid.UUID{existing}}
	f.cases.cases[c.ID] = c

	saved, err := f.svc.AssignTeam(context.Background(), c.ID, []uuid.UUID{existing, newcomer}, uuid.New())
	if err != nil {
		t.Fatalf("AssignTeam: %v", err)
	}
	if len(saved.AssignedTeam) != 2 {
		t.Errorf("team = %v, want no duplicates", saved.AssignedTeam)
	}

	// Re-assigning the same members keeps the set stable but still
	// notifies every listed member.
	again, err := f.svc.AssignTeam(context.Background(), c.ID, []uuid.UUID{existing, newcomer}, uuid.New())
	if err != nil {
		t.Fatalf("second AssignTeam: %v", err)
	}
	if len(again.AssignedTeam) != 2 {
		t.Errorf("team after repeat = %v, want 2 members", again.AssignedTeam)
	}
	if len(f.notifier.specs) != 4 {
		t.Errorf("notifications = %d, want 2 per call", len(f.notifier.specs))
	}

	_, err = f.svc.AssignTeam(context.Background(), c.ID, nil, uuid.New())
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("empty member list: err = %v, want ValidationError", err)
	}
}

func TestSendReminders(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001"}
	f.cases.cases[c.ID] = c
	overdueAt := f.now.Add(-48 * time.Hour)
	assignee := uuid.New()

	f.tasks.tasks = map[uuid.UUID]domain.Task{}
	withAssignee := domain.Task{ID: uuid.New(), OnboardingCaseID: c.ID, Name: "Chase documents", Status: domain.TaskStatusInProgress, DueDate: &overdueAt, AssignedTo: []uuid.UUID{assignee}}
	unassigned := domain.Task{ID: uuid.New(), OnboardingCaseID: c.ID, Name: "Orphan", Status: domain.TaskStatusNotStarted, DueDate: &overdueAt}
	f.tasks.tasks[withAssignee.ID] = withAssignee
	f.tasks.tasks[unassigned.ID] = unassigned

	sent, err := f.svc.SendReminders(context.Background(), c.ID, uuid.New())
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1 (unassigned task skipped)", sent)
	}
	if len(f.notifier.specs) != 1 || f.notifier.specs[0].RecipientID != assignee {
		t.Errorf("notifications = %+v, want one to the assignee", f.notifier.specs)
	}
	if len(f.auditor.entries) != 1 {
		t.Fatalf("audit entries = %d, want exactly one summary", len(f.auditor.entries))
	}
}

func TestSendRemindersNothingOverdue(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001"}
	f.cases.cases[c.ID] = c

	sent, err := f.svc.SendReminders(context.Background(), c.ID, uuid.New())
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
	// The summary audit entry is written even when nothing was due.
	if len(f.auditor.entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(f.auditor.entries))
	}
}

func TestCreateStagesSequencing(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001"}
	f.cases.cases[c.ID] = c
	f.stages.maxSeq = 2

	created, err := f.svc.CreateStages(context.Background(), c.ID, []StageSpec{
		{Name: "Discovery"},
		{Name: "Data migration"},
	}, uuid.New())
	if err != nil {
		t.Fatalf("CreateStages: %v", err)
	}
	if created[0].Sequence != 3 || created[1].Sequence != 4 {
		t.Errorf("sequences = %d,%d, want 3,4 continuing from the case max", created[0].Sequence, created[1].Sequence)
	}

	_, err = f.svc.CreateStages(context.Background(), c.ID, nil, uuid.New())
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("empty specs: err = %v, want ValidationError", err)
	}

	_, err = f.svc.CreateStages(context.Background(), c.ID, []StageSpec{{Name: ""}}, uuid.New())
	if !errors.As(err, &validation) {
		t.Fatalf("missing name: err = %v, want ValidationError", err)
	}
}

func TestCreateStagesWithTasks(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001"}
	f.cases.cases[c.ID] = c
	assignee := uuid.New()

	result, err := f.svc.CreateStagesWithTasks(context.Background(), c.ID, []StageSpec{
		{Name: "Kickoff", Tasks: []TaskSpec{
			{Name: "Schedule call", AssignedTo: []uuid.UUID{assignee}},
			{Name: "Send agenda"},
		}},
		{Name: "Setup"},
	}, uuid.New())
	if err != nil {
		t.Fatalf("CreateStagesWithTasks: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d stage results, want 2", len(result))
	}
	if len(result[0].Tasks) != 2 || len(result[1].Tasks) != 0 {
		t.Errorf("task counts = %d,%d, want 2,0", len(result[0].Tasks), len(result[1].Tasks))
	}
	kickoff := result[0]
	if kickoff.Tasks[0].Sequence != 1 || kickoff.Tasks[1].Sequence != 2 {
		t.Errorf("task sequences = %d,%d, want 1,2", kickoff.Tasks[0].Sequence, kickoff.Tasks[1].Sequence)
	}
	if kickoff.Tasks[0].StageID != kickoff.Stage.ID || kickoff.Tasks[0].OnboardingCaseID != c.ID {
		t.Error("created tasks must point back to their stage and case")
	}
	// One notification for the single assigned task.
	if len(f.notifier.specs) != 1 || f.notifier.specs[0].RecipientID != assignee {
		t.Errorf("notifications = %+v, want one to the assignee", f.notifier.specs)
	}
}

func TestHooksNeverPropagate(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.cases, f.stages, f.tasks, f.wfTypes, panickingAuditor{}, f.notifier,
		WithClock(func() time.Time { return f.now }))

	created, err := svc.CreateCase(context.Background(), CreateCaseRequest{ClientID: uuid.New(), CreatedBy: uuid.New()})
	if err != nil {
		t.Fatalf("CreateCase with panicking auditor: %v", err)
	}
	if _, ok := f.cases.cases[created.ID]; !ok {
		t.Error("case should persist even when a hook panics")
	}
}

func TestGetProgressReport(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New(), CaseID: "ONB-1-0001"}
	f.cases.cases[c.ID] = c

	done := domain.Stage{ID: uuid.New(), OnboardingCaseID: c.ID, Status: domain.StageStatusCompleted, EstimatedDuration: 4}
	open := domain.Stage{ID: uuid.New(), OnboardingCaseID: c.ID, Status: domain.StageStatusInProgress, EstimatedDuration: 6}
	f.stages.stages[done.ID] = done
	f.stages.stages[open.ID] = open

	t1 := domain.Task{ID: uuid.New(), OnboardingCaseID: c.ID, Status: domain.TaskStatusCompleted}
	t2 := domain.Task{ID: uuid.New(), OnboardingCaseID: c.ID, Status: domain.TaskStatusNotStarted}
	t3 := domain.Task{ID: uuid.New(), OnboardingCaseID: c.ID, Status: domain.TaskStatusNotStarted}
	f.tasks.tasks = map[uuid.UUID]domain.Task{t1.ID: t1, t2.ID: t2, t3.ID: t3}

	report, err := f.svc.GetProgressReport(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetProgressReport: %v", err)
	}
	if report.StageCompletion != 50 {
		t.Errorf("StageCompletion = %d, want 50", report.StageCompletion)
	}
	if report.TaskCompletion != 33 {
		t.Errorf("TaskCompletion = %d, want 33", report.TaskCompletion)
	}
	// One remaining stage at the 5-day average of the two estimates.
	if report.EstimatedRemainingDays != 5 {
		t.Errorf("EstimatedRemainingDays = %v, want 5", report.EstimatedRemainingDays)
	}
	wantDate := f.now.Add(5 * 24 * time.Hour)
	if report.ExpectedCompletionDate == nil || !report.ExpectedCompletionDate.Equal(wantDate) {
		t.Errorf("ExpectedCompletionDate = %v, want %v", report.ExpectedCompletionDate, wantDate)
	}
}

func TestMyTasksGrouping(t *testing.T) {
	f := newFixture(t)
	me := uuid.New()
	pastDue := f.now.Add(-24 * time.Hour)

	open := domain.Task{ID: uuid.New(), Status: domain.TaskStatusInProgress, AssignedTo: []uuid.UUID{me}, DueDate: &pastDue}
	waiting := domain.Task{ID: uuid.New(), Status: domain.TaskStatusNotStarted, AssignedTo: []uuid.UUID{me}}
	done := domain.Task{ID: uuid.New(), Status: domain.TaskStatusCompleted, AssignedTo: []uuid.UUID{me}, DueDate: &pastDue}
	someoneElses := domain.Task{ID: uuid.New(), Status: domain.TaskStatusInProgress, AssignedTo: []uuid.UUID{uuid.New()}}
	f.tasks.tasks = map[uuid.UUID]domain.Task{open.ID: open, waiting.ID: waiting, done.ID: done, someoneElses.ID: someoneElses}

	view, err := f.svc.MyTasks(context.Background(), me, domain.ListFilter{})
	if err != nil {
		t.Fatalf("MyTasks: %v", err)
	}
	if view.Total != 3 {
		t.Errorf("Total = %d, want 3", view.Total)
	}
	// The completed task is past due but no longer open, so it does not
	// count as overdue.
	if view.OverdueCount != 1 {
		t.Errorf("OverdueCount = %d, want 1", view.OverdueCount)
	}
	if len(view.ByStatus[domain.TaskStatusInProgress]) != 1 || len(view.ByStatus[domain.TaskStatusCompleted]) != 1 {
		t.Errorf("ByStatus = %+v, want one in-progress and one completed", view.ByStatus)
	}
}

func TestGetProgressReportEmptyCase(t *testing.T) {
	f := newFixture(t)
	c := domain.OnboardingCase{ID: uuid.New()}
	f.cases.cases[c.ID] = c

	report, err := f.svc.GetProgressReport(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetProgressReport: %v", err)
	}
	if report.StageCompletion != 0 || report.TaskCompletion != 0 || report.EstimatedRemainingDays != 0 {
		t.Errorf("empty case report = %+v, want zeroes", report)
	}
}
