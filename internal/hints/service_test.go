package hints

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

// Stubs embed their interface so only the methods the service touches need
// real bodies.

type stubLinkRepo struct {
	repository.CaseGuideLinkRepository
	links []domain.CaseGuideLink
}

func (s *stubLinkRepo) ListByCase(_ context.Context, caseID uuid.UUID, statuses []domain.LinkStatus) ([]domain.CaseGuideLink, error) {
	var out []domain.CaseGuideLink
	for _, link := range s.links {
		if link.OnboardingCaseID != caseID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, status := range statuses {
				if link.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, link)
	}
	return out, nil
}

type stubGuideRepo struct {
	repository.GuideRepository
	guides map[uuid.UUID]domain.WorkflowGuide
}

func (s *stubGuideRepo) GetByID(_ context.Context, id uuid.UUID) (domain.WorkflowGuide, error) {
	guide, ok := s.guides[id]
	if !ok {
		return domain.WorkflowGuide{}, domain.NewNotFoundError(domain.EntityTypeGuide, id.String())
	}
	return guide, nil
}

type stubStepRepo struct {
	repository.GuideStepRepository
	steps []domain.GuideStep
	saved []domain.GuideStep
}

func (s *stubStepRepo) ListActiveByGuide(_ context.Context, guideID uuid.UUID) ([]domain.GuideStep, error) {
	var out []domain.GuideStep
	for _, step := range s.steps {
		if step.GuideID == guideID && step.IsActive {
			out = append(out, step)
		}
	}
	return out, nil
}

func (s *stubStepRepo) GetByID(_ context.Context, id uuid.UUID) (domain.GuideStep, error) {
	for _, step := range s.steps {
		if step.ID == id {
			return step, nil
		}
	}
	return domain.GuideStep{}, domain.NewNotFoundError(domain.EntityTypeGuideStep, id.String())
}

func (s *stubStepRepo) Save(_ context.Context, step domain.GuideStep) (domain.GuideStep, error) {
	for i := range s.steps {
		if s.steps[i].ID == step.ID {
			s.steps[i] = step
		}
	}
	s.saved = append(s.saved, step)
	return step, nil
}

type stubTaskRepo struct {
	repository.TaskRepository
	tasks map[uuid.UUID]domain.Task
}

func (s *stubTaskRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.NewNotFoundError(domain.EntityTypeTask, id.String())
	}
	return task, nil
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestResolveStageHintsOrdering(t *testing.T) {
	caseID := uuid.New()
	stageID := uuid.New()
	criticalGuide := uuid.New()
	lowGuide := uuid.New()

	links := &stubLinkRepo{links: []domain.CaseGuideLink{
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: lowGuide, Priority: domain.PriorityLow, Status: domain.LinkStatusInUse},
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: criticalGuide, Priority: domain.PriorityCritical, Status: domain.LinkStatusAssigned},
	}}
	guides := &stubGuideRepo{guides: map[uuid.UUID]domain.WorkflowGuide{
		criticalGuide: {ID: criticalGuide, Title: "Escalation playbook"},
		lowGuide:      {ID: lowGuide, Title: "General onboarding"},
	}}
	steps := &stubStepRepo{steps: []domain.GuideStep{
		{ID: uuid.New(), GuideID: lowGuide, Ref: domain.GeneralReference(), Sequence: 1, Title: "low-1", IsActive: true},
		{ID: uuid.New(), GuideID: criticalGuide, Ref: domain.StageReference(stageID), Sequence: 2, Title: "crit-2", IsActive: true},
		{ID: uuid.New(), GuideID: criticalGuide, Ref: domain.GeneralReference(), Sequence: 1, Title: "crit-1", IsActive: true},
		// Wrong stage and inactive steps never surface.
		{ID: uuid.New(), GuideID: criticalGuide, Ref: domain.StageReference(uuid.New()), Sequence: 3, Title: "other-stage", IsActive: true},
		{ID: uuid.New(), GuideID: criticalGuide, Ref: domain.GeneralReference(), Sequence: 4, Title: "inactive", IsActive: false},
	}}

	svc := NewService(links, guides, steps, &stubTaskRepo{}, WithClock(fixedClock()))
	hints, err := svc.ResolveStageHints(context.Background(), caseID, stageID)
	if err != nil {
		t.Fatalf("ResolveStageHints: %v", err)
	}

	titles := make([]string, len(hints))
	for i, h := range hints {
		titles[i] = h.Title
	}
	want := []string{"crit-1", "crit-2", "low-1"}
	if len(titles) != len(want) {
		t.Fatalf("got %d hints %v, want %v", len(titles), titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("hint[%d] = %q, want %q (full order %v)", i, titles[i], want[i], titles)
		}
	}
	if hints[0].GuideTitle != "Escalation playbook" || hints[0].GuidePriority != domain.PriorityCritical {
		t.Errorf("hint annotation = %q/%q, want guide title and link priority", hints[0].GuideTitle, hints[0].GuidePriority)
	}
}

func TestResolveStageHintsSkipsInactiveLinks(t *testing.T) {
	caseID := uuid.New()
	guideID := uuid.New()
	links := &stubLinkRepo{links: []domain.CaseGuideLink{
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: guideID, Priority: domain.PriorityHigh, Status: domain.LinkStatusCompleted},
	}}
	steps := &stubStepRepo{steps: []domain.GuideStep{
		{ID: uuid.New(), GuideID: guideID, Ref: domain.GeneralReference(), Sequence: 1, IsActive: true},
	}}
	svc := NewService(links, &stubGuideRepo{}, steps, &stubTaskRepo{})

	hints, err := svc.ResolveStageHints(context.Background(), caseID, uuid.New())
	if err != nil {
		t.Fatalf("ResolveStageHints: %v", err)
	}
	if len(hints) != 0 {
		t.Errorf("got %d hints from a completed link, want 0", len(hints))
	}
}

func TestResolveTaskHintsSpecificityOrdering(t *testing.T) {
	caseID := uuid.New()
	stageID := uuid.New()
	taskID := uuid.New()
	guideID := uuid.New()

	links := &stubLinkRepo{links: []domain.CaseGuideLink{
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: guideID, Priority: domain.PriorityMedium, Status: domain.LinkStatusAssigned},
	}}
	guides := &stubGuideRepo{guides: map[uuid.UUID]domain.WorkflowGuide{
		guideID: {ID: guideID, Title: "Task guide"},
	}}
	steps := &stubStepRepo{steps: []domain.GuideStep{
		{ID: uuid.New(), GuideID: guideID, Ref: domain.GeneralReference(), Sequence: 1, Title: "general", IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.StageReference(stageID), Sequence: 2, Title: "stage", IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.TaskReference(taskID), Sequence: 9, Title: "task", IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.TaskReference(uuid.New()), Sequence: 1, Title: "other-task", IsActive: true},
	}}
	tasks := &stubTaskRepo{tasks: map[uuid.UUID]domain.Task{
		taskID: {ID: taskID, StageID: stageID, OnboardingCaseID: caseID},
	}}

	svc := NewService(links, guides, steps, tasks)
	hints, err := svc.ResolveTaskHints(context.Background(), nil, taskID)
	if err != nil {
		t.Fatalf("ResolveTaskHints: %v", err)
	}

	// Task-targeted first despite its higher sequence, then stage, then
	// general. The step targeting an unrelated task is excluded.
	want := []string{"task", "stage", "general"}
	if len(hints) != len(want) {
		t.Fatalf("got %d hints, want %d", len(hints), len(want))
	}
	for i := range want {
		if hints[i].Title != want[i] {
			t.Errorf("hint[%d] = %q, want %q", i, hints[i].Title, want[i])
		}
	}
}

func TestResolveTaskHintsUnknownTask(t *testing.T) {
	svc := NewService(&stubLinkRepo{}, &stubGuideRepo{}, &stubStepRepo{}, &stubTaskRepo{})
	_, err := svc.ResolveTaskHints(context.Background(), nil, uuid.New())
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestRecordViewRepeatDiverges(t *testing.T) {
	stepID := uuid.New()
	userID := uuid.New()
	steps := &stubStepRepo{steps: []domain.GuideStep{{ID: stepID, IsActive: true}}}
	svc := NewService(&stubLinkRepo{}, &stubGuideRepo{}, steps, &stubTaskRepo{}, WithClock(fixedClock()))

	if _, err := svc.RecordView(context.Background(), stepID, userID); err != nil {
		t.Fatalf("first view: %v", err)
	}
	step, err := svc.RecordView(context.Background(), stepID, userID)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if step.ViewCount != 2 {
		t.Errorf("ViewCount = %d, want 2", step.ViewCount)
	}
	if len(step.ViewedBy) != 1 {
		t.Errorf("len(ViewedBy) = %d, want 1", len(step.ViewedBy))
	}
}

func TestRecordFeedbackVotes(t *testing.T) {
	stepID := uuid.New()
	steps := &stubStepRepo{steps: []domain.GuideStep{{ID: stepID, IsActive: true}}}
	svc := NewService(&stubLinkRepo{}, &stubGuideRepo{}, steps, &stubTaskRepo{})

	if _, err := svc.RecordFeedback(context.Background(), stepID, true, "clear instructions"); err != nil {
		t.Fatalf("helpful vote: %v", err)
	}
	step, err := svc.RecordFeedback(context.Background(), stepID, false, "")
	if err != nil {
		t.Fatalf("not-helpful vote: %v", err)
	}
	if step.HelpfulVotes != 1 || step.NotHelpfulVotes != 1 {
		t.Errorf("votes = %d/%d, want 1/1", step.HelpfulVotes, step.NotHelpfulVotes)
	}
}

func TestCaseHintsSummary(t *testing.T) {
	caseID := uuid.New()
	stageID := uuid.New()
	taskID := uuid.New()
	guideID := uuid.New()

	links := &stubLinkRepo{links: []domain.CaseGuideLink{
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: guideID, Status: domain.LinkStatusInUse},
	}}
	steps := &stubStepRepo{steps: []domain.GuideStep{
		{ID: uuid.New(), GuideID: guideID, Ref: domain.GeneralReference(), HintType: domain.HintTypeTip, IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.StageReference(stageID), HintType: domain.HintTypeTip, IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.StageReference(stageID), HintType: domain.HintTypeWarning, IsActive: true},
		{ID: uuid.New(), GuideID: guideID, Ref: domain.TaskReference(taskID), HintType: domain.HintTypeChecklist, IsActive: true},
	}}

	svc := NewService(links, &stubGuideRepo{}, steps, &stubTaskRepo{})
	counts, err := svc.CaseHintsSummary(context.Background(), caseID)
	if err != nil {
		t.Fatalf("CaseHintsSummary: %v", err)
	}
	if counts.TotalHints != 4 || counts.GeneralHints != 1 || counts.GuideCount != 1 {
		t.Errorf("counts = %+v, want 4 total, 1 general, 1 guide", counts)
	}
	if counts.ByStage[stageID] != 2 {
		t.Errorf("ByStage[%s] = %d, want 2", stageID, counts.ByStage[stageID])
	}
	if counts.ByTask[taskID] != 1 {
		t.Errorf("ByTask[%s] = %d, want 1", taskID, counts.ByTask[taskID])
	}
	if counts.ByHintType[domain.HintTypeTip] != 2 {
		t.Errorf("ByHintType[tip] = %d, want 2", counts.ByHintType[domain.HintTypeTip])
	}
}

func TestGuideUsageForCase(t *testing.T) {
	caseID := uuid.New()
	ratedGuide := uuid.New()
	emptyGuide := uuid.New()

	links := &stubLinkRepo{links: []domain.CaseGuideLink{
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: ratedGuide, Status: domain.LinkStatusInUse, Priority: domain.PriorityHigh, StepsCompleted: 1, TimeSpent: 30},
		// Removed links still appear in the usage view.
		{ID: uuid.New(), OnboardingCaseID: caseID, GuideID: emptyGuide, Status: domain.LinkStatusRemoved},
	}}
	guides := &stubGuideRepo{guides: map[uuid.UUID]domain.WorkflowGuide{
		ratedGuide: {ID: ratedGuide, Title: "Rated"},
		emptyGuide: {ID: emptyGuide, Title: "Empty"},
	}}
	steps := &stubStepRepo{steps: []domain.GuideStep{
		{ID: uuid.New(), GuideID: ratedGuide, IsActive: true, ViewCount: 3, HelpfulVotes: 4, NotHelpfulVotes: 1},
		{ID: uuid.New(), GuideID: ratedGuide, IsActive: true, ViewCount: 1, HelpfulVotes: 0, NotHelpfulVotes: 1},
	}}

	svc := NewService(links, guides, steps, &stubTaskRepo{})
	usage, err := svc.GuideUsageForCase(context.Background(), caseID)
	if err != nil {
		t.Fatalf("GuideUsageForCase: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d usage entries, want 2", len(usage))
	}

	rated := usage[0]
	if rated.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50", rated.CompletionRate)
	}
	if rated.TotalViews != 4 {
		t.Errorf("TotalViews = %d, want 4", rated.TotalViews)
	}
	// Ratings 3 and -1 average to 1.
	if rated.AvgStepRating != 1 {
		t.Errorf("AvgStepRating = %v, want 1", rated.AvgStepRating)
	}

	empty := usage[1]
	if empty.TotalSteps != 0 || empty.CompletionRate != 0 || empty.AvgStepRating != 0 {
		t.Errorf("empty guide usage = %+v, want all-zero rates", empty)
	}
}
