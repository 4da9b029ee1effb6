package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

type stubTemplateRepo struct {
	repository.TemplateRepository
	templates map[uuid.UUID]domain.Template
}

func newStubTemplateRepo(templates ...domain.Template) *stubTemplateRepo {
	repo := &stubTemplateRepo{templates: make(map[uuid.UUID]domain.Template)}
	for _, t := range templates {
		repo.templates[t.ID] = t
	}
	return repo
}

func (s *stubTemplateRepo) Create(_ context.Context, t domain.Template) (domain.Template, error) {
	s.templates[t.ID] = t
	return t, nil
}

func (s *stubTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Template, error) {
	t, ok := s.templates[id]
	if !ok {
		return domain.Template{}, domain.NewNotFoundError(domain.EntityTypeTemplate, id.String())
	}
	return t, nil
}

func (s *stubTemplateRepo) Save(_ context.Context, t domain.Template) (domain.Template, error) {
	s.templates[t.ID] = t
	return t, nil
}

func (s *stubTemplateRepo) List(_ context.Context, filter domain.ListFilter) ([]domain.Template, int, error) {
	var out []domain.Template
	for _, t := range s.templates {
		if v, ok := filter.Equals["type"]; ok && string(t.Type) != v {
			continue
		}
		if v, ok := filter.Equals["status"]; ok && string(t.Status) != v {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (s *stubTemplateRepo) ListDefaults(_ context.Context, templateType domain.TemplateType) ([]domain.Template, error) {
	var out []domain.Template
	for _, t := range s.templates {
		if t.Type == templateType && t.IsDefault {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestCreateTemplate(t *testing.T) {
	repo := newStubTemplateRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), domain.Template{
		Name: "Standard onboarding",
		Type: domain.TemplateTypeCase,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.TemplateStatusDraft {
		t.Errorf("Status = %q, want Draft", created.Status)
	}
	if created.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", created.Version)
	}
	if created.IsDefault || created.UsageCount != 0 {
		t.Errorf("new template = %+v, want non-default with zero usage", created)
	}

	var validation *domain.ValidationError
	if _, err := svc.Create(context.Background(), domain.Template{Type: domain.TemplateTypeCase}); !errors.As(err, &validation) {
		t.Errorf("missing name: err = %v, want ValidationError", err)
	}
	if _, err := svc.Create(context.Background(), domain.Template{Name: "typeless"}); !errors.As(err, &validation) {
		t.Errorf("missing type: err = %v, want ValidationError", err)
	}
}

func TestCloneZeroesStatsAndLinksParent(t *testing.T) {
	now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	approval := now.Add(-30 * 24 * time.Hour)
	source := domain.Template{
		ID:                    uuid.New(),
		TemplateID:            "TMPL-1-0001",
		Name:                  "Battle-tested",
		Type:                  domain.TemplateTypeCase,
		Status:                domain.TemplateStatusPublished,
		IsDefault:             true,
		UsageCount:            40,
		SuccessRate:           85,
		AverageCompletionTime: 21,
		ApprovedBy:            uuid.New(),
		ApprovalDate:          &approval,
	}
	repo := newStubTemplateRepo(source)
	svc := NewService(repo, WithClock(func() time.Time { return now }))

	clone, err := svc.Clone(context.Background(), source.ID, "", uuid.New())
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if clone.ID == source.ID || clone.TemplateID == source.TemplateID {
		t.Error("clone must get fresh ids")
	}
	if clone.Name != "Battle-tested (copy)" {
		t.Errorf("Name = %q, want the (copy) suffix when no name given", clone.Name)
	}
	if clone.Status != domain.TemplateStatusDraft || clone.IsDefault {
		t.Errorf("clone = %+v, want a non-default draft", clone)
	}
	if clone.UsageCount != 0 || clone.SuccessRate != 0 || clone.AverageCompletionTime != 0 {
		t.Errorf("clone stats = %d/%d/%d, want zeroed", clone.UsageCount, clone.SuccessRate, clone.AverageCompletionTime)
	}
	if clone.ApprovedBy != uuid.Nil || clone.ApprovalDate != nil {
		t.Error("clone must not inherit approval")
	}
	if clone.ParentTemplateID != source.ID {
		t.Errorf("ParentTemplateID = %s, want the source id", clone.ParentTemplateID)
	}

	named, err := svc.Clone(context.Background(), source.ID, "Renamed", uuid.New())
	if err != nil {
		t.Fatalf("named Clone: %v", err)
	}
	if named.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", named.Name)
	}
}

func TestPublish(t *testing.T) {
	draft := domain.Template{ID: uuid.New(), Name: "Draft", Type: domain.TemplateTypeStage, Status: domain.TemplateStatusDraft}
	repo := newStubTemplateRepo(draft)
	svc := NewService(repo)
	approver := uuid.New()

	published, err := svc.Publish(context.Background(), draft.ID, approver)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != domain.TemplateStatusPublished {
		t.Errorf("Status = %q, want Published", published.Status)
	}
	if published.ApprovedBy != approver || published.ApprovalDate == nil {
		t.Errorf("approval = %s/%v, want the approver and a date", published.ApprovedBy, published.ApprovalDate)
	}
}

func TestSetDefaultUnsetsPrevious(t *testing.T) {
	previous := domain.Template{ID: uuid.New(), Name: "Old default", Type: domain.TemplateTypeCase, IsDefault: true}
	otherType := domain.Template{ID: uuid.New(), Name: "Task default", Type: domain.TemplateTypeTask, IsDefault: true}
	next := domain.Template{ID: uuid.New(), Name: "New default", Type: domain.TemplateTypeCase}
	repo := newStubTemplateRepo(previous, otherType, next)
	svc := NewService(repo)

	updated, err := svc.SetDefault(context.Background(), next.ID)
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if !updated.IsDefault {
		t.Error("template should now be the default")
	}
	if repo.templates[previous.ID].IsDefault {
		t.Error("previous default of the same type should be unset")
	}
	// Defaults of other types are untouched.
	if !repo.templates[otherType.ID].IsDefault {
		t.Error("default of a different type must stay default")
	}
}

func TestRecommendationsOrdering(t *testing.T) {
	defaultTmpl := domain.Template{ID: uuid.New(), Name: "default", Type: domain.TemplateTypeCase, Status: domain.TemplateStatusPublished, IsDefault: true, SuccessRate: 10}
	bestRate := domain.Template{ID: uuid.New(), Name: "best-rate", Type: domain.TemplateTypeCase, Status: domain.TemplateStatusPublished, SuccessRate: 90, UsageCount: 5}
	mostUsed := domain.Template{ID: uuid.New(), Name: "most-used", Type: domain.TemplateTypeCase, Status: domain.TemplateStatusPublished, SuccessRate: 80, UsageCount: 50}
	draft := domain.Template{ID: uuid.New(), Name: "draft", Type: domain.TemplateTypeCase, Status: domain.TemplateStatusDraft, SuccessRate: 100}
	wrongType := domain.Template{ID: uuid.New(), Name: "wrong-type", Type: domain.TemplateTypeTask, Status: domain.TemplateStatusPublished}
	repo := newStubTemplateRepo(defaultTmpl, bestRate, mostUsed, draft, wrongType)
	svc := NewService(repo)

	got, err := svc.Recommendations(context.Background(), domain.TemplateTypeCase, 0)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	names := make([]string, len(got))
	for i, tmpl := range got {
		names[i] = tmpl.Name
	}
	want := []string{"default", "best-rate", "most-used"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("recommendation[%d] = %q, want %q (full order %v)", i, names[i], want[i], names)
		}
	}

	limited, err := svc.Recommendations(context.Background(), domain.TemplateTypeCase, 2)
	if err != nil {
		t.Fatalf("limited Recommendations: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited = %d entries, want 2", len(limited))
	}
}

func TestUpdateUsageStats(t *testing.T) {
	tmpl := domain.Template{ID: uuid.New(), Name: "tracked", Type: domain.TemplateTypeCase, UsageCount: 1, SuccessRate: 100, AverageCompletionTime: 10}
	repo := newStubTemplateRepo(tmpl)
	svc := NewService(repo)

	updated, err := svc.UpdateUsageStats(context.Background(), tmpl.ID, false, 20)
	if err != nil {
		t.Fatalf("UpdateUsageStats: %v", err)
	}
	if updated.UsageCount != 2 {
		t.Errorf("UsageCount = %d, want 2", updated.UsageCount)
	}
	if updated.SuccessRate != 50 {
		t.Errorf("SuccessRate = %d, want 50 after one success and one failure", updated.SuccessRate)
	}
	if updated.AverageCompletionTime != 15 {
		t.Errorf("AverageCompletionTime = %d, want 15", updated.AverageCompletionTime)
	}
}
