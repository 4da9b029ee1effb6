package templates

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

// Service manages reusable blueprints for case/stage/task/guide creation:
// cloning, publication, default selection, recommendations and the
// running usage statistics.
type Service struct {
	repo repository.TemplateRepository
	now  func() time.Time
}

// Option configures the template service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a template service.
func NewService(repo repository.TemplateRepository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new draft template.
func (s *Service) Create(ctx context.Context, t domain.Template) (domain.Template, error) {
	if t.Name == "" {
		return domain.Template{}, domain.NewValidationError("name", "is required")
	}
	if t.Type == "" {
		return domain.Template{}, domain.NewValidationError("type", "is required")
	}

	now := s.now().UTC()
	t.ID = uuid.New()
	t.TemplateID = newTemplateID(now)
	t.Status = domain.TemplateStatusDraft
	t.IsDefault = false
	if t.Version == "" {
		t.Version = "1.0"
	}
	t.UsageCount = 0
	t.SuccessRate = 0
	t.AverageCompletionTime = 0
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.repo.Create(ctx, t)
}

// GetByID returns one template.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns templates matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Template, int, error) {
	return s.repo.List(ctx, filter)
}

// Save replaces a template.
func (s *Service) Save(ctx context.Context, t domain.Template) (domain.Template, error) {
	t.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, t)
}

// Delete removes a template.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Clone copies a template into a fresh draft: new ids, zeroed usage
// statistics, never the default, linked back to its parent.
func (s *Service) Clone(ctx context.Context, id uuid.UUID, name string, clonedBy uuid.UUID) (domain.Template, error) {
	source, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}

	now := s.now().UTC()
	clone := source
	clone.ID = uuid.New()
	clone.TemplateID = newTemplateID(now)
	clone.Status = domain.TemplateStatusDraft
	clone.IsDefault = false
	clone.ParentTemplateID = source.ID
	clone.UsageCount = 0
	clone.SuccessRate = 0
	clone.AverageCompletionTime = 0
	clone.ApprovedBy = uuid.Nil
	clone.ApprovalDate = nil
	clone.CreatedBy = clonedBy
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if name != "" {
		clone.Name = name
	} else {
		clone.Name = source.Name + " (copy)"
	}
	return s.repo.Create(ctx, clone)
}

// Publish moves a template to the published state and records approval.
func (s *Service) Publish(ctx context.Context, id, approvedBy uuid.UUID) (domain.Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}
	now := s.now().UTC()
	t.Status = domain.TemplateStatusPublished
	t.ApprovedBy = approvedBy
	t.ApprovalDate = &now
	t.UpdatedAt = now
	return s.repo.Save(ctx, t)
}

// SetDefault marks the template as the default of its type, unsetting any
// previous default of the same type.
func (s *Service) SetDefault(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}

	current, err := s.repo.ListDefaults(ctx, t.Type)
	if err != nil {
		return domain.Template{}, fmt.Errorf("failed to list defaults: %w", err)
	}
	now := s.now().UTC()
	for _, previous := range current {
		if previous.ID == t.ID {
			continue
		}
		previous.IsDefault = false
		previous.UpdatedAt = now
		if _, err := s.repo.Save(ctx, previous); err != nil {
			return domain.Template{}, fmt.Errorf("failed to unset previous default: %w", err)
		}
	}

	t.IsDefault = true
	t.UpdatedAt = now
	return s.repo.Save(ctx, t)
}

// Recommendations returns published templates of one type ordered by how
// strongly they recommend themselves: defaults first, then higher success
// rate, then heavier usage.
func (s *Service) Recommendations(ctx context.Context, templateType domain.TemplateType, limit int) ([]domain.Template, error) {
	filter := domain.ListFilter{}.
		WithEquals("type", string(templateType)).
		WithEquals("status", string(domain.TemplateStatusPublished))
	published, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(published, func(i, j int) bool {
		if published[i].IsDefault != published[j].IsDefault {
			return published[i].IsDefault
		}
		if published[i].SuccessRate != published[j].SuccessRate {
			return published[i].SuccessRate > published[j].SuccessRate
		}
		return published[i].UsageCount > published[j].UsageCount
	})

	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

// UpdateUsageStats folds one completed use of a template into its running
// statistics.
func (s *Service) UpdateUsageStats(ctx context.Context, id uuid.UUID, success bool, completionDays int) (domain.Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Template{}, err
	}

	t.SuccessRate = domain.NextSuccessRate(t.SuccessRate, t.UsageCount, success)
	t.AverageCompletionTime = domain.NextRunningAverage(t.AverageCompletionTime, t.UsageCount, completionDays)
	t.UsageCount++
	t.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, t)
}

func newTemplateID(now time.Time) string {
	return fmt.Sprintf("TMPL-%d-%04d", now.UnixMilli(), rand.Intn(10000))
}
