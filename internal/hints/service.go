package hints

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

// Service resolves the contextual hints shown while working a stage or
// task: guide steps from the case's actively linked guides, filtered to
// the current context and ordered for display.
type Service struct {
	links  repository.CaseGuideLinkRepository
	guides repository.GuideRepository
	steps  repository.GuideStepRepository
	tasks  repository.TaskRepository
	now    func() time.Time
}

// Option configures the hint service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a hint resolution service.
func NewService(
	links repository.CaseGuideLinkRepository,
	guides repository.GuideRepository,
	steps repository.GuideStepRepository,
	tasks repository.TaskRepository,
	opts ...Option,
) *Service {
	s := &Service{
		links:  links,
		guides: guides,
		steps:  steps,
		tasks:  tasks,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hint is one guide step annotated with the guide it came from and the
// priority of the link that brought it into the case.
type Hint struct {
	domain.GuideStep
	GuideTitle    string          `json:"guideTitle"`
	GuidePriority domain.Priority `json:"guidePriority"`
}

// ResolveStageHints returns the hints applicable to one stage of a case:
// every active step of every actively linked guide that targets the stage
// or applies generally, ordered by link priority then step sequence.
func (s *Service) ResolveStageHints(ctx context.Context, caseID, stageID uuid.UUID) ([]Hint, error) {
	hints, err := s.gather(ctx, caseID, func(step domain.GuideStep) bool {
		return step.Ref.MatchesStage(stageID) || step.Ref.IsGeneral()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hints, func(i, j int) bool {
		ri, rj := hints[i].GuidePriority.Rank(), hints[j].GuidePriority.Rank()
		if ri != rj {
			return ri < rj
		}
		return hints[i].Sequence < hints[j].Sequence
	})
	return hints, nil
}

// ResolveTaskHints returns the hints applicable to one task. Steps that
// target the task directly come first, then steps targeting its stage,
// then general steps; ties break by step sequence. Note this is a
// different ordering than stage hints, which rank by link priority.
func (s *Service) ResolveTaskHints(ctx context.Context, caseID *uuid.UUID, taskID uuid.UUID) ([]Hint, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	resolvedCaseID := task.OnboardingCaseID
	if caseID != nil && *caseID != uuid.Nil {
		resolvedCaseID = *caseID
	}

	hints, err := s.gather(ctx, resolvedCaseID, func(step domain.GuideStep) bool {
		return step.Ref.MatchesTask(taskID) || step.Ref.MatchesStage(task.StageID) || step.Ref.IsGeneral()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hints, func(i, j int) bool {
		ri, rj := hints[i].Ref.SpecificityRank(), hints[j].Ref.SpecificityRank()
		if ri != rj {
			return ri < rj
		}
		return hints[i].Sequence < hints[j].Sequence
	})
	return hints, nil
}

// gather flattens the matching active steps of every actively linked guide
// into one annotated hint list. Order is whatever the store returned;
// callers sort.
func (s *Service) gather(ctx context.Context, caseID uuid.UUID, match func(domain.GuideStep) bool) ([]Hint, error) {
	links, err := s.links.ListByCase(ctx, caseID, domain.ActiveLinkStatuses())
	if err != nil {
		return nil, fmt.Errorf("failed to list guide links: %w", err)
	}

	hints := make([]Hint, 0)
	for _, link := range links {
		guide, err := s.guides.GetByID(ctx, link.GuideID)
		if err != nil {
			return nil, fmt.Errorf("failed to load guide %s: %w", link.GuideID, err)
		}
		steps, err := s.steps.ListActiveByGuide(ctx, link.GuideID)
		if err != nil {
			return nil, fmt.Errorf("failed to list steps for guide %s: %w", link.GuideID, err)
		}
		for _, step := range steps {
			if !match(step) {
				continue
			}
			hints = append(hints, Hint{
				GuideStep:     step,
				GuideTitle:    guide.Title,
				GuidePriority: link.Priority,
			})
		}
	}
	return hints, nil
}

// RecordView counts one view of a step by a user. The counter increments
// on every call; the viewed-by set stays de-duplicated.
func (s *Service) RecordView(ctx context.Context, stepID, userID uuid.UUID) (domain.GuideStep, error) {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return domain.GuideStep{}, err
	}
	step.MarkViewed(userID, s.now().UTC())
	return s.steps.Save(ctx, step)
}

// RecordFeedback records a helpful / not-helpful vote on a step. The
// free-text comment is logged only; there is no structured feedback
// entity.
func (s *Service) RecordFeedback(ctx context.Context, stepID uuid.UUID, helpful bool, comment string) (domain.GuideStep, error) {
	step, err := s.steps.GetByID(ctx, stepID)
	if err != nil {
		return domain.GuideStep{}, err
	}
	step.RecordVote(helpful, s.now().UTC())
	saved, err := s.steps.Save(ctx, step)
	if err != nil {
		return domain.GuideStep{}, err
	}
	if comment != "" {
		log.Printf("[HINTS] feedback on step %s (helpful=%t): %s", step.StepID, helpful, comment)
	}
	return saved, nil
}

// HintCounts aggregates hint availability across every guide linked to a
// case.
type HintCounts struct {
	TotalHints   int                     `json:"totalHints"`
	GeneralHints int                     `json:"generalHints"`
	ByStage      map[uuid.UUID]int       `json:"byStage"`
	ByTask       map[uuid.UUID]int       `json:"byTask"`
	GuideCount   int                     `json:"guideCount"`
	ByHintType   map[domain.HintType]int `json:"byHintType"`
}

// CaseHintsSummary counts the active steps of the case's linked guides,
// keyed by what they reference.
func (s *Service) CaseHintsSummary(ctx context.Context, caseID uuid.UUID) (HintCounts, error) {
	links, err := s.links.ListByCase(ctx, caseID, domain.ActiveLinkStatuses())
	if err != nil {
		return HintCounts{}, fmt.Errorf("failed to list guide links: %w", err)
	}

	counts := HintCounts{
		ByStage:    make(map[uuid.UUID]int),
		ByTask:     make(map[uuid.UUID]int),
		ByHintType: make(map[domain.HintType]int),
		GuideCount: len(links),
	}
	for _, link := range links {
		steps, err := s.steps.ListActiveByGuide(ctx, link.GuideID)
		if err != nil {
			return HintCounts{}, fmt.Errorf("failed to list steps for guide %s: %w", link.GuideID, err)
		}
		for _, step := range steps {
			counts.TotalHints++
			counts.ByHintType[step.HintType]++
			if refID, ok := step.Ref.RefID(); ok {
				switch step.Ref.Kind() {
				case domain.ReferenceTypeStage:
					counts.ByStage[refID]++
				case domain.ReferenceTypeTask:
					counts.ByTask[refID]++
				}
			} else {
				counts.GeneralHints++
			}
		}
	}
	return counts, nil
}

// GuideUsage is the per-link usage view for one guide of a case.
type GuideUsage struct {
	LinkID         uuid.UUID         `json:"linkId"`
	GuideID        uuid.UUID         `json:"guideId"`
	GuideTitle     string            `json:"guideTitle"`
	Status         domain.LinkStatus `json:"status"`
	Priority       domain.Priority   `json:"priority"`
	StepsCompleted int               `json:"stepsCompleted"`
	TotalSteps     int               `json:"totalSteps"`
	CompletionRate int               `json:"completionRate"`
	TotalViews     int               `json:"totalViews"`
	AvgStepRating  float64           `json:"avgStepRating"`
	TimeSpent      int               `json:"timeSpent"`
}

// GuideUsageForCase computes usage statistics for every guide linked to a
// case, any status. Empty guides report zero rates rather than failing.
func (s *Service) GuideUsageForCase(ctx context.Context, caseID uuid.UUID) ([]GuideUsage, error) {
	links, err := s.links.ListByCase(ctx, caseID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list guide links: %w", err)
	}

	usage := make([]GuideUsage, 0, len(links))
	for _, link := range links {
		guide, err := s.guides.GetByID(ctx, link.GuideID)
		if err != nil {
			return nil, fmt.Errorf("failed to load guide %s: %w", link.GuideID, err)
		}
		steps, err := s.steps.ListActiveByGuide(ctx, link.GuideID)
		if err != nil {
			return nil, fmt.Errorf("failed to list steps for guide %s: %w", link.GuideID, err)
		}

		entry := GuideUsage{
			LinkID:         link.ID,
			GuideID:        link.GuideID,
			GuideTitle:     guide.Title,
			Status:         link.Status,
			Priority:       link.Priority,
			StepsCompleted: link.StepsCompleted,
			TotalSteps:     len(steps),
			TimeSpent:      link.TimeSpent,
		}
		if len(steps) > 0 {
			entry.CompletionRate = int(math.Round(float64(link.StepsCompleted) / float64(len(steps)) * 100))
			ratingSum := 0
			for _, step := range steps {
				entry.TotalViews += step.ViewCount
				ratingSum += step.Rating()
			}
			entry.AvgStepRating = float64(ratingSum) / float64(len(steps))
		}
		usage = append(usage, entry)
	}
	return usage, nil
}
