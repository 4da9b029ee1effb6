package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"
)

// Service computes summary aggregations over cases and tasks. Everything
// here is read-only; all rates report 0 when the denominator is empty.
type Service struct {
	cases repository.CaseRepository
	tasks repository.TaskRepository
	now   func() time.Time
}

// Option configures the analytics service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an analytics service.
func NewService(cases repository.CaseRepository, tasks repository.TaskRepository, opts ...Option) *Service {
	s := &Service{cases: cases, tasks: tasks, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CaseSummary aggregates the case portfolio.
type CaseSummary struct {
	TotalCases        int                       `json:"totalCases"`
	ActiveCases       int                       `json:"activeCases"`
	CompletedCases    int                       `json:"completedCases"`
	OverdueCases      int                       `json:"overdueCases"`
	CompletionRate    int                       `json:"completionRate"`
	ByStatus          map[domain.CaseStatus]int `json:"byStatus"`
	ByPriority        map[domain.Priority]int   `json:"byPriority"`
	AverageProgress   int                       `json:"averageProgress"`
	AvgCompletionDays float64                   `json:"avgCompletionDays"`
}

// CaseSummary aggregates counts, distributions and completion statistics
// across all cases matching the filter.
func (s *Service) CaseSummary(ctx context.Context, filter domain.ListFilter) (CaseSummary, error) {
	cases, _, err := s.cases.List(ctx, filter)
	if err != nil {
		return CaseSummary{}, fmt.Errorf("failed to list cases: %w", err)
	}

	summary := CaseSummary{
		TotalCases: len(cases),
		ByStatus:   make(map[domain.CaseStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}
	now := s.now().UTC()
	progressSum := 0
	completionDaysSum := 0.0
	completedWithDates := 0
	for _, c := range cases {
		summary.ByStatus[c.Status]++
		summary.ByPriority[c.Priority]++
		progressSum += c.Progress
		if c.IsOverdue(now) {
			summary.OverdueCases++
		}
		switch c.Status {
		case domain.CaseStatusCompleted:
			summary.CompletedCases++
			if c.ActualCompletionDate != nil {
				completionDaysSum += c.ActualCompletionDate.Sub(c.StartDate).Hours() / 24
				completedWithDates++
			}
		case domain.CaseStatusInProgress, domain.CaseStatusPlanning, domain.CaseStatusOnHold:
			summary.ActiveCases++
		}
	}
	if summary.TotalCases > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.CompletedCases) / float64(summary.TotalCases) * 100))
		summary.AverageProgress = int(math.Round(float64(progressSum) / float64(summary.TotalCases)))
	}
	if completedWithDates > 0 {
		summary.AvgCompletionDays = completionDaysSum / float64(completedWithDates)
	}
	return summary, nil
}

// TaskSummary aggregates the task workload.
type TaskSummary struct {
	TotalTasks     int                       `json:"totalTasks"`
	OpenTasks      int                       `json:"openTasks"`
	CompletedTasks int                       `json:"completedTasks"`
	OverdueTasks   int                       `json:"overdueTasks"`
	CompletionRate int                       `json:"completionRate"`
	OverdueRate    int                       `json:"overdueRate"`
	ByStatus       map[domain.TaskStatus]int `json:"byStatus"`
	ByPriority     map[domain.Priority]int   `json:"byPriority"`
	AvgActualHours float64                   `json:"avgActualHours"`
}

// TaskSummary aggregates counts, distributions and overdue statistics
// across all tasks matching the filter.
func (s *Service) TaskSummary(ctx context.Context, filter domain.ListFilter) (TaskSummary, error) {
	tasks, _, err := s.tasks.List(ctx, filter)
	if err != nil {
		return TaskSummary{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := s.now().UTC()
	summary := TaskSummary{
		TotalTasks: len(tasks),
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}
	hoursSum := 0.0
	completedWithHours := 0
	for _, task := range tasks {
		summary.ByStatus[task.Status]++
		summary.ByPriority[task.Priority]++
		if task.IsOpen() {
			summary.OpenTasks++
		}
		if task.IsOverdue(now) {
			summary.OverdueTasks++
		}
		if task.Status == domain.TaskStatusCompleted {
			summary.CompletedTasks++
			if task.ActualDuration > 0 {
				hoursSum += task.ActualDuration
				completedWithHours++
			}
		}
	}
	if summary.TotalTasks > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100))
		summary.OverdueRate = int(math.Round(float64(summary.OverdueTasks) / float64(summary.TotalTasks) * 100))
	}
	if completedWithHours > 0 {
		summary.AvgActualHours = hoursSum / float64(completedWithHours)
	}
	return summary, nil
}
