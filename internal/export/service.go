package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"
	"github.com/caseflow/caseflow/internal/workflow"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Service writes case progress reports as xlsx workbooks.
type Service struct {
	orchestrator *workflow.Service
	clients      repository.ClientRepository
	now          func() time.Time
}

// Option configures the export service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an export service.
func NewService(orchestrator *workflow.Service, clients repository.ClientRepository, opts ...Option) *Service {
	s := &Service{orchestrator: orchestrator, clients: clients, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteProgressWorkbook renders one case's dashboard as a three-sheet
// workbook (Summary, Stages, Tasks) to the writer.
func (s *Service) WriteProgressWorkbook(ctx context.Context, caseID uuid.UUID, w io.Writer) error {
	dashboard, err := s.orchestrator.GetDashboard(ctx, caseID)
	if err != nil {
		return err
	}

	clientName := ""
	if client, err := s.clients.GetByID(ctx, dashboard.Case.ClientID); err == nil {
		clientName = client.Name
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)
	if err := s.writeSummary(f, summarySheet, dashboard, clientName); err != nil {
		return err
	}
	if err := s.writeStages(f, dashboard.Stages); err != nil {
		return err
	}
	if err := s.writeTasks(f, dashboard.Tasks); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *Service) writeSummary(f *excelize.File, sheet string, dashboard workflow.Dashboard, clientName string) error {
	rows := [][]any{
		{"Case", dashboard.Case.CaseID},
		{"Client", clientName},
		{"Status", string(dashboard.Case.Status)},
		{"Priority", string(dashboard.Case.Priority)},
		{"Progress", dashboard.Case.Progress},
		{"Stage completion %", dashboard.Progress.StageCompletion},
		{"Task completion %", dashboard.Progress.TaskCompletion},
		{"Overdue tasks", dashboard.OverdueTasks},
		{"Estimated remaining days", dashboard.Progress.EstimatedRemainingDays},
		{"Generated", s.now().UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func (s *Service) writeStages(f *excelize.File, stages []domain.Stage) error {
	const sheet = "Stages"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []any{"Stage ID", "Name", "Sequence", "Status", "Progress", "Estimated days", "Actual days"}
	rows := [][]any{header}
	for _, stage := range stages {
		rows = append(rows, []any{
			stage.StageID, stage.Name, stage.Sequence, string(stage.Status),
			stage.Progress, stage.EstimatedDuration, stage.ActualDuration,
		})
	}
	return writeRows(f, sheet, rows)
}

func (s *Service) writeTasks(f *excelize.File, tasks []domain.Task) error {
	const sheet = "Tasks"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []any{"Task ID", "Name", "Status", "Priority", "Sequence", "Due date", "Completed date", "Assignees"}
	rows := [][]any{header}
	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02")
		}
		completed := ""
		if task.CompletedDate != nil {
			completed = task.CompletedDate.Format("2006-01-02")
		}
		rows = append(rows, []any{
			task.TaskID, task.Name, string(task.Status), string(task.Priority),
			task.Sequence, dueDate, completed, len(task.AssignedTo),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
