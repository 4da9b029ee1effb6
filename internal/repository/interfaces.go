package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

// RecordStore is the generic entity store adapter: uniform CRUD with
// filtered listing, pagination, partial-merge patching and transactional
// bulk insert over one JSONB documents table.
type RecordStore interface {
	Create(ctx context.Context, record domain.Record) (domain.Record, error)
	CreateBatch(ctx context.Context, records []domain.Record) ([]domain.Record, error)
	GetByID(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.Record, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Record, error)
	List(ctx context.Context, entityType domain.EntityType, filter domain.ListFilter) ([]domain.Record, int, error)
	Patch(ctx context.Context, entityType domain.EntityType, id uuid.UUID, patch json.RawMessage) (domain.Record, error)
	Replace(ctx context.Context, entityType domain.EntityType, id uuid.UUID, document json.RawMessage) (domain.Record, error)
	Delete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error
	Count(ctx context.Context, entityType domain.EntityType, filter domain.ListFilter) (int64, error)
}

// CaseRepository defines the interface for onboarding case operations.
type CaseRepository interface {
	Create(ctx context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.OnboardingCase, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.OnboardingCase, int, error)
	Save(ctx context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error)
	Patch(ctx context.Context, id uuid.UUID, patch map[string]any) (domain.OnboardingCase, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter domain.ListFilter) (int64, error)
}

// StageRepository defines the interface for stage operations.
type StageRepository interface {
	Create(ctx context.Context, stage domain.Stage) (domain.Stage, error)
	CreateBatch(ctx context.Context, stages []domain.Stage) ([]domain.Stage, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Stage, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Stage, error)
	MaxSequence(ctx context.Context, caseID uuid.UUID) (int, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Stage, int, error)
	Save(ctx context.Context, stage domain.Stage) (domain.Stage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository defines the interface for task operations.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Task, error)
	ListByStage(ctx context.Context, stageID uuid.UUID) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID, filter domain.ListFilter) ([]domain.Task, error)
	ListOverdueByCase(ctx context.Context, caseID uuid.UUID, now time.Time) ([]domain.Task, error)
	MaxSequence(ctx context.Context, stageID uuid.UUID) (int, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, int, error)
	Save(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter domain.ListFilter) (int64, error)
}

// GuideRepository defines the interface for workflow guide operations.
type GuideRepository interface {
	Create(ctx context.Context, guide domain.WorkflowGuide) (domain.WorkflowGuide, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.WorkflowGuide, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.WorkflowGuide, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.WorkflowGuide, int, error)
	Save(ctx context.Context, guide domain.WorkflowGuide) (domain.WorkflowGuide, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GuideStepRepository defines the interface for guide step operations.
type GuideStepRepository interface {
	Create(ctx context.Context, step domain.GuideStep) (domain.GuideStep, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.GuideStep, error)
	ListActiveByGuide(ctx context.Context, guideID uuid.UUID) ([]domain.GuideStep, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.GuideStep, int, error)
	Save(ctx context.Context, step domain.GuideStep) (domain.GuideStep, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CaseGuideLinkRepository defines the interface for case-guide link
// operations.
type CaseGuideLinkRepository interface {
	Create(ctx context.Context, link domain.CaseGuideLink) (domain.CaseGuideLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.CaseGuideLink, error)
	ListByCase(ctx context.Context, caseID uuid.UUID, statuses []domain.LinkStatus) ([]domain.CaseGuideLink, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.CaseGuideLink, int, error)
	Save(ctx context.Context, link domain.CaseGuideLink) (domain.CaseGuideLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the interface for notification
// persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.ListFilter) ([]domain.Notification, int, error)
	ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Notification, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Notification, int, error)
	Save(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

// AuditLogRepository defines the interface for the append-only audit
// trail. Entries are only updated to mark them reviewed.
type AuditLogRepository interface {
	Create(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error)
	CreateBatch(ctx context.Context, entries []domain.AuditLog) ([]domain.AuditLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.AuditLog, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.AuditLog, int, error)
	Save(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error)
}

// TemplateRepository defines the interface for template operations.
type TemplateRepository interface {
	Create(ctx context.Context, t domain.Template) (domain.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Template, int, error)
	ListDefaults(ctx context.Context, templateType domain.TemplateType) ([]domain.Template, error)
	Save(ctx context.Context, t domain.Template) (domain.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user directory operations.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int, error)
	Save(ctx context.Context, u domain.User) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientRepository defines the interface for client operations.
type ClientRepository interface {
	Create(ctx context.Context, c domain.Client) (domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error)
	Save(ctx context.Context, c domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkflowTypeRepository defines the interface for workflow type
// operations.
type WorkflowTypeRepository interface {
	Create(ctx context.Context, wt domain.WorkflowType) (domain.WorkflowType, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.WorkflowType, error)
	GetDefault(ctx context.Context) (domain.WorkflowType, error)
	SetDefault(ctx context.Context, id uuid.UUID) (domain.WorkflowType, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.WorkflowType, int, error)
	Save(ctx context.Context, wt domain.WorkflowType) (domain.WorkflowType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository defines the interface for document tracking records.
type DocumentRepository interface {
	Create(ctx context.Context, d domain.Document) (domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Document, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Document, error)
	Save(ctx context.Context, d domain.Document) (domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
