package audit

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

// Recorder writes entries to the append-only audit trail. Recording is
// best effort: a failed write is logged and never propagated, so audit
// problems cannot fail the business operation they describe.
type Recorder struct {
	repo repository.AuditLogRepository
	now  func() time.Time
}

// NewRecorder creates an audit recorder.
func NewRecorder(repo repository.AuditLogRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Entry describes one auditable event.
type Entry struct {
	Action          string
	EntityType      domain.EntityType
	EntityID        string
	UserID          uuid.UUID
	Changes         []domain.FieldChange
	Description     string
	RiskLevel       domain.RiskLevel
	ComplianceFlags []string
}

// Record persists one audit entry. Errors are swallowed after logging.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	entry := r.build(e)
	if _, err := r.repo.Create(ctx, entry); err != nil {
		log.Printf("[AUDIT] failed to record %s on %s %s: %v", e.Action, e.EntityType, e.EntityID, err)
	}
}

// RecordBatch persists several entries in one transactional write. Errors
// are swallowed after logging.
func (r *Recorder) RecordBatch(ctx context.Context, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	logs := make([]domain.AuditLog, len(entries))
	for i, e := range entries {
		logs[i] = r.build(e)
	}
	if _, err := r.repo.CreateBatch(ctx, logs); err != nil {
		log.Printf("[AUDIT] failed to record batch of %d entries: %v", len(entries), err)
	}
}

// MarkReviewed flags an entry as reviewed by a compliance user.
func (r *Recorder) MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes string) (domain.AuditLog, error) {
	entry, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return domain.AuditLog{}, err
	}
	now := r.now().UTC()
	entry.IsReviewed = true
	entry.ReviewedBy = reviewerID
	entry.ReviewedAt = &now
	entry.ReviewNotes = notes
	return r.repo.Save(ctx, entry)
}

// List returns audit entries matching the filter.
func (r *Recorder) List(ctx context.Context, filter domain.ListFilter) ([]domain.AuditLog, int, error) {
	return r.repo.List(ctx, filter)
}

func (r *Recorder) build(e Entry) domain.AuditLog {
	now := r.now().UTC()
	risk := e.RiskLevel
	if risk == "" {
		risk = domain.RiskLevelLow
	}
	return domain.AuditLog{
		ID:              uuid.New(),
		LogID:           NewLogID(string(e.EntityType), now),
		Action:          e.Action,
		EntityType:      e.EntityType,
		EntityID:        e.EntityID,
		UserID:          e.UserID,
		Changes:         e.Changes,
		Description:     e.Description,
		RiskLevel:       risk,
		ComplianceFlags: e.ComplianceFlags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewLogID builds a human-readable log id like AUDIT-Task-1724800000000-4821.
func NewLogID(scope string, now time.Time) string {
	return fmt.Sprintf("AUDIT-%s-%d-%04d", scope, now.UnixMilli(), rand.Intn(10000))
}
