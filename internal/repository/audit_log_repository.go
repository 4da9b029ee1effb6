package repository

import (
	"context"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type auditLogRepository struct {
	store RecordStore
}

// NewAuditLogRepository creates a repository for the audit trail.
func NewAuditLogRepository(store RecordStore) AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error) {
	if entry.Action == "" {
		return domain.AuditLog{}, domain.NewValidationError("action", "is required")
	}
	if entry.EntityID == "" {
		return domain.AuditLog{}, domain.NewValidationError("entityId", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeAuditLog, entry.ID, entry)
}

func (r *auditLogRepository) CreateBatch(ctx context.Context, entries []domain.AuditLog) ([]domain.AuditLog, error) {
	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return createEntityBatch(ctx, r.store, domain.EntityTypeAuditLog, ids, entries)
}

func (r *auditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.AuditLog, error) {
	return getEntity[domain.AuditLog](ctx, r.store, domain.EntityTypeAuditLog, id)
}

func (r *auditLogRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.AuditLog, int, error) {
	return listEntities[domain.AuditLog](ctx, r.store, domain.EntityTypeAuditLog, filter)
}

func (r *auditLogRepository) Save(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeAuditLog, entry.ID, entry)
}
