package repository

import (
	"context"
	"fmt"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type caseRepository struct {
	store RecordStore
}

// NewCaseRepository creates a repository for onboarding cases.
func NewCaseRepository(store RecordStore) CaseRepository {
	return &caseRepository{store: store}
}

func (r *caseRepository) Create(ctx context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error) {
	if c.CaseID == "" {
		return domain.OnboardingCase{}, domain.NewValidationError("caseId", "is required")
	}
	if c.ClientID == uuid.Nil {
		return domain.OnboardingCase{}, domain.NewValidationError("clientId", "is required")
	}

	taken, err := r.store.Count(ctx, domain.EntityTypeCase,
		domain.ListFilter{}.WithEquals("caseId", c.CaseID))
	if err != nil {
		return domain.OnboardingCase{}, err
	}
	if taken > 0 {
		return domain.OnboardingCase{}, domain.NewConflictError("duplicate_case_id",
			fmt.Sprintf("case id %q already exists", c.CaseID))
	}

	c.Progress = domain.ClampProgress(c.Progress)
	return createEntity(ctx, r.store, domain.EntityTypeCase, c.ID, c)
}

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.OnboardingCase, error) {
	return getEntity[domain.OnboardingCase](ctx, r.store, domain.EntityTypeCase, id)
}

func (r *caseRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.OnboardingCase, int, error) {
	return listEntities[domain.OnboardingCase](ctx, r.store, domain.EntityTypeCase, filter)
}

func (r *caseRepository) Save(ctx context.Context, c domain.OnboardingCase) (domain.OnboardingCase, error) {
	c.Progress = domain.ClampProgress(c.Progress)
	return saveEntity(ctx, r.store, domain.EntityTypeCase, c.ID, c)
}

func (r *caseRepository) Patch(ctx context.Context, id uuid.UUID, patch map[string]any) (domain.OnboardingCase, error) {
	if progress, ok := patch["progress"].(float64); ok {
		patch["progress"] = domain.ClampProgress(int(progress))
	}
	return patchEntity[domain.OnboardingCase](ctx, r.store, domain.EntityTypeCase, id, patch)
}

func (r *caseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeCase, id)
}

func (r *caseRepository) Count(ctx context.Context, filter domain.ListFilter) (int64, error) {
	return r.store.Count(ctx, domain.EntityTypeCase, filter)
}
