package repository

import (
	"context"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type caseGuideLinkRepository struct {
	store RecordStore
}

// NewCaseGuideLinkRepository creates a repository for case-guide links.
func NewCaseGuideLinkRepository(store RecordStore) CaseGuideLinkRepository {
	return &caseGuideLinkRepository{store: store}
}

func (r *caseGuideLinkRepository) Create(ctx context.Context, link domain.CaseGuideLink) (domain.CaseGuideLink, error) {
	if link.OnboardingCaseID == uuid.Nil {
		return domain.CaseGuideLink{}, domain.NewValidationError("onboardingCaseId", "is required")
	}
	if link.GuideID == uuid.Nil {
		return domain.CaseGuideLink{}, domain.NewValidationError("guideId", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeCaseGuideLink, link.ID, link)
}

func (r *caseGuideLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.CaseGuideLink, error) {
	return getEntity[domain.CaseGuideLink](ctx, r.store, domain.EntityTypeCaseGuideLink, id)
}

func (r *caseGuideLinkRepository) ListByCase(ctx context.Context, caseID uuid.UUID, statuses []domain.LinkStatus) ([]domain.CaseGuideLink, error) {
	filter := domain.ListFilter{}.WithEquals("onboardingCaseId", caseID.String())
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		filter = filter.WithIn("status", values)
	}
	links, _, err := listEntities[domain.CaseGuideLink](ctx, r.store, domain.EntityTypeCaseGuideLink, filter)
	return links, err
}

func (r *caseGuideLinkRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.CaseGuideLink, int, error) {
	return listEntities[domain.CaseGuideLink](ctx, r.store, domain.EntityTypeCaseGuideLink, filter)
}

func (r *caseGuideLinkRepository) Save(ctx context.Context, link domain.CaseGuideLink) (domain.CaseGuideLink, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeCaseGuideLink, link.ID, link)
}

func (r *caseGuideLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeCaseGuideLink, id)
}
