package repository

import (
	"context"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type guideRepository struct {
	store RecordStore
}

// NewGuideRepository creates a repository for workflow guides.
func NewGuideRepository(store RecordStore) GuideRepository {
	return &guideRepository{store: store}
}

func (r *guideRepository) Create(ctx context.Context, guide domain.WorkflowGuide) (domain.WorkflowGuide, error) {
	if guide.Title == "" {
		return domain.WorkflowGuide{}, domain.NewValidationError("title", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeGuide, guide.ID, guide)
}

func (r *guideRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.WorkflowGuide, error) {
	return getEntity[domain.WorkflowGuide](ctx, r.store, domain.EntityTypeGuide, id)
}

func (r *guideRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.WorkflowGuide, error) {
	records, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	guides := make([]domain.WorkflowGuide, 0, len(records))
	for _, record := range records {
		if record.EntityType != domain.EntityTypeGuide {
			continue
		}
		guide, err := decodeEntity[domain.WorkflowGuide](record)
		if err != nil {
			return nil, err
		}
		guides = append(guides, guide)
	}
	return guides, nil
}

func (r *guideRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.WorkflowGuide, int, error) {
	return listEntities[domain.WorkflowGuide](ctx, r.store, domain.EntityTypeGuide, filter)
}

func (r *guideRepository) Save(ctx context.Context, guide domain.WorkflowGuide) (domain.WorkflowGuide, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeGuide, guide.ID, guide)
}

func (r *guideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeGuide, id)
}

type guideStepRepository struct {
	store RecordStore
}

// NewGuideStepRepository creates a repository for guide steps.
func NewGuideStepRepository(store RecordStore) GuideStepRepository {
	return &guideStepRepository{store: store}
}

func (r *guideStepRepository) Create(ctx context.Context, step domain.GuideStep) (domain.GuideStep, error) {
	if step.Title == "" {
		return domain.GuideStep{}, domain.NewValidationError("title", "is required")
	}
	if step.GuideID == uuid.Nil {
		return domain.GuideStep{}, domain.NewValidationError("guideId", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeGuideStep, step.ID, step)
}

func (r *guideStepRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.GuideStep, error) {
	return getEntity[domain.GuideStep](ctx, r.store, domain.EntityTypeGuideStep, id)
}

func (r *guideStepRepository) ListActiveByGuide(ctx context.Context, guideID uuid.UUID) ([]domain.GuideStep, error) {
	filter := domain.ListFilter{}.
		WithEquals("guideId", guideID.String()).
		WithEquals("isActive", "true").
		WithSort("sequence", domain.SortDirectionAsc)
	steps, _, err := listEntities[domain.GuideStep](ctx, r.store, domain.EntityTypeGuideStep, filter)
	return steps, err
}

func (r *guideStepRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.GuideStep, int, error) {
	return listEntities[domain.GuideStep](ctx, r.store, domain.EntityTypeGuideStep, filter)
}

func (r *guideStepRepository) Save(ctx context.Context, step domain.GuideStep) (domain.GuideStep, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeGuideStep, step.ID, step)
}

func (r *guideStepRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeGuideStep, id)
}
