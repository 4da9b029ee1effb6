package repository

import (
	"context"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type stageRepository struct {
	store RecordStore
}

// NewStageRepository creates a repository for stages.
func NewStageRepository(store RecordStore) StageRepository {
	return &stageRepository{store: store}
}

func (r *stageRepository) Create(ctx context.Context, stage domain.Stage) (domain.Stage, error) {
	if stage.Name == "" {
		return domain.Stage{}, domain.NewValidationError("name", "is required")
	}
	if stage.OnboardingCaseID == uuid.Nil {
		return domain.Stage{}, domain.NewValidationError("onboardingCaseId", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeStage, stage.ID, stage)
}

func (r *stageRepository) CreateBatch(ctx context.Context, stages []domain.Stage) ([]domain.Stage, error) {
	ids := make([]uuid.UUID, len(stages))
	for i, stage := range stages {
		if stage.OnboardingCaseID == uuid.Nil {
			return nil, domain.NewValidationError("onboardingCaseId", "is required")
		}
		ids[i] = stage.ID
	}
	return createEntityBatch(ctx, r.store, domain.EntityTypeStage, ids, stages)
}

func (r *stageRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Stage, error) {
	return getEntity[domain.Stage](ctx, r.store, domain.EntityTypeStage, id)
}

func (r *stageRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Stage, error) {
	filter := domain.ListFilter{}.
		WithEquals("onboardingCaseId", caseID.String()).
		WithSort("sequence", domain.SortDirectionAsc)
	stages, _, err := listEntities[domain.Stage](ctx, r.store, domain.EntityTypeStage, filter)
	return stages, err
}

func (r *stageRepository) MaxSequence(ctx context.Context, caseID uuid.UUID) (int, error) {
	filter := domain.ListFilter{
		Limit: 1,
	}.
		WithEquals("onboardingCaseId", caseID.String()).
		WithSort("sequence", domain.SortDirectionDesc)
	stages, _, err := listEntities[domain.Stage](ctx, r.store, domain.EntityTypeStage, filter)
	if err != nil {
		return 0, err
	}
	if len(stages) == 0 {
		return 0, nil
	}
	return stages[0].Sequence, nil
}

func (r *stageRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Stage, int, error) {
	return listEntities[domain.Stage](ctx, r.store, domain.EntityTypeStage, filter)
}

func (r *stageRepository) Save(ctx context.Context, stage domain.Stage) (domain.Stage, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeStage, stage.ID, stage)
}

func (r *stageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeStage, id)
}
