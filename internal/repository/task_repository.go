package repository

import (
	"context"
	"time"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type taskRepository struct {
	store RecordStore
}

// NewTaskRepository creates a repository for tasks.
func NewTaskRepository(store RecordStore) TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.Name == "" {
		return domain.Task{}, domain.NewValidationError("name", "is required")
	}
	if task.StageID == uuid.Nil {
		return domain.Task{}, domain.NewValidationError("stageId", "is required")
	}
	if task.OnboardingCaseID == uuid.Nil {
		return domain.Task{}, domain.NewValidationError("onboardingCaseId", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeTask, task.ID, task)
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	ids := make([]uuid.UUID, len(tasks))
	for i, task := range tasks {
		if task.StageID == uuid.Nil {
			return nil, domain.NewValidationError("stageId", "is required")
		}
		ids[i] = task.ID
	}
	return createEntityBatch(ctx, r.store, domain.EntityTypeTask, ids, tasks)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	return getEntity[domain.Task](ctx, r.store, domain.EntityTypeTask, id)
}

func (r *taskRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Task, error) {
	filter := domain.ListFilter{}.
		WithEquals("onboardingCaseId", caseID.String()).
		WithSort("sequence", domain.SortDirectionAsc)
	tasks, _, err := listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
	return tasks, err
}

func (r *taskRepository) ListByStage(ctx context.Context, stageID uuid.UUID) ([]domain.Task, error) {
	filter := domain.ListFilter{}.
		WithEquals("stageId", stageID.String()).
		WithSort("sequence", domain.SortDirectionAsc)
	tasks, _, err := listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
	return tasks, err
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID, filter domain.ListFilter) ([]domain.Task, error) {
	// assignedTo is an array in the document, so the equality operators
	// don't apply; filter on the decoded entities instead.
	tasks, _, err := listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
	if err != nil {
		return nil, err
	}
	assigned := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.IsAssignedTo(userID) {
			assigned = append(assigned, task)
		}
	}
	return assigned, nil
}

func (r *taskRepository) ListOverdueByCase(ctx context.Context, caseID uuid.UUID, now time.Time) ([]domain.Task, error) {
	filter := domain.ListFilter{}.
		WithEquals("onboardingCaseId", caseID.String()).
		WithIn("status", []string{string(domain.TaskStatusNotStarted), string(domain.TaskStatusInProgress)}).
		WithRange("dueDate", nil, &now)
	tasks, _, err := listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
	return tasks, err
}

func (r *taskRepository) MaxSequence(ctx context.Context, stageID uuid.UUID) (int, error) {
	filter := domain.ListFilter{
		Limit: 1,
	}.
		WithEquals("stageId", stageID.String()).
		WithSort("sequence", domain.SortDirectionDesc)
	tasks, _, err := listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}
	return tasks[0].Sequence, nil
}

func (r *taskRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, int, error) {
	return listEntities[domain.Task](ctx, r.store, domain.EntityTypeTask, filter)
}

func (r *taskRepository) Save(ctx context.Context, task domain.Task) (domain.Task, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeTask, task.ID, task)
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeTask, id)
}

func (r *taskRepository) Count(ctx context.Context, filter domain.ListFilter) (int64, error) {
	return r.store.Count(ctx, domain.EntityTypeTask, filter)
}
