package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

// Directory repositories: users, clients, workflow types and document
// tracking records. Small aggregates with the occasional uniqueness rule.

type userRepository struct {
	store RecordStore
}

// NewUserRepository creates a repository for the user directory.
func NewUserRepository(store RecordStore) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Email == "" {
		return domain.User{}, domain.NewValidationError("email", "is required")
	}
	taken, err := r.store.Count(ctx, domain.EntityTypeUser,
		domain.ListFilter{}.WithEquals("email", strings.ToLower(u.Email)))
	if err != nil {
		return domain.User{}, err
	}
	if taken > 0 {
		return domain.User{}, domain.NewConflictError("duplicate_email",
			fmt.Sprintf("email %q already registered", u.Email))
	}
	u.Email = strings.ToLower(u.Email)
	return createEntity(ctx, r.store, domain.EntityTypeUser, u.ID, u)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return getEntity[domain.User](ctx, r.store, domain.EntityTypeUser, id)
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	records, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		if record.EntityType != domain.EntityTypeUser {
			continue
		}
		user, err := decodeEntity[domain.User](record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int, error) {
	return listEntities[domain.User](ctx, r.store, domain.EntityTypeUser, filter)
}

func (r *userRepository) Save(ctx context.Context, u domain.User) (domain.User, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeUser, u.ID, u)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeUser, id)
}

type clientRepository struct {
	store RecordStore
}

// NewClientRepository creates a repository for clients.
func NewClientRepository(store RecordStore) ClientRepository {
	return &clientRepository{store: store}
}

func (r *clientRepository) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.Name == "" {
		return domain.Client{}, domain.NewValidationError("name", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeClient, c.ID, c)
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return getEntity[domain.Client](ctx, r.store, domain.EntityTypeClient, id)
}

func (r *clientRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error) {
	return listEntities[domain.Client](ctx, r.store, domain.EntityTypeClient, filter)
}

func (r *clientRepository) Save(ctx context.Context, c domain.Client) (domain.Client, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeClient, c.ID, c)
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeClient, id)
}

type workflowTypeRepository struct {
	store RecordStore
}

// NewWorkflowTypeRepository creates a repository for workflow types.
func NewWorkflowTypeRepository(store RecordStore) WorkflowTypeRepository {
	return &workflowTypeRepository{store: store}
}

func (r *workflowTypeRepository) Create(ctx context.Context, wt domain.WorkflowType) (domain.WorkflowType, error) {
	if wt.Name == "" {
		return domain.WorkflowType{}, domain.NewValidationError("name", "is required")
	}
	if wt.Prefix == "" || len(wt.Prefix) > 3 {
		return domain.WorkflowType{}, domain.NewValidationError("prefix", "must be 1-3 characters")
	}

	wt.Prefix = strings.ToUpper(wt.Prefix)
	unique := []struct{ field, value string }{
		{"prefix", wt.Prefix},
		{"name", wt.Name},
	}
	for _, u := range unique {
		field, value := u.field, u.value
		taken, err := r.store.Count(ctx, domain.EntityTypeWorkflowType,
			domain.ListFilter{}.WithEquals(field, value))
		if err != nil {
			return domain.WorkflowType{}, err
		}
		if taken > 0 {
			return domain.WorkflowType{}, domain.NewConflictError("duplicate_"+field,
				fmt.Sprintf("workflow type %s %q already exists", field, value))
		}
	}
	return createEntity(ctx, r.store, domain.EntityTypeWorkflowType, wt.ID, wt)
}

func (r *workflowTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.WorkflowType, error) {
	return getEntity[domain.WorkflowType](ctx, r.store, domain.EntityTypeWorkflowType, id)
}

func (r *workflowTypeRepository) GetDefault(ctx context.Context) (domain.WorkflowType, error) {
	filter := domain.ListFilter{Limit: 1}.WithEquals("isDefault", "true")
	types, _, err := listEntities[domain.WorkflowType](ctx, r.store, domain.EntityTypeWorkflowType, filter)
	if err != nil {
		return domain.WorkflowType{}, err
	}
	if len(types) == 0 {
		return domain.WorkflowType{}, domain.NewNotFoundError(domain.EntityTypeWorkflowType, "default")
	}
	return types[0], nil
}

// SetDefault marks one workflow type as the system-wide default and
// unsets any other type currently holding it.
func (r *workflowTypeRepository) SetDefault(ctx context.Context, id uuid.UUID) (domain.WorkflowType, error) {
	wt, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.WorkflowType{}, err
	}

	filter := domain.ListFilter{}.WithEquals("isDefault", "true")
	current, _, err := listEntities[domain.WorkflowType](ctx, r.store, domain.EntityTypeWorkflowType, filter)
	if err != nil {
		return domain.WorkflowType{}, err
	}
	for _, previous := range current {
		if previous.ID == wt.ID {
			continue
		}
		previous.IsDefault = false
		if _, err := saveEntity(ctx, r.store, domain.EntityTypeWorkflowType, previous.ID, previous); err != nil {
			return domain.WorkflowType{}, fmt.Errorf("failed to unset previous default: %w", err)
		}
	}

	wt.IsDefault = true
	return saveEntity(ctx, r.store, domain.EntityTypeWorkflowType, wt.ID, wt)
}

func (r *workflowTypeRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.WorkflowType, int, error) {
	return listEntities[domain.WorkflowType](ctx, r.store, domain.EntityTypeWorkflowType, filter)
}

func (r *workflowTypeRepository) Save(ctx context.Context, wt domain.WorkflowType) (domain.WorkflowType, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeWorkflowType, wt.ID, wt)
}

func (r *workflowTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeWorkflowType, id)
}

type documentRepository struct {
	store RecordStore
}

// NewDocumentRepository creates a repository for document tracking
// records.
func NewDocumentRepository(store RecordStore) DocumentRepository {
	return &documentRepository{store: store}
}

func (r *documentRepository) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	if d.Name == "" {
		return domain.Document{}, domain.NewValidationError("name", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeDocument, d.ID, d)
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	return getEntity[domain.Document](ctx, r.store, domain.EntityTypeDocument, id)
}

func (r *documentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Document, error) {
	filter := domain.ListFilter{}.WithEquals("taskId", taskID.String())
	documents, _, err := listEntities[domain.Document](ctx, r.store, domain.EntityTypeDocument, filter)
	return documents, err
}

func (r *documentRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Document, error) {
	filter := domain.ListFilter{}.WithEquals("onboardingCaseId", caseID.String())
	documents, _, err := listEntities[domain.Document](ctx, r.store, domain.EntityTypeDocument, filter)
	return documents, err
}

func (r *documentRepository) Save(ctx context.Context, d domain.Document) (domain.Document, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeDocument, d.ID, d)
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeDocument, id)
}
