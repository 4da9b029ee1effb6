package repository

import (
	"context"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type templateRepository struct {
	store RecordStore
}

// NewTemplateRepository creates a repository for templates.
func NewTemplateRepository(store RecordStore) TemplateRepository {
	return &templateRepository{store: store}
}

func (r *templateRepository) Create(ctx context.Context, t domain.Template) (domain.Template, error) {
	if t.Name == "" {
		return domain.Template{}, domain.NewValidationError("name", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeTemplate, t.ID, t)
}

func (r *templateRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	return getEntity[domain.Template](ctx, r.store, domain.EntityTypeTemplate, id)
}

func (r *templateRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Template, int, error) {
	return listEntities[domain.Template](ctx, r.store, domain.EntityTypeTemplate, filter)
}

func (r *templateRepository) ListDefaults(ctx context.Context, templateType domain.TemplateType) ([]domain.Template, error) {
	filter := domain.ListFilter{}.
		WithEquals("type", string(templateType)).
		WithEquals("isDefault", "true")
	templates, _, err := listEntities[domain.Template](ctx, r.store, domain.EntityTypeTemplate, filter)
	return templates, err
}

func (r *templateRepository) Save(ctx context.Context, t domain.Template) (domain.Template, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeTemplate, t.ID, t)
}

func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, domain.EntityTypeTemplate, id)
}
