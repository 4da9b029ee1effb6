package repository

import (
	"context"
	"time"

	"github.com/caseflow/caseflow/internal/domain"

	"github.com/google/uuid"
)

type notificationRepository struct {
	store RecordStore
}

// NewNotificationRepository creates a repository for notifications.
func NewNotificationRepository(store RecordStore) NotificationRepository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.RecipientID == uuid.Nil {
		return domain.Notification{}, domain.NewValidationError("recipientId", "is required")
	}
	if n.Title == "" {
		return domain.Notification{}, domain.NewValidationError("title", "is required")
	}
	return createEntity(ctx, r.store, domain.EntityTypeNotification, n.ID, n)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return getEntity[domain.Notification](ctx, r.store, domain.EntityTypeNotification, id)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.ListFilter) ([]domain.Notification, int, error) {
	filter = filter.WithEquals("recipientId", recipientID.String())
	return listEntities[domain.Notification](ctx, r.store, domain.EntityTypeNotification, filter)
}

func (r *notificationRepository) ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	filter := domain.ListFilter{}.
		WithEquals("status", string(domain.NotificationStatusPending)).
		WithRange("scheduledFor", nil, &now)
	notifications, _, err := listEntities[domain.Notification](ctx, r.store, domain.EntityTypeNotification, filter)
	return notifications, err
}

func (r *notificationRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Notification, int, error) {
	return listEntities[domain.Notification](ctx, r.store, domain.EntityTypeNotification, filter)
}

func (r *notificationRepository) Save(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return saveEntity(ctx, r.store, domain.EntityTypeNotification, n.ID, n)
}
