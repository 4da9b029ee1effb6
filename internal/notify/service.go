package notify

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

// Sender delivers one notification over one channel. Real integrations
// (SMTP, SMS gateway, push broker) plug in here; the defaults only log.
type Sender interface {
	Send(ctx context.Context, n domain.Notification, channel domain.DeliveryChannel) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, n domain.Notification, channel domain.DeliveryChannel) error

func (f SenderFunc) Send(ctx context.Context, n domain.Notification, channel domain.DeliveryChannel) error {
	return f(ctx, n, channel)
}

// Service persists notifications and fans them out over delivery channels.
type Service struct {
	repo    repository.NotificationRepository
	tasks   repository.TaskRepository
	senders map[domain.ChannelType]Sender
	now     func() time.Time
}

// Option configures the notification service.
type Option func(*Service)

// WithSender registers a delivery integration for one channel type.
func WithSender(channel domain.ChannelType, sender Sender) Option {
	return func(s *Service) {
		s.senders[channel] = sender
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a notification service. Channels without a registered
// sender fall back to a logging sender.
func NewService(repo repository.NotificationRepository, tasks repository.TaskRepository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		tasks:   tasks,
		senders: make(map[domain.ChannelType]Sender),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, channel := range []domain.ChannelType{domain.ChannelInApp, domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush} {
		if _, ok := s.senders[channel]; !ok {
			s.senders[channel] = logSender(channel)
		}
	}
	return s
}

func logSender(channel domain.ChannelType) Sender {
	return SenderFunc(func(_ context.Context, n domain.Notification, _ domain.DeliveryChannel) error {
		log.Printf("[NOTIFY] %s -> %s: %s", channel, n.RecipientID, n.Title)
		return nil
	})
}

// Create persists a notification from the collaborator spec and, unless it
// is scheduled for later, dispatches it immediately. Dispatch failures are
// recorded on the channel, not returned.
func (s *Service) Create(ctx context.Context, spec domain.NotificationSpec) (domain.Notification, error) {
	if spec.RecipientID == uuid.Nil {
		return domain.Notification{}, domain.NewValidationError("recipientId", "is required")
	}
	if spec.Title == "" {
		return domain.Notification{}, domain.NewValidationError("title", "is required")
	}

	now := s.now().UTC()
	priority := spec.Priority
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}
	n := domain.Notification{
		ID:                uuid.New(),
		NotificationID:    newNotificationID(now),
		RecipientID:       spec.RecipientID,
		Title:             spec.Title,
		Message:           spec.Message,
		Type:              spec.Type,
		Priority:          priority,
		RelatedEntityType: spec.RelatedEntityType,
		RelatedEntityID:   spec.RelatedEntityID,
		Channels:          channelsFor(priority),
		Status:            domain.NotificationStatusPending,
		ScheduledFor:      spec.ScheduledFor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	if created.ScheduledFor != nil && created.ScheduledFor.After(now) {
		return created, nil
	}
	return s.dispatch(ctx, created)
}

// channelsFor picks the delivery fan-out by priority. Everything goes
// in-app; urgent notifications also go out by email.
func channelsFor(priority domain.Priority) []domain.DeliveryChannel {
	channels := []domain.DeliveryChannel{{Type: domain.ChannelInApp, Status: domain.ChannelStatusPending}}
	if priority.Rank() <= domain.PriorityHigh.Rank() {
		channels = append(channels, domain.DeliveryChannel{Type: domain.ChannelEmail, Status: domain.ChannelStatusPending})
	}
	return channels
}

// dispatch attempts every pending channel independently. One channel
// failing does not stop the others; the notification goes to failed status
// only when no channel succeeds.
func (s *Service) dispatch(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	now := s.now().UTC()
	anySent := false
	for i, channel := range n.Channels {
		if channel.Status != domain.ChannelStatusPending {
			continue
		}
		sender, ok := s.senders[channel.Type]
		if !ok {
			n.Channels[i].Status = domain.ChannelStatusFailed
			n.Channels[i].FailureReason = "no sender registered"
			continue
		}
		if err := sender.Send(ctx, n, channel); err != nil {
			log.Printf("[NOTIFY] %s delivery failed for %s: %v", channel.Type, n.NotificationID, err)
			n.Channels[i].Status = domain.ChannelStatusFailed
			n.Channels[i].FailureReason = err.Error()
			continue
		}
		sentAt := now
		n.Channels[i].Status = domain.ChannelStatusSent
		n.Channels[i].SentAt = &sentAt
		anySent = true
	}

	if anySent {
		n.Status = domain.NotificationStatusSent
	} else {
		n.Status = domain.NotificationStatusFailed
	}
	n.UpdatedAt = now
	return s.repo.Save(ctx, n)
}

// GetByID returns one notification.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForRecipient returns a recipient's notifications, newest first.
func (s *Service) ListForRecipient(ctx context.Context, recipientID uuid.UUID, filter domain.ListFilter) ([]domain.Notification, int, error) {
	if len(filter.Sort) == 0 {
		filter = filter.WithSort("created_at", domain.SortDirectionDesc)
	}
	return s.repo.ListByRecipient(ctx, recipientID, filter)
}

// MarkRead flags a notification as read. Already-read notifications keep
// their original readAt.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	if n.IsRead {
		return n, nil
	}
	now := s.now().UTC()
	n.IsRead = true
	n.ReadAt = &now
	n.Status = domain.NotificationStatusRead
	n.UpdatedAt = now
	return s.repo.Save(ctx, n)
}

// Dismiss hides a notification from the recipient's feed.
func (s *Service) Dismiss(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	if n.IsDismissed {
		return n, nil
	}
	now := s.now().UTC()
	n.IsDismissed = true
	n.DismissedAt = &now
	n.Status = domain.NotificationStatusDismissed
	n.UpdatedAt = now
	return s.repo.Save(ctx, n)
}

// ProcessScheduled dispatches every pending notification whose scheduled
// time has passed. It is the operation the external batch sweep calls.
func (s *Service) ProcessScheduled(ctx context.Context) (int, error) {
	due, err := s.repo.ListScheduledDue(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	sent := 0
	for _, n := range due {
		if _, err := s.dispatch(ctx, n); err != nil {
			log.Printf("[NOTIFY] failed to dispatch scheduled %s: %v", n.NotificationID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// CheckOverdueTasks notifies assignees of open tasks past their due date
// that have not been flagged yet, then marks each task reminded. Also an
// external batch operation.
func (s *Service) CheckOverdueTasks(ctx context.Context) (int, error) {
	now := s.now().UTC()
	open := []string{string(domain.TaskStatusNotStarted), string(domain.TaskStatusInProgress)}
	filter := domain.ListFilter{}.
		WithIn("status", open).
		WithRange("dueDate", nil, &now)
	tasks, _, err := s.tasks.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	notified := 0
	for _, task := range tasks {
		if task.ReminderSent || task.DueDate == nil {
			continue
		}
		for _, assignee := range task.AssignedTo {
			_, err := s.Create(ctx, domain.NotificationSpec{
				RecipientID:       assignee,
				Title:             "Task overdue",
				Message:           fmt.Sprintf("Task %q was due %s", task.Name, task.DueDate.Format("2006-01-02")),
				Type:              domain.NotificationTypeTaskOverdue,
				Priority:          domain.PriorityHigh,
				RelatedEntityType: domain.EntityTypeTask,
				RelatedEntityID:   task.ID,
			})
			if err != nil {
				log.Printf("[NOTIFY] overdue notification failed for task %s: %v", task.TaskID, err)
				continue
			}
			notified++
		}

		task.ReminderSent = true
		if _, err := s.tasks.Save(ctx, task); err != nil {
			log.Printf("[NOTIFY] failed to flag task %s as reminded: %v", task.TaskID, err)
		}
	}
	return notified, nil
}

func newNotificationID(now time.Time) string {
	return fmt.Sprintf("NOTIF-%d-%04d", now.UnixMilli(), rand.Intn(10000))
}
