package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caseflow/caseflow/internal/domain"
	"github.com/caseflow/caseflow/internal/repository"

	"github.com/google/uuid"
)

type stubNotificationRepo struct {
	repository.NotificationRepository
	notifications map[uuid.UUID]domain.Notification
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: make(map[uuid.UUID]domain.Notification)}
}

func (s *stubNotificationRepo) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	s.notifications[n.ID] = n
	return n, nil
}

func (s *stubNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Notification, error) {
	n, ok := s.notifications[id]
	if !ok {
		return domain.Notification{}, domain.NewNotFoundError(domain.EntityTypeNotification, id.String())
	}
	return n, nil
}

func (s *stubNotificationRepo) Save(_ context.Context, n domain.Notification) (domain.Notification, error) {
	s.notifications[n.ID] = n
	return n, nil
}

func (s *stubNotificationRepo) ListScheduledDue(_ context.Context, now time.Time) ([]domain.Notification, error) {
	var due []domain.Notification
	for _, n := range s.notifications {
		if n.Status == domain.NotificationStatusPending && n.ScheduledFor != nil && !n.ScheduledFor.After(now) {
			due = append(due, n)
		}
	}
	return due, nil
}

type stubTaskRepo struct {
	repository.TaskRepository
	tasks map[uuid.UUID]domain.Task
}

func newStubTaskRepo(tasks ...domain.Task) *stubTaskRepo {
	repo := &stubTaskRepo{tasks: make(map[uuid.UUID]domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (s *stubTaskRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.Task, int, error) {
	var out []domain.Task
	for _, task := range s.tasks {
		if task.IsOpen() {
			out = append(out, task)
		}
	}
	return out, len(out), nil
}

func (s *stubTaskRepo) Save(_ context.Context, task domain.Task) (domain.Task, error) {
	s.tasks[task.ID] = task
	return task, nil
}

func okSender() Sender {
	return SenderFunc(func(context.Context, domain.Notification, domain.DeliveryChannel) error {
		return nil
	})
}

func failingSender(reason string) Sender {
	return SenderFunc(func(context.Context, domain.Notification, domain.DeliveryChannel) error {
		return errors.New(reason)
	})
}

func channelByType(t *testing.T, n domain.Notification, kind domain.ChannelType) domain.DeliveryChannel {
	t.Helper()
	for _, channel := range n.Channels {
		if channel.Type == kind {
			return channel
		}
	}
	t.Fatalf("notification has no %s channel: %+v", kind, n.Channels)
	return domain.DeliveryChannel{}
}

func TestCreateChannelFanOutByPriority(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewService(repo, newStubTaskRepo())

	medium, err := svc.Create(context.Background(), domain.NotificationSpec{
		RecipientID: uuid.New(), Title: "FYI", Priority: domain.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("Create medium: %v", err)
	}
	if len(medium.Channels) != 1 || medium.Channels[0].Type != domain.ChannelInApp {
		t.Errorf("medium channels = %+v, want in-app only", medium.Channels)
	}

	critical, err := svc.Create(context.Background(), domain.NotificationSpec{
		RecipientID: uuid.New(), Title: "Act now", Priority: domain.PriorityCritical,
	})
	if err != nil {
		t.Fatalf("Create critical: %v", err)
	}
	if len(critical.Channels) != 2 {
		t.Errorf("critical channels = %+v, want in-app and email", critical.Channels)
	}
	if critical.Status != domain.NotificationStatusSent {
		t.Errorf("status = %q, want sent", critical.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newStubNotificationRepo(), newStubTaskRepo())
	var validation *domain.ValidationError

	_, err := svc.Create(context.Background(), domain.NotificationSpec{Title: "no recipient"})
	if !errors.As(err, &validation) || validation.Field != "recipientId" {
		t.Errorf("err = %v, want ValidationError on recipientId", err)
	}
	_, err = svc.Create(context.Background(), domain.NotificationSpec{RecipientID: uuid.New()})
	if !errors.As(err, &validation) || validation.Field != "title" {
		t.Errorf("err = %v, want ValidationError on title", err)
	}
}

func TestDispatchChannelsIndependent(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewService(repo, newStubTaskRepo(),
		WithSender(domain.ChannelInApp, okSender()),
		WithSender(domain.ChannelEmail, failingSender("smtp timeout")),
	)

	n, err := svc.Create(context.Background(), domain.NotificationSpec{
		RecipientID: uuid.New(), Title: "Urgent", Priority: domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inApp := channelByType(t, n, domain.ChannelInApp)
	if inApp.Status != domain.ChannelStatusSent || inApp.SentAt == nil {
		t.Errorf("in-app channel = %+v, want sent despite the email failure", inApp)
	}
	email := channelByType(t, n, domain.ChannelEmail)
	if email.Status != domain.ChannelStatusFailed || email.FailureReason != "smtp timeout" {
		t.Errorf("email channel = %+v, want failed with the sender's reason", email)
	}
	// One surviving channel keeps the notification sent overall.
	if n.Status != domain.NotificationStatusSent {
		t.Errorf("status = %q, want sent", n.Status)
	}
}

func TestDispatchAllChannelsFail(t *testing.T) {
	svc := NewService(newStubNotificationRepo(), newStubTaskRepo(),
		WithSender(domain.ChannelInApp, failingSender("down")),
		WithSender(domain.ChannelEmail, failingSender("down")),
	)

	n, err := svc.Create(context.Background(), domain.NotificationSpec{
		RecipientID: uuid.New(), Title: "Lost", Priority: domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Status != domain.NotificationStatusFailed {
		t.Errorf("status = %q, want failed when no channel succeeds", n.Status)
	}
}

func TestScheduledNotificationsDeferred(t *testing.T) {
	repo := newStubNotificationRepo()
	now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	svc := NewService(repo, newStubTaskRepo(), WithClock(func() time.Time { return now }))

	later := now.Add(time.Hour)
	n, err := svc.Create(context.Background(), domain.NotificationSpec{
		RecipientID:  uuid.New(),
		Title:        "Later",
		ScheduledFor: &later,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Status != domain.NotificationStatusPending {
		t.Errorf("status = %q, want pending until the scheduled time", n.Status)
	}

	// Nothing due yet.
	sent, err := svc.ProcessScheduled(context.Background())
	if err != nil {
		t.Fatalf("ProcessScheduled: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0 before the scheduled time", sent)
	}

	now = now.Add(2 * time.Hour)
	sent, err = svc.ProcessScheduled(context.Background())
	if err != nil {
		t.Fatalf("ProcessScheduled after due: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	dispatched, _ := repo.GetByID(context.Background(), n.ID)
	if dispatched.Status != domain.NotificationStatusSent {
		t.Errorf("status = %q, want sent after the sweep", dispatched.Status)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := newStubNotificationRepo()
	now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	svc := NewService(repo, newStubTaskRepo(), WithClock(func() time.Time { return now }))

	n, err := svc.Create(context.Background(), domain.NotificationSpec{RecipientID: uuid.New(), Title: "Read me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	read, err := svc.MarkRead(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !read.IsRead || read.ReadAt == nil {
		t.Fatalf("notification = %+v, want read with a timestamp", read)
	}
	firstReadAt := *read.ReadAt

	now = now.Add(time.Hour)
	again, err := svc.MarkRead(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if !again.ReadAt.Equal(firstReadAt) {
		t.Errorf("ReadAt = %v, want the original %v", again.ReadAt, firstReadAt)
	}
}

func TestCheckOverdueTasks(t *testing.T) {
	now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	pastDue := now.Add(-24 * time.Hour)
	assigneeA := uuid.New()
	assigneeB := uuid.New()

	fresh := domain.Task{ID: uuid.New(), TaskID: "TSK-1-0001", Name: "Collect KYC", Status: domain.TaskStatusInProgress, DueDate: &pastDue, AssignedTo: []uuid.UUID{assigneeA, assigneeB}}
	alreadyFlagged := domain.Task{ID: uuid.New(), TaskID: "TSK-1-0002", Name: "Old news", Status: domain.TaskStatusNotStarted, DueDate: &pastDue, AssignedTo: []uuid.UUID{assigneeA}, ReminderSent: true}
	noDueDate := domain.Task{ID: uuid.New(), TaskID: "TSK-1-0003", Name: "Whenever", Status: domain.TaskStatusNotStarted, AssignedTo: []uuid.UUID{assigneeA}}
	tasks := newStubTaskRepo(fresh, alreadyFlagged, noDueDate)

	repo := newStubNotificationRepo()
	svc := NewService(repo, tasks, WithClock(func() time.Time { return now }))

	notified, err := svc.CheckOverdueTasks(context.Background())
	if err != nil {
		t.Fatalf("CheckOverdueTasks: %v", err)
	}
	if notified != 2 {
		t.Errorf("notified = %d, want one per assignee of the fresh task", notified)
	}
	if !tasks.tasks[fresh.ID].ReminderSent {
		t.Error("fresh task should be flagged as reminded")
	}

	// A second sweep finds nothing new.
	notified, err = svc.CheckOverdueTasks(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if notified != 0 {
		t.Errorf("second sweep notified = %d, want 0", notified)
	}
}
