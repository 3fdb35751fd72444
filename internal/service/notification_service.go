package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/jobs"
)

type notificationRepo interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Sender delivers a notification event over an external channel (email,
// WhatsApp). Implementations live at the edge; the engine only knows this
// contract.
type Sender interface {
	Send(ctx context.Context, event models.NotificationEvent) error
}

// LogSender is the development Sender: it logs deliveries instead of
// calling a provider.
type LogSender struct {
	Logger *zap.Logger
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, event models.NotificationEvent) error {
	s.Logger.Info("notification delivered",
		zap.String("type", string(event.Type)),
		zap.String("recipient_id", event.RecipientID),
		zap.String("title", event.Title),
	)
	return nil
}

// NotificationService turns lifecycle events into in-app rows and
// asynchronous external deliveries. Publishing is fire-and-forget: nothing
// here may fail a booking transition.
type NotificationService struct {
	repo   notificationRepo
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService builds the dispatcher. Call StartWorkers before
// publishing; sender is consumed by the queue handler. metrics may be nil.
func NewNotificationService(repo notificationRepo, sender Sender, metrics *MetricsService, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = &LogSender{Logger: logger}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}

	svc := &NotificationService{repo: repo, logger: logger}
	svc.queue = jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(models.NotificationEvent)
		if !ok {
			logger.Warn("notification job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		err := sender.Send(ctx, event)
		metrics.RecordNotificationDelivery(err == nil)
		return err
	}, cfg)
	return svc
}

// StartWorkers launches the delivery workers.
func (s *NotificationService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains the delivery workers.
func (s *NotificationService) StopWorkers() {
	s.queue.Stop()
}

// Publish records the event for the recipient and queues external
// delivery. Failures are logged and swallowed so the calling transition
// never rolls back over a notification.
func (s *NotificationService) Publish(ctx context.Context, event models.NotificationEvent) {
	notification := &models.Notification{
		UserID:  event.RecipientID,
		Type:    event.Type,
		Title:   event.Title,
		Message: event.Message,
	}
	if event.Link != "" {
		link := event.Link
		notification.Link = &link
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to store notification",
			zap.String("type", string(event.Type)),
			zap.String("recipient_id", event.RecipientID),
			zap.Error(err),
		)
	}

	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: string(event.Type), Payload: event}); err != nil {
		s.logger.Warn("failed to queue notification delivery",
			zap.String("type", string(event.Type)),
			zap.String("recipient_id", event.RecipientID),
			zap.Error(err),
		)
	}
}

// List returns the user's notifications with pagination.
func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	rows, total, err := s.repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return rows, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// MarkRead flags a notification as read for its owner.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// CountUnread returns the user's unread badge count.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}
