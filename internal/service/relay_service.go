package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/analytics"
	"github.com/noah-isme/studio-console-api/internal/models"
	"github.com/noah-isme/studio-console-api/pkg/jobs"
)

// Failure reasons written back onto notifications.
const (
	FailureNoTarget   = "no_target"
	FailureSendFailed = "send_failed"
)

type notificationStore interface {
	ListUnprocessed(ctx context.Context, collection string, limit int) ([]models.Document, error)
	List(ctx context.Context, collection string) ([]models.Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
}

type pushDelivery interface {
	SendToTokens(ctx context.Context, msg PushMessage, tokens []string) (PushResult, error)
	SendToTopic(ctx context.Context, msg PushMessage, topic string) (PushResult, error)
}

// RelayConfig tunes the relay.
type RelayConfig struct {
	NotificationsCollection string
	UsersCollection         string
	PollInterval            time.Duration
	BatchSize               int
	Workers                 int
	MaxRetries              int
	RetryDelay              time.Duration
	Location                *time.Location
}

// RelayServiceParams groups constructor dependencies.
type RelayServiceParams struct {
	Store   notificationStore
	Sender  pushDelivery
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  RelayConfig
}

// pushJob is shared across retries of one notification, so a retry skips targets that
// were already delivered.
type pushJob struct {
	Notification models.NotificationRecord
	Tokens       []string

	tokensSent bool
	delivered  PushResult
}

// RelayService forwards queued notification documents to FCM and marks them processed.
type RelayService struct {
	store   notificationStore
	sender  pushDelivery
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RelayConfig
	queue   *jobs.Queue
	now     func() time.Time
}

// NewRelayService constructs a RelayService and its worker queue.
func NewRelayService(params RelayServiceParams) *RelayService {
	cfg := params.Config
	if cfg.NotificationsCollection == "" {
		cfg.NotificationsCollection = "notifications"
	}
	if cfg.UsersCollection == "" {
		cfg.UsersCollection = "users"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RelayService{
		store:   params.Store,
		sender:  params.Sender,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
	s.queue = jobs.NewQueue("push-relay", s.handle, jobs.QueueConfig{
		Workers:     cfg.Workers,
		BufferSize:  cfg.BatchSize,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		Logger:      logger,
		OnExhausted: s.exhausted,
	})
	return s
}

// Run polls until ctx is cancelled.
func (s *RelayService) Run(ctx context.Context) error {
	s.queue.Start(ctx)
	defer s.queue.Stop()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if _, err := s.poll(ctx); err != nil {
			s.logger.Error("relay poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce runs a single poll cycle and waits for its deliveries to settle.
func (s *RelayService) PollOnce(ctx context.Context) (int, error) {
	s.queue.Start(ctx)
	defer s.queue.Stop()
	return s.poll(ctx)
}

func (s *RelayService) poll(ctx context.Context) (int, error) {
	docs, err := s.store.ListUnprocessed(ctx, s.cfg.NotificationsCollection, s.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	notifications := make([]models.NotificationRecord, 0, len(docs))
	needUsers := false
	for _, doc := range docs {
		n := models.DecodeNotification(doc, s.cfg.Location)
		notifications = append(notifications, n)
		if len(n.TargetUserIDs) > 0 {
			needUsers = true
		}
	}

	var userTokens map[string]string
	if needUsers {
		if userTokens, err = s.userTokens(ctx); err != nil {
			return 0, err
		}
	}

	enqueued := 0
	for _, n := range notifications {
		tokens := resolveTokens(n, userTokens)
		if len(tokens) == 0 && n.Topic == "" {
			s.markProcessed(ctx, n.ID, models.NotificationOutcome{FailureReason: FailureNoTarget})
			s.metrics.RecordPushResult(PushOutcomeSkipped, 1)
			continue
		}
		job := jobs.Job{ID: uuid.NewString(), Type: "push", Payload: &pushJob{Notification: n, Tokens: tokens}}
		if err := s.queue.Enqueue(job); err != nil {
			s.queue.Wait()
			return enqueued, err
		}
		enqueued++
	}
	s.queue.Wait()
	s.logger.Info("relay batch settled", zap.Int("notifications", len(notifications)), zap.Int("enqueued", enqueued))
	return enqueued, nil
}

func (s *RelayService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(*pushJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	n := payload.Notification
	msg := PushMessage{Title: n.Title, Body: n.Body, Data: n.Data}

	if len(payload.Tokens) > 0 && !payload.tokensSent {
		r, err := s.sender.SendToTokens(ctx, msg, payload.Tokens)
		if err != nil {
			return err
		}
		payload.tokensSent = true
		payload.delivered = r
	}
	result := payload.delivered
	if n.Topic != "" {
		r, err := s.sender.SendToTopic(ctx, msg, n.Topic)
		if err != nil {
			return err
		}
		result.SuccessCount += r.SuccessCount
		result.FailureCount += r.FailureCount
	}

	s.metrics.RecordPushResult(PushOutcomeSent, result.SuccessCount)
	s.metrics.RecordPushResult(PushOutcomeFailed, result.FailureCount)
	s.markProcessed(ctx, n.ID, models.NotificationOutcome{SuccessCount: result.SuccessCount, FailureCount: result.FailureCount})
	return nil
}

func (s *RelayService) exhausted(ctx context.Context, job jobs.Job, err error) {
	payload, ok := job.Payload.(*pushJob)
	if !ok {
		return
	}
	outcome := models.NotificationOutcome{FailureReason: FailureSendFailed}
	if payload.tokensSent {
		// Only the topic send failed; token results stand.
		outcome.SuccessCount = payload.delivered.SuccessCount
		outcome.FailureCount = payload.delivered.FailureCount + 1
		s.metrics.RecordPushResult(PushOutcomeSent, outcome.SuccessCount)
	} else {
		outcome.FailureCount = len(payload.Tokens)
		if outcome.FailureCount == 0 {
			outcome.FailureCount = 1
		}
	}
	s.metrics.RecordPushResult(PushOutcomeFailed, outcome.FailureCount)
	s.markProcessed(ctx, payload.Notification.ID, outcome)
	s.logger.Warn("notification delivery abandoned", zap.String("notification_id", payload.Notification.ID), zap.Error(err))
}

func (s *RelayService) markProcessed(ctx context.Context, id string, outcome models.NotificationOutcome) {
	outcome.ProcessedAt = s.now().UTC()
	if err := s.store.Update(ctx, s.cfg.NotificationsCollection, id, outcome.Fields()); err != nil {
		s.logger.Error("mark notification processed failed", zap.String("notification_id", id), zap.Error(err))
	}
}

func (s *RelayService) userTokens(ctx context.Context) (map[string]string, error) {
	docs, err := s.store.List(ctx, s.cfg.UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	tokens := make(map[string]string, len(docs))
	for _, u := range analytics.DecodeUsers(docs, s.cfg.Location) {
		if u.FCMToken != "" {
			tokens[u.ID] = u.FCMToken
		}
	}
	return tokens, nil
}

func resolveTokens(n models.NotificationRecord, userTokens map[string]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(n.Tokens)+len(n.TargetUserIDs))
	add := func(token string) {
		if token == "" {
			return
		}
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	for _, token := range n.Tokens {
		add(token)
	}
	for _, id := range n.TargetUserIDs {
		add(userTokens[id])
	}
	return out
}
