package service

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Push outcomes reported to metrics.
const (
	PushOutcomeSent    = "sent"
	PushOutcomeFailed  = "failed"
	PushOutcomeSkipped = "skipped"
)

// FCM accepts at most this many tokens per multicast call.
const maxMulticastTokens = 500

type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushMessage is the content of one notification.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushResult counts per-token delivery outcomes.
type PushResult struct {
	SuccessCount int
	FailureCount int
}

// PushSender delivers notifications through FCM.
type PushSender struct {
	client fcmClient
	logger *zap.Logger
}

// NewPushSender constructs a PushSender.
func NewPushSender(client fcmClient, logger *zap.Logger) *PushSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushSender{client: client, logger: logger}
}

// SendToTokens multicasts msg to every token. A transport error aborts with an error; per-token
// rejections are only counted.
func (s *PushSender) SendToTokens(ctx context.Context, msg PushMessage, tokens []string) (PushResult, error) {
	var result PushResult
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := start + maxMulticastTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       tokens[start:end],
			Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
			Data:         msg.Data,
		})
		if err != nil {
			return result, fmt.Errorf("fcm multicast: %w", err)
		}
		result.SuccessCount += resp.SuccessCount
		result.FailureCount += resp.FailureCount
		for i, r := range resp.Responses {
			if r != nil && !r.Success {
				s.logger.Debug("push token rejected", zap.Int("index", start+i), zap.Error(r.Error))
			}
		}
	}
	return result, nil
}

// SendToTopic publishes msg to a topic.
func (s *PushSender) SendToTopic(ctx context.Context, msg PushMessage, topic string) (PushResult, error) {
	id, err := s.client.Send(ctx, &messaging.Message{
		Topic:        topic,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		return PushResult{}, fmt.Errorf("fcm topic %s: %w", topic, err)
	}
	s.logger.Debug("topic push sent", zap.String("topic", topic), zap.String("message_id", id))
	return PushResult{SuccessCount: 1}, nil
}
