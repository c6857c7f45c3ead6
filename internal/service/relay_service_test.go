package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studio-console-api/internal/models"
)

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Document
	users         []models.Document
	listErr       error
	updates       map[string]map[string]interface{}
}

func (f *fakeNotificationStore) ListUnprocessed(_ context.Context, _ string, limit int) ([]models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.notifications) > limit {
		return f.notifications[:limit], nil
	}
	return f.notifications, nil
}

func (f *fakeNotificationStore) List(context.Context, string) ([]models.Document, error) {
	return f.users, nil
}

func (f *fakeNotificationStore) Update(_ context.Context, _ string, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[string]map[string]interface{}{}
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeNotificationStore) update(id string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[id]
}

type fakePushDelivery struct {
	mu       sync.Mutex
	tokens   [][]string
	topics   []string
	tokenErr error
	attempts int

	topicFailures int
	topicAttempts int
}

func (f *fakePushDelivery) SendToTokens(_ context.Context, _ PushMessage, tokens []string) (PushResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.tokenErr != nil {
		return PushResult{}, f.tokenErr
	}
	f.tokens = append(f.tokens, tokens)
	return PushResult{SuccessCount: len(tokens)}, nil
}

func (f *fakePushDelivery) SendToTopic(_ context.Context, _ PushMessage, topic string) (PushResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topicAttempts++
	if f.topicFailures > 0 {
		f.topicFailures--
		return PushResult{}, errors.New("topic unavailable")
	}
	f.topics = append(f.topics, topic)
	return PushResult{SuccessCount: 1}, nil
}

func newTestRelay(store *fakeNotificationStore, sender *fakePushDelivery, retries int) *RelayService {
	relay := NewRelayService(RelayServiceParams{
		Store:  store,
		Sender: sender,
		Config: RelayConfig{Workers: 2, MaxRetries: retries, RetryDelay: time.Millisecond, Location: time.UTC},
	})
	relay.now = func() time.Time { return serviceNow }
	return relay
}

func TestRelayServiceDeliversAndMarksProcessed(t *testing.T) {
	store := &fakeNotificationStore{
		notifications: []models.Document{
			models.NewDocument("n1", map[string]interface{}{"title": "Class moved", "body": "Tomorrow 9:00", "token": "tok-a"}),
			models.NewDocument("n2", map[string]interface{}{"title": "Renew", "targetUserIds": []interface{}{"m1", "m2", "ghost"}}),
			models.NewDocument("n3", map[string]interface{}{"title": "Open day", "topic": "all-members"}),
		},
		users: []models.Document{
			models.NewDocument("m1", map[string]interface{}{"fcmToken": "tok-m1"}),
			models.NewDocument("m2", map[string]interface{}{"fcmToken": "tok-m2"}),
		},
	}
	sender := &fakePushDelivery{}
	relay := newTestRelay(store, sender, 0)

	enqueued, err := relay.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, enqueued)
	assert.ElementsMatch(t, [][]string{{"tok-a"}, {"tok-m1", "tok-m2"}}, sender.tokens)
	assert.Equal(t, []string{"all-members"}, sender.topics)

	n2 := store.update("n2")
	require.NotNil(t, n2)
	assert.Equal(t, true, n2["processed"])
	assert.Equal(t, 2, n2["successCount"])
	assert.Equal(t, 0, n2["failureCount"])
	assert.Equal(t, serviceNow, n2["processedAt"])
	assert.NotNil(t, store.update("n1"))
	assert.NotNil(t, store.update("n3"))
}

func TestRelayServiceMarksUntargetedNotifications(t *testing.T) {
	store := &fakeNotificationStore{
		notifications: []models.Document{
			models.NewDocument("n1", map[string]interface{}{"title": "Orphan"}),
			models.NewDocument("n2", map[string]interface{}{"title": "Gone", "userId": "deleted-user"}),
		},
	}
	sender := &fakePushDelivery{}
	relay := newTestRelay(store, sender, 0)

	enqueued, err := relay.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, enqueued)
	assert.Zero(t, sender.attempts)
	for _, id := range []string{"n1", "n2"} {
		fields := store.update(id)
		require.NotNil(t, fields, id)
		assert.Equal(t, true, fields["processed"])
		assert.Equal(t, FailureNoTarget, fields["failureReason"])
	}
}

func TestRelayServiceMarksExhaustedDeliveries(t *testing.T) {
	store := &fakeNotificationStore{
		notifications: []models.Document{
			models.NewDocument("n1", map[string]interface{}{"title": "Hi", "tokens": []interface{}{"a", "b"}}),
		},
	}
	sender := &fakePushDelivery{tokenErr: errors.New("unavailable")}
	relay := newTestRelay(store, sender, 1)

	enqueued, err := relay.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, enqueued)
	assert.Equal(t, 2, sender.attempts)
	fields := store.update("n1")
	require.NotNil(t, fields)
	assert.Equal(t, true, fields["processed"])
	assert.Equal(t, FailureSendFailed, fields["failureReason"])
	assert.Equal(t, 2, fields["failureCount"])
}

func TestRelayServiceRetryDoesNotResendTokens(t *testing.T) {
	store := &fakeNotificationStore{
		notifications: []models.Document{
			models.NewDocument("n1", map[string]interface{}{"title": "Schedule", "tokens": []interface{}{"a", "b"}, "topic": "all-members"}),
		},
	}
	sender := &fakePushDelivery{topicFailures: 1}
	relay := newTestRelay(store, sender, 2)

	_, err := relay.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sender.attempts)
	assert.Equal(t, [][]string{{"a", "b"}}, sender.tokens)
	assert.Equal(t, 2, sender.topicAttempts)
	assert.Equal(t, []string{"all-members"}, sender.topics)
	fields := store.update("n1")
	require.NotNil(t, fields)
	assert.Equal(t, 3, fields["successCount"])
	assert.Equal(t, 0, fields["failureCount"])
}

func TestRelayServiceTopicExhaustionKeepsTokenResults(t *testing.T) {
	store := &fakeNotificationStore{
		notifications: []models.Document{
			models.NewDocument("n1", map[string]interface{}{"title": "Schedule", "tokens": []interface{}{"a", "b"}, "topic": "all-members"}),
		},
	}
	sender := &fakePushDelivery{topicFailures: 5}
	relay := newTestRelay(store, sender, 1)

	_, err := relay.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sender.attempts)
	fields := store.update("n1")
	require.NotNil(t, fields)
	assert.Equal(t, 2, fields["successCount"])
	assert.Equal(t, 1, fields["failureCount"])
	assert.Equal(t, FailureSendFailed, fields["failureReason"])
}

func TestRelayServiceListFailure(t *testing.T) {
	store := &fakeNotificationStore{listErr: errors.New("permission denied")}
	relay := newTestRelay(store, &fakePushDelivery{}, 0)

	_, err := relay.PollOnce(context.Background())

	assert.Error(t, err)
}

func TestResolveTokensDeduplicates(t *testing.T) {
	n := models.NotificationRecord{Tokens: []string{"a", "b", "a", ""}, TargetUserIDs: []string{"u1", "u2"}}
	tokens := resolveTokens(n, map[string]string{"u1": "b", "u2": "c"})
	assert.Equal(t, []string{"a", "b", "c"}, tokens)
}
