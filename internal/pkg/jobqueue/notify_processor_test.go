package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForumBots/HookRelay/app/models"
	"github.com/ForumBots/HookRelay/app/repository"
	"github.com/ForumBots/HookRelay/internal/pkg/notifications"
	"github.com/ForumBots/HookRelay/internal/pkg/webhook"
)

type stubBotRepository struct {
	repository.BotRepository
	bots []models.Bot
}

func (s *stubBotRepository) GetAll() ([]models.Bot, error) {
	return s.bots, nil
}

type stubSubscriptionRepository struct {
	repository.BotSubscriptionRepository
	subs          []models.BotSubscription
	queriedBotIDs []string
}

func (s *stubSubscriptionRepository) GetActiveByBotIDs(botIDs []string) ([]models.BotSubscription, error) {
	s.queriedBotIDs = botIDs
	out := make([]models.BotSubscription, 0, len(s.subs))
	for _, sub := range s.subs {
		for _, id := range botIDs {
			if sub.BotID == id {
				out = append(out, sub)
				break
			}
		}
	}
	return out, nil
}

type recordingDeliveryRepository struct {
	repository.WebhookDeliveryRepository
	records []models.WebhookDelivery
}

func (r *recordingDeliveryRepository) Create(d *models.WebhookDelivery) error {
	r.records = append(r.records, *d)
	return nil
}

func installNotifyFixtures(bots []models.Bot, subs *stubSubscriptionRepository) *recordingDeliveryRepository {
	deliveries := &recordingDeliveryRepository{}
	repository.SetGlobalRepositories(&repository.Repositories{
		Bot:             &stubBotRepository{bots: bots},
		BotSubscription: subs,
		WebhookDelivery: deliveries,
	})
	return deliveries
}

func notifyTestQueue() *Queue {
	return &Queue{
		notifier:   webhook.NewNotifier(),
		authorizer: notifications.NewDefaultAuthorizer(),
	}
}

func publicPostJob() *Job {
	payload, audience := notifications.BuildPostPayload(notifications.PostEvent{
		PostID:      101,
		ThreadID:    7,
		ThreadTitle: "Release notes",
		AuthorID:    42,
		AuthorName:  "alice",
		Public:      true,
		CreatedAt:   1700000000,
	})
	return &Job{
		ID:      "job-test-1",
		Type:    JobTypeWebhookNotify,
		Status:  JobStatusPending,
		Payload: WebhookNotifyJobPayload{Notification: payload, Audience: audience}.ToMap(),
	}
}

func countingServer(status int, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(status)
	}))
}

func TestProcessWebhookNotifyJob_FailureIsolation(t *testing.T) {
	var hits1, hits2, hits3 int32
	ok1 := countingServer(http.StatusNoContent, &hits1)
	defer ok1.Close()
	broken := countingServer(http.StatusInternalServerError, &hits2)
	defer broken.Close()
	ok2 := countingServer(http.StatusOK, &hits3)
	defer ok2.Close()

	bots := []models.Bot{
		{BotID: "b1", UserID: 1},
		{BotID: "b2", UserID: 2},
		{BotID: "b3", UserID: 3},
	}
	subs := &stubSubscriptionRepository{subs: []models.BotSubscription{
		{BotSubscriptionID: "sub-1", BotID: "b1", IsActive: true, PlatformAPIKey: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Webhook: ok1.URL},
		{BotSubscriptionID: "sub-2", BotID: "b2", IsActive: true, PlatformAPIKey: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Webhook: broken.URL},
		{BotSubscriptionID: "sub-3", BotID: "b3", IsActive: true, PlatformAPIKey: "cccccccccccccccccccccccccccccccc", Webhook: ok2.URL},
	}}
	deliveries := installNotifyFixtures(bots, subs)

	err := notifyTestQueue().processWebhookNotifyJob(context.Background(), publicPostJob())

	// One recipient failing must not fail the job as a whole
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits1), "recipient before the failure must be attempted")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits2), "failing recipient must be attempted")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits3), "recipient after the failure must still be attempted")

	require.Len(t, deliveries.records, 3)
	byID := map[string]models.WebhookDelivery{}
	for _, rec := range deliveries.records {
		byID[rec.BotSubscriptionID] = rec
	}

	assert.Equal(t, models.DeliveryStatusDelivered, byID["sub-1"].Status)
	assert.Equal(t, http.StatusNoContent, byID["sub-1"].HTTPStatus)
	assert.Empty(t, byID["sub-1"].Error)

	assert.Equal(t, models.DeliveryStatusFailed, byID["sub-2"].Status)
	assert.Equal(t, http.StatusInternalServerError, byID["sub-2"].HTTPStatus)
	assert.NotEmpty(t, byID["sub-2"].Error)

	assert.Equal(t, models.DeliveryStatusDelivered, byID["sub-3"].Status)
	assert.Equal(t, http.StatusOK, byID["sub-3"].HTTPStatus)

	for _, rec := range deliveries.records {
		assert.Equal(t, "job-test-1", rec.JobID)
		assert.Equal(t, notifications.EventTypePostCreated, rec.EventType)
		assert.Equal(t, uint(101), rec.ContentID)
	}
}

func TestProcessWebhookNotifyJob_UnreachableRecipient(t *testing.T) {
	var hits1, hits3 int32
	first := countingServer(http.StatusNoContent, &hits1)
	defer first.Close()
	last := countingServer(http.StatusNoContent, &hits3)
	defer last.Close()

	// Middle recipient: connection refused
	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	goneURL := gone.URL
	gone.Close()

	bots := []models.Bot{
		{BotID: "b1", UserID: 1},
		{BotID: "b2", UserID: 2},
		{BotID: "b3", UserID: 3},
	}
	subs := &stubSubscriptionRepository{subs: []models.BotSubscription{
		{BotSubscriptionID: "sub-1", BotID: "b1", IsActive: true, PlatformAPIKey: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Webhook: first.URL},
		{BotSubscriptionID: "sub-2", BotID: "b2", IsActive: true, PlatformAPIKey: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Webhook: goneURL},
		{BotSubscriptionID: "sub-3", BotID: "b3", IsActive: true, PlatformAPIKey: "cccccccccccccccccccccccccccccccc", Webhook: last.URL},
	}}
	deliveries := installNotifyFixtures(bots, subs)

	err := notifyTestQueue().processWebhookNotifyJob(context.Background(), publicPostJob())

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits1))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits3), "recipients after an unreachable one must still be attempted")

	require.Len(t, deliveries.records, 3)
	assert.Equal(t, models.DeliveryStatusFailed, deliveries.records[1].Status)
	assert.Zero(t, deliveries.records[1].HTTPStatus, "no response means no observed status")
	assert.NotEmpty(t, deliveries.records[1].Error)
}

func TestProcessWebhookNotifyJob_PrivateAudience(t *testing.T) {
	var hits int32
	server := countingServer(http.StatusNoContent, &hits)
	defer server.Close()

	bots := []models.Bot{
		{BotID: "b1", UserID: 1},
		{BotID: "b2", UserID: 2},
	}
	subs := &stubSubscriptionRepository{subs: []models.BotSubscription{
		{BotSubscriptionID: "sub-1", BotID: "b1", IsActive: true, PlatformAPIKey: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Webhook: server.URL},
		{BotSubscriptionID: "sub-2", BotID: "b2", IsActive: true, PlatformAPIKey: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Webhook: server.URL},
	}}
	deliveries := installNotifyFixtures(bots, subs)

	payload, audience := notifications.BuildMessagePayload(notifications.MessageEvent{
		MessageID:      55,
		ConversationID: 9,
		Title:          "hello",
		AuthorID:       1,
		AuthorName:     "alice",
		ParticipantIDs: []uint{2},
		CreatedAt:      1700000000,
	})
	job := &Job{
		ID:      "job-test-2",
		Type:    JobTypeWebhookNotify,
		Status:  JobStatusPending,
		Payload: WebhookNotifyJobPayload{Notification: payload, Audience: audience}.ToMap(),
	}

	err := notifyTestQueue().processWebhookNotifyJob(context.Background(), job)

	require.NoError(t, err)
	// Only the participant's bot is resolved as a recipient
	assert.Equal(t, []string{"b2"}, subs.queriedBotIDs)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	require.Len(t, deliveries.records, 1)
	assert.Equal(t, "sub-2", deliveries.records[0].BotSubscriptionID)
}

func TestProcessWebhookNotifyJob_NoAuthorizedRecipients(t *testing.T) {
	subs := &stubSubscriptionRepository{}
	deliveries := installNotifyFixtures([]models.Bot{{BotID: "b1", UserID: 1}}, subs)

	payload, audience := notifications.BuildMessagePayload(notifications.MessageEvent{
		MessageID:      56,
		ConversationID: 9,
		AuthorID:       7,
		ParticipantIDs: []uint{8, 9},
		CreatedAt:      1700000000,
	})
	job := &Job{
		ID:      "job-test-3",
		Type:    JobTypeWebhookNotify,
		Status:  JobStatusPending,
		Payload: WebhookNotifyJobPayload{Notification: payload, Audience: audience}.ToMap(),
	}

	err := notifyTestQueue().processWebhookNotifyJob(context.Background(), job)

	require.NoError(t, err)
	assert.Nil(t, subs.queriedBotIDs, "no subscription lookup when nobody is authorized")
	assert.Empty(t, deliveries.records)
}
