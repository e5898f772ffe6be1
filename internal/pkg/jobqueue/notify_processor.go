package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ForumBots/HookRelay/app/models"
	"github.com/ForumBots/HookRelay/app/repository"
	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
	"github.com/ForumBots/HookRelay/internal/pkg/metrics/counter"
	"github.com/ForumBots/HookRelay/internal/pkg/notifications"
)

// EnqueueNewPostNotification builds the payload for a new-post event and
// schedules exactly one delivery job for it. Fan-out to individual
// recipients happens inside job execution, not here.
func (q *Queue) EnqueueNewPostNotification(event notifications.PostEvent) (*Job, error) {
	payload, audience := notifications.BuildPostPayload(event)
	return q.enqueueNotify(payload, audience)
}

// EnqueueNewMessageNotification builds the payload for a new conversation
// message and schedules exactly one delivery job for it.
func (q *Queue) EnqueueNewMessageNotification(event notifications.MessageEvent) (*Job, error) {
	payload, audience := notifications.BuildMessagePayload(event)
	return q.enqueueNotify(payload, audience)
}

func (q *Queue) enqueueNotify(payload notifications.Payload, audience notifications.Audience) (*Job, error) {
	jobPayload := WebhookNotifyJobPayload{
		Notification: payload,
		Audience:     audience,
	}
	return q.EnqueueJob(JobTypeWebhookNotify, jobPayload.ToMap(), NotifyMaxRetries)
}

// processWebhookNotifyJob executes one event's fan-out. Recipients are
// resolved from storage now, not at enqueue time: the bot list, their
// active subscriptions and the visibility decision all reflect the state
// at delivery time.
//
// One recipient's failure never aborts the others. The job as a whole
// succeeds when the attempt loop completed, regardless of per-recipient
// outcomes; those are recorded individually instead.
func (q *Queue) processWebhookNotifyJob(ctx context.Context, job *Job) error {
	payload, err := WebhookNotifyJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse webhook notify job payload: %w", err)
	}

	factory := repository.GetGlobalFactory()

	bots, err := factory.GetBotRepository().GetAll()
	if err != nil {
		return fmt.Errorf("failed to load candidate bots: %w", err)
	}

	allowed := q.authorizer.Authorize(payload.Audience, bots)
	if len(allowed) == 0 {
		log.Debugf("[Notify] Job %s: no bot is authorized for %s %d",
			job.ID, payload.Notification.ContentType, payload.Notification.ContentID)
		return nil
	}

	botIDs := make([]string, 0, len(allowed))
	for _, bot := range allowed {
		botIDs = append(botIDs, bot.BotID)
	}

	subs, err := factory.GetBotSubscriptionRepository().GetActiveByBotIDs(botIDs)
	if err != nil {
		return fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	if len(subs) == 0 {
		log.Debugf("[Notify] Job %s: no active subscriptions to deliver to", job.ID)
		return nil
	}

	// Marshal once so every recipient receives an identical body
	body, err := json.Marshal(payload.Notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	log.Infof("[Notify] Job %s: delivering %s %d to %d subscription(s)",
		job.ID, payload.Notification.ContentType, payload.Notification.ContentID, len(subs))

	delivered, failed := 0, 0
	for i := range subs {
		sub := &subs[i]

		start := time.Now()
		status, derr := q.notifier.Notify(sub, body)
		duration := time.Since(start)

		record := &models.WebhookDelivery{
			JobID:             job.ID,
			BotSubscriptionID: sub.BotSubscriptionID,
			EventType:         payload.Notification.EventType,
			ContentType:       payload.Notification.ContentType,
			ContentID:         payload.Notification.ContentID,
			HTTPStatus:        status,
			DurationMs:        duration.Milliseconds(),
		}

		if derr != nil {
			failed++
			apperrors.ReportDelivery(job.ID, derr)
			record.Status = models.DeliveryStatusFailed
			record.Error = derr.Error()
			if cerr := counter.AddFailed(sub.BotSubscriptionID); cerr != nil {
				log.Errorf("[Notify] Failed to count failure for %s: %v", sub.BotSubscriptionID, cerr)
			}
		} else {
			delivered++
			record.Status = models.DeliveryStatusDelivered
			if cerr := counter.AddDelivered(sub.BotSubscriptionID); cerr != nil {
				log.Errorf("[Notify] Failed to count delivery for %s: %v", sub.BotSubscriptionID, cerr)
			}
		}

		if rerr := factory.GetWebhookDeliveryRepository().Create(record); rerr != nil {
			// Audit row failures must not abort the remaining deliveries
			log.Errorf("[Notify] Failed to record delivery for %s: %v", sub.BotSubscriptionID, rerr)
		}
	}

	log.Infof("[Notify] Job %s: %d delivered, %d failed", job.ID, delivered, failed)

	return nil
}
