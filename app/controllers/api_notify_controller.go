package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
	"github.com/ForumBots/HookRelay/internal/pkg/jobqueue"
	"github.com/ForumBots/HookRelay/internal/pkg/notifications"
)

// notifyRequest is the host-facing ingestion shape: one event per call,
// either a post or a conversation message.
type notifyRequest struct {
	EventType string `json:"event_type"`

	Post *struct {
		PostID      uint   `json:"post_id"`
		ThreadID    uint   `json:"thread_id"`
		ThreadTitle string `json:"thread_title"`
		AuthorID    uint   `json:"author_id"`
		AuthorName  string `json:"author_name"`
		Public      bool   `json:"public"`
		CreatedAt   uint   `json:"created_at"`
	} `json:"post,omitempty"`

	Message *struct {
		MessageID      uint   `json:"message_id"`
		ConversationID uint   `json:"conversation_id"`
		Title          string `json:"title"`
		AuthorID       uint   `json:"author_id"`
		AuthorName     string `json:"author_name"`
		ParticipantIDs []uint `json:"participant_ids"`
		CreatedAt      uint   `json:"created_at"`
	} `json:"message,omitempty"`
}

// HandleNotify ingests one host event and schedules its delivery. Exactly
// one job is enqueued per event; the response returns immediately, delivery
// happens on the queue workers.
func HandleNotify(c *fiber.Ctx) error {
	var req notifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	queue := jobqueue.GetManager().GetQueue()

	var job *jobqueue.Job
	var err error

	switch req.EventType {
	case notifications.EventTypePostCreated:
		if req.Post == nil || req.Post.PostID == 0 {
			verr := apperrors.NewValidationError()
			verr.Add("post", "is required for post_created events")
			return writeAppError(c, verr)
		}
		job, err = queue.EnqueueNewPostNotification(notifications.PostEvent{
			PostID:      req.Post.PostID,
			ThreadID:    req.Post.ThreadID,
			ThreadTitle: req.Post.ThreadTitle,
			AuthorID:    req.Post.AuthorID,
			AuthorName:  req.Post.AuthorName,
			Public:      req.Post.Public,
			CreatedAt:   req.Post.CreatedAt,
		})
	case notifications.EventTypeMessageCreated:
		if req.Message == nil || req.Message.MessageID == 0 {
			verr := apperrors.NewValidationError()
			verr.Add("message", "is required for conversation_message_created events")
			return writeAppError(c, verr)
		}
		job, err = queue.EnqueueNewMessageNotification(notifications.MessageEvent{
			MessageID:      req.Message.MessageID,
			ConversationID: req.Message.ConversationID,
			Title:          req.Message.Title,
			AuthorID:       req.Message.AuthorID,
			AuthorName:     req.Message.AuthorName,
			ParticipantIDs: req.Message.ParticipantIDs,
			CreatedAt:      req.Message.CreatedAt,
		})
	default:
		verr := apperrors.NewValidationError()
		verr.Add("event_type", "must be post_created or conversation_message_created")
		return writeAppError(c, verr)
	}

	if err != nil {
		log.Errorf("[Notify] Failed to enqueue %s event: %v", req.EventType, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to enqueue notification"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":     job.ID,
		"event_type": req.EventType,
	})
}
