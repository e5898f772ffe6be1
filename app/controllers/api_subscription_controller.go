package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ForumBots/HookRelay/app/models"
	"github.com/ForumBots/HookRelay/app/repository"
	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
	"github.com/ForumBots/HookRelay/internal/pkg/botcontext"
	"github.com/ForumBots/HookRelay/internal/pkg/webhook"
)

// subscriptionVerifier runs the ownership handshake before a subscription is
// persisted or (re)activated. Tests swap it for one with a shorter timeout.
var subscriptionVerifier = webhook.NewVerifier()

// SetSubscriptionVerifier replaces the verifier (used by tests).
func SetSubscriptionVerifier(v *webhook.Verifier) {
	subscriptionVerifier = v
}

// HandleCreateSubscription registers a new webhook endpoint for the
// authenticated bot.
// Request: JSON { "webhook": string }
// Response: 201 with the subscription, active and verified.
//
// Order matters: field validation first, then the duplicate check, then the
// ownership handshake, and only then persistence. An invalid or duplicate
// URL is never challenged.
func HandleCreateSubscription(c *fiber.Ctx) error {
	botCtx := botcontext.GetBotContext(c)
	if !botCtx.IsAuthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Webhook string `json:"webhook"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	sub, err := models.NewBotSubscription(&models.Bot{BotID: botCtx.BotID}, req.Webhook)
	if err != nil {
		return writeAppError(c, err)
	}

	subRepo := repository.GetGlobalFactory().GetBotSubscriptionRepository()

	inUse, err := subRepo.WebhookInUse(botCtx.BotID, sub.Webhook, "")
	if err != nil {
		return writeAppError(c, apperrors.WrapStorage("lookup", "bot_subscription", err))
	}
	if inUse {
		return writeAppError(c, &apperrors.ConflictError{
			Resource: "bot_subscription",
			Detail:   "another subscription of this bot already points at this webhook",
		})
	}

	if err := subscriptionVerifier.Verify(sub.Webhook, sub.PlatformAPIKey); err != nil {
		return writeAppError(c, err)
	}

	sub.Activate()

	if err := subRepo.Create(sub); err != nil {
		return writeAppError(c, apperrors.WrapStorage("create", "bot_subscription", err))
	}

	log.Infof("[Subscription] Created %s for bot %s", sub.BotSubscriptionID, sub.BotID)

	return c.Status(fiber.StatusCreated).JSON(subscriptionResponse(sub))
}

// HandleGetSubscription returns one subscription of the authenticated bot.
func HandleGetSubscription(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}
	return c.JSON(subscriptionResponse(sub))
}

// HandleListSubscriptions returns all subscriptions of the authenticated bot.
func HandleListSubscriptions(c *fiber.Ctx) error {
	botCtx := botcontext.GetBotContext(c)
	if !botCtx.IsAuthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	subs, err := repository.GetGlobalFactory().GetBotSubscriptionRepository().GetByBotID(botCtx.BotID)
	if err != nil {
		return writeAppError(c, apperrors.WrapStorage("list", "bot_subscription", err))
	}

	items := make([]fiber.Map, 0, len(subs))
	for i := range subs {
		items = append(items, subscriptionResponse(&subs[i]))
	}

	return c.JSON(fiber.Map{
		"subscriptions": items,
		"total":         len(items),
	})
}

// HandleUpdateSubscription points an existing subscription at a new webhook
// URL. The new URL must pass the same duplicate check and ownership
// handshake as a fresh creation; identity, secret and active state carry
// over unchanged.
func HandleUpdateSubscription(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}

	var req struct {
		Webhook string `json:"webhook"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	sub.Webhook = req.Webhook
	if verr := sub.Validate(); verr.HasErrors() {
		return writeAppError(c, verr)
	}

	subRepo := repository.GetGlobalFactory().GetBotSubscriptionRepository()

	inUse, err := subRepo.WebhookInUse(sub.BotID, sub.Webhook, sub.BotSubscriptionID)
	if err != nil {
		return writeAppError(c, apperrors.WrapStorage("lookup", "bot_subscription", err))
	}
	if inUse {
		return writeAppError(c, &apperrors.ConflictError{
			Resource: "bot_subscription",
			Detail:   "another subscription of this bot already points at this webhook",
		})
	}

	if err := subscriptionVerifier.Verify(sub.Webhook, sub.PlatformAPIKey); err != nil {
		return writeAppError(c, err)
	}

	if err := subRepo.Update(sub); err != nil {
		return writeAppError(c, apperrors.WrapStorage("update", "bot_subscription", err))
	}

	log.Infof("[Subscription] Updated %s webhook", sub.BotSubscriptionID)

	return c.JSON(subscriptionResponse(sub))
}

// HandleActivateSubscription re-runs the ownership handshake and enables
// delivery. Verification happens on every activation, not just the first:
// an endpoint can silently stop implementing the challenge.
func HandleActivateSubscription(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}

	if err := subscriptionVerifier.Verify(sub.Webhook, sub.PlatformAPIKey); err != nil {
		return writeAppError(c, err)
	}

	sub.Activate()

	if err := repository.GetGlobalFactory().GetBotSubscriptionRepository().Update(sub); err != nil {
		return writeAppError(c, apperrors.WrapStorage("update", "bot_subscription", err))
	}

	log.Infof("[Subscription] Activated %s", sub.BotSubscriptionID)

	return c.JSON(subscriptionResponse(sub))
}

// HandleDeactivateSubscription disables delivery. Idempotent, never
// verifies: turning delivery off must always work.
func HandleDeactivateSubscription(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}

	sub.Deactivate()

	if err := repository.GetGlobalFactory().GetBotSubscriptionRepository().Update(sub); err != nil {
		return writeAppError(c, apperrors.WrapStorage("update", "bot_subscription", err))
	}

	log.Infof("[Subscription] Deactivated %s", sub.BotSubscriptionID)

	return c.JSON(subscriptionResponse(sub))
}

// HandleDeleteSubscription removes one subscription. Other subscriptions of
// the same bot are untouched.
func HandleDeleteSubscription(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}

	if err := repository.GetGlobalFactory().GetBotSubscriptionRepository().Delete(sub.BotSubscriptionID); err != nil {
		return writeAppError(c, apperrors.WrapStorage("delete", "bot_subscription", err))
	}

	log.Infof("[Subscription] Deleted %s", sub.BotSubscriptionID)

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListDeliveries returns the delivery audit rows for one subscription
// of the authenticated bot, newest first.
func HandleListDeliveries(c *fiber.Ctx) error {
	sub, err := loadOwnSubscription(c)
	if err != nil {
		return writeAppError(c, err)
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	deliveryRepo := repository.GetGlobalFactory().GetWebhookDeliveryRepository()

	deliveries, err := deliveryRepo.GetBySubscriptionID(sub.BotSubscriptionID, offset, limit)
	if err != nil {
		return writeAppError(c, apperrors.WrapStorage("list", "webhook_delivery", err))
	}
	total, err := deliveryRepo.CountBySubscriptionID(sub.BotSubscriptionID)
	if err != nil {
		return writeAppError(c, apperrors.WrapStorage("count", "webhook_delivery", err))
	}

	return c.JSON(fiber.Map{
		"deliveries": deliveries,
		"total":      total,
		"offset":     offset,
		"limit":      limit,
	})
}

// errUnauthenticated marks a request with no valid bot identity.
var errUnauthenticated = errors.New("unauthenticated")

// loadOwnSubscription resolves the :id route param to a subscription owned
// by the authenticated bot. A subscription belonging to another bot is
// reported as not found, never as forbidden: subscription identities of
// other bots are not disclosed.
func loadOwnSubscription(c *fiber.Ctx) (*models.BotSubscription, error) {
	botCtx := botcontext.GetBotContext(c)
	if !botCtx.IsAuthenticated {
		return nil, errUnauthenticated
	}

	id := c.Params("id")
	if id == "" {
		return nil, &apperrors.NotFoundError{Resource: "bot_subscription", ID: id}
	}

	sub, err := repository.GetGlobalFactory().GetBotSubscriptionRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "bot_subscription", ID: id}
		}
		return nil, apperrors.WrapStorage("lookup", "bot_subscription", err)
	}

	if sub.BotID != botCtx.BotID {
		return nil, &apperrors.NotFoundError{Resource: "bot_subscription", ID: id}
	}

	return sub, nil
}
