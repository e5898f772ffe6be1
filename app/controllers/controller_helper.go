package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ForumBots/HookRelay/app/models"
	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
)

// writeAppError maps the domain error kinds onto HTTP responses. Every
// lifecycle operation funnels its failure through here so the mapping
// stays in one place.
func writeAppError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case *apperrors.ValidationError:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "One or more fields failed validation",
			"fields":  e.Fields,
		})
	case *apperrors.VerificationFailure:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "verification_failed",
			"message": e.Error(),
		})
	case *apperrors.ConflictError:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": e.Error(),
		})
	case *apperrors.NotFoundError:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": e.Error(),
		})
	case *apperrors.StorageError:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": e.Error(),
		})
	default:
		if errors.Is(err, errUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Unexpected error",
		})
	}
}

// subscriptionResponse is the JSON shape returned for a subscription. The
// shared secret is included: the owning bot needs it to answer verification
// challenges, and all subscription routes are authenticated as that bot.
func subscriptionResponse(sub *models.BotSubscription) fiber.Map {
	return fiber.Map{
		"bot_subscription_id": sub.BotSubscriptionID,
		"bot_id":              sub.BotID,
		"is_active":           sub.IsActive,
		"platform_api_key":    sub.PlatformAPIKey,
		"webhook":             sub.Webhook,
		"subscribed_at":       sub.SubscribedAt,
	}
}
