package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ForumBots/HookRelay/app/controllers"
)

// ServerInterface lists the v1 operations. Route registration in the router
// package works against this, not against the concrete server.
type ServerInterface interface {
	GetPing(c *fiber.Ctx) error

	PostBot(c *fiber.Ctx) error
	GetBot(c *fiber.Ctx) error
	DeleteBot(c *fiber.Ctx) error

	PostSubscription(c *fiber.Ctx) error
	GetSubscriptions(c *fiber.Ctx) error
	GetSubscription(c *fiber.Ctx) error
	PutSubscription(c *fiber.Ctx) error
	PostSubscriptionActivate(c *fiber.Ctx) error
	PostSubscriptionDeactivate(c *fiber.Ctx) error
	DeleteSubscription(c *fiber.Ctx) error
	GetSubscriptionDeliveries(c *fiber.Ctx) error

	PostNotify(c *fiber.Ctx) error
	GetQueueStats(c *fiber.Ctx) error
}

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// PostBot provisions a bot for a host user (credentials in the body).
func (s *APIServer) PostBot(c *fiber.Ctx) error {
	return controllers.HandleRegisterBot(c)
}

// GetBot returns the authenticated bot's identity (API key protected).
func (s *APIServer) GetBot(c *fiber.Ctx) error {
	return controllers.HandleGetBot(c)
}

// DeleteBot tears down the authenticated bot and its subscriptions.
func (s *APIServer) DeleteBot(c *fiber.Ctx) error {
	return controllers.HandleDeleteBot(c)
}

// PostSubscription creates a webhook subscription for the authenticated bot.
func (s *APIServer) PostSubscription(c *fiber.Ctx) error {
	return controllers.HandleCreateSubscription(c)
}

// GetSubscriptions lists the authenticated bot's subscriptions.
func (s *APIServer) GetSubscriptions(c *fiber.Ctx) error {
	return controllers.HandleListSubscriptions(c)
}

// GetSubscription returns one subscription by id.
func (s *APIServer) GetSubscription(c *fiber.Ctx) error {
	return controllers.HandleGetSubscription(c)
}

// PutSubscription points a subscription at a new webhook URL.
func (s *APIServer) PutSubscription(c *fiber.Ctx) error {
	return controllers.HandleUpdateSubscription(c)
}

// PostSubscriptionActivate re-verifies the endpoint and enables delivery.
func (s *APIServer) PostSubscriptionActivate(c *fiber.Ctx) error {
	return controllers.HandleActivateSubscription(c)
}

// PostSubscriptionDeactivate disables delivery.
func (s *APIServer) PostSubscriptionDeactivate(c *fiber.Ctx) error {
	return controllers.HandleDeactivateSubscription(c)
}

// DeleteSubscription removes one subscription.
func (s *APIServer) DeleteSubscription(c *fiber.Ctx) error {
	return controllers.HandleDeleteSubscription(c)
}

// GetSubscriptionDeliveries returns delivery audit rows for one subscription.
func (s *APIServer) GetSubscriptionDeliveries(c *fiber.Ctx) error {
	return controllers.HandleListDeliveries(c)
}

// PostNotify ingests one host event and schedules its delivery.
func (s *APIServer) PostNotify(c *fiber.Ctx) error {
	return controllers.HandleNotify(c)
}

// GetQueueStats returns queue sizes and per-status job counts.
func (s *APIServer) GetQueueStats(c *fiber.Ctx) error {
	return controllers.HandleQueueStats(c)
}
