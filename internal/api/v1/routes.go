package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterHandlers binds the v1 operations onto the given router group.
// botAuth protects the routes acting as a bot (platform API key); hostAuth
// protects the host-integration surface (event ingestion, queue stats).
func RegisterHandlers(v1 fiber.Router, si ServerInterface, botAuth fiber.Handler, hostAuth fiber.Handler) {
	v1.Get("/ping", si.GetPing)

	// Bot provisioning authenticates with host user credentials in the body
	v1.Post("/bots", si.PostBot)
	v1.Get("/bots/me", botAuth, si.GetBot)
	v1.Delete("/bots/me", botAuth, si.DeleteBot)

	subs := v1.Group("/subscriptions", botAuth)
	subs.Post("/", si.PostSubscription)
	subs.Get("/", si.GetSubscriptions)
	subs.Get("/:id", si.GetSubscription)
	subs.Put("/:id", si.PutSubscription)
	subs.Post("/:id/activate", si.PostSubscriptionActivate)
	subs.Post("/:id/deactivate", si.PostSubscriptionDeactivate)
	subs.Delete("/:id", si.DeleteSubscription)
	subs.Get("/:id/deliveries", si.GetSubscriptionDeliveries)

	v1.Post("/notify", hostAuth, si.PostNotify)
	v1.Get("/queue/stats", hostAuth, si.GetQueueStats)
}
