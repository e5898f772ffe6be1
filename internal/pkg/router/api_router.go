package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	apiv1 "github.com/ForumBots/HookRelay/internal/api/v1"
	"github.com/ForumBots/HookRelay/internal/pkg/cache"
	"github.com/ForumBots/HookRelay/internal/pkg/env"
	"github.com/ForumBots/HookRelay/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer, middleware.APIKeyAuthMiddleware(), hostAuthMiddleware())
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// hostAuthMiddleware protects the host-integration surface. The host
// platform calls these endpoints server-to-server with static credentials.
func hostAuthMiddleware() fiber.Handler {
	return basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("HOST_API_USER", "host"): env.GetEnv("HOST_API_PASSWORD", "change-me"),
		},
	})
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Database 1 keeps limiter keys out of the cache keyspace.
func newLimiterStorage() *redis.Storage {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
