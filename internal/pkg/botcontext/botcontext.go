package botcontext

import "github.com/gofiber/fiber/v2"

// BotContext represents the authenticated bot for a request
type BotContext struct {
	BotID           string `json:"bot_id"`
	UserID          uint   `json:"user_id"`
	APIKey          string `json:"api_key"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// GetBotContext retrieves the bot context from fiber context.
// Returns an unauthenticated context if none is set.
func GetBotContext(c *fiber.Ctx) BotContext {
	if ctx := c.Locals("BOT_CONTEXT"); ctx != nil {
		return ctx.(BotContext)
	}
	return BotContext{IsAuthenticated: false}
}

// IsAuthenticated checks if the current request carries a valid bot identity
func IsAuthenticated(c *fiber.Ctx) bool {
	return GetBotContext(c).IsAuthenticated
}

// GetBotID returns the current bot's ID, or empty string if unauthenticated
func GetBotID(c *fiber.Ctx) string {
	return GetBotContext(c).BotID
}
