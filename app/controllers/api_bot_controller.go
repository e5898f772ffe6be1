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
)

// HandleRegisterBot provisions a bot for a host user.
// Request: JSON { "username": string, "password": string }
// Response: 201 { bot_id, api_key, user_id }
//
// The credentials identify the host user the bot acts as; the generated
// api_key is the bot's platform credential from here on. One bot per user.
func HandleRegisterBot(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		verr := apperrors.NewValidationError()
		if req.Username == "" {
			verr.Add("username", "is required")
		}
		if req.Password == "" {
			verr.Add("password", "is required")
		}
		return writeAppError(c, verr)
	}

	factory := repository.GetGlobalFactory()

	user, err := factory.GetUserRepository().GetByName(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return writeAppError(c, apperrors.WrapStorage("lookup", "user", err))
	}
	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "User inactive"})
	}

	botRepo := factory.GetBotRepository()

	// One active bot per host user
	if _, err := botRepo.GetByUserID(user.ID); err == nil {
		return writeAppError(c, &apperrors.ConflictError{Resource: "bot", Detail: "a bot is already registered for this user"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return writeAppError(c, apperrors.WrapStorage("lookup", "bot", err))
	}

	bot, err := models.NewBot(user.ID)
	if err != nil {
		return writeAppError(c, err)
	}

	if err := botRepo.Create(bot); err != nil {
		return writeAppError(c, apperrors.WrapStorage("create", "bot", err))
	}

	log.Infof("[Bot] Registered bot %s for user %d", bot.BotID, user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"bot_id":  bot.BotID,
		"api_key": bot.APIKey,
		"user_id": bot.UserID,
	})
}

// HandleGetBot returns the authenticated bot's identity.
func HandleGetBot(c *fiber.Ctx) error {
	botCtx := botcontext.GetBotContext(c)
	if !botCtx.IsAuthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	bot, err := repository.GetGlobalFactory().GetBotRepository().GetByID(botCtx.BotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return writeAppError(c, &apperrors.NotFoundError{Resource: "bot", ID: botCtx.BotID})
		}
		return writeAppError(c, apperrors.WrapStorage("lookup", "bot", err))
	}

	return c.JSON(fiber.Map{
		"bot_id":     bot.BotID,
		"user_id":    bot.UserID,
		"created_at": bot.CreatedAt,
	})
}

// HandleDeleteBot tears down the authenticated bot. Its subscriptions are
// removed with it; a subscription never outlives its bot.
func HandleDeleteBot(c *fiber.Ctx) error {
	botCtx := botcontext.GetBotContext(c)
	if !botCtx.IsAuthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := repository.GetGlobalFactory().GetBotRepository().Delete(botCtx.BotID); err != nil {
		return writeAppError(c, apperrors.WrapStorage("delete", "bot", err))
	}

	log.Infof("[Bot] Deleted bot %s and its subscriptions", botCtx.BotID)

	return c.SendStatus(fiber.StatusNoContent)
}
