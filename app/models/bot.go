package models

import (
	"time"

	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
	"github.com/ForumBots/HookRelay/internal/pkg/token"
)

// Bot is the identity of an external integration: a platform API key bound
// to the host user the bot acts as. Callers expect exactly one active bot
// per (api_key, user) pair; the repository enforces that, not the entity.
type Bot struct {
	BotID         string            `gorm:"primaryKey;type:varchar(36)" json:"bot_id"`
	APIKey        string            `gorm:"uniqueIndex;type:varchar(32);not null" json:"api_key"`
	UserID        uint              `gorm:"uniqueIndex;not null" json:"user_id"`
	User          User              `gorm:"foreignKey:UserID" json:"-"`
	Subscriptions []BotSubscription `gorm:"foreignKey:BotID" json:"-"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewBot creates a bot with a fresh identity and platform API key, bound to
// the given host user.
func NewBot(userID uint) (*Bot, error) {
	apiKey, err := token.NewSecret()
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		BotID:  token.NewUUID(),
		APIKey: apiKey,
		UserID: userID,
	}

	if verr := bot.Validate(); verr.HasErrors() {
		return nil, verr
	}

	return bot, nil
}

// Validate checks identity and credential formats. All failing fields are
// collected into one aggregate error.
func (b *Bot) Validate() *apperrors.ValidationError {
	verr := apperrors.NewValidationError()

	if !token.IsUUID(b.BotID) {
		verr.Add("bot_id", "must be a valid UUID")
	}
	if !token.IsSecret(b.APIKey) {
		verr.Add("api_key", "must be a 32 character lowercase hex token")
	}
	if b.UserID == 0 {
		verr.Add("user_id", "is required")
	}

	return verr
}
