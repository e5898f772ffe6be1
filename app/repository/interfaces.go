package repository

import (
	"github.com/ForumBots/HookRelay/app/models"
)

// UserRepository defines the interface for host-user database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByName(name string) (*models.User, error)
}

// BotRepository defines the interface for bot-related database operations
type BotRepository interface {
	Create(bot *models.Bot) error
	GetByID(botID string) (*models.Bot, error)
	GetByUserID(userID uint) (*models.Bot, error)
	GetByAPIKey(apiKey string) (*models.Bot, error)
	GetAll() ([]models.Bot, error)
	// Delete removes the bot and all of its subscriptions in one transaction.
	Delete(botID string) error
	Count() (int64, error)
}

// BotSubscriptionRepository defines the interface for subscription storage
type BotSubscriptionRepository interface {
	Create(sub *models.BotSubscription) error
	GetByID(id string) (*models.BotSubscription, error)
	GetByBotID(botID string) ([]models.BotSubscription, error)
	GetActiveByBotID(botID string) ([]models.BotSubscription, error)
	GetActiveByBotIDs(botIDs []string) ([]models.BotSubscription, error)
	Update(sub *models.BotSubscription) error
	Delete(id string) error
	// WebhookInUse reports whether another subscription of the same bot
	// already points at the given webhook URL (value equality, excluding
	// the subscription identified by excludeID).
	WebhookInUse(botID, webhook, excludeID string) (bool, error)
}

// WebhookDeliveryRepository defines the interface for delivery audit records
type WebhookDeliveryRepository interface {
	Create(delivery *models.WebhookDelivery) error
	GetBySubscriptionID(subscriptionID string, offset, limit int) ([]models.WebhookDelivery, error)
	CountBySubscriptionID(subscriptionID string) (int64, error)
}
