package repository

import (
	"github.com/ForumBots/HookRelay/app/models"
	"gorm.io/gorm"
)

// botSubscriptionRepository implements the BotSubscriptionRepository interface
type botSubscriptionRepository struct {
	db *gorm.DB
}

// NewBotSubscriptionRepository creates a new subscription repository instance
func NewBotSubscriptionRepository(db *gorm.DB) BotSubscriptionRepository {
	return &botSubscriptionRepository{db: db}
}

// Create creates a new subscription in the database
func (r *botSubscriptionRepository) Create(sub *models.BotSubscription) error {
	return r.db.Create(sub).Error
}

// GetByID retrieves a subscription by its UUID
func (r *botSubscriptionRepository) GetByID(id string) (*models.BotSubscription, error) {
	var sub models.BotSubscription
	err := r.db.Where("bot_subscription_id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByBotID retrieves all subscriptions of a bot
func (r *botSubscriptionRepository) GetByBotID(botID string) ([]models.BotSubscription, error) {
	var subs []models.BotSubscription
	err := r.db.Where("bot_id = ?", botID).Order("subscribed_at ASC").Find(&subs).Error
	return subs, err
}

// GetActiveByBotID retrieves the active subscriptions of a bot
func (r *botSubscriptionRepository) GetActiveByBotID(botID string) ([]models.BotSubscription, error) {
	var subs []models.BotSubscription
	err := r.db.Where("bot_id = ? AND is_active = ?", botID, true).Find(&subs).Error
	return subs, err
}

// GetActiveByBotIDs retrieves the active subscriptions of a set of bots.
// Used by the notify job to resolve recipients at execution time.
func (r *botSubscriptionRepository) GetActiveByBotIDs(botIDs []string) ([]models.BotSubscription, error) {
	if len(botIDs) == 0 {
		return nil, nil
	}
	var subs []models.BotSubscription
	err := r.db.Where("bot_id IN ? AND is_active = ?", botIDs, true).Find(&subs).Error
	return subs, err
}

// Update persists a modified subscription
func (r *botSubscriptionRepository) Update(sub *models.BotSubscription) error {
	return r.db.Save(sub).Error
}

// Delete removes a subscription by its UUID
func (r *botSubscriptionRepository) Delete(id string) error {
	return r.db.Where("bot_subscription_id = ?", id).Delete(&models.BotSubscription{}).Error
}

// WebhookInUse reports whether another subscription of the same bot already
// points at the given webhook URL. excludeID skips the subscription being
// updated so it does not collide with itself.
func (r *botSubscriptionRepository) WebhookInUse(botID, webhook, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.BotSubscription{}).
		Where("bot_id = ? AND webhook = ?", botID, webhook)
	if excludeID != "" {
		query = query.Where("bot_subscription_id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
