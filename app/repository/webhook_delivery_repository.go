package repository

import (
	"github.com/ForumBots/HookRelay/app/models"
	"gorm.io/gorm"
)

// webhookDeliveryRepository implements the WebhookDeliveryRepository interface
type webhookDeliveryRepository struct {
	db *gorm.DB
}

// NewWebhookDeliveryRepository creates a new delivery repository instance
func NewWebhookDeliveryRepository(db *gorm.DB) WebhookDeliveryRepository {
	return &webhookDeliveryRepository{db: db}
}

// Create records one delivery attempt
func (r *webhookDeliveryRepository) Create(delivery *models.WebhookDelivery) error {
	return r.db.Create(delivery).Error
}

// GetBySubscriptionID retrieves a page of delivery records for a subscription,
// newest first
func (r *webhookDeliveryRepository) GetBySubscriptionID(subscriptionID string, offset, limit int) ([]models.WebhookDelivery, error) {
	var deliveries []models.WebhookDelivery
	err := r.db.Where("bot_subscription_id = ?", subscriptionID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&deliveries).Error
	return deliveries, err
}

// CountBySubscriptionID returns the total number of recorded attempts
func (r *webhookDeliveryRepository) CountBySubscriptionID(subscriptionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.WebhookDelivery{}).
		Where("bot_subscription_id = ?", subscriptionID).Count(&count).Error
	return count, err
}
