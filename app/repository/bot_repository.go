package repository

import (
	"github.com/ForumBots/HookRelay/app/models"
	"gorm.io/gorm"
)

// botRepository implements the BotRepository interface
type botRepository struct {
	db *gorm.DB
}

// NewBotRepository creates a new bot repository instance
func NewBotRepository(db *gorm.DB) BotRepository {
	return &botRepository{db: db}
}

// Create creates a new bot in the database
func (r *botRepository) Create(bot *models.Bot) error {
	return r.db.Create(bot).Error
}

// GetByID retrieves a bot by its UUID
func (r *botRepository) GetByID(botID string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("bot_id = ?", botID).First(&bot).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetByUserID retrieves the bot acting as the given host user
func (r *botRepository) GetByUserID(userID uint) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("user_id = ?", userID).First(&bot).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetByAPIKey retrieves a bot by its platform API key
func (r *botRepository) GetByAPIKey(apiKey string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("api_key = ?", apiKey).First(&bot).Error
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetAll retrieves all bots
func (r *botRepository) GetAll() ([]models.Bot, error) {
	var bots []models.Bot
	err := r.db.Order("created_at ASC").Find(&bots).Error
	return bots, err
}

// Delete removes the bot and all of its subscriptions in one transaction.
// A subscription must not outlive its bot.
func (r *botRepository) Delete(botID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bot_id = ?", botID).Delete(&models.BotSubscription{}).Error; err != nil {
			return err
		}
		return tx.Where("bot_id = ?", botID).Delete(&models.Bot{}).Error
	})
}

// Count returns the total number of bots
func (r *botRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Count(&count).Error
	return count, err
}
