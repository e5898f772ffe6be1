package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	User            UserRepository
	Bot             BotRepository
	BotSubscription BotSubscriptionRepository
	WebhookDelivery WebhookDeliveryRepository
}

// NewRepositories creates all repositories on top of one gorm handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Bot:             NewBotRepository(db),
		BotSubscription: NewBotSubscriptionRepository(db),
		WebhookDelivery: NewWebhookDeliveryRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetBotRepository returns the bot repository instance
func (f *Factory) GetBotRepository() BotRepository {
	return f.GetRepositories().Bot
}

// GetBotSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetBotSubscriptionRepository() BotSubscriptionRepository {
	return f.GetRepositories().BotSubscription
}

// GetWebhookDeliveryRepository returns the delivery repository instance
func (f *Factory) GetWebhookDeliveryRepository() WebhookDeliveryRepository {
	return f.GetRepositories().WebhookDelivery
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// SetGlobalRepositories installs a pre-built repository set behind the
// global factory. Tests use it to run use cases against stub storage
// without a database handle.
func SetGlobalRepositories(repos *Repositories) {
	f := NewFactory(nil)
	f.once.Do(func() {
		f.repos = repos
	})
	globalFactory = f
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
