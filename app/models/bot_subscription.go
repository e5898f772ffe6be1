package models

import (
	"net/url"
	"time"

	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
	"github.com/ForumBots/HookRelay/internal/pkg/token"
)

// MaxWebhookLength bounds the stored webhook URL.
const MaxWebhookLength = 1048

// BotSubscription is one webhook endpoint belonging to exactly one bot: the
// endpoint URL, the shared secret used for the verification challenge and as
// the signing token on outbound calls, and the active flag gating delivery.
type BotSubscription struct {
	BotSubscriptionID string `gorm:"primaryKey;type:varchar(36)" json:"bot_subscription_id"`
	BotID             string `gorm:"index;type:varchar(36);not null" json:"bot_id"`
	Bot               Bot    `gorm:"foreignKey:BotID" json:"-"`
	IsActive          bool   `gorm:"default:false" json:"is_active"`
	PlatformAPIKey    string `gorm:"uniqueIndex;type:varchar(32);not null" json:"platform_api_key"`
	Webhook           string `gorm:"type:varchar(1048);not null" json:"webhook"`
	SubscribedAt      uint   `gorm:"not null" json:"subscribed_at"`
}

// NewBotSubscription creates a subscription with a fresh identity and shared
// secret, bound to the given bot. Subscriptions start inactive; delivery
// only happens after an explicit activation.
func NewBotSubscription(bot *Bot, webhook string) (*BotSubscription, error) {
	secret, err := token.NewSecret()
	if err != nil {
		return nil, err
	}

	sub := &BotSubscription{
		BotSubscriptionID: token.NewUUID(),
		BotID:             bot.BotID,
		IsActive:          false,
		PlatformAPIKey:    secret,
		Webhook:           webhook,
		SubscribedAt:      uint(time.Now().Unix()),
	}

	if verr := sub.Validate(); verr.HasErrors() {
		return nil, verr
	}

	return sub, nil
}

// Validate checks the identity, shared secret and webhook formats. Failures
// are collected per field and returned as one aggregate error, never one at
// a time.
func (s *BotSubscription) Validate() *apperrors.ValidationError {
	verr := apperrors.NewValidationError()

	if !token.IsUUID(s.BotSubscriptionID) {
		verr.Add("bot_subscription_id", "must be a valid UUID")
	}
	if !token.IsUUID(s.BotID) {
		verr.Add("bot_id", "must be a valid UUID")
	}
	if !token.IsSecret(s.PlatformAPIKey) {
		verr.Add("platform_api_key", "must be a 32 character lowercase hex token")
	}
	if msg := validateWebhook(s.Webhook); msg != "" {
		verr.Add("webhook", msg)
	}

	return verr
}

func validateWebhook(webhook string) string {
	if webhook == "" {
		return "is required"
	}
	if len(webhook) > MaxWebhookLength {
		return "must not exceed 1048 characters"
	}

	u, err := url.Parse(webhook)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "must be an absolute URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must use the http or https scheme"
	}

	return ""
}

// Same reports identity equality: both values reference the same record.
func (s *BotSubscription) Same(other *BotSubscription) bool {
	return s.BotSubscriptionID == other.BotSubscriptionID
}

// Equals reports value equality: both subscriptions point at the same
// webhook URL, regardless of identity. Used to detect duplicate targets.
func (s *BotSubscription) Equals(other *BotSubscription) bool {
	return s.Webhook == other.Webhook
}

// Activate enables delivery to this subscription.
func (s *BotSubscription) Activate() {
	s.IsActive = true
}

// Deactivate disables delivery. Idempotent.
func (s *BotSubscription) Deactivate() {
	s.IsActive = false
}
