package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForumBots/HookRelay/internal/pkg/token"
)

func testBot(t *testing.T) *Bot {
	t.Helper()
	bot, err := NewBot(42)
	require.NoError(t, err)
	return bot
}

func TestNewBotSubscription(t *testing.T) {
	bot := testBot(t)

	sub, err := NewBotSubscription(bot, "https://bots.example.com/hook")
	require.NoError(t, err)

	assert.True(t, token.IsUUID(sub.BotSubscriptionID))
	assert.Equal(t, bot.BotID, sub.BotID)
	assert.True(t, token.IsSecret(sub.PlatformAPIKey))
	assert.False(t, sub.IsActive, "subscriptions start inactive")
	assert.InDelta(t, time.Now().Unix(), int64(sub.SubscribedAt), 5)
}

func TestBotSubscription_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BotSubscription)
		fields []string
	}{
		{
			name:   "Valid",
			mutate: func(s *BotSubscription) {},
			fields: nil,
		},
		{
			name:   "Bad subscription id",
			mutate: func(s *BotSubscription) { s.BotSubscriptionID = "not-a-uuid" },
			fields: []string{"bot_subscription_id"},
		},
		{
			name:   "31 char api key",
			mutate: func(s *BotSubscription) { s.PlatformAPIKey = s.PlatformAPIKey[:31] },
			fields: []string{"platform_api_key"},
		},
		{
			name:   "Non hex api key",
			mutate: func(s *BotSubscription) { s.PlatformAPIKey = strings.Repeat("z", 32) },
			fields: []string{"platform_api_key"},
		},
		{
			name:   "Relative webhook",
			mutate: func(s *BotSubscription) { s.Webhook = "/relative/path" },
			fields: []string{"webhook"},
		},
		{
			name:   "Non http scheme",
			mutate: func(s *BotSubscription) { s.Webhook = "ftp://example.com/hook" },
			fields: []string{"webhook"},
		},
		{
			name: "Webhook too long",
			mutate: func(s *BotSubscription) {
				s.Webhook = "https://example.com/" + strings.Repeat("a", MaxWebhookLength)
			},
			fields: []string{"webhook"},
		},
		{
			name: "All fields collected at once",
			mutate: func(s *BotSubscription) {
				s.BotSubscriptionID = "x"
				s.PlatformAPIKey = "short"
				s.Webhook = ""
			},
			fields: []string{"bot_subscription_id", "platform_api_key", "webhook"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewBotSubscription(testBot(t), "https://bots.example.com/hook")
			require.NoError(t, err)

			tt.mutate(sub)
			verr := sub.Validate()

			if len(tt.fields) == 0 {
				assert.False(t, verr.HasErrors())
				return
			}
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestBotSubscription_EqualsAndSame(t *testing.T) {
	bot := testBot(t)

	a, err := NewBotSubscription(bot, "https://bots.example.com/hook")
	require.NoError(t, err)
	b, err := NewBotSubscription(bot, "https://bots.example.com/hook")
	require.NoError(t, err)
	c, err := NewBotSubscription(bot, "https://bots.example.com/other")
	require.NoError(t, err)

	// Same URL, different identity: equal but not same
	assert.True(t, a.Equals(b))
	assert.False(t, a.Same(b))

	// Different URL: neither
	assert.False(t, a.Equals(c))
	assert.False(t, a.Same(c))

	// Identity equality ignores the webhook
	clone := *a
	clone.Webhook = "https://bots.example.com/moved"
	assert.True(t, a.Same(&clone))
	assert.False(t, a.Equals(&clone))
}

func TestBotSubscription_ActivateDeactivate(t *testing.T) {
	sub, err := NewBotSubscription(testBot(t), "https://bots.example.com/hook")
	require.NoError(t, err)

	sub.Activate()
	assert.True(t, sub.IsActive)

	sub.Deactivate()
	assert.False(t, sub.IsActive)

	// Deactivate is idempotent
	sub.Deactivate()
	assert.False(t, sub.IsActive)
}
