package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ForumBots/HookRelay/app/models"
)

func candidateBots() []models.Bot {
	return []models.Bot{
		{BotID: "b1", UserID: 1},
		{BotID: "b2", UserID: 2},
		{BotID: "b3", UserID: 3},
	}
}

func TestAuthorizer_PublicContent(t *testing.T) {
	allowed := NewDefaultAuthorizer().Authorize(Audience{Public: true}, candidateBots())
	assert.Len(t, allowed, 3, "public content is visible to every bot's user")
}

func TestAuthorizer_PrivateContent(t *testing.T) {
	audience := Audience{Public: false, ParticipantUserIDs: []uint{2}}

	allowed := NewDefaultAuthorizer().Authorize(audience, candidateBots())

	assert.Len(t, allowed, 1)
	assert.Equal(t, "b2", allowed[0].BotID)
}

func TestAuthorizer_PrivateContentNoParticipants(t *testing.T) {
	allowed := NewDefaultAuthorizer().Authorize(Audience{Public: false}, candidateBots())
	assert.Empty(t, allowed)
}

func TestAuthorizer_CustomPredicate(t *testing.T) {
	// Host predicate that bans user 1 from everything
	authorizer := NewAuthorizer(func(userID uint, audience Audience) bool {
		return userID != 1
	})

	allowed := authorizer.Authorize(Audience{Public: true}, candidateBots())

	assert.Len(t, allowed, 2)
	for _, bot := range allowed {
		assert.NotEqual(t, uint(1), bot.UserID)
	}
}

func TestAuthorizer_PreservesOrder(t *testing.T) {
	allowed := NewDefaultAuthorizer().Authorize(Audience{Public: true}, candidateBots())

	assert.Equal(t, "b1", allowed[0].BotID)
	assert.Equal(t, "b2", allowed[1].BotID)
	assert.Equal(t, "b3", allowed[2].BotID)
}
