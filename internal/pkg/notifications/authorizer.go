package notifications

import (
	"github.com/ForumBots/HookRelay/app/models"
)

// VisibilityPredicate decides whether the given host user may view the
// content behind an audience descriptor. The host application supplies the
// real rules; this core only applies them.
type VisibilityPredicate func(userID uint, audience Audience) bool

// Authorizer filters candidate bots down to the subset whose host user may
// see a piece of content. It runs per event at delivery time, never at
// subscription time, and holds no cache: visibility can change between
// events.
type Authorizer struct {
	canView VisibilityPredicate
}

// NewAuthorizer creates an authorizer around the host's visibility rules.
func NewAuthorizer(canView VisibilityPredicate) *Authorizer {
	return &Authorizer{canView: canView}
}

// NewDefaultAuthorizer applies the built-in policy: public content is
// visible to everyone, non-public content only to its listed participants.
func NewDefaultAuthorizer() *Authorizer {
	return NewAuthorizer(DefaultVisibility)
}

// Authorize returns the bots permitted to receive a notification for the
// given audience. The input order is preserved.
func (a *Authorizer) Authorize(audience Audience, candidates []models.Bot) []models.Bot {
	allowed := make([]models.Bot, 0, len(candidates))
	for _, bot := range candidates {
		if a.canView(bot.UserID, audience) {
			allowed = append(allowed, bot)
		}
	}
	return allowed
}

// DefaultVisibility is the built-in predicate: public content is visible to
// all users, private content only to its participants.
func DefaultVisibility(userID uint, audience Audience) bool {
	if audience.Public {
		return true
	}
	for _, id := range audience.ParticipantUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
