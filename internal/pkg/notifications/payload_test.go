package notifications

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostPayload(t *testing.T) {
	event := PostEvent{
		PostID:      100,
		ThreadID:    7,
		ThreadTitle: "Release thread",
		AuthorID:    3,
		AuthorName:  "alice",
		Public:      true,
		CreatedAt:   1700000000,
	}

	payload, audience := BuildPostPayload(event)

	assert.Equal(t, EventTypePostCreated, payload.EventType)
	assert.Equal(t, ContentTypePost, payload.ContentType)
	assert.Equal(t, uint(100), payload.ContentID)
	assert.Equal(t, uint(7), payload.Interaction.ContainerID)
	assert.Equal(t, "alice", payload.Interaction.ActorName)
	assert.Equal(t, uint(1700000000), payload.EmittedAt)
	assert.True(t, audience.Public)
	assert.Empty(t, audience.ParticipantUserIDs)
}

func TestBuildMessagePayload(t *testing.T) {
	event := MessageEvent{
		MessageID:      55,
		ConversationID: 9,
		Title:          "private chat",
		AuthorID:       3,
		AuthorName:     "alice",
		ParticipantIDs: []uint{3, 4},
		CreatedAt:      1700000000,
	}

	payload, audience := BuildMessagePayload(event)

	assert.Equal(t, EventTypeMessageCreated, payload.EventType)
	assert.Equal(t, ContentTypeMessage, payload.ContentType)
	assert.False(t, audience.Public, "conversation messages are never public")
	assert.Equal(t, []uint{3, 4}, audience.ParticipantUserIDs)
}

func TestBuildPostPayload_Deterministic(t *testing.T) {
	event := PostEvent{
		PostID:      100,
		ThreadID:    7,
		ThreadTitle: "Release thread",
		AuthorID:    3,
		AuthorName:  "alice",
		Public:      true,
		CreatedAt:   1700000000,
	}

	first, _ := BuildPostPayload(event)
	second, _ := BuildPostPayload(event)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON, "redelivery must produce a byte-identical body")
}
