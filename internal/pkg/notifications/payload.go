// Package notifications normalizes host events (new posts, new conversation
// messages) into the transport-agnostic payload delivered to bot webhooks,
// and filters the candidate recipients through the host's visibility rules.
package notifications

// Content/event type identifiers used in payloads and delivery records.
const (
	ContentTypePost    = "post"
	ContentTypeMessage = "conversation_message"

	EventTypePostCreated    = "post_created"
	EventTypeMessageCreated = "conversation_message_created"
)

// Interaction describes what happened: who acted, and in which thread or
// conversation.
type Interaction struct {
	Kind        string `json:"kind"`
	ActorUserID uint   `json:"actor_user_id"`
	ActorName   string `json:"actor_name"`
	ContainerID uint   `json:"container_id"`
	Title       string `json:"title"`
}

// Payload is the normalized notification delivered to every authorized
// recipient of one event. It is built exactly once per event and must be
// deterministic: redelivering the same event produces a byte-identical body.
type Payload struct {
	EventType   string      `json:"event_type"`
	ContentType string      `json:"content_type"`
	ContentID   uint        `json:"content_id"`
	Interaction Interaction `json:"interaction"`
	EmittedAt   uint        `json:"emitted_at"`
}

// Audience describes who may see the content behind a payload. It is carried
// alongside the payload in the job description so the visibility decision
// can be made at delivery time, as late as possible.
type Audience struct {
	Public             bool   `json:"public"`
	ParticipantUserIDs []uint `json:"participant_user_ids,omitempty"`
}

// PostEvent is the raw host event for a new forum post.
type PostEvent struct {
	PostID      uint
	ThreadID    uint
	ThreadTitle string
	AuthorID    uint
	AuthorName  string
	Public      bool
	CreatedAt   uint
}

// MessageEvent is the raw host event for a new private conversation message.
type MessageEvent struct {
	MessageID      uint
	ConversationID uint
	Title          string
	AuthorID       uint
	AuthorName     string
	ParticipantIDs []uint
	CreatedAt      uint
}

// BuildPostPayload normalizes a new-post event. Pure transformation, no I/O;
// the timestamp comes from the event itself, never from the clock, so the
// result is stable across redeliveries.
func BuildPostPayload(event PostEvent) (Payload, Audience) {
	payload := Payload{
		EventType:   EventTypePostCreated,
		ContentType: ContentTypePost,
		ContentID:   event.PostID,
		Interaction: Interaction{
			Kind:        "new_post_in_thread",
			ActorUserID: event.AuthorID,
			ActorName:   event.AuthorName,
			ContainerID: event.ThreadID,
			Title:       event.ThreadTitle,
		},
		EmittedAt: event.CreatedAt,
	}
	audience := Audience{Public: event.Public}

	return payload, audience
}

// BuildMessagePayload normalizes a new-conversation-message event. Private
// messages are never public: only the conversation participants form the
// audience.
func BuildMessagePayload(event MessageEvent) (Payload, Audience) {
	payload := Payload{
		EventType:   EventTypeMessageCreated,
		ContentType: ContentTypeMessage,
		ContentID:   event.MessageID,
		Interaction: Interaction{
			Kind:        "new_conversation_message",
			ActorUserID: event.AuthorID,
			ActorName:   event.AuthorName,
			ContainerID: event.ConversationID,
			Title:       event.Title,
		},
		EmittedAt: event.CreatedAt,
	}
	audience := Audience{
		Public:             false,
		ParticipantUserIDs: event.ParticipantIDs,
	}

	return payload, audience
}
