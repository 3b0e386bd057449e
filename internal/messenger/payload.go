package messenger

// Webhook event kinds delivered by the Evolution API.
const (
	EventMessagesUpsert     = "messages.upsert"
	EventGroupsUpsert       = "groups.upsert"
	EventParticipantsUpdate = "group-participants.update"
)

// Participant actions within a group-participants.update event.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionLeave  = "leave"
)

// MessageKey identifies one message within a chat.
type MessageKey struct {
	RemoteJID   string `json:"remoteJid"`
	FromMe      bool   `json:"fromMe"`
	ID          string `json:"id"`
	Participant string `json:"participant,omitempty"`
}

// MessageContent carries the text forms a WhatsApp message can arrive in.
// Non-text payloads (stickers, images, ...) have neither field set.
type MessageContent struct {
	Conversation        string        `json:"conversation,omitempty"`
	ExtendedTextMessage *ExtendedText `json:"extendedTextMessage,omitempty"`
}

type ExtendedText struct {
	Text string `json:"text"`
}

// MessageEvent is the envelope for messages.upsert webhook deliveries.
type MessageEvent struct {
	Event    string      `json:"event"`
	Instance string      `json:"instance"`
	Data     MessageData `json:"data"`
}

type MessageData struct {
	Key      MessageKey      `json:"key"`
	Message  *MessageContent `json:"message,omitempty"`
	PushName string          `json:"pushName,omitempty"`
	Author   string          `json:"author,omitempty"`
}

// Text returns the message text, or "" for non-text payloads.
func (e *MessageEvent) Text() string {
	m := e.Data.Message
	if m == nil {
		return ""
	}
	if m.Conversation != "" {
		return m.Conversation
	}
	if m.ExtendedTextMessage != nil {
		return m.ExtendedTextMessage.Text
	}
	return ""
}

// Sender returns the identity that authored the message: the participant
// inside a group chat, else the chat itself.
func (e *MessageEvent) Sender() string {
	if e.Data.Key.Participant != "" {
		return e.Data.Key.Participant
	}
	return e.Data.Key.RemoteJID
}

// GroupsUpsertEvent is the envelope for groups.upsert deliveries (group
// created or bot added via invite link).
type GroupsUpsertEvent struct {
	Event    string             `json:"event"`
	Instance string             `json:"instance"`
	Data     []GroupUpsertEntry `json:"data"`
}

type GroupUpsertEntry struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Author   string `json:"author,omitempty"`
	AuthorPn string `json:"authorPn,omitempty"`
}

// Authorizer returns the identity responsible for the group event, preferring
// the author field over the phone-number fallback.
func (g *GroupUpsertEntry) Authorizer() string {
	if g.Author != "" {
		return g.Author
	}
	return g.AuthorPn
}

// ParticipantsUpdateEvent is the envelope for group-participants.update
// deliveries.
type ParticipantsUpdateEvent struct {
	Event    string                 `json:"event"`
	Instance string                 `json:"instance"`
	Sender   string                 `json:"sender,omitempty"`
	Data     ParticipantsUpdateData `json:"data"`
}

type ParticipantsUpdateData struct {
	ID           string        `json:"id"`
	Action       string        `json:"action"`
	Author       string        `json:"author"`
	Participants []Participant `json:"participants"`
}

type Participant struct {
	PhoneNumber string `json:"phoneNumber"`
}
