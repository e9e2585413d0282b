package types

// Event types carried on the room topic.
const (
	RoomEventDelete = "delete"
	RoomEventTyping = "typing"
)

// MessageEvent is delivered on a recipient's private message topic.
type MessageEvent struct {
	Message           Message `json:"message"`
	Sender            Profile `json:"sender"`
	TranslatedContent *string `json:"translatedContent"`
}

type RoomEvent struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomID"`
	MessageID string `json:"id,omitempty"`
	UserID    string `json:"userID,omitempty"`
	Typing    bool   `json:"typing,omitempty"`
}

type ReadStatusEvent struct {
	RoomID            string `json:"roomID"`
	UserID            string `json:"userID"`
	LastReadMessageID string `json:"lastReadMessageID"`
}

// RoomStreamItem is what a room subscriber receives: either a room event or
// a read status change.
type RoomStreamItem struct {
	Event      *RoomEvent       `json:"event,omitempty"`
	ReadStatus *ReadStatusEvent `json:"readStatus,omitempty"`
}
