package types

import (
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/emoji"
	"github.com/SWYP-foreigner/Kori-chatting/textutil"
	"github.com/SWYP-foreigner/Kori-chatting/validator"
)

type Message struct {
	ID       string    `db:"id" json:"id"`
	RoomID   string    `db:"room_id" json:"roomID"`
	SenderID string    `db:"sender_id" json:"senderID"`
	Content  string    `db:"content" json:"content"`
	SentAt   time.Time `db:"sent_at" json:"sentAt"`
}

// MessageView is a message as seen by one viewer.
type MessageView struct {
	Message
	Sender            Profile `json:"sender"`
	TranslatedContent *string `json:"translatedContent"`
}

// MessageQuery selects messages of a room newest first.
type MessageQuery struct {
	RoomID string
	// Before excludes messages at or after this id.
	Before *string
	// SentAfter excludes messages sent at or before this time.
	SentAfter *time.Time
	Limit     int
}

type SendMessage struct {
	RoomID  string `validate:"required,xid"`
	Content string `json:"content" validate:"required,max=2000"`
}

func (in *SendMessage) Validate() error {
	in.Content = emoji.Expand(textutil.SmartTrim(in.Content))
	return validator.Struct(in)
}

type ListMessages struct {
	RoomID string  `validate:"required,xid"`
	Before *string `validate:"omitempty,xid"`
}

func (in ListMessages) Validate() error {
	return validator.Struct(in)
}

type SearchMessages struct {
	RoomID  string `validate:"required,xid"`
	Keyword string `validate:"required,max=100"`
}

func (in SearchMessages) Validate() error {
	return validator.Struct(in)
}

type MarkAsRead struct {
	RoomID    string `validate:"required,xid"`
	MessageID string `json:"lastReadMessageID" validate:"required,xid"`
}

func (in MarkAsRead) Validate() error {
	return validator.Struct(in)
}

type DeleteMessage struct {
	MessageID string `validate:"required,xid"`
}

func (in DeleteMessage) Validate() error {
	return validator.Struct(in)
}

type FanoutStep string

const (
	FanoutStepProfiles     FanoutStep = "profiles"
	FanoutStepImages       FanoutStep = "images"
	FanoutStepTranslation  FanoutStep = "translation"
	FanoutStepDelivery     FanoutStep = "delivery"
	FanoutStepNotification FanoutStep = "notification"
	FanoutStepSummary      FanoutStep = "summary"
)

// DeliveryFailure records a best-effort step that failed after the message
// was persisted. UserID is empty when the step is not per recipient.
type DeliveryFailure struct {
	UserID string
	Step   FanoutStep
	Err    error
}

type SendResult struct {
	Message  Message           `json:"message"`
	Failures []DeliveryFailure `json:"-"`
}

func (r *SendResult) Fail(userID string, step FanoutStep, err error) {
	r.Failures = append(r.Failures, DeliveryFailure{UserID: userID, Step: step, Err: err})
}
