package types

import (
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/validator"
)

// Notification is an out-of-band alert about a room.
type Notification struct {
	UserID      string `json:"-"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ReferenceID string `json:"referenceID"`
	Type        string `json:"type"`
}

const NotificationTypeChat = "chat"

type WebPushSubscription struct {
	UserID    string    `db:"user_id" json:"-"`
	Endpoint  string    `db:"endpoint" json:"endpoint" validate:"required,url,max=2048"`
	Auth      string    `db:"auth" json:"auth" validate:"required,max=256"`
	P256dh    string    `db:"p256dh" json:"p256dh" validate:"required,max=256"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (in WebPushSubscription) Validate() error {
	return validator.Struct(in)
}
