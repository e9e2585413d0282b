package types

import (
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/validator"
)

type RoomSummary struct {
	RoomID           string     `json:"roomID"`
	Kind             RoomKind   `json:"kind"`
	Name             string     `json:"name"`
	ImageURL         *string    `json:"imageURL"`
	LastMessage      *string    `json:"lastMessage"`
	LastMessageAt    *time.Time `json:"lastMessageAt"`
	UnreadCount      int        `json:"unreadCount"`
	ParticipantCount int        `json:"participantCount"`
}

type SearchRoomSummaries struct {
	Keyword string `validate:"required,max=100"`
}

func (in SearchRoomSummaries) Validate() error {
	return validator.Struct(in)
}
