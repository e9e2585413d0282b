package chat

import (
	"context"
	"errors"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// Accountant derives unread counts from the read markers.
type Accountant struct {
	participants ParticipantStore
	messages     MessageStore
	ledger       *Ledger
}

// CountUnread counts the messages from others after the participant's read
// marker, or all of them when nothing was read yet.
func (a *Accountant) CountUnread(ctx context.Context, roomID, userID string) (int, error) {
	p, err := a.participants.Participant(ctx, roomID, userID)
	if err != nil {
		return 0, err
	}

	return a.count(ctx, p)
}

func (a *Accountant) count(ctx context.Context, p types.Participant) (int, error) {
	return a.messages.CountMessages(ctx, p.RoomID, p.LastReadMessageID, p.UserID)
}

// MarkAllRead moves the read marker to the newest message of the room.
// Nothing changes on an empty room.
func (a *Accountant) MarkAllRead(ctx context.Context, roomID, userID string) (types.Participant, bool, error) {
	p, err := a.participants.Participant(ctx, roomID, userID)
	if err != nil {
		return p, false, err
	}

	latest, err := a.messages.LatestMessage(ctx, roomID)
	if errors.Is(err, types.ErrMessageNotFound) {
		return p, false, nil
	}

	if err != nil {
		return p, false, err
	}

	return a.ledger.UpdateLastRead(ctx, roomID, userID, latest.ID)
}
