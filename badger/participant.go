package badger

import (
	"context"
	"slices"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/dgraph-io/badger/v4"
)

func (b *Badger) CreateParticipant(ctx context.Context, p types.Participant) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, roomKey(p.RoomID))
		if err != nil {
			return err
		}

		if !ok {
			return types.ErrRoomNotFound
		}

		ok, err = exists(txn, participantKey(p.RoomID, p.UserID))
		if err != nil {
			return err
		}

		if ok {
			return types.ErrAlreadyParticipant
		}

		if err := set(txn, participantKey(p.RoomID, p.UserID), p); err != nil {
			return err
		}

		return set(txn, memberKey(p.UserID, p.RoomID), nil)
	})
}

func (b *Badger) Participant(ctx context.Context, roomID, userID string) (types.Participant, error) {
	var out types.Participant
	return out, b.view(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = get[types.Participant](txn, participantKey(roomID, userID), types.ErrParticipantNotFound)
		return err
	})
}

func (b *Badger) LockParticipant(ctx context.Context, roomID, userID string) (types.Participant, error) {
	var out types.Participant
	return out, b.update(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = get[types.Participant](txn, participantKey(roomID, userID), types.ErrParticipantNotFound)
		return err
	})
}

func (b *Badger) Participants(ctx context.Context, roomID string) (types.Participants, error) {
	var out types.Participants
	return out, b.view(ctx, func(txn *badger.Txn) error {
		pp, err := scan[types.Participant](txn, participantPrefix(roomID))
		if err != nil {
			return err
		}

		slices.SortStableFunc(pp, func(a, b types.Participant) int {
			return a.JoinedAt.Compare(b.JoinedAt)
		})
		out = pp
		return nil
	})
}

func (b *Badger) UpdateParticipant(ctx context.Context, p types.Participant) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, participantKey(p.RoomID, p.UserID))
		if err != nil {
			return err
		}

		if !ok {
			return types.ErrParticipantNotFound
		}

		return set(txn, participantKey(p.RoomID, p.UserID), p)
	})
}
