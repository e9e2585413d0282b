package badger

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/cursor"
	"github.com/SWYP-foreigner/Kori-chatting/textutil"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/dgraph-io/badger/v4"
)

func (b *Badger) CreateRoom(ctx context.Context, room types.Room) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		return set(txn, roomKey(room.ID), room)
	})
}

func (b *Badger) Room(ctx context.Context, roomID string) (types.Room, error) {
	var out types.Room
	return out, b.view(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = get[types.Room](txn, roomKey(roomID), types.ErrRoomNotFound)
		return err
	})
}

// LockRoom reads the room within the current transaction. Badger detects
// a concurrent write to it at commit time and the transaction is retried.
func (b *Badger) LockRoom(ctx context.Context, roomID string) (types.Room, error) {
	var out types.Room
	return out, b.update(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = get[types.Room](txn, roomKey(roomID), types.ErrRoomNotFound)
		return err
	})
}

func (b *Badger) UpdateGroup(ctx context.Context, roomID string, group types.Group) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		room, err := get[types.Room](txn, roomKey(roomID), types.ErrRoomNotFound)
		if err != nil {
			return err
		}

		if !room.IsGroup() {
			return types.ErrRoomNotGroup
		}

		room.Group = &group
		return set(txn, roomKey(roomID), room)
	})
}

func (b *Badger) DeleteRoom(ctx context.Context, roomID string) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		participants, err := scan[types.Participant](txn, participantPrefix(roomID))
		if err != nil {
			return err
		}

		var toDelete []string
		for _, p := range participants {
			toDelete = append(toDelete,
				participantKey(roomID, p.UserID),
				memberKey(p.UserID, roomID),
			)
		}

		prefix := messagePrefix(roomID)
		for _, k := range keys(txn, prefix) {
			toDelete = append(toDelete, k, messageRoomKey(strings.TrimPrefix(k, prefix)))
		}

		return deleteKeys(txn, append(toDelete, roomKey(roomID)))
	})
}

func (b *Badger) OneToOneRooms(ctx context.Context, userA, userB string) ([]types.Room, error) {
	var out []types.Room
	return out, b.view(ctx, func(txn *badger.Txn) error {
		prefix := memberPrefix(userA)
		for _, k := range keys(txn, prefix) {
			roomID := strings.TrimPrefix(k, prefix)

			room, err := get[types.Room](txn, roomKey(roomID), types.ErrRoomNotFound)
			if err != nil {
				return err
			}

			if room.IsGroup() {
				continue
			}

			participants, err := scan[types.Participant](txn, participantPrefix(roomID))
			if err != nil {
				return err
			}

			if len(participants) != 2 {
				continue
			}

			if _, ok := types.Participants(participants).Find(userB); ok {
				out = append(out, room)
			}
		}

		slices.SortFunc(out, func(a, b types.Room) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		return nil
	})
}

func (b *Badger) UserRooms(ctx context.Context, userID string) ([]types.Room, error) {
	var out []types.Room
	return out, b.view(ctx, func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		for _, k := range keys(txn, prefix) {
			roomID := strings.TrimPrefix(k, prefix)

			p, err := get[types.Participant](txn, participantKey(roomID, userID), types.ErrParticipantNotFound)
			if err != nil {
				return err
			}

			if !p.Active() {
				continue
			}

			room, err := get[types.Room](txn, roomKey(roomID), types.ErrRoomNotFound)
			if err != nil {
				return err
			}

			out = append(out, room)
		}
		return nil
	})
}

func (b *Badger) SearchGroups(ctx context.Context, keyword string, limit int) ([]types.GroupListing, error) {
	out, err := b.groups(ctx, func(g types.Group) bool {
		return textutil.ContainsFold(g.Name, keyword) || textutil.ContainsFold(g.Description, keyword)
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, newestFirst)
	return firstN(out, limit), nil
}

func (b *Badger) LatestGroups(ctx context.Context, after *cursor.Cursor[time.Time], limit int) ([]types.GroupListing, error) {
	out, err := b.groups(ctx, nil)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, newestFirst)
	if after != nil {
		pivot := types.GroupListing{Room: types.Room{ID: after.ID, CreatedAt: after.Value}}
		out = slices.DeleteFunc(out, func(g types.GroupListing) bool {
			return newestFirst(g, pivot) <= 0
		})
	}

	return firstN(out, limit), nil
}

func (b *Badger) PopularGroups(ctx context.Context, limit int) ([]types.GroupListing, error) {
	out, err := b.groups(ctx, nil)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b types.GroupListing) int {
		return cmp.Or(
			cmp.Compare(b.ActiveMemberCount, a.ActiveMemberCount),
			newestFirst(a, b),
		)
	})
	return firstN(out, limit), nil
}

func (b *Badger) groups(ctx context.Context, match func(types.Group) bool) ([]types.GroupListing, error) {
	var out []types.GroupListing
	return out, b.view(ctx, func(txn *badger.Txn) error {
		rooms, err := scan[types.Room](txn, "room:")
		if err != nil {
			return err
		}

		for _, room := range rooms {
			group, ok := room.AsGroup()
			if !ok || (match != nil && !match(group)) {
				continue
			}

			participants, err := scan[types.Participant](txn, participantPrefix(room.ID))
			if err != nil {
				return err
			}

			out = append(out, types.GroupListing{
				Room:              room,
				ActiveMemberCount: len(types.Participants(participants).Active()),
			})
		}
		return nil
	})
}

func newestFirst(a, b types.GroupListing) int {
	return cmp.Or(
		b.CreatedAt.Compare(a.CreatedAt),
		strings.Compare(b.ID, a.ID),
	)
}

func firstN[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
