package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/SWYP-foreigner/Kori-chatting/id"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func (b *Badger) CreateMessage(ctx context.Context, m types.Message) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, roomKey(m.RoomID))
		if err != nil {
			return err
		}

		if !ok {
			return types.ErrRoomNotFound
		}

		if err := set(txn, messageKey(m.RoomID, m.ID), m); err != nil {
			return err
		}

		return txn.Set([]byte(messageRoomKey(m.ID)), []byte(m.RoomID))
	})
}

func (b *Badger) Message(ctx context.Context, messageID string) (types.Message, error) {
	var out types.Message
	return out, b.view(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = b.message(txn, messageID)
		return err
	})
}

func (b *Badger) message(txn *badger.Txn, messageID string) (types.Message, error) {
	item, err := txn.Get([]byte(messageRoomKey(messageID)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.Message{}, types.ErrMessageNotFound
	}

	if err != nil {
		return types.Message{}, fmt.Errorf("badger get message room: %w", err)
	}

	roomID, err := item.ValueCopy(nil)
	if err != nil {
		return types.Message{}, fmt.Errorf("badger copy message room: %w", err)
	}

	return get[types.Message](txn, messageKey(string(roomID), messageID), types.ErrMessageNotFound)
}

func (b *Badger) DeleteMessage(ctx context.Context, messageID string) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		m, err := b.message(txn, messageID)
		if err != nil {
			return err
		}

		return deleteKeys(txn, []string{
			messageKey(m.RoomID, m.ID),
			messageRoomKey(m.ID),
		})
	})
}

// Messages walks the room backwards from the cursor.
func (b *Badger) Messages(ctx context.Context, q types.MessageQuery) ([]types.Message, error) {
	var out []types.Message
	return out, b.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(q.RoomID))

		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte{}, prefix...)
		if q.Before != nil {
			seek = append(seek, *q.Before...)
		} else {
			seek = append(seek, 0xFF)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			msgID := string(it.Item().Key()[len(prefix):])
			if q.Before != nil && id.Compare(msgID, *q.Before) >= 0 {
				continue
			}

			var m types.Message
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &m)
			})
			if err != nil {
				return fmt.Errorf("msgpack unmarshal message: %w", err)
			}

			if q.SentAfter != nil && !m.SentAt.After(*q.SentAfter) {
				continue
			}

			out = append(out, m)
			if q.Limit > 0 && len(out) == q.Limit {
				break
			}
		}
		return nil
	})
}

func (b *Badger) LatestMessage(ctx context.Context, roomID string) (types.Message, error) {
	msgs, err := b.Messages(ctx, types.MessageQuery{RoomID: roomID, Limit: 1})
	if err != nil {
		return types.Message{}, err
	}

	if len(msgs) == 0 {
		return types.Message{}, types.ErrMessageNotFound
	}

	return msgs[0], nil
}

func (b *Badger) CountMessages(ctx context.Context, roomID string, afterID *string, excludeSenderID string) (int, error) {
	var out int
	return out, b.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(roomID))

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte{}, prefix...)
		if afterID != nil {
			seek = append(seek, *afterID...)
		}

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			msgID := string(it.Item().Key()[len(prefix):])
			if afterID != nil && id.Compare(msgID, *afterID) <= 0 {
				continue
			}

			var m types.Message
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &m)
			})
			if err != nil {
				return fmt.Errorf("msgpack unmarshal message: %w", err)
			}

			if m.SenderID != excludeSenderID {
				out++
			}
		}
		return nil
	})
}
