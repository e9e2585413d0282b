// Package badger is an embedded single node store on top of BadgerDB.
//
// Keys:
//
//	room:{room_id}                  room
//	part:{room_id}:{user_id}        participant
//	member:{user}:{room_id}         empty, rooms of a user
//	msg:{room_id}:{message_id}      message, ids sort by creation
//	msgroom:{message_id}            room id of a message
//	webpush:{user}:{endpoint}       web push subscription
//
// Room and message ids are xids. User ids come from outside, so {user} is the
// base58 form of the id and a prefix scan never crosses into another user.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultMaxRetries = 10

type Badger struct {
	db         *badger.DB
	maxRetries int
}

func New(db *badger.DB) *Badger {
	return &Badger{
		db:         db,
		maxRetries: defaultMaxRetries,
	}
}

// OpenInMemory opens a throwaway database.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
}

type ctxKeyTxn struct{}

// RunTx runs fn inside a read-write transaction, retrying it from scratch
// when a concurrent transaction wrote a key it read.
func (b *Badger) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txnFromContext(ctx); ok {
		return fn(ctx)
	}

	for attempt := 0; ; attempt++ {
		err := b.attempt(ctx, fn)
		if errors.Is(err, badger.ErrConflict) && attempt < b.maxRetries {
			continue
		}
		return err
	}
}

func (b *Badger) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(context.WithValue(ctx, ctxKeyTxn{}, txn)); err != nil {
		return err
	}

	return txn.Commit()
}

func txnFromContext(ctx context.Context) (*badger.Txn, bool) {
	txn, ok := ctx.Value(ctxKeyTxn{}).(*badger.Txn)
	return txn, ok
}

func (b *Badger) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	return b.RunTx(ctx, func(ctx context.Context) error {
		txn, _ := txnFromContext(ctx)
		return fn(txn)
	})
}

func (b *Badger) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := txnFromContext(ctx); ok {
		return fn(txn)
	}
	return b.db.View(fn)
}

func get[T any](txn *badger.Txn, key string, notFound error) (T, error) {
	var out T

	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return out, notFound
	}

	if err != nil {
		return out, fmt.Errorf("badger get %s: %w", key, err)
	}

	err = item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, &out)
	})
	if err != nil {
		return out, fmt.Errorf("msgpack unmarshal %s: %w", key, err)
	}

	return out, nil
}

func set(txn *badger.Txn, key string, v any) error {
	var val []byte
	if v != nil {
		b, err := msgpack.Marshal(v)
		if err != nil {
			return fmt.Errorf("msgpack marshal %s: %w", key, err)
		}
		val = b
	}

	if err := txn.Set([]byte(key), val); err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}

	return nil
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("badger get %s: %w", key, err)
	}

	return true, nil
}

// keys lists the keys under prefix.
func keys(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
		out = append(out, string(it.Item().KeyCopy(nil)))
	}
	return out
}

// scan decodes every value under prefix in key order.
func scan[T any](txn *badger.Txn, prefix string) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []T
	for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
		var v T
		err := it.Item().Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &v)
		})
		if err != nil {
			return nil, fmt.Errorf("msgpack unmarshal %s: %w", it.Item().Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func deleteKeys(txn *badger.Txn, keys []string) error {
	for _, k := range keys {
		if err := txn.Delete([]byte(k)); err != nil {
			return fmt.Errorf("badger delete %s: %w", k, err)
		}
	}
	return nil
}

func roomKey(roomID string) string { return "room:" + roomID }

func participantKey(roomID, userID string) string { return "part:" + roomID + ":" + userID }

func participantPrefix(roomID string) string { return "part:" + roomID + ":" }

func userSegment(userID string) string { return base58.Encode([]byte(userID)) }

func memberKey(userID, roomID string) string { return memberPrefix(userID) + roomID }

func memberPrefix(userID string) string { return "member:" + userSegment(userID) + ":" }

func messageKey(roomID, messageID string) string { return "msg:" + roomID + ":" + messageID }

func messagePrefix(roomID string) string { return "msg:" + roomID + ":" }

func messageRoomKey(messageID string) string { return "msgroom:" + messageID }

func webPushKey(userID, endpoint string) string { return webPushPrefix(userID) + endpoint }

func webPushPrefix(userID string) string { return "webpush:" + userSegment(userID) + ":" }
