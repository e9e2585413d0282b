package badger

import (
	"context"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/dgraph-io/badger/v4"
)

func (b *Badger) SaveWebPushSubscription(ctx context.Context, sub types.WebPushSubscription) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		return set(txn, webPushKey(sub.UserID, sub.Endpoint), sub)
	})
}

func (b *Badger) WebPushSubscriptions(ctx context.Context, userID string) ([]types.WebPushSubscription, error) {
	var out []types.WebPushSubscription
	return out, b.view(ctx, func(txn *badger.Txn) error {
		var err error
		out, err = scan[types.WebPushSubscription](txn, webPushPrefix(userID))
		return err
	})
}

func (b *Badger) DeleteWebPushSubscription(ctx context.Context, userID, endpoint string) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		return deleteKeys(txn, []string{webPushKey(userID, endpoint)})
	})
}
