package cockroach

import (
	"context"
	"fmt"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
)

func (c *Cockroach) SaveWebPushSubscription(ctx context.Context, sub types.WebPushSubscription) error {
	const query = `
		INSERT INTO webpush_subscriptions (user_id, endpoint, auth, p256dh)
		VALUES (@user_id, @endpoint, @auth, @p256dh)
		ON CONFLICT (user_id, endpoint) DO UPDATE
		SET auth = excluded.auth, p256dh = excluded.p256dh
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"user_id":  sub.UserID,
		"endpoint": sub.Endpoint,
		"auth":     sub.Auth,
		"p256dh":   sub.P256dh,
	})
	if err != nil {
		return fmt.Errorf("sql upsert webpush subscription: %w", err)
	}

	return nil
}

func (c *Cockroach) WebPushSubscriptions(ctx context.Context, userID string) ([]types.WebPushSubscription, error) {
	const query = `
		SELECT user_id, endpoint, auth, p256dh, created_at
		FROM webpush_subscriptions
		WHERE user_id = @user_id
		ORDER BY created_at
	`
	args := pgx.StrictNamedArgs{
		"user_id": userID,
	}
	out, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.WebPushSubscription])
	if err != nil {
		return nil, fmt.Errorf("sql select webpush subscriptions: %w", err)
	}

	return out, nil
}

func (c *Cockroach) DeleteWebPushSubscription(ctx context.Context, userID, endpoint string) error {
	const query = `DELETE FROM webpush_subscriptions WHERE user_id = @user_id AND endpoint = @endpoint`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"user_id":  userID,
		"endpoint": endpoint,
	})
	if err != nil {
		return fmt.Errorf("sql delete webpush subscription: %w", err)
	}

	return nil
}
