// Package webpush delivers chat notifications to the browsers a user
// subscribed from.
package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/SherClockHolmes/webpush-go"
)

const defaultTTL = 60 * 60 * 24

type SubscriptionStore interface {
	WebPushSubscriptions(ctx context.Context, userID string) ([]types.WebPushSubscription, error)
	DeleteWebPushSubscription(ctx context.Context, userID, endpoint string) error
}

type Notifier struct {
	Store           SubscriptionStore
	Subscriber      string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// TTL in seconds a push service keeps an undelivered message.
	TTL        int
	HTTPClient webpush.HTTPClient
}

// Notify pushes n to every subscription of the user. Subscriptions the push
// service reports as gone are removed.
func (n *Notifier) Notify(ctx context.Context, notification types.Notification) error {
	subs, err := n.Store.WebPushSubscriptions(ctx, notification.UserID)
	if err != nil {
		return fmt.Errorf("list web push subscriptions: %w", err)
	}

	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("json marshal notification: %w", err)
	}

	var errs []error
	for _, sub := range subs {
		if err := n.send(ctx, payload, sub); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (n *Notifier) send(ctx context.Context, payload []byte, sub types.WebPushSubscription) error {
	ttl := n.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Auth,
			P256dh: sub.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      n.HTTPClient,
		Subscriber:      n.Subscriber,
		VAPIDPublicKey:  n.VAPIDPublicKey,
		VAPIDPrivateKey: n.VAPIDPrivateKey,
		TTL:             ttl,
	})
	if err != nil {
		return fmt.Errorf("send web push notification: %w", err)
	}

	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if err := n.Store.DeleteWebPushSubscription(ctx, sub.UserID, sub.Endpoint); err != nil {
			return fmt.Errorf("delete expired web push subscription: %w", err)
		}
		return nil
	case resp.StatusCode >= 400:
		return fmt.Errorf("web push service responded with %s", resp.Status)
	}

	return nil
}
