package service

import (
	"context"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// SaveWebPushSubscription registers a browser of the caller for push
// notifications.
func (svc *Service) SaveWebPushSubscription(ctx context.Context, in types.WebPushSubscription) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	in.UserID = uid
	in.CreatedAt = time.Now()
	return svc.Subscriptions.SaveWebPushSubscription(ctx, in)
}
