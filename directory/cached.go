package directory

import (
	"context"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cached keeps resolved profiles for a while so a busy room does not hit
// the user service on every message. Unknown users are not cached.
type Cached struct {
	next  chat.UserDirectory
	cache *lru.LRU[string, types.Profile]
}

func NewCached(next chat.UserDirectory, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = 1024
	}
	return &Cached{
		next:  next,
		cache: lru.NewLRU[string, types.Profile](size, nil, ttl),
	}
}

func (c *Cached) Users(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
	out := make(map[string]types.Profile, len(userIDs))

	var missing []string
	for _, userID := range userIDs {
		if p, ok := c.cache.Get(userID); ok {
			out[userID] = p
			continue
		}
		missing = append(missing, userID)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.next.Users(ctx, missing)
	if err != nil {
		return out, err
	}

	for userID, p := range fetched {
		c.cache.Add(userID, p)
		out[userID] = p
	}

	return out, nil
}
