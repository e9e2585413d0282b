package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/metrics"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/samber/lo"
)

//go:generate go tool moq -pkg chat_test -out mocks_test.go . UserDirectory ImageDirectory Translator Notifier Broadcaster

const defaultCollaboratorTimeout = 3 * time.Second

type UserDirectory interface {
	// Users fetches the profiles it knows of. Unknown ids are left out.
	Users(ctx context.Context, userIDs []string) (map[string]types.Profile, error)
}

type ImageDirectory interface {
	// Images returns the image URL of each entity that has one.
	Images(ctx context.Context, entityIDs []string) (map[string]string, error)
}

type Translator interface {
	// Translate returns the texts translated into lang, same length and order.
	Translate(ctx context.Context, texts []string, lang string) ([]string, error)
}

type Notifier interface {
	Notify(ctx context.Context, n types.Notification) error
}

type Broadcaster interface {
	Pub(topic string, data []byte) error
}

// collaborators bounds every external call with its own timeout and turns
// panics into errors.
type collaborators struct {
	users      UserDirectory
	images     ImageDirectory
	translator Translator
	notifier   Notifier
	timeout    time.Duration
	metrics    *metrics.Metrics
}

func (c collaborators) profiles(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
	userIDs = lo.Uniq(userIDs)
	if len(userIDs) == 0 || c.users == nil {
		return map[string]types.Profile{}, nil
	}

	out, err := call(ctx, c, "users", func(ctx context.Context) (map[string]types.Profile, error) {
		return c.users.Users(ctx, userIDs)
	})
	if out == nil {
		out = map[string]types.Profile{}
	}

	return out, err
}

func (c collaborators) imageURLs(ctx context.Context, entityIDs []string) (map[string]string, error) {
	entityIDs = lo.Uniq(entityIDs)
	if len(entityIDs) == 0 || c.images == nil {
		return map[string]string{}, nil
	}

	out, err := call(ctx, c, "images", func(ctx context.Context) (map[string]string, error) {
		return c.images.Images(ctx, entityIDs)
	})
	if err != nil || out == nil {
		return map[string]string{}, err
	}

	return out, nil
}

func (c collaborators) translate(ctx context.Context, texts []string, lang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if c.translator == nil {
		return nil, fmt.Errorf("translate: no translator configured")
	}

	out, err := call(ctx, c, "translator", func(ctx context.Context) ([]string, error) {
		return c.translator.Translate(ctx, texts, lang)
	})
	if err != nil {
		return nil, err
	}

	if len(out) != len(texts) {
		return nil, fmt.Errorf("translate: got %d texts back; want %d", len(out), len(texts))
	}

	return out, nil
}

func (c collaborators) notify(ctx context.Context, n types.Notification) error {
	if c.notifier == nil {
		return nil
	}

	_, err := call(ctx, c, "notifier", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.notifier.Notify(ctx, n)
	})
	return err
}

func call[T any](ctx context.Context, c collaborators, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = defaultCollaboratorTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				done <- result{err: fmt.Errorf("%s panic: %v", name, rcv)}
			}
		}()

		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	var res result
	select {
	case res = <-done:
		if res.err != nil {
			res.err = fmt.Errorf("%s: %w", name, res.err)
		}
	case <-ctx.Done():
		res.err = fmt.Errorf("%s: %w", name, ctx.Err())
	}

	c.metrics.ObserveCollaborator(name, time.Since(start), res.err)
	return res.val, res.err
}
