// Package service exposes the chat engine to authenticated callers. Every
// operation reads the caller from the context and validates its input
// before reaching the engine.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/auth"
	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/nicolasparada/go-errs"
)

const defaultBackgroundTimeout = 15 * time.Second

type PubSub interface {
	Pub(topic string, data []byte) error
	Sub(topic string, fn func(data []byte)) (unsub func() error, err error)
}

type RoomImages interface {
	Upload(ctx context.Context, roomID string, r io.Reader) (string, error)
	Delete(ctx context.Context, roomID string) error
}

type SubscriptionStore interface {
	SaveWebPushSubscription(ctx context.Context, sub types.WebPushSubscription) error
}

type Config struct {
	Engine            *chat.Engine
	PubSub            PubSub
	RoomImages        RoomImages
	Subscriptions     SubscriptionStore
	Logger            *slog.Logger
	BaseCtx           context.Context
	BackgroundTimeout time.Duration
}

type Service struct {
	Engine        *chat.Engine
	PubSub        PubSub
	RoomImages    RoomImages
	Subscriptions SubscriptionStore
	Logger        *slog.Logger

	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error
}

func New(cfg *Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	baseCtx := cfg.BaseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	backgroundTimeout := cfg.BackgroundTimeout
	if backgroundTimeout <= 0 {
		backgroundTimeout = defaultBackgroundTimeout
	}

	return &Service{
		Engine:        cfg.Engine,
		PubSub:        cfg.PubSub,
		RoomImages:    cfg.RoomImages,
		Subscriptions: cfg.Subscriptions,
		Logger:        logger,

		baseCtx:           baseCtx,
		backgroundTimeout: backgroundTimeout,
		errs:              make(chan error, 1),
	}
}

func (svc *Service) Errs() <-chan error {
	return svc.errs
}

// Close waits for background work to finish.
func (svc *Service) Close() error {
	svc.wg.Wait()
	close(svc.errs)
	return nil
}

func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				select {
				case svc.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(svc.baseCtx, svc.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			select {
			case svc.errs <- fmt.Errorf("service background error: %w", err):
			default:
			}
		}
	})
}

func loggedInUserID(ctx context.Context) (string, error) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", errs.Unauthenticated
	}
	return uid, nil
}
