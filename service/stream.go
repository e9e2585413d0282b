package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"

	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// MessageStream delivers the messages sent to the caller in realtime.
func (svc *Service) MessageStream(ctx context.Context) (<-chan types.MessageEvent, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	s := newSink[types.MessageEvent](ctx)
	unsub, err := subscribe(svc, s, chat.UserMessagesTopic(uid), func(ev types.MessageEvent) types.MessageEvent {
		return ev
	})
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to messages: %w", err)
	}

	go closeOnDone(svc, s, unsub)

	return s.ch, nil
}

// RoomSummaryStream delivers fresh room list entries of the caller.
func (svc *Service) RoomSummaryStream(ctx context.Context) (<-chan types.RoomSummary, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	s := newSink[types.RoomSummary](ctx)
	unsub, err := subscribe(svc, s, chat.UserRoomsTopic(uid), func(summary types.RoomSummary) types.RoomSummary {
		return summary
	})
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to room summaries: %w", err)
	}

	go closeOnDone(svc, s, unsub)

	return s.ch, nil
}

// RoomStream delivers deletions, typing indicators and read status changes
// of a room the caller is active in.
func (svc *Service) RoomStream(ctx context.Context, in types.RetrieveRoom) (<-chan types.RoomStreamItem, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := svc.Engine.Ledger.Participant(ctx, in.RoomID, uid)
	if err != nil {
		return nil, err
	}

	if !p.Active() {
		return nil, types.ErrParticipantLeft
	}

	s := newSink[types.RoomStreamItem](ctx)
	unsubEvents, err := subscribe(svc, s, chat.RoomTopic(in.RoomID), func(ev types.RoomEvent) types.RoomStreamItem {
		return types.RoomStreamItem{Event: &ev}
	})
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to room events: %w", err)
	}

	unsubReads, err := subscribe(svc, s, chat.ReadStatusTopic(in.RoomID), func(ev types.ReadStatusEvent) types.RoomStreamItem {
		return types.RoomStreamItem{ReadStatus: &ev}
	})
	if err != nil {
		_ = unsubEvents()
		return nil, fmt.Errorf("could not subscribe to room read status: %w", err)
	}

	go closeOnDone(svc, s, func() error {
		return errors.Join(unsubEvents(), unsubReads())
	})

	return s.ch, nil
}

// sink is a stream channel that is safe to close while a subscription
// callback may still be delivering.
type sink[T any] struct {
	ctx    context.Context
	ch     chan T
	mu     sync.Mutex
	closed bool
}

func newSink[T any](ctx context.Context) *sink[T] {
	return &sink[T]{ctx: ctx, ch: make(chan T)}
}

func (s *sink[T]) send(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.ch <- v:
	case <-s.ctx.Done():
	}
}

func (s *sink[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func subscribe[E, T any](svc *Service, s *sink[T], topic string, wrap func(E) T) (func() error, error) {
	return svc.PubSub.Sub(topic, func(data []byte) {
		var ev E
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ev); err != nil {
			svc.Logger.Error("could not gob decode stream event", "topic", topic, "error", err)
			return
		}

		s.send(wrap(ev))
	})
}

func closeOnDone[T any](svc *Service, s *sink[T], unsub func() error) {
	<-s.ctx.Done()
	if err := unsub(); err != nil {
		svc.Logger.Error("could not unsubscribe stream", "error", err)
		// don't return
	}
	s.close()
}
