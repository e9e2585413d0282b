package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/id"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/nicolasparada/go-errs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SendMessage(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	te.translator.TranslateFunc = func(ctx context.Context, texts []string, lang string) ([]string, error) {
		require.Equal(t, "fr", lang)
		return []string{"salut"}, nil
	}

	alice := te.user("Alice", "en")
	bob := te.user("Bob", "fr")
	carol := te.user("Carol", "ko")
	room := te.group(t, alice, bob, carol)

	_, err := te.Ledger.ToggleTranslation(ctx, room.ID, bob, true)
	require.NoError(t, err)

	res, err := te.Dispatcher.SendMessage(ctx, room.ID, alice, "hi")
	require.NoError(t, err)
	require.Empty(t, res.Failures)
	require.Equal(t, "hi", res.Message.Content)
	require.Equal(t, alice, res.Message.SenderID)

	t.Run("per recipient translation", func(t *testing.T) {
		bobEvents := published[types.MessageEvent](t, te.broadcaster, chat.UserMessagesTopic(bob))
		require.Len(t, bobEvents, 1)
		require.Equal(t, res.Message.ID, bobEvents[0].Message.ID)
		require.Equal(t, "Alice", bobEvents[0].Sender.Name)
		require.NotNil(t, bobEvents[0].TranslatedContent)
		require.Equal(t, "salut", *bobEvents[0].TranslatedContent)

		carolEvents := published[types.MessageEvent](t, te.broadcaster, chat.UserMessagesTopic(carol))
		require.Len(t, carolEvents, 1)
		require.Nil(t, carolEvents[0].TranslatedContent)

		aliceEvents := published[types.MessageEvent](t, te.broadcaster, chat.UserMessagesTopic(alice))
		require.Len(t, aliceEvents, 1)
		require.Nil(t, aliceEvents[0].TranslatedContent)

		require.Len(t, te.translator.TranslateCalls(), 1)
	})

	t.Run("unread", func(t *testing.T) {
		for userID, want := range map[string]int{alice: 0, bob: 1, carol: 1} {
			got, err := te.Unread.CountUnread(ctx, room.ID, userID)
			require.NoError(t, err)
			require.Equal(t, want, got, te.profiles[userID].Name)
		}

		require.Equal(t, res.Message.ID, *te.participant(t, room.ID, alice).LastReadMessageID)
	})

	t.Run("notifications skip the sender", func(t *testing.T) {
		calls := te.notifier.NotifyCalls()
		notified := lo.Map(calls, func(c struct {
			Ctx context.Context
			N   types.Notification
		}, _ int) string {
			return c.N.UserID
		})
		require.ElementsMatch(t, []string{bob, carol}, notified)
		require.Equal(t, "New message from Alice", calls[0].N.Title)
		require.Equal(t, room.ID, calls[0].N.ReferenceID)
		require.Equal(t, types.NotificationTypeChat, calls[0].N.Type)
	})

	t.Run("room summaries", func(t *testing.T) {
		for _, userID := range []string{alice, bob, carol} {
			summaries := published[types.RoomSummary](t, te.broadcaster, chat.UserRoomsTopic(userID))
			require.Len(t, summaries, 1)
			require.Equal(t, room.ID, summaries[0].RoomID)
			require.Equal(t, "hi", *summaries[0].LastMessage)
			require.Equal(t, 3, summaries[0].ParticipantCount)
		}

		bobSummary := published[types.RoomSummary](t, te.broadcaster, chat.UserRoomsTopic(bob))[0]
		require.Equal(t, 1, bobSummary.UnreadCount)
	})
}

func TestDispatcher_SendMessage_degraded(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t, func(cfg *chat.Config) {
		cfg.CollaboratorTimeout = 50 * time.Millisecond
	})

	alice := te.user("Alice", "en")
	bob := te.user("Bob", "fr")
	room := te.oneToOne(t, alice, bob)

	te.users.UsersFunc = func(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
		panic("directory exploded")
	}
	te.notifier.NotifyFunc = func(ctx context.Context, n types.Notification) error {
		<-ctx.Done()
		return ctx.Err()
	}
	te.broadcaster.PubFunc = func(topic string, data []byte) error {
		return errors.New("broker down")
	}

	res, err := te.Dispatcher.SendMessage(ctx, room.ID, alice, "still here")
	require.NoError(t, err)

	steps := lo.Map(res.Failures, func(f types.DeliveryFailure, _ int) types.FanoutStep { return f.Step })
	require.Contains(t, steps, types.FanoutStepProfiles)
	require.Contains(t, steps, types.FanoutStepNotification)
	require.Contains(t, steps, types.FanoutStepDelivery)

	notification, ok := lo.Find(res.Failures, func(f types.DeliveryFailure) bool {
		return f.Step == types.FanoutStepNotification
	})
	require.True(t, ok)
	require.Equal(t, bob, notification.UserID)
	require.ErrorIs(t, notification.Err, context.DeadlineExceeded)

	msgs, err := te.Messages.FirstPage(ctx, room.ID, alice)
	require.NoError(t, err)
	require.Equal(t, []string{res.Message.ID}, messageIDs(msgs))
}

func TestDispatcher_SendMessage_translationFailure(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	te.translator.TranslateFunc = func(ctx context.Context, texts []string, lang string) ([]string, error) {
		return nil, errors.New("quota exceeded")
	}

	alice := te.user("Alice", "en")
	bob := te.user("Bob", "fr")
	room := te.oneToOne(t, alice, bob)
	_, err := te.Ledger.ToggleTranslation(ctx, room.ID, bob, true)
	require.NoError(t, err)

	res, err := te.Dispatcher.SendMessage(ctx, room.ID, alice, "hello")
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	require.Equal(t, types.FanoutStepTranslation, res.Failures[0].Step)

	events := published[types.MessageEvent](t, te.broadcaster, chat.UserMessagesTopic(bob))
	require.Len(t, events, 1)
	require.Nil(t, events[0].TranslatedContent)
	require.Equal(t, "hello", events[0].Message.Content)
}

func TestDispatcher_SendMessage_errors(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	stranger := te.user("Mallory", "")
	room := te.oneToOne(t, alice, bob)

	_, err := te.Dispatcher.SendMessage(ctx, id.Generate(), alice, "hi")
	require.ErrorIs(t, err, types.ErrRoomNotFound)

	_, err = te.Dispatcher.SendMessage(ctx, room.ID, stranger, "hi")
	require.ErrorIs(t, err, types.ErrParticipantNotFound)
	require.ErrorIs(t, err, errs.NotFound)

	group := te.group(t, alice, bob)
	_, err = te.Registry.Leave(ctx, group.ID, bob)
	require.NoError(t, err)

	_, err = te.Dispatcher.SendMessage(ctx, group.ID, bob, "let me back in")
	require.ErrorIs(t, err, types.ErrParticipantLeft)
	require.Empty(t, te.notifier.NotifyCalls())
}

func TestDispatcher_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.oneToOne(t, alice, bob)

	first := te.send(t, room.ID, alice, "one")
	second := te.send(t, room.ID, alice, "two")

	p, err := te.Dispatcher.MarkAsRead(ctx, room.ID, bob, second.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, *p.LastReadMessageID)

	statuses := published[types.ReadStatusEvent](t, te.broadcaster, chat.ReadStatusTopic(room.ID))
	require.Equal(t, []types.ReadStatusEvent{{RoomID: room.ID, UserID: bob, LastReadMessageID: second.ID}}, statuses)

	summaries := published[types.RoomSummary](t, te.broadcaster, chat.UserRoomsTopic(bob))
	require.Equal(t, 0, summaries[len(summaries)-1].UnreadCount)

	pubs := len(te.broadcaster.PubCalls())

	// Moving backwards keeps the marker where it was and stays quiet.
	p, err = te.Dispatcher.MarkAsRead(ctx, room.ID, bob, first.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, *p.LastReadMessageID)
	require.Len(t, te.broadcaster.PubCalls(), pubs)

	t.Run("message outside the room", func(t *testing.T) {
		other := te.oneToOne(t, alice, te.user("Carol", ""))
		elsewhere := te.send(t, other.ID, alice, "elsewhere")

		_, err := te.Dispatcher.MarkAsRead(ctx, room.ID, bob, elsewhere.ID)
		require.ErrorIs(t, err, types.ErrMessageNotFound)

		// An id that was never stored, even one from the future, cannot pin the marker.
		_, err = te.Dispatcher.MarkAsRead(ctx, room.ID, bob, id.Generate())
		require.ErrorIs(t, err, types.ErrMessageNotFound)

		require.Equal(t, second.ID, *te.participant(t, room.ID, bob).LastReadMessageID)
	})

	_, err = te.Dispatcher.MarkAsRead(ctx, id.Generate(), bob, second.ID)
	require.ErrorIs(t, err, types.ErrRoomNotFound)
}

func TestDispatcher_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.oneToOne(t, alice, bob)

	keep := te.send(t, room.ID, alice, "keep")
	drop := te.send(t, room.ID, alice, "drop")

	_, err := te.Dispatcher.DeleteMessage(ctx, drop.ID, bob)
	require.ErrorIs(t, err, types.ErrNotMessageSender)
	require.ErrorIs(t, err, errs.PermissionDenied)

	deleted, err := te.Dispatcher.DeleteMessage(ctx, drop.ID, alice)
	require.NoError(t, err)
	require.Equal(t, drop.ID, deleted.ID)

	events := published[types.RoomEvent](t, te.broadcaster, chat.RoomTopic(room.ID))
	require.Equal(t, []types.RoomEvent{{Type: types.RoomEventDelete, RoomID: room.ID, MessageID: drop.ID}}, events)

	msgs, err := te.Messages.Page(ctx, room.ID, bob, nil)
	require.NoError(t, err)
	require.Equal(t, []string{keep.ID}, messageIDs(msgs))

	_, err = te.Dispatcher.DeleteMessage(ctx, drop.ID, alice)
	require.ErrorIs(t, err, types.ErrMessageNotFound)
}

func TestDispatcher_Typing(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.group(t, alice, bob)

	require.NoError(t, te.Dispatcher.Typing(ctx, room.ID, bob, true))

	events := published[types.RoomEvent](t, te.broadcaster, chat.RoomTopic(room.ID))
	require.Equal(t, []types.RoomEvent{{Type: types.RoomEventTyping, RoomID: room.ID, UserID: bob, Typing: true}}, events)

	_, err := te.Registry.Leave(ctx, room.ID, bob)
	require.NoError(t, err)
	require.ErrorIs(t, te.Dispatcher.Typing(ctx, room.ID, bob, true), types.ErrParticipantLeft)
}
