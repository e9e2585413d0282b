package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/stretchr/testify/require"
)

func TestMessageLog_Page(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.oneToOne(t, alice, bob)

	var sent []string
	for i := range 25 {
		sent = append(sent, te.send(t, room.ID, alice, fmt.Sprintf("message %d", i)).ID)
	}

	page, err := te.Messages.Page(ctx, room.ID, bob, nil)
	require.NoError(t, err)
	require.Len(t, page, 20)
	require.Equal(t, sent[24], page[0].ID)
	require.Equal(t, sent[5], page[19].ID)
	require.Equal(t, "Alice", page[0].Sender.Name)

	rest, err := te.Messages.Page(ctx, room.ID, bob, new(page[19].ID))
	require.NoError(t, err)
	require.Equal(t, []string{sent[4], sent[3], sent[2], sent[1], sent[0]}, messageIDs(rest))

	first, err := te.Messages.FirstPage(ctx, room.ID, bob)
	require.NoError(t, err)
	require.Len(t, first, 25)
}

func TestMessageLog_leftVisibility(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	carol := te.user("Carol", "")
	room := te.group(t, alice, bob, carol)

	te.send(t, room.ID, alice, "before")
	left, err := te.Registry.Leave(ctx, room.ID, bob)
	require.NoError(t, err)
	after := te.send(t, room.ID, alice, "after")

	page, err := te.Messages.Page(ctx, room.ID, bob, nil)
	require.NoError(t, err)
	require.Equal(t, []string{after.ID}, messageIDs(page))
	for _, m := range page {
		require.True(t, m.SentAt.After(*left.Participant.LastLeftAt))
	}

	_, err = te.Messages.FirstPage(ctx, room.ID, bob)
	require.ErrorIs(t, err, types.ErrParticipantLeft)

	found, err := te.Messages.Search(ctx, room.ID, bob, "e")
	require.NoError(t, err)
	require.Equal(t, []string{after.ID}, messageIDs(found))
}

func TestMessageLog_oneToOneRejoin(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.oneToOne(t, alice, bob)

	before := te.send(t, room.ID, alice, "before you left")

	_, err := te.Registry.Leave(ctx, room.ID, bob)
	require.NoError(t, err)

	page, err := te.Messages.Page(ctx, room.ID, bob, nil)
	require.NoError(t, err)
	require.Empty(t, page)

	first := te.send(t, room.ID, alice, "are you there?")
	second := te.send(t, room.ID, alice, "hello?")

	p := te.participant(t, room.ID, bob)
	require.True(t, p.Active())
	require.Nil(t, p.LastLeftAt)

	// Coming back clears the leave window, so the earlier history is visible again.
	page, err = te.Messages.Page(ctx, room.ID, bob, nil)
	require.NoError(t, err)
	require.Equal(t, []string{second.ID, first.ID, before.ID}, messageIDs(page))

	found, err := te.Messages.Search(ctx, room.ID, bob, "before")
	require.NoError(t, err)
	require.Equal(t, []string{before.ID}, messageIDs(found))

	// The leaver writing back brings both sides in.
	_, err = te.Registry.Leave(ctx, room.ID, alice)
	require.NoError(t, err)
	te.send(t, room.ID, bob, "back")
	require.True(t, te.participant(t, room.ID, alice).Active())
}

func TestMessageLog_Search(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	te.translator.TranslateFunc = func(ctx context.Context, texts []string, lang string) ([]string, error) {
		dict := map[string]string{"bonjour": "hello", "chat": "cat"}
		out := make([]string, len(texts))
		for i, text := range texts {
			out[i] = dict[text]
		}
		return out, nil
	}

	alice := te.user("Alice", "fr")
	bob := te.user("Bob", "en")
	room := te.oneToOne(t, alice, bob)

	greeting := te.send(t, room.ID, alice, "bonjour")
	te.send(t, room.ID, alice, "chat")

	found, err := te.Messages.Search(ctx, room.ID, bob, "BONJOUR")
	require.NoError(t, err)
	require.Equal(t, []string{greeting.ID}, messageIDs(found))
	require.Nil(t, found[0].TranslatedContent)

	_, err = te.Ledger.ToggleTranslation(ctx, room.ID, bob, true)
	require.NoError(t, err)

	found, err = te.Messages.Search(ctx, room.ID, bob, "hello")
	require.NoError(t, err)
	require.Equal(t, []string{greeting.ID}, messageIDs(found))
	require.Equal(t, "hello", *found[0].TranslatedContent)

	found, err = te.Messages.Search(ctx, room.ID, bob, "bonjour")
	require.NoError(t, err)
	require.Empty(t, found)

	t.Run("translator down falls back to the original", func(t *testing.T) {
		te.translator.TranslateFunc = func(ctx context.Context, texts []string, lang string) ([]string, error) {
			return nil, fmt.Errorf("unavailable")
		}

		found, err := te.Messages.Search(ctx, room.ID, bob, "bonjour")
		require.NoError(t, err)
		require.Equal(t, []string{greeting.ID}, messageIDs(found))
		require.Nil(t, found[0].TranslatedContent)
	})
}

func TestMessageLog_viewerErrors(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.oneToOne(t, alice, bob)

	_, err := te.Messages.Page(ctx, room.ID, te.user("Mallory", ""), nil)
	require.ErrorIs(t, err, types.ErrParticipantNotFound)

	_, err = te.Messages.Search(ctx, "cv37img5tppgl5c1fhr0", alice, "x")
	require.ErrorIs(t, err, types.ErrRoomNotFound)
}
