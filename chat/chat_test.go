package chat_test

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"testing"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/badger"
	"github.com/SWYP-foreigner/Kori-chatting/chat"
	"github.com/SWYP-foreigner/Kori-chatting/id"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/stretchr/testify/require"
)

// clock hands out strictly increasing times, starting in the past.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEngine struct {
	*chat.Engine
	store       *badger.Badger
	profiles    map[string]types.Profile
	users       *UserDirectoryMock
	images      *ImageDirectoryMock
	translator  *TranslatorMock
	notifier    *NotifierMock
	broadcaster *BroadcasterMock
}

type option func(cfg *chat.Config)

func newTestEngine(t *testing.T, opts ...option) *testEngine {
	t.Helper()

	db, err := badger.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	te := &testEngine{
		store:    badger.New(db),
		profiles: map[string]types.Profile{},
	}
	te.users = &UserDirectoryMock{
		UsersFunc: func(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
			out := map[string]types.Profile{}
			for _, userID := range userIDs {
				if p, ok := te.profiles[userID]; ok {
					out[userID] = p
				}
			}
			return out, nil
		},
	}
	te.images = &ImageDirectoryMock{
		ImagesFunc: func(ctx context.Context, entityIDs []string) (map[string]string, error) {
			return map[string]string{}, nil
		},
	}
	te.translator = &TranslatorMock{
		TranslateFunc: func(ctx context.Context, texts []string, lang string) ([]string, error) {
			out := make([]string, len(texts))
			for i, text := range texts {
				out[i] = "[" + lang + "] " + text
			}
			return out, nil
		},
	}
	te.notifier = &NotifierMock{
		NotifyFunc: func(ctx context.Context, n types.Notification) error {
			return nil
		},
	}
	te.broadcaster = &BroadcasterMock{
		PubFunc: func(topic string, data []byte) error {
			return nil
		},
	}

	cfg := chat.Config{
		Tx:                  te.store,
		Rooms:               te.store,
		Participants:        te.store,
		Messages:            te.store,
		Users:               te.users,
		Images:              te.images,
		Translator:          te.translator,
		Notifier:            te.notifier,
		Broadcaster:         te.broadcaster,
		CollaboratorTimeout: time.Second,
		Now:                 newClock().Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	te.Engine = chat.New(cfg)
	return te
}

// user registers a profile with the directory and returns its id.
func (te *testEngine) user(name, lang string) string {
	userID := id.Generate()
	te.profiles[userID] = types.Profile{ID: userID, Name: name, Language: lang}
	return userID
}

func (te *testEngine) oneToOne(t *testing.T, a, b string) types.Room {
	t.Helper()
	room, err := te.Registry.CreateOneToOne(context.Background(), a, b)
	require.NoError(t, err)
	return room
}

func (te *testEngine) group(t *testing.T, ownerID string, members ...string) types.Room {
	t.Helper()
	ctx := context.Background()
	room, err := te.Registry.CreateGroup(ctx, ownerID, "group "+ownerID, "")
	require.NoError(t, err)
	for _, userID := range members {
		_, err := te.Registry.JoinGroup(ctx, room.ID, userID)
		require.NoError(t, err)
	}
	return room
}

func (te *testEngine) send(t *testing.T, roomID, senderID, content string) types.Message {
	t.Helper()
	res, err := te.Dispatcher.SendMessage(context.Background(), roomID, senderID, content)
	require.NoError(t, err)
	return res.Message
}

func (te *testEngine) participant(t *testing.T, roomID, userID string) types.Participant {
	t.Helper()
	p, err := te.Ledger.Participant(context.Background(), roomID, userID)
	require.NoError(t, err)
	return p
}

// published decodes every payload published on topic, in order.
func published[T any](t *testing.T, b *BroadcasterMock, topic string) []T {
	t.Helper()
	var out []T
	for _, call := range b.PubCalls() {
		if call.Topic != topic {
			continue
		}
		var v T
		require.NoError(t, gob.NewDecoder(bytes.NewReader(call.Data)).Decode(&v))
		out = append(out, v)
	}
	return out
}

func messageIDs(views []types.MessageView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
