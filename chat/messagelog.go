package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/id"
	"github.com/SWYP-foreigner/Kori-chatting/textutil"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/samber/lo"
)

const (
	pageSize      = 20
	firstPageSize = 50
	// searchWindow is how many of the most recent visible messages a search
	// looks at.
	searchWindow = 1000
	// translateChunk caps how many texts go in a single translator call.
	translateChunk = 100
)

// MessageLog is the append-only message history of each room.
type MessageLog struct {
	tx           Transactor
	rooms        RoomStore
	participants ParticipantStore
	messages     MessageStore
	ledger       *Ledger
	collab       collaborators
	logger       *slog.Logger
	now          func() time.Time
}

// Append stores a new message. A sender who left a one-to-one room comes
// back along with the other side; group members must rejoin explicitly.
func (l *MessageLog) Append(ctx context.Context, roomID, senderID, content string) (types.Room, types.Message, error) {
	var (
		room types.Room
		msg  types.Message
	)
	err := l.tx.RunTx(ctx, func(ctx context.Context) error {
		var err error
		room, err = l.rooms.Room(ctx, roomID)
		if err != nil {
			return err
		}

		sender, err := l.participants.LockParticipant(ctx, roomID, senderID)
		if err != nil {
			return err
		}

		if room.IsGroup() && !sender.Active() {
			return types.ErrParticipantLeft
		}

		if !room.IsGroup() {
			if err := l.rejoinAll(ctx, roomID); err != nil {
				return err
			}
		}

		msg = types.Message{
			ID:       id.Generate(),
			RoomID:   roomID,
			SenderID: senderID,
			Content:  content,
			SentAt:   l.now(),
		}
		return l.messages.CreateMessage(ctx, msg)
	})
	return room, msg, err
}

func (l *MessageLog) rejoinAll(ctx context.Context, roomID string) error {
	participants, err := l.participants.Participants(ctx, roomID)
	if err != nil {
		return err
	}

	for _, p := range participants {
		if p.Active() {
			continue
		}

		if _, _, err := l.ledger.Rejoin(ctx, roomID, p.UserID); err != nil {
			return err
		}
	}

	return nil
}

// Page returns up to 20 messages older than the cursor, newest first.
// Someone who left only sees what was sent after they left.
func (l *MessageLog) Page(ctx context.Context, roomID, viewerID string, before *string) ([]types.MessageView, error) {
	viewer, err := l.viewer(ctx, roomID, viewerID)
	if err != nil {
		return nil, err
	}

	msgs, err := l.messages.Messages(ctx, types.MessageQuery{
		RoomID:    roomID,
		Before:    before,
		SentAfter: viewer.VisibleAfter(),
		Limit:     pageSize,
	})
	if err != nil {
		return nil, err
	}

	return l.views(ctx, viewer, msgs), nil
}

// FirstPage returns the 50 most recent messages to an active participant.
func (l *MessageLog) FirstPage(ctx context.Context, roomID, viewerID string) ([]types.MessageView, error) {
	viewer, err := l.viewer(ctx, roomID, viewerID)
	if err != nil {
		return nil, err
	}

	if !viewer.Active() {
		return nil, types.ErrParticipantLeft
	}

	msgs, err := l.messages.Messages(ctx, types.MessageQuery{
		RoomID: roomID,
		Limit:  firstPageSize,
	})
	if err != nil {
		return nil, err
	}

	return l.views(ctx, viewer, msgs), nil
}

// Search matches the keyword case-insensitively within the most recent
// visible messages. With translation on, the viewer's translation is
// matched instead of the original, falling back to the original when the
// translator is unavailable.
func (l *MessageLog) Search(ctx context.Context, roomID, viewerID, keyword string) ([]types.MessageView, error) {
	viewer, err := l.viewer(ctx, roomID, viewerID)
	if err != nil {
		return nil, err
	}

	window, err := l.messages.Messages(ctx, types.MessageQuery{
		RoomID:    roomID,
		SentAfter: viewer.VisibleAfter(),
		Limit:     searchWindow,
	})
	if err != nil {
		return nil, err
	}

	profiles := l.profiles(ctx, viewer, window)
	translations := l.translations(ctx, viewer, profiles, window)

	matches := lo.Filter(window, func(m types.Message, _ int) bool {
		text := m.Content
		if translated, ok := translations[m.Content]; ok {
			text = translated
		}
		return textutil.ContainsFold(text, keyword)
	})

	return l.render(matches, profiles, translations), nil
}

func (l *MessageLog) Delete(ctx context.Context, messageID, requesterID string) (types.Message, error) {
	var out types.Message
	err := l.tx.RunTx(ctx, func(ctx context.Context) error {
		msg, err := l.messages.Message(ctx, messageID)
		if err != nil {
			return err
		}

		if msg.SenderID != requesterID {
			return types.ErrNotMessageSender
		}

		out = msg
		return l.messages.DeleteMessage(ctx, messageID)
	})
	return out, err
}

// InRoom returns a message only if it belongs to the room.
func (l *MessageLog) InRoom(ctx context.Context, roomID, messageID string) (types.Message, error) {
	msg, err := l.messages.Message(ctx, messageID)
	if err != nil {
		return msg, err
	}

	if msg.RoomID != roomID {
		return types.Message{}, types.ErrMessageNotFound
	}

	return msg, nil
}

func (l *MessageLog) Latest(ctx context.Context, roomID string) (types.Message, error) {
	return l.messages.LatestMessage(ctx, roomID)
}

func (l *MessageLog) viewer(ctx context.Context, roomID, userID string) (types.Participant, error) {
	if _, err := l.rooms.Room(ctx, roomID); err != nil {
		return types.Participant{}, err
	}

	return l.participants.Participant(ctx, roomID, userID)
}

func (l *MessageLog) views(ctx context.Context, viewer types.Participant, msgs []types.Message) []types.MessageView {
	profiles := l.profiles(ctx, viewer, msgs)
	translations := l.translations(ctx, viewer, profiles, msgs)
	return l.render(msgs, profiles, translations)
}

func (l *MessageLog) profiles(ctx context.Context, viewer types.Participant, msgs []types.Message) map[string]types.Profile {
	userIDs := lo.Map(msgs, func(m types.Message, _ int) string { return m.SenderID })
	profiles, err := l.collab.profiles(ctx, append(userIDs, viewer.UserID))
	if err != nil {
		l.logger.Warn("resolve message senders", "room_id", viewer.RoomID, "error", err)
	}
	return profiles
}

// translations maps each distinct content to its translation in the
// viewer's language. It is empty when the viewer has translation off or
// the translator failed.
func (l *MessageLog) translations(ctx context.Context, viewer types.Participant, profiles map[string]types.Profile, msgs []types.Message) map[string]string {
	out := map[string]string{}

	lang := translationTarget(viewer, profiles)
	if lang == "" || len(msgs) == 0 {
		return out
	}

	contents := lo.Uniq(lo.Map(msgs, func(m types.Message, _ int) string { return m.Content }))
	for _, chunk := range lo.Chunk(contents, translateChunk) {
		translated, err := l.collab.translate(ctx, chunk, lang)
		if err != nil {
			l.logger.Warn("translate messages", "room_id", viewer.RoomID, "lang", lang, "error", err)
			return map[string]string{}
		}

		for i, content := range chunk {
			out[content] = translated[i]
		}
	}

	return out
}

func (l *MessageLog) render(msgs []types.Message, profiles map[string]types.Profile, translations map[string]string) []types.MessageView {
	out := make([]types.MessageView, len(msgs))
	for i, m := range msgs {
		out[i] = types.MessageView{
			Message: m,
			Sender:  types.ProfileOf(profiles, m.SenderID),
		}
		if translated, ok := translations[m.Content]; ok {
			out[i].TranslatedContent = &translated
		}
	}
	return out
}

func translationTarget(p types.Participant, profiles map[string]types.Profile) string {
	if !p.TranslateEnabled {
		return ""
	}
	return profiles[p.UserID].Language
}
