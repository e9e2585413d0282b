package chat

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SWYP-foreigner/Kori-chatting/metrics"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const notifyConcurrency = 8

// Dispatcher turns sends, reads and deletes into events for every active
// participant of the room. Once a message is stored, nothing that happens
// here can undo it: failures are collected in the returned result.
type Dispatcher struct {
	tx           Transactor
	rooms        RoomStore
	participants ParticipantStore
	log          *MessageLog
	ledger       *Ledger
	unread       *Accountant
	summaries    *Summaries
	collab       collaborators
	broadcaster  Broadcaster
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func (d *Dispatcher) SendMessage(ctx context.Context, roomID, senderID, content string) (types.SendResult, error) {
	var (
		out  types.SendResult
		room types.Room
	)
	err := d.tx.RunTx(ctx, func(ctx context.Context) error {
		var err error
		room, out.Message, err = d.log.Append(ctx, roomID, senderID, content)
		if err != nil {
			return err
		}

		_, _, err = d.ledger.UpdateLastRead(ctx, roomID, senderID, out.Message.ID)
		return err
	})
	if err != nil {
		return out, err
	}

	d.metrics.MessageSent()

	participants, err := d.participants.Participants(ctx, roomID)
	if err != nil {
		d.fail(&out, "", types.FanoutStepDelivery, fmt.Errorf("list participants: %w", err))
		return out, nil
	}

	recipients := participants.Active()

	profiles, err := d.collab.profiles(ctx, recipients.UserIDs())
	if err != nil {
		d.fail(&out, "", types.FanoutStepProfiles, err)
	}

	var images map[string]string
	if room.IsGroup() {
		images, err = d.collab.imageURLs(ctx, []string{room.ID})
		if err != nil {
			d.fail(&out, "", types.FanoutStepImages, err)
		}
	}

	translations := d.translate(ctx, &out, recipients, profiles)
	sender := types.ProfileOf(profiles, senderID)

	for _, r := range recipients {
		ev := types.MessageEvent{
			Message: out.Message,
			Sender:  sender,
		}
		if lang := translationTarget(r, profiles); lang != "" {
			ev.TranslatedContent = translations[lang]
		}

		if err := d.publish(UserMessagesTopic(r.UserID), ev); err != nil {
			d.fail(&out, r.UserID, types.FanoutStepDelivery, err)
		}
	}

	d.notify(ctx, &out, recipients, sender)

	for _, r := range recipients {
		summary, err := d.summaries.Build(ctx, room, r, participants, profiles, images)
		if err != nil {
			d.fail(&out, r.UserID, types.FanoutStepSummary, err)
			continue
		}

		if err := d.publish(UserRoomsTopic(r.UserID), summary); err != nil {
			d.fail(&out, r.UserID, types.FanoutStepSummary, err)
		}
	}

	return out, nil
}

// translate calls the translator once per distinct target language among
// the recipients that want translations. A failed language maps to nil.
func (d *Dispatcher) translate(ctx context.Context, out *types.SendResult, recipients types.Participants, profiles map[string]types.Profile) map[string]*string {
	langs := lo.Uniq(lo.FilterMap(recipients, func(p types.Participant, _ int) (string, bool) {
		lang := translationTarget(p, profiles)
		return lang, lang != ""
	}))

	translations := make(map[string]*string, len(langs))
	if len(langs) == 0 {
		return translations
	}

	var mu sync.Mutex
	g := errgroup.Group{}
	for _, lang := range langs {
		g.Go(func() error {
			translated, err := d.collab.translate(ctx, []string{out.Message.Content}, lang)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				d.fail(out, "", types.FanoutStepTranslation, fmt.Errorf("%s: %w", lang, err))
				translations[lang] = nil
				return nil
			}

			translations[lang] = &translated[0]
			return nil
		})
	}
	_ = g.Wait()

	return translations
}

func (d *Dispatcher) notify(ctx context.Context, out *types.SendResult, recipients types.Participants, sender types.Profile) {
	var mu sync.Mutex
	g := errgroup.Group{}
	g.SetLimit(notifyConcurrency)
	for _, r := range recipients {
		if r.UserID == out.Message.SenderID {
			continue
		}

		g.Go(func() error {
			err := d.collab.notify(ctx, types.Notification{
				UserID:      r.UserID,
				Title:       "New message from " + sender.Name,
				Body:        out.Message.Content,
				ReferenceID: out.Message.RoomID,
				Type:        types.NotificationTypeChat,
			})
			if err != nil {
				mu.Lock()
				d.fail(out, r.UserID, types.FanoutStepNotification, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

// MarkAsRead advances the read marker to a message of the room, tells the
// room and refreshes the caller's own room list entry.
// A marker that does not move publishes nothing.
func (d *Dispatcher) MarkAsRead(ctx context.Context, roomID, userID, messageID string) (types.Participant, error) {
	if _, err := d.rooms.Room(ctx, roomID); err != nil {
		return types.Participant{}, err
	}

	if _, err := d.log.InRoom(ctx, roomID, messageID); err != nil {
		return types.Participant{}, err
	}

	p, changed, err := d.ledger.UpdateLastRead(ctx, roomID, userID, messageID)
	if err != nil {
		return p, err
	}

	if changed {
		d.afterRead(ctx, p)
	}
	return p, nil
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, roomID, userID string) (types.Participant, error) {
	p, changed, err := d.unread.MarkAllRead(ctx, roomID, userID)
	if err != nil {
		return p, err
	}

	if changed {
		d.afterRead(ctx, p)
	}
	return p, nil
}

func (d *Dispatcher) afterRead(ctx context.Context, p types.Participant) {
	if p.LastReadMessageID != nil {
		err := d.publish(ReadStatusTopic(p.RoomID), types.ReadStatusEvent{
			RoomID:            p.RoomID,
			UserID:            p.UserID,
			LastReadMessageID: *p.LastReadMessageID,
		})
		if err != nil {
			d.logger.Error("publish read status", "room_id", p.RoomID, "user_id", p.UserID, "error", err)
		}
	}

	d.PublishSummary(ctx, p.RoomID, p.UserID)
}

// PublishSummary pushes a fresh room list entry to the user.
func (d *Dispatcher) PublishSummary(ctx context.Context, roomID, userID string) {
	summary, err := d.summaries.One(ctx, roomID, userID)
	if err != nil {
		d.logger.Error("build room summary", "room_id", roomID, "user_id", userID, "error", err)
		return
	}

	if err := d.publish(UserRoomsTopic(userID), summary); err != nil {
		d.logger.Error("publish room summary", "room_id", roomID, "user_id", userID, "error", err)
	}
}

// DeleteMessage removes a message sent by the requester and tells the room.
func (d *Dispatcher) DeleteMessage(ctx context.Context, messageID, requesterID string) (types.Message, error) {
	msg, err := d.log.Delete(ctx, messageID, requesterID)
	if err != nil {
		return msg, err
	}

	err = d.publish(RoomTopic(msg.RoomID), types.RoomEvent{
		Type:      types.RoomEventDelete,
		RoomID:    msg.RoomID,
		MessageID: msg.ID,
	})
	if err != nil {
		d.logger.Error("publish message deletion", "room_id", msg.RoomID, "message_id", msg.ID, "error", err)
	}

	return msg, nil
}

// Typing tells the room an active participant started or stopped typing.
func (d *Dispatcher) Typing(ctx context.Context, roomID, userID string, typing bool) error {
	p, err := d.participants.Participant(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if !p.Active() {
		return types.ErrParticipantLeft
	}

	return d.publish(RoomTopic(roomID), types.RoomEvent{
		Type:   types.RoomEventTyping,
		RoomID: roomID,
		UserID: userID,
		Typing: typing,
	})
}

func (d *Dispatcher) publish(topic string, v any) error {
	if d.broadcaster == nil {
		return nil
	}

	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(v); err != nil {
		return fmt.Errorf("gob encode %T: %w", v, err)
	}

	if err := d.broadcaster.Pub(topic, b.Bytes()); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

func (d *Dispatcher) fail(out *types.SendResult, userID string, step types.FanoutStep, err error) {
	d.metrics.FanoutFailed(string(step))
	out.Fail(userID, step, err)
}
