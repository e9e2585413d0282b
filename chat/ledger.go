package chat

import (
	"context"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// Ledger owns participant state transitions.
// Every mutation locks the participant record for the length of its
// transaction so a rejoin and a read marker update cannot overwrite
// each other.
type Ledger struct {
	tx           Transactor
	participants ParticipantStore
	now          func() time.Time
}

func (l *Ledger) Participant(ctx context.Context, roomID, userID string) (types.Participant, error) {
	return l.participants.Participant(ctx, roomID, userID)
}

// Join creates a fresh active participant.
func (l *Ledger) Join(ctx context.Context, roomID, userID string) (types.Participant, error) {
	p := types.NewParticipant(roomID, userID, l.now())
	if err := l.participants.CreateParticipant(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

func (l *Ledger) Rejoin(ctx context.Context, roomID, userID string) (types.Participant, bool, error) {
	return l.mutate(ctx, roomID, userID, func(p *types.Participant, now time.Time) bool {
		return p.Rejoin(now)
	})
}

// Leave is a no-op for a participant that already left.
func (l *Ledger) Leave(ctx context.Context, roomID, userID string) (types.Participant, bool, error) {
	return l.mutate(ctx, roomID, userID, func(p *types.Participant, now time.Time) bool {
		return p.Leave(now)
	})
}

func (l *Ledger) ToggleTranslation(ctx context.Context, roomID, userID string, enabled bool) (types.Participant, error) {
	p, _, err := l.mutate(ctx, roomID, userID, func(p *types.Participant, now time.Time) bool {
		return p.SetTranslation(enabled, now)
	})
	return p, err
}

// UpdateLastRead moves the read marker forward.
// A message id that is not after the current marker is ignored
// and reported as not updated.
func (l *Ledger) UpdateLastRead(ctx context.Context, roomID, userID, messageID string) (types.Participant, bool, error) {
	return l.mutate(ctx, roomID, userID, func(p *types.Participant, now time.Time) bool {
		return p.AdvanceLastRead(messageID, now)
	})
}

func (l *Ledger) mutate(ctx context.Context, roomID, userID string, fn func(p *types.Participant, now time.Time) bool) (types.Participant, bool, error) {
	var (
		out     types.Participant
		changed bool
	)
	err := l.tx.RunTx(ctx, func(ctx context.Context) error {
		p, err := l.participants.LockParticipant(ctx, roomID, userID)
		if err != nil {
			return err
		}

		changed = fn(&p, l.now())
		out = p
		if !changed {
			return nil
		}

		return l.participants.UpdateParticipant(ctx, p)
	})
	return out, changed, err
}
