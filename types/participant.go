package types

import (
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/id"
)

type ParticipantStatus string

const (
	ParticipantStatusActive ParticipantStatus = "active"
	ParticipantStatusLeft   ParticipantStatus = "left"
)

type Participant struct {
	ID                string            `db:"id" json:"id"`
	RoomID            string            `db:"room_id" json:"roomID"`
	UserID            string            `db:"user_id" json:"userID"`
	Status            ParticipantStatus `db:"status" json:"status"`
	JoinedAt          time.Time         `db:"joined_at" json:"joinedAt"`
	LastLeftAt        *time.Time        `db:"last_left_at" json:"lastLeftAt"`
	LastReadMessageID *string           `db:"last_read_message_id" json:"lastReadMessageID"`
	TranslateEnabled  bool              `db:"translate_enabled" json:"translateEnabled"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updatedAt"`
}

func NewParticipant(roomID, userID string, now time.Time) Participant {
	return Participant{
		ID:        id.Generate(),
		RoomID:    roomID,
		UserID:    userID,
		Status:    ParticipantStatusActive,
		JoinedAt:  now,
		UpdatedAt: now,
	}
}

func (p Participant) Active() bool {
	return p.Status == ParticipantStatusActive
}

// Leave moves an active participant to left.
// It reports false and changes nothing if already left.
func (p *Participant) Leave(now time.Time) bool {
	if !p.Active() {
		return false
	}

	p.Status = ParticipantStatusLeft
	p.LastLeftAt = &now
	p.UpdatedAt = now
	return true
}

// Rejoin moves a left participant back to active.
// The last read marker is kept.
func (p *Participant) Rejoin(now time.Time) bool {
	if p.Active() {
		return false
	}

	p.Status = ParticipantStatusActive
	p.LastLeftAt = nil
	p.UpdatedAt = now
	return true
}

// AdvanceLastRead only ever moves the marker forward.
func (p *Participant) AdvanceLastRead(messageID string, now time.Time) bool {
	if p.LastReadMessageID != nil && id.Compare(messageID, *p.LastReadMessageID) <= 0 {
		return false
	}

	p.LastReadMessageID = &messageID
	p.UpdatedAt = now
	return true
}

func (p *Participant) SetTranslation(enabled bool, now time.Time) bool {
	if p.TranslateEnabled == enabled {
		return false
	}

	p.TranslateEnabled = enabled
	p.UpdatedAt = now
	return true
}

// VisibleAfter is the lower sent-at bound of the messages the participant
// can read, if any.
func (p Participant) VisibleAfter() *time.Time {
	if p.Status == ParticipantStatusLeft {
		return p.LastLeftAt
	}
	return nil
}

type Participants []Participant

func (pp Participants) Active() Participants {
	var out Participants
	for _, p := range pp {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

func (pp Participants) UserIDs() []string {
	out := make([]string, len(pp))
	for i, p := range pp {
		out[i] = p.UserID
	}
	return out
}

func (pp Participants) Find(userID string) (Participant, bool) {
	for _, p := range pp {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}
