package types

import (
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/validator"
)

type RoomKind string

const (
	RoomKindOneToOne RoomKind = "one_to_one"
	RoomKindGroup    RoomKind = "group"
)

// Room is either a one-to-one conversation or a group.
// Group is nil for one-to-one rooms.
type Room struct {
	ID        string    `json:"id"`
	Group     *Group    `json:"group,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Group struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerID"`
}

func (r Room) Kind() RoomKind {
	if r.Group != nil {
		return RoomKindGroup
	}
	return RoomKindOneToOne
}

func (r Room) IsGroup() bool {
	return r.Group != nil
}

func (r Room) AsGroup() (Group, bool) {
	if r.Group == nil {
		return Group{}, false
	}
	return *r.Group, true
}

// TransferOwnership hands the group to the earliest joined active
// participant other than the current owner. It reports false when nobody
// is left to take it.
func (g Group) TransferOwnership(participants []Participant) (Group, bool) {
	var successor *Participant
	for i, p := range participants {
		if !p.Active() || p.UserID == g.OwnerID {
			continue
		}
		if successor == nil || p.JoinedAt.Before(successor.JoinedAt) {
			successor = &participants[i]
		}
	}
	if successor == nil {
		return g, false
	}

	g.OwnerID = successor.UserID
	return g, true
}

type CreateOneToOneRoom struct {
	OtherUserID string `json:"otherUserID" validate:"required,max=64"`
}

func (in CreateOneToOneRoom) Validate() error {
	return validator.Struct(in)
}

type CreateGroupRoom struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (in CreateGroupRoom) Validate() error {
	return validator.Struct(in)
}

type RetrieveRoom struct {
	RoomID string `validate:"required,xid"`
}

func (in RetrieveRoom) Validate() error {
	return validator.Struct(in)
}

type ToggleTranslation struct {
	RoomID  string `validate:"required,xid"`
	Enabled bool   `json:"enabled"`
}

func (in ToggleTranslation) Validate() error {
	return validator.Struct(in)
}

type Typing struct {
	RoomID string `validate:"required,xid"`
	Typing bool   `json:"typing"`
}

func (in Typing) Validate() error {
	return validator.Struct(in)
}

type RoomParticipant struct {
	Profile
	Status   ParticipantStatus `json:"status"`
	JoinedAt time.Time         `json:"joinedAt"`
	IsOwner  bool              `json:"isOwner"`
}

type GroupDetails struct {
	Room
	ImageURL          *string   `json:"imageURL"`
	Owner             Profile   `json:"owner"`
	Members           []Profile `json:"members"`
	ActiveMemberCount int       `json:"activeMemberCount"`
}

type GroupListing struct {
	Room
	ImageURL          *string `json:"imageURL"`
	ActiveMemberCount int     `json:"activeMemberCount"`
}

type SearchGroups struct {
	Keyword string `validate:"required,max=100"`
}

func (in SearchGroups) Validate() error {
	return validator.Struct(in)
}

type ListLatestGroups struct {
	PageArgs PageArgs
}

func (in ListLatestGroups) Validate() error {
	if in.PageArgs.Last != nil || in.PageArgs.Before != nil {
		return ErrBackwardPagination
	}
	return in.PageArgs.Validate()
}

type ListPopularGroups struct {
	Limit uint `validate:"lte=50"`
}

func (in ListPopularGroups) Validate() error {
	return validator.Struct(in)
}
