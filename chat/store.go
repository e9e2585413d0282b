package chat

import (
	"context"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/cursor"
	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// Transactor runs fn inside a transaction carried by ctx.
// Store calls made with that ctx join the transaction,
// and nested calls reuse it.
type Transactor interface {
	RunTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type RoomStore interface {
	CreateRoom(ctx context.Context, room types.Room) error
	Room(ctx context.Context, roomID string) (types.Room, error)
	// LockRoom reads the room and holds it for writing until the
	// surrounding transaction ends.
	LockRoom(ctx context.Context, roomID string) (types.Room, error)
	UpdateGroup(ctx context.Context, roomID string, group types.Group) error
	// DeleteRoom removes the room with all its participants and messages.
	DeleteRoom(ctx context.Context, roomID string) error
	// OneToOneRooms returns the non-group rooms whose participants are
	// exactly the two given users, oldest first.
	OneToOneRooms(ctx context.Context, userA, userB string) ([]types.Room, error)
	// UserRooms returns the rooms where the user is an active participant.
	UserRooms(ctx context.Context, userID string) ([]types.Room, error)
	SearchGroups(ctx context.Context, keyword string, limit int) ([]types.GroupListing, error)
	// LatestGroups returns groups newest first, after the cursor if any.
	LatestGroups(ctx context.Context, after *cursor.Cursor[time.Time], limit int) ([]types.GroupListing, error)
	// PopularGroups returns groups by active member count.
	PopularGroups(ctx context.Context, limit int) ([]types.GroupListing, error)
}

type ParticipantStore interface {
	CreateParticipant(ctx context.Context, p types.Participant) error
	Participant(ctx context.Context, roomID, userID string) (types.Participant, error)
	// LockParticipant reads the participant and holds it for writing until
	// the surrounding transaction ends.
	LockParticipant(ctx context.Context, roomID, userID string) (types.Participant, error)
	// Participants returns every participant of the room, any status,
	// ordered by join time.
	Participants(ctx context.Context, roomID string) (types.Participants, error)
	UpdateParticipant(ctx context.Context, p types.Participant) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m types.Message) error
	Message(ctx context.Context, messageID string) (types.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error
	// Messages returns the messages matching q newest first.
	Messages(ctx context.Context, q types.MessageQuery) ([]types.Message, error)
	// LatestMessage fails with types.ErrMessageNotFound on an empty room.
	LatestMessage(ctx context.Context, roomID string) (types.Message, error)
	// CountMessages counts the messages after the given id (all when nil)
	// that were not sent by excludeSenderID.
	CountMessages(ctx context.Context, roomID string, afterID *string, excludeSenderID string) (int, error)
}

// Store is implemented by every storage backend.
type Store interface {
	Transactor
	RoomStore
	ParticipantStore
	MessageStore
}
