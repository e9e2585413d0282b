package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/id"
	"github.com/SWYP-foreigner/Kori-chatting/metrics"
	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// Registry creates, finds and retires rooms.
type Registry struct {
	tx           Transactor
	rooms        RoomStore
	participants ParticipantStore
	ledger       *Ledger
	collab       collaborators
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// LeaveResult tells what else happened to the room when a user left it.
type LeaveResult struct {
	Participant types.Participant
	// Left is false when the participant had already left.
	Left        bool
	RoomDeleted bool
	NewOwnerID  *string
}

func (r *Registry) Room(ctx context.Context, roomID string) (types.Room, error) {
	return r.rooms.Room(ctx, roomID)
}

// CreateOneToOne returns the existing one-to-one room between the two users,
// bringing the caller back if they had left, or creates it.
// Two callers racing may both create a room; later lookups settle on the
// oldest one.
func (r *Registry) CreateOneToOne(ctx context.Context, callerID, otherUserID string) (types.Room, error) {
	if callerID == otherUserID {
		return types.Room{}, types.ErrSelfRoom
	}

	var out types.Room
	err := r.tx.RunTx(ctx, func(ctx context.Context) error {
		existing, err := r.rooms.OneToOneRooms(ctx, callerID, otherUserID)
		if err != nil {
			return err
		}

		if len(existing) > 1 {
			r.logger.Warn("duplicate one-to-one rooms",
				"user_a", callerID,
				"user_b", otherUserID,
				"count", len(existing),
				"using", existing[0].ID,
			)
		}

		if len(existing) != 0 {
			out = existing[0]
			_, _, err := r.ledger.Rejoin(ctx, out.ID, callerID)
			return err
		}

		now := r.now()
		out = types.Room{ID: id.Generate(), CreatedAt: now}
		if err := r.rooms.CreateRoom(ctx, out); err != nil {
			return err
		}

		if _, err := r.ledger.Join(ctx, out.ID, callerID); err != nil {
			return err
		}

		_, err = r.ledger.Join(ctx, out.ID, otherUserID)
		return err
	})
	return out, err
}

func (r *Registry) CreateGroup(ctx context.Context, ownerID, name, description string) (types.Room, error) {
	out := types.Room{
		ID: id.Generate(),
		Group: &types.Group{
			Name:        name,
			Description: description,
			OwnerID:     ownerID,
		},
		CreatedAt: r.now(),
	}

	err := r.tx.RunTx(ctx, func(ctx context.Context) error {
		if err := r.rooms.CreateRoom(ctx, out); err != nil {
			return err
		}

		_, err := r.ledger.Join(ctx, out.ID, ownerID)
		return err
	})
	return out, err
}

// Leave marks the participant as left. A leaving group owner hands the
// group to the earliest joined active member, and the last active member
// leaving deletes the room with its messages.
func (r *Registry) Leave(ctx context.Context, roomID, userID string) (LeaveResult, error) {
	var out LeaveResult
	err := r.tx.RunTx(ctx, func(ctx context.Context) error {
		out = LeaveResult{}

		room, err := r.rooms.LockRoom(ctx, roomID)
		if err != nil {
			return err
		}

		p, left, err := r.ledger.Leave(ctx, roomID, userID)
		if err != nil {
			return err
		}

		out.Participant = p
		out.Left = left
		if !left {
			return nil
		}

		participants, err := r.participants.Participants(ctx, roomID)
		if err != nil {
			return err
		}

		active := withoutUser(participants.Active(), userID)

		if len(active) == 0 {
			if err := r.rooms.DeleteRoom(ctx, roomID); err != nil {
				return err
			}

			out.RoomDeleted = true
			return nil
		}

		group, ok := room.AsGroup()
		if !ok || group.OwnerID != userID {
			return nil
		}

		group, ok = group.TransferOwnership(active)
		if !ok {
			return nil
		}

		if err := r.rooms.UpdateGroup(ctx, roomID, group); err != nil {
			return err
		}

		out.NewOwnerID = &group.OwnerID
		return nil
	})
	if err != nil {
		return out, err
	}

	if out.RoomDeleted {
		r.metrics.RoomDeleted()
		r.logger.Info("room deleted after last participant left", "room_id", roomID)
	}

	return out, nil
}

// JoinGroup adds the user to a group, or brings them back if they had left.
func (r *Registry) JoinGroup(ctx context.Context, roomID, userID string) (types.Participant, error) {
	var out types.Participant
	err := r.tx.RunTx(ctx, func(ctx context.Context) error {
		room, err := r.rooms.LockRoom(ctx, roomID)
		if err != nil {
			return err
		}

		if !room.IsGroup() {
			return types.ErrRoomNotGroup
		}

		p, err := r.participants.LockParticipant(ctx, roomID, userID)
		if errors.Is(err, types.ErrParticipantNotFound) {
			out, err = r.ledger.Join(ctx, roomID, userID)
			return err
		}

		if err != nil {
			return err
		}

		if p.Active() {
			return types.ErrAlreadyParticipant
		}

		out, _, err = r.ledger.Rejoin(ctx, roomID, userID)
		return err
	})
	return out, err
}

// Participants lists the members of a room the caller belongs to.
func (r *Registry) Participants(ctx context.Context, roomID, callerID string) (types.Room, types.Participants, error) {
	room, err := r.rooms.Room(ctx, roomID)
	if err != nil {
		return room, nil, err
	}

	participants, err := r.participants.Participants(ctx, roomID)
	if err != nil {
		return room, nil, err
	}

	if _, ok := participants.Find(callerID); !ok {
		return room, nil, types.ErrParticipantNotFound
	}

	return room, participants, nil
}

// RoomParticipants lists the active members of a room the caller belongs
// to, with their profiles.
func (r *Registry) RoomParticipants(ctx context.Context, roomID, callerID string) ([]types.RoomParticipant, error) {
	room, participants, err := r.Participants(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}

	active := participants.Active()
	profiles, err := r.collab.profiles(ctx, active.UserIDs())
	if err != nil {
		r.logger.Warn("resolve participant profiles", "room_id", roomID, "error", err)
	}

	var ownerID string
	if group, ok := room.AsGroup(); ok {
		ownerID = group.OwnerID
	}

	out := make([]types.RoomParticipant, 0, len(active))
	for _, p := range active {
		out = append(out, types.RoomParticipant{
			Profile:  types.ProfileOf(profiles, p.UserID),
			Status:   p.Status,
			JoinedAt: p.JoinedAt,
			IsOwner:  p.UserID == ownerID,
		})
	}
	return out, nil
}

func withoutUser(pp types.Participants, userID string) types.Participants {
	out := make(types.Participants, 0, len(pp))
	for _, p := range pp {
		if p.UserID != userID {
			out = append(out, p)
		}
	}
	return out
}

// RequireOwner returns the group when the user owns it.
func (r *Registry) RequireOwner(ctx context.Context, roomID, userID string) (types.Group, error) {
	room, err := r.rooms.Room(ctx, roomID)
	if err != nil {
		return types.Group{}, err
	}

	group, ok := room.AsGroup()
	if !ok {
		return group, types.ErrRoomNotGroup
	}

	if group.OwnerID != userID {
		return group, types.ErrNotRoomOwner
	}

	return group, nil
}
