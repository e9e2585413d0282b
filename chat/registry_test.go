package chat_test

import (
	"context"
	"testing"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/nicolasparada/go-errs"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateOneToOne(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")

	room := te.oneToOne(t, alice, bob)
	require.False(t, room.IsGroup())
	require.Equal(t, types.RoomKindOneToOne, room.Kind())

	again := te.oneToOne(t, bob, alice)
	require.Equal(t, room.ID, again.ID)

	_, err := te.Registry.Leave(ctx, room.ID, alice)
	require.NoError(t, err)
	require.False(t, te.participant(t, room.ID, alice).Active())

	again = te.oneToOne(t, alice, bob)
	require.Equal(t, room.ID, again.ID)
	require.True(t, te.participant(t, room.ID, alice).Active())

	_, err = te.Registry.CreateOneToOne(ctx, alice, alice)
	require.ErrorIs(t, err, types.ErrSelfRoom)
	require.ErrorIs(t, err, errs.InvalidArgument)
}

func TestRegistry_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("already left is a no-op", func(t *testing.T) {
		te := newTestEngine(t)
		alice := te.user("Alice", "")
		bob := te.user("Bob", "")
		room := te.group(t, alice, bob)

		first, err := te.Registry.Leave(ctx, room.ID, bob)
		require.NoError(t, err)
		require.True(t, first.Left)
		require.NotNil(t, first.Participant.LastLeftAt)

		second, err := te.Registry.Leave(ctx, room.ID, bob)
		require.NoError(t, err)
		require.False(t, second.Left)
		require.Equal(t, *first.Participant.LastLeftAt, *second.Participant.LastLeftAt)
		require.Equal(t, *first.Participant.LastLeftAt, *te.participant(t, room.ID, bob).LastLeftAt)
	})

	t.Run("last one out deletes the room", func(t *testing.T) {
		te := newTestEngine(t)
		alice := te.user("Alice", "")
		bob := te.user("Bob", "")
		room := te.oneToOne(t, alice, bob)
		msg := te.send(t, room.ID, alice, "bye")

		res, err := te.Registry.Leave(ctx, room.ID, alice)
		require.NoError(t, err)
		require.False(t, res.RoomDeleted)

		res, err = te.Registry.Leave(ctx, room.ID, bob)
		require.NoError(t, err)
		require.True(t, res.RoomDeleted)

		_, err = te.Registry.Room(ctx, room.ID)
		require.ErrorIs(t, err, types.ErrRoomNotFound)

		_, err = te.store.Message(ctx, msg.ID)
		require.ErrorIs(t, err, types.ErrMessageNotFound)
	})

	t.Run("owner hands the group over", func(t *testing.T) {
		te := newTestEngine(t)
		alice := te.user("Alice", "")
		bob := te.user("Bob", "")
		carol := te.user("Carol", "")
		room := te.group(t, alice, bob, carol)

		res, err := te.Registry.Leave(ctx, room.ID, alice)
		require.NoError(t, err)
		require.NotNil(t, res.NewOwnerID)
		require.Equal(t, bob, *res.NewOwnerID)

		got, err := te.Registry.Room(ctx, room.ID)
		require.NoError(t, err)
		group, ok := got.AsGroup()
		require.True(t, ok)
		require.Equal(t, bob, group.OwnerID)

		res, err = te.Registry.Leave(ctx, room.ID, carol)
		require.NoError(t, err)
		require.Nil(t, res.NewOwnerID)
	})

	t.Run("unknown participant", func(t *testing.T) {
		te := newTestEngine(t)
		alice := te.user("Alice", "")
		room := te.group(t, alice)

		_, err := te.Registry.Leave(ctx, room.ID, te.user("Bob", ""))
		require.ErrorIs(t, err, types.ErrParticipantNotFound)
	})
}

func TestRegistry_JoinGroup(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.group(t, alice)

	p, err := te.Registry.JoinGroup(ctx, room.ID, bob)
	require.NoError(t, err)
	require.True(t, p.Active())

	_, err = te.Registry.JoinGroup(ctx, room.ID, bob)
	require.ErrorIs(t, err, types.ErrAlreadyParticipant)
	require.ErrorIs(t, err, errs.Conflict)

	_, err = te.Registry.Leave(ctx, room.ID, bob)
	require.NoError(t, err)

	rejoined, err := te.Registry.JoinGroup(ctx, room.ID, bob)
	require.NoError(t, err)
	require.True(t, rejoined.Active())
	require.Equal(t, p.ID, rejoined.ID)
	require.Nil(t, rejoined.LastLeftAt)

	direct := te.oneToOne(t, alice, bob)
	_, err = te.Registry.JoinGroup(ctx, direct.ID, te.user("Carol", ""))
	require.ErrorIs(t, err, types.ErrRoomNotGroup)
}

func TestRegistry_Participants(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	room := te.group(t, alice, bob)

	_, participants, err := te.Registry.Participants(ctx, room.ID, bob)
	require.NoError(t, err)
	require.Equal(t, []string{alice, bob}, participants.UserIDs())

	_, _, err = te.Registry.Participants(ctx, room.ID, te.user("Mallory", ""))
	require.ErrorIs(t, err, types.ErrParticipantNotFound)

	_, err = te.Registry.RequireOwner(ctx, room.ID, bob)
	require.ErrorIs(t, err, types.ErrNotRoomOwner)

	group, err := te.Registry.RequireOwner(ctx, room.ID, alice)
	require.NoError(t, err)
	require.Equal(t, alice, group.OwnerID)
}

func TestRegistry_RoomParticipants(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	carol := te.user("Carol", "")
	room := te.group(t, alice, bob, carol)

	_, err := te.Registry.Leave(ctx, room.ID, carol)
	require.NoError(t, err)

	got, err := te.Registry.RoomParticipants(ctx, room.ID, bob)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Alice", got[0].Name)
	require.True(t, got[0].IsOwner)
	require.Equal(t, "Bob", got[1].Name)
	require.False(t, got[1].IsOwner)

	_, err = te.Registry.RoomParticipants(ctx, room.ID, te.user("Mallory", ""))
	require.ErrorIs(t, err, types.ErrParticipantNotFound)
}
