package chat_test

import (
	"context"
	"testing"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/stretchr/testify/require"
)

func TestGroups_Details(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	carol := te.user("Carol", "")
	room := te.group(t, alice, bob, carol)

	_, err := te.Registry.Leave(ctx, room.ID, carol)
	require.NoError(t, err)

	details, err := te.Groups.Details(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, room.ID, details.Room.ID)
	require.Equal(t, "Alice", details.Owner.Name)
	require.Equal(t, 2, details.ActiveMemberCount)
	require.Len(t, details.Members, 1)
	require.Equal(t, "Bob", details.Members[0].Name)
	require.Nil(t, details.ImageURL)

	direct := te.oneToOne(t, alice, bob)
	_, err = te.Groups.Details(ctx, direct.ID)
	require.ErrorIs(t, err, types.ErrRoomNotGroup)
}

func TestGroups_Latest(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	owner := te.user("Owner", "")
	var created []string
	for range 3 {
		created = append(created, te.group(t, owner).ID)
	}

	first := uint(2)
	page, err := te.Groups.Latest(ctx, types.PageArgs{First: &first})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, created[2], page.Items[0].ID)
	require.Equal(t, created[1], page.Items[1].ID)
	require.True(t, page.PageInfo.HasNextPage)
	require.NotNil(t, page.PageInfo.EndCursor)

	page, err = te.Groups.Latest(ctx, types.PageArgs{First: &first, After: page.PageInfo.EndCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, created[0], page.Items[0].ID)
	require.False(t, page.PageInfo.HasNextPage)
}

func TestGroups_SearchAndPopular(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	alice := te.user("Alice", "")
	bob := te.user("Bob", "")
	small := te.group(t, alice)
	big := te.group(t, bob, alice)

	found, err := te.Groups.Search(ctx, "GROUP "+bob)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, big.ID, found[0].ID)

	popular, err := te.Groups.Popular(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	require.Equal(t, big.ID, popular[0].ID)
	require.Equal(t, 2, popular[0].ActiveMemberCount)
	require.Equal(t, small.ID, popular[1].ID)
}
