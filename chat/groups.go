package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/cursor"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/samber/lo"
)

const (
	searchGroupsLimit   = 50
	defaultPopularLimit = 10
)

// Groups is the public discovery side of group rooms.
type Groups struct {
	rooms        RoomStore
	participants ParticipantStore
	collab       collaborators
	logger       *slog.Logger
}

func (g *Groups) Details(ctx context.Context, roomID string) (types.GroupDetails, error) {
	var out types.GroupDetails

	room, err := g.rooms.Room(ctx, roomID)
	if err != nil {
		return out, err
	}

	group, ok := room.AsGroup()
	if !ok {
		return out, types.ErrRoomNotGroup
	}

	participants, err := g.participants.Participants(ctx, roomID)
	if err != nil {
		return out, err
	}

	active := participants.Active()
	profiles, err := g.collab.profiles(ctx, append(active.UserIDs(), group.OwnerID))
	if err != nil {
		g.logger.Warn("resolve group members", "room_id", roomID, "error", err)
	}

	out.Room = room
	out.ImageURL = g.imageURLs(ctx, []types.Room{room})[room.ID]
	out.Owner = types.ProfileOf(profiles, group.OwnerID)
	out.ActiveMemberCount = len(active)
	for _, p := range active {
		if p.UserID == group.OwnerID {
			continue
		}
		out.Members = append(out.Members, types.ProfileOf(profiles, p.UserID))
	}

	return out, nil
}

func (g *Groups) Search(ctx context.Context, keyword string) ([]types.GroupListing, error) {
	groups, err := g.rooms.SearchGroups(ctx, keyword, searchGroupsLimit)
	if err != nil {
		return nil, err
	}

	return g.withImages(ctx, groups), nil
}

// Latest pages through groups newest first.
func (g *Groups) Latest(ctx context.Context, args types.PageArgs) (types.Page[types.GroupListing], error) {
	var out types.Page[types.GroupListing]

	pageArgs, err := cursor.ParsePageArgs[time.Time](args)
	if err != nil {
		return out, err
	}

	out.Items, err = g.rooms.LatestGroups(ctx, pageArgs.After, int(pageArgs.First)+1)
	if err != nil {
		return out, err
	}

	err = cursor.ApplyPageInfo(&out, pageArgs, func(item types.GroupListing) cursor.Cursor[time.Time] {
		return cursor.Cursor[time.Time]{ID: item.ID, Value: item.CreatedAt}
	})
	if err != nil {
		return out, err
	}

	out.Items = g.withImages(ctx, out.Items)
	return out, nil
}

func (g *Groups) Popular(ctx context.Context, limit uint) ([]types.GroupListing, error) {
	if limit == 0 {
		limit = defaultPopularLimit
	}

	groups, err := g.rooms.PopularGroups(ctx, int(limit))
	if err != nil {
		return nil, err
	}

	return g.withImages(ctx, groups), nil
}

func (g *Groups) withImages(ctx context.Context, groups []types.GroupListing) []types.GroupListing {
	images := g.imageURLs(ctx, lo.Map(groups, func(l types.GroupListing, _ int) types.Room { return l.Room }))
	for i := range groups {
		groups[i].ImageURL = images[groups[i].ID]
	}
	return groups
}

func (g *Groups) imageURLs(ctx context.Context, rooms []types.Room) map[string]*string {
	ids := lo.Map(rooms, func(r types.Room, _ int) string { return r.ID })
	images, err := g.collab.imageURLs(ctx, ids)
	if err != nil {
		g.logger.Warn("resolve group images", "error", err)
	}

	out := make(map[string]*string, len(images))
	for id, url := range images {
		out[id] = &url
	}
	return out
}
