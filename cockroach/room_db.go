package cockroach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/cursor"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
)

const sqlRoomCols = `
	  rooms.id
	, rooms.kind
	, rooms.name
	, rooms.description
	, rooms.owner_id
	, rooms.created_at
`

const sqlActiveMemberCount = `
	(
		SELECT count(*) FROM participants
		WHERE participants.room_id = rooms.id AND participants.status = 'active'
	) AS active_member_count
`

type roomRow struct {
	ID          string         `db:"id"`
	Kind        types.RoomKind `db:"kind"`
	Name        *string        `db:"name"`
	Description *string        `db:"description"`
	OwnerID     *string        `db:"owner_id"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r roomRow) room() types.Room {
	out := types.Room{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
	}
	if r.Kind == types.RoomKindGroup {
		out.Group = &types.Group{}
		if r.Name != nil {
			out.Group.Name = *r.Name
		}
		if r.Description != nil {
			out.Group.Description = *r.Description
		}
		if r.OwnerID != nil {
			out.Group.OwnerID = *r.OwnerID
		}
	}
	return out
}

type groupRow struct {
	roomRow
	ActiveMemberCount int `db:"active_member_count"`
}

func (c *Cockroach) CreateRoom(ctx context.Context, room types.Room) error {
	const query = `
		INSERT INTO rooms (id, kind, name, description, owner_id, created_at)
		VALUES (@room_id, @kind, @name, @description, @owner_id, @created_at)
	`
	args := pgx.StrictNamedArgs{
		"room_id":     room.ID,
		"kind":        room.Kind(),
		"name":        nil,
		"description": nil,
		"owner_id":    nil,
		"created_at":  room.CreatedAt,
	}
	if group, ok := room.AsGroup(); ok {
		args["name"] = group.Name
		args["description"] = group.Description
		args["owner_id"] = group.OwnerID
	}

	_, err := c.db.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("sql insert room: %w", err)
	}

	return nil
}

func (c *Cockroach) Room(ctx context.Context, roomID string) (types.Room, error) {
	return c.room(ctx, roomID, "")
}

func (c *Cockroach) LockRoom(ctx context.Context, roomID string) (types.Room, error) {
	return c.room(ctx, roomID, " FOR UPDATE")
}

func (c *Cockroach) room(ctx context.Context, roomID, suffix string) (types.Room, error) {
	query := `SELECT ` + sqlRoomCols + ` FROM rooms WHERE rooms.id = @room_id` + suffix
	args := pgx.StrictNamedArgs{
		"room_id": roomID,
	}
	row, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[roomRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Room{}, types.ErrRoomNotFound
	}

	if err != nil {
		return types.Room{}, fmt.Errorf("sql select room: %w", err)
	}

	return row.room(), nil
}

func (c *Cockroach) UpdateGroup(ctx context.Context, roomID string, group types.Group) error {
	const query = `
		UPDATE rooms
		SET name = @name, description = @description, owner_id = @owner_id
		WHERE id = @room_id AND kind = 'group'
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"room_id":     roomID,
		"name":        group.Name,
		"description": group.Description,
		"owner_id":    group.OwnerID,
	}
	_, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ErrRoomNotFound
	}

	if err != nil {
		return fmt.Errorf("sql update group: %w", err)
	}

	return nil
}

// DeleteRoom relies on the foreign keys to cascade to participants
// and messages.
func (c *Cockroach) DeleteRoom(ctx context.Context, roomID string) error {
	const query = `DELETE FROM rooms WHERE id = @room_id`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"room_id": roomID,
	})
	if err != nil {
		return fmt.Errorf("sql delete room: %w", err)
	}

	return nil
}

func (c *Cockroach) OneToOneRooms(ctx context.Context, userA, userB string) ([]types.Room, error) {
	query := `
		SELECT ` + sqlRoomCols + `
		FROM rooms
		WHERE rooms.kind = 'one_to_one'
			AND rooms.id IN (SELECT room_id FROM participants WHERE user_id = @user_a)
			AND rooms.id IN (SELECT room_id FROM participants WHERE user_id = @user_b)
			AND (SELECT count(*) FROM participants WHERE participants.room_id = rooms.id) = 2
		ORDER BY rooms.created_at, rooms.id
	`
	args := pgx.StrictNamedArgs{
		"user_a": userA,
		"user_b": userB,
	}
	rows, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[roomRow])
	if err != nil {
		return nil, fmt.Errorf("sql select one to one rooms: %w", err)
	}

	return rooms(rows), nil
}

func (c *Cockroach) UserRooms(ctx context.Context, userID string) ([]types.Room, error) {
	query := `
		SELECT ` + sqlRoomCols + `
		FROM rooms
		INNER JOIN participants ON participants.room_id = rooms.id
		WHERE participants.user_id = @user_id AND participants.status = 'active'
	`
	args := pgx.StrictNamedArgs{
		"user_id": userID,
	}
	rows, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[roomRow])
	if err != nil {
		return nil, fmt.Errorf("sql select user rooms: %w", err)
	}

	return rooms(rows), nil
}

func (c *Cockroach) SearchGroups(ctx context.Context, keyword string, limit int) ([]types.GroupListing, error) {
	query := `
		SELECT ` + sqlRoomCols + `, ` + sqlActiveMemberCount + `
		FROM rooms
		WHERE rooms.kind = 'group'
			AND (rooms.name ILIKE @pattern OR rooms.description ILIKE @pattern)
		ORDER BY rooms.created_at DESC, rooms.id DESC
		LIMIT @limit
	`
	args := pgx.StrictNamedArgs{
		"pattern": containsPattern(keyword),
		"limit":   limit,
	}
	return c.groups(ctx, query, args)
}

func (c *Cockroach) LatestGroups(ctx context.Context, after *cursor.Cursor[time.Time], limit int) ([]types.GroupListing, error) {
	filters := []string{"rooms.kind = 'group'"}
	args := pgx.NamedArgs{
		"limit": limit,
	}
	if after != nil {
		filters = append(filters, "(rooms.created_at, rooms.id) < (@after_created_at, @after_id)")
		args["after_created_at"] = after.Value
		args["after_id"] = after.ID
	}

	query := `SELECT ` + sqlRoomCols + `, ` + sqlActiveMemberCount + ` FROM rooms` +
		where(filters) +
		` ORDER BY rooms.created_at DESC, rooms.id DESC LIMIT @limit`
	return c.groups(ctx, query, args)
}

func (c *Cockroach) PopularGroups(ctx context.Context, limit int) ([]types.GroupListing, error) {
	query := `
		SELECT ` + sqlRoomCols + `, ` + sqlActiveMemberCount + `
		FROM rooms
		WHERE rooms.kind = 'group'
		ORDER BY active_member_count DESC, rooms.created_at DESC, rooms.id DESC
		LIMIT @limit
	`
	args := pgx.StrictNamedArgs{
		"limit": limit,
	}
	return c.groups(ctx, query, args)
}

func (c *Cockroach) groups(ctx context.Context, query string, args any) ([]types.GroupListing, error) {
	rows, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[groupRow])
	if err != nil {
		return nil, fmt.Errorf("sql select groups: %w", err)
	}

	out := make([]types.GroupListing, len(rows))
	for i, row := range rows {
		out[i] = types.GroupListing{
			Room:              row.room(),
			ActiveMemberCount: row.ActiveMemberCount,
		}
	}
	return out, nil
}

func rooms(rows []roomRow) []types.Room {
	out := make([]types.Room, len(rows))
	for i, row := range rows {
		out[i] = row.room()
	}
	return out
}
