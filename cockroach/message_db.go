package cockroach

import (
	"context"
	"errors"
	"fmt"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nicolasparada/go-db"
)

const sqlMessageCols = `
	  messages.id
	, messages.room_id
	, messages.sender_id
	, messages.content
	, messages.sent_at
`

func (c *Cockroach) CreateMessage(ctx context.Context, m types.Message) error {
	const query = `
		INSERT INTO messages (id, room_id, sender_id, content, sent_at)
		VALUES (@message_id, @room_id, @sender_id, @content, @sent_at)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"message_id": m.ID,
		"room_id":    m.RoomID,
		"sender_id":  m.SenderID,
		"content":    m.Content,
		"sent_at":    m.SentAt,
	})
	if db.IsForeignKeyViolationError(err, "room_id") {
		return types.ErrRoomNotFound
	}

	if err != nil {
		return fmt.Errorf("sql insert message: %w", err)
	}

	return nil
}

func (c *Cockroach) Message(ctx context.Context, messageID string) (types.Message, error) {
	query := `SELECT ` + sqlMessageCols + ` FROM messages WHERE messages.id = @message_id`
	args := pgx.StrictNamedArgs{
		"message_id": messageID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, types.ErrMessageNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql select message: %w", err)
	}

	return out, nil
}

func (c *Cockroach) DeleteMessage(ctx context.Context, messageID string) error {
	const query = `DELETE FROM messages WHERE id = @message_id RETURNING id`
	args := pgx.StrictNamedArgs{
		"message_id": messageID,
	}
	_, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ErrMessageNotFound
	}

	if err != nil {
		return fmt.Errorf("sql delete message: %w", err)
	}

	return nil
}

// Messages orders by id: xids compare the same as strings and as
// creation order.
func (c *Cockroach) Messages(ctx context.Context, q types.MessageQuery) ([]types.Message, error) {
	filters := []string{"messages.room_id = @room_id"}
	args := pgx.NamedArgs{
		"room_id": q.RoomID,
	}

	if q.Before != nil {
		filters = append(filters, "messages.id < @before")
		args["before"] = *q.Before
	}

	if q.SentAfter != nil {
		filters = append(filters, "messages.sent_at > @sent_after")
		args["sent_after"] = *q.SentAfter
	}

	query := `SELECT ` + sqlMessageCols + ` FROM messages` + where(filters) + ` ORDER BY messages.id DESC`
	if q.Limit > 0 {
		query += ` LIMIT @limit`
		args["limit"] = q.Limit
	}

	out, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return nil, fmt.Errorf("sql select messages: %w", err)
	}

	return out, nil
}

func (c *Cockroach) LatestMessage(ctx context.Context, roomID string) (types.Message, error) {
	msgs, err := c.Messages(ctx, types.MessageQuery{RoomID: roomID, Limit: 1})
	if err != nil {
		return types.Message{}, err
	}

	if len(msgs) == 0 {
		return types.Message{}, types.ErrMessageNotFound
	}

	return msgs[0], nil
}

func (c *Cockroach) CountMessages(ctx context.Context, roomID string, afterID *string, excludeSenderID string) (int, error) {
	filters := []string{
		"messages.room_id = @room_id",
		"messages.sender_id <> @exclude_sender_id",
	}
	args := pgx.NamedArgs{
		"room_id":           roomID,
		"exclude_sender_id": excludeSenderID,
	}

	if afterID != nil {
		filters = append(filters, "messages.id > @after_id")
		args["after_id"] = *afterID
	}

	query := `SELECT count(*) FROM messages` + where(filters)
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[int])
	if err != nil {
		return 0, fmt.Errorf("sql count messages: %w", err)
	}

	return out, nil
}
