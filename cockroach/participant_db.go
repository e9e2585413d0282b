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

const sqlParticipantCols = `
	  participants.id
	, participants.room_id
	, participants.user_id
	, participants.status
	, participants.joined_at
	, participants.last_left_at
	, participants.last_read_message_id
	, participants.translate_enabled
	, participants.updated_at
`

func (c *Cockroach) CreateParticipant(ctx context.Context, p types.Participant) error {
	const query = `
		INSERT INTO participants (id, room_id, user_id, status, joined_at, last_left_at, last_read_message_id, translate_enabled, updated_at)
		VALUES (@participant_id, @room_id, @user_id, @status, @joined_at, @last_left_at, @last_read_message_id, @translate_enabled, @updated_at)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"participant_id":       p.ID,
		"room_id":              p.RoomID,
		"user_id":              p.UserID,
		"status":               p.Status,
		"joined_at":            p.JoinedAt,
		"last_left_at":         p.LastLeftAt,
		"last_read_message_id": p.LastReadMessageID,
		"translate_enabled":    p.TranslateEnabled,
		"updated_at":           p.UpdatedAt,
	})
	if db.IsUniqueViolationError(err) {
		return types.ErrAlreadyParticipant
	}

	if db.IsForeignKeyViolationError(err, "room_id") {
		return types.ErrRoomNotFound
	}

	if err != nil {
		return fmt.Errorf("sql insert participant: %w", err)
	}

	return nil
}

func (c *Cockroach) Participant(ctx context.Context, roomID, userID string) (types.Participant, error) {
	return c.participant(ctx, roomID, userID, "")
}

func (c *Cockroach) LockParticipant(ctx context.Context, roomID, userID string) (types.Participant, error) {
	return c.participant(ctx, roomID, userID, " FOR UPDATE")
}

func (c *Cockroach) participant(ctx context.Context, roomID, userID, suffix string) (types.Participant, error) {
	query := `
		SELECT ` + sqlParticipantCols + `
		FROM participants
		WHERE participants.room_id = @room_id AND participants.user_id = @user_id
	` + suffix
	args := pgx.StrictNamedArgs{
		"room_id": roomID,
		"user_id": userID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Participant])
	if errors.Is(err, pgx.ErrNoRows) {
		return out, types.ErrParticipantNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql select participant: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Participants(ctx context.Context, roomID string) (types.Participants, error) {
	query := `
		SELECT ` + sqlParticipantCols + `
		FROM participants
		WHERE participants.room_id = @room_id
		ORDER BY participants.joined_at, participants.id
	`
	args := pgx.StrictNamedArgs{
		"room_id": roomID,
	}
	out, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Participant])
	if err != nil {
		return nil, fmt.Errorf("sql select participants: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UpdateParticipant(ctx context.Context, p types.Participant) error {
	const query = `
		UPDATE participants
		SET status = @status
			, last_left_at = @last_left_at
			, last_read_message_id = @last_read_message_id
			, translate_enabled = @translate_enabled
			, updated_at = @updated_at
		WHERE id = @participant_id
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"participant_id":       p.ID,
		"status":               p.Status,
		"last_left_at":         p.LastLeftAt,
		"last_read_message_id": p.LastReadMessageID,
		"translate_enabled":    p.TranslateEnabled,
		"updated_at":           p.UpdatedAt,
	}
	_, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ErrParticipantNotFound
	}

	if err != nil {
		return fmt.Errorf("sql update participant: %w", err)
	}

	return nil
}
