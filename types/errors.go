package types

import "github.com/nicolasparada/go-errs"

var (
	ErrRoomNotFound        = errs.NotFoundError("room not found")
	ErrParticipantNotFound = errs.NotFoundError("participant not found")
	ErrMessageNotFound     = errs.NotFoundError("message not found")

	ErrNotMessageSender = errs.PermissionDeniedError("only the sender can delete a message")
	ErrParticipantLeft  = errs.PermissionDeniedError("participant has left the room")
	ErrNotRoomOwner     = errs.PermissionDeniedError("only the room owner can do this")

	ErrAlreadyParticipant = errs.ConflictError("already an active participant")

	ErrRoomNotGroup       = errs.InvalidArgumentError("room is not a group")
	ErrSelfRoom           = errs.InvalidArgumentError("cannot open a room with yourself")
	ErrBackwardPagination = errs.InvalidArgumentError("backward pagination not supported")
	ErrInvalidImage       = errs.InvalidArgumentError("unsupported image")
	ErrImageTooLarge      = errs.InvalidArgumentError("image too large")
)
