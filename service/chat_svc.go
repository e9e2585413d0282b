package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// ErrImagesUnavailable is returned when no image storage is configured.
var ErrImagesUnavailable = errors.New("room images unavailable")

// CreateOneToOneRoom returns the room between the caller and the other user,
// creating it when missing.
func (svc *Service) CreateOneToOneRoom(ctx context.Context, in types.CreateOneToOneRoom) (types.Room, error) {
	var out types.Room

	uid, err := loggedInUserID(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Engine.Registry.CreateOneToOne(ctx, uid, in.OtherUserID)
}

func (svc *Service) CreateGroupRoom(ctx context.Context, in types.CreateGroupRoom) (types.Room, error) {
	var out types.Room

	uid, err := loggedInUserID(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Engine.Registry.CreateGroup(ctx, uid, in.Name, in.Description)
}

func (svc *Service) JoinGroup(ctx context.Context, in types.RetrieveRoom) (types.Participant, error) {
	var out types.Participant

	uid, err := loggedInUserID(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	out, err = svc.Engine.Registry.JoinGroup(ctx, in.RoomID, uid)
	if err != nil {
		return out, err
	}

	svc.Engine.Dispatcher.PublishSummary(ctx, in.RoomID, uid)

	return out, nil
}

// LeaveRoom is idempotent. When the caller was the last active participant
// the room is gone afterwards, and so is its image.
func (svc *Service) LeaveRoom(ctx context.Context, in types.RetrieveRoom) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	res, err := svc.Engine.Registry.Leave(ctx, in.RoomID, uid)
	if err != nil {
		return err
	}

	if res.RoomDeleted && svc.RoomImages != nil {
		svc.background(func(ctx context.Context) error {
			if err := svc.RoomImages.Delete(ctx, in.RoomID); err != nil {
				return fmt.Errorf("delete image of deleted room %s: %w", in.RoomID, err)
			}
			return nil
		})
	}

	if res.NewOwnerID != nil {
		svc.Logger.Info("group ownership transferred", "room_id", in.RoomID, "from", uid, "to", *res.NewOwnerID)
	}

	return nil
}

func (svc *Service) ToggleTranslation(ctx context.Context, in types.ToggleTranslation) (types.Participant, error) {
	var out types.Participant

	uid, err := loggedInUserID(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Engine.Ledger.ToggleTranslation(ctx, in.RoomID, uid, in.Enabled)
}

func (svc *Service) RoomParticipants(ctx context.Context, in types.RetrieveRoom) ([]types.RoomParticipant, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Registry.RoomParticipants(ctx, in.RoomID, uid)
}

// UploadRoomImage replaces the image of a group the caller owns.
func (svc *Service) UploadRoomImage(ctx context.Context, in types.RetrieveRoom, image io.Reader) (string, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return "", err
	}

	if err := in.Validate(); err != nil {
		return "", err
	}

	if svc.RoomImages == nil {
		return "", ErrImagesUnavailable
	}

	if _, err := svc.Engine.Registry.RequireOwner(ctx, in.RoomID, uid); err != nil {
		return "", err
	}

	return svc.RoomImages.Upload(ctx, in.RoomID, image)
}
