package service

import (
	"context"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// SendMessage stores the message and fans it out. Fan-out failures are
// logged and never fail the call.
func (svc *Service) SendMessage(ctx context.Context, in types.SendMessage) (types.Message, error) {
	var out types.Message

	uid, err := loggedInUserID(ctx)
	if err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	res, err := svc.Engine.Dispatcher.SendMessage(ctx, in.RoomID, uid, in.Content)
	if err != nil {
		return out, err
	}

	for _, f := range res.Failures {
		svc.Logger.Warn("message fan-out step failed",
			"room_id", in.RoomID,
			"message_id", res.Message.ID,
			"step", f.Step,
			"user_id", f.UserID,
			"error", f.Err,
		)
	}

	return res.Message, nil
}

// Messages returns a page of messages older than the cursor, newest first.
func (svc *Service) Messages(ctx context.Context, in types.ListMessages) ([]types.MessageView, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Messages.Page(ctx, in.RoomID, uid, in.Before)
}

// FirstMessages returns the latest page of a room, as shown when opening it.
func (svc *Service) FirstMessages(ctx context.Context, in types.RetrieveRoom) ([]types.MessageView, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Messages.FirstPage(ctx, in.RoomID, uid)
}

func (svc *Service) SearchMessages(ctx context.Context, in types.SearchMessages) ([]types.MessageView, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Messages.Search(ctx, in.RoomID, uid, in.Keyword)
}

func (svc *Service) MarkAsRead(ctx context.Context, in types.MarkAsRead) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	_, err = svc.Engine.Dispatcher.MarkAsRead(ctx, in.RoomID, uid, in.MessageID)
	return err
}

func (svc *Service) MarkAllRead(ctx context.Context, in types.RetrieveRoom) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	_, err = svc.Engine.Dispatcher.MarkAllRead(ctx, in.RoomID, uid)
	return err
}

func (svc *Service) DeleteMessage(ctx context.Context, in types.DeleteMessage) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	_, err = svc.Engine.Dispatcher.DeleteMessage(ctx, in.MessageID, uid)
	return err
}

func (svc *Service) Typing(ctx context.Context, in types.Typing) error {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	return svc.Engine.Dispatcher.Typing(ctx, in.RoomID, uid, in.Typing)
}
