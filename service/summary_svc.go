package service

import (
	"context"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

// RoomSummaries lists the caller's rooms, latest activity first.
func (svc *Service) RoomSummaries(ctx context.Context) ([]types.RoomSummary, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	return svc.Engine.Summaries.ForUser(ctx, uid)
}

func (svc *Service) SearchRoomSummaries(ctx context.Context, in types.SearchRoomSummaries) ([]types.RoomSummary, error) {
	uid, err := loggedInUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Summaries.Search(ctx, uid, in.Keyword)
}
