package service

import (
	"context"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

func (svc *Service) GroupDetails(ctx context.Context, in types.RetrieveRoom) (types.GroupDetails, error) {
	var out types.GroupDetails

	if _, err := loggedInUserID(ctx); err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Engine.Groups.Details(ctx, in.RoomID)
}

func (svc *Service) SearchGroups(ctx context.Context, in types.SearchGroups) ([]types.GroupListing, error) {
	if _, err := loggedInUserID(ctx); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Groups.Search(ctx, in.Keyword)
}

func (svc *Service) LatestGroups(ctx context.Context, in types.ListLatestGroups) (types.Page[types.GroupListing], error) {
	var out types.Page[types.GroupListing]

	if _, err := loggedInUserID(ctx); err != nil {
		return out, err
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Engine.Groups.Latest(ctx, in.PageArgs)
}

func (svc *Service) PopularGroups(ctx context.Context, in types.ListPopularGroups) ([]types.GroupListing, error) {
	if _, err := loggedInUserID(ctx); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return svc.Engine.Groups.Popular(ctx, in.Limit)
}
