package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SWYP-foreigner/Kori-chatting/textutil"
	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	previewLength      = 100
	summaryConcurrency = 8
)

// Summaries builds the room list entries shown to each user.
type Summaries struct {
	rooms        RoomStore
	participants ParticipantStore
	messages     MessageStore
	unread       *Accountant
	collab       collaborators
	logger       *slog.Logger
}

// Build renders one room for one viewer. One-to-one rooms are named after
// the other participant; groups carry their own name and image.
func (s *Summaries) Build(ctx context.Context, room types.Room, viewer types.Participant, participants types.Participants, profiles map[string]types.Profile, images map[string]string) (types.RoomSummary, error) {
	out := types.RoomSummary{
		RoomID:           room.ID,
		Kind:             room.Kind(),
		ParticipantCount: len(participants.Active()),
	}

	if group, ok := room.AsGroup(); ok {
		out.Name = group.Name
		if url, ok := images[room.ID]; ok {
			out.ImageURL = &url
		}
	} else {
		other := types.ProfileOf(profiles, otherUserID(participants, viewer.UserID))
		out.Name = other.Name
		out.ImageURL = other.ImageURL
	}

	latest, err := s.messages.LatestMessage(ctx, room.ID)
	if err != nil && !errors.Is(err, types.ErrMessageNotFound) {
		return out, fmt.Errorf("latest message: %w", err)
	}

	if err == nil {
		preview := textutil.Preview(latest.Content, previewLength)
		out.LastMessage = &preview
		out.LastMessageAt = &latest.SentAt
	}

	out.UnreadCount, err = s.unread.count(ctx, viewer)
	if err != nil {
		return out, fmt.Errorf("count unread: %w", err)
	}

	return out, nil
}

// One resolves and builds the summary of a single room for the user.
func (s *Summaries) One(ctx context.Context, roomID, userID string) (types.RoomSummary, error) {
	room, err := s.rooms.Room(ctx, roomID)
	if err != nil {
		return types.RoomSummary{}, err
	}

	participants, err := s.participants.Participants(ctx, roomID)
	if err != nil {
		return types.RoomSummary{}, err
	}

	viewer, ok := participants.Find(userID)
	if !ok {
		return types.RoomSummary{}, types.ErrParticipantNotFound
	}

	profiles, images := s.resolve(ctx, []types.Room{room}, map[string]types.Participants{roomID: participants}, userID)
	return s.Build(ctx, room, viewer, participants, profiles, images)
}

// ForUser lists the rooms the user is active in, most recent activity
// first and rooms without messages last.
func (s *Summaries) ForUser(ctx context.Context, userID string) ([]types.RoomSummary, error) {
	rooms, err := s.rooms.UserRooms(ctx, userID)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[string]types.Participants, len(rooms))
	for _, room := range rooms {
		participants, err := s.participants.Participants(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		byRoom[room.ID] = participants
	}

	profiles, images := s.resolve(ctx, rooms, byRoom, userID)

	out := make([]types.RoomSummary, len(rooms))
	g := errgroup.Group{}
	g.SetLimit(summaryConcurrency)
	for i, room := range rooms {
		g.Go(func() error {
			participants := byRoom[room.ID]
			viewer, ok := participants.Find(userID)
			if !ok {
				return types.ErrParticipantNotFound
			}

			summary, err := s.Build(ctx, room, viewer, participants, profiles, images)
			if err != nil {
				return fmt.Errorf("summarize room %s: %w", room.ID, err)
			}

			out[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, byLastMessage)
	return out, nil
}

// Search filters the user's rooms by their displayed name.
func (s *Summaries) Search(ctx context.Context, userID, keyword string) ([]types.RoomSummary, error) {
	summaries, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return lo.Filter(summaries, func(summary types.RoomSummary, _ int) bool {
		return textutil.ContainsFold(summary.Name, keyword)
	}), nil
}

// resolve fetches in one call each the profiles one-to-one rooms are
// named after and the images of the groups.
func (s *Summaries) resolve(ctx context.Context, rooms []types.Room, byRoom map[string]types.Participants, viewerID string) (map[string]types.Profile, map[string]string) {
	var userIDs, groupIDs []string
	for _, room := range rooms {
		if room.IsGroup() {
			groupIDs = append(groupIDs, room.ID)
			continue
		}
		userIDs = append(userIDs, otherUserID(byRoom[room.ID], viewerID))
	}

	profiles, err := s.collab.profiles(ctx, lo.Compact(userIDs))
	if err != nil {
		s.logger.Warn("resolve room names", "user_id", viewerID, "error", err)
	}

	images, err := s.collab.imageURLs(ctx, groupIDs)
	if err != nil {
		s.logger.Warn("resolve room images", "user_id", viewerID, "error", err)
	}

	return profiles, images
}

func otherUserID(participants types.Participants, userID string) string {
	for _, p := range participants {
		if p.UserID != userID {
			return p.UserID
		}
	}
	return ""
}

func byLastMessage(a, b types.RoomSummary) int {
	switch {
	case a.LastMessageAt == nil && b.LastMessageAt == nil:
		return 0
	case a.LastMessageAt == nil:
		return 1
	case b.LastMessageAt == nil:
		return -1
	}
	return b.LastMessageAt.Compare(*a.LastMessageAt)
}
