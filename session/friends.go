package session

import (
	"context"

	"livechat/models"
)

func (s *Session) RefreshFriends(ctx context.Context) error {
	friends, err := s.api.GetFriends(ctx)
	if err != nil {
		return err
	}
	s.friends.SetFriends(friends)
	return nil
}

func (s *Session) RefreshRequests(ctx context.Context) error {
	reqs, err := s.api.GetFriendRequests(ctx)
	if err != nil {
		return err
	}
	s.friends.SetRequests(reqs)
	return nil
}

func (s *Session) SendFriendRequest(ctx context.Context, toUserID string) (*models.FriendRequest, error) {
	return s.api.SendFriendRequest(ctx, toUserID)
}

// AcceptFriendRequest accepts, drops the request locally and reloads the friend list,
// since the accept response carries no user
func (s *Session) AcceptFriendRequest(ctx context.Context, id string) error {
	if err := s.api.AcceptFriendRequest(ctx, id); err != nil {
		return err
	}
	s.friends.RemoveRequest(id)
	return s.RefreshFriends(ctx)
}

func (s *Session) RejectFriendRequest(ctx context.Context, id string) error {
	if err := s.api.RejectFriendRequest(ctx, id); err != nil {
		return err
	}
	s.friends.RemoveRequest(id)
	return nil
}
