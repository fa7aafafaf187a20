package session

import (
	"context"

	"livechat/models"
)

func (s *Session) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.users.SetUsers(users)
	return users, nil
}

func (s *Session) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	users, err := s.api.SearchUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	s.users.SetUsers(users)
	return users, nil
}

// GetUser returns a cached user, fetching it on a miss
func (s *Session) GetUser(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users.User(id); ok {
		return &u, nil
	}
	u, err := s.api.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	s.users.CacheUser(*u)
	return u, nil
}

func (s *Session) UpdateUser(ctx context.Context, id string, params models.UpdateUserParams) error {
	if err := s.api.UpdateUser(ctx, id, params); err != nil {
		return err
	}
	s.users.ApplyUpdate(id, params)
	return nil
}
