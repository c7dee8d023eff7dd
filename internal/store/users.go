package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"go-equipment-analytics/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.timestamp()
	}
	_, err := s.exec(ctx, s.sb.Insert("users").
		Columns("id", "username", "password_hash", "created_at").
		Values(u.ID, u.Username, u.PasswordHash, u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// UpsertUser creates the user or, when the username exists, replaces its
// password hash. u is filled with the stored ID and CreatedAt.
func (s *Store) UpsertUser(ctx context.Context, u *model.User) (bool, error) {
	existing, err := s.GetUserByUsername(ctx, u.Username)
	if errors.Is(err, ErrNotFound) {
		return true, s.CreateUser(ctx, u)
	}
	if err != nil {
		return false, err
	}
	if _, err := s.exec(ctx, s.sb.Update("users").
		Set("password_hash", u.PasswordHash).
		Where(sq.Eq{"id": existing.ID})); err != nil {
		return false, fmt.Errorf("update user %q: %w", u.Username, err)
	}
	u.ID = existing.ID
	u.CreatedAt = existing.CreatedAt
	return false, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username})
}

func (s *Store) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	var u model.User
	err := s.queryRow(ctx, s.sb.Select("id", "username", "password_hash", "created_at").
		From("users").Where(where)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return model.User{}, notFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
