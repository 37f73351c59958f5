package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/tgarcade/game-backend/db"
	"github.com/tgarcade/game-backend/internal/session"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

// Store is the persistence surface the service needs; db.Store implements it.
type Store interface {
	UpsertUser(ctx context.Context, telegramID int64, username, firstName, lastName, authToken string) (int64, error)
	EnsureStats(ctx context.Context, userID int64) error
	FindUserByToken(ctx context.Context, token string) (*db.Profile, error)
	FindUserByID(ctx context.Context, id int64) (*db.Profile, error)
	UpdateStats(ctx context.Context, userID int64, score, level int) error
}

type Service struct {
	store    Store
	sessions session.Store
}

func NewService(store Store, sessions session.Store) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
	}
}

// Register upserts the user, guarantees a stats row exists and opens a
// session. The endpoint is the bootstrap step after the external Telegram
// login, so no prior authentication is required; the token is stored as an
// opaque credential, never verified against the provider.
func (s *Service) Register(ctx context.Context, telegramID int64, username, firstName, lastName, authToken string) (int64, string, error) {
	userID, err := s.store.UpsertUser(ctx, telegramID, username, firstName, lastName, authToken)
	if err != nil {
		return 0, "", err
	}
	if err := s.store.EnsureStats(ctx, userID); err != nil {
		return 0, "", err
	}
	sessionID, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return 0, "", fmt.Errorf("create session: %w", err)
	}
	return userID, sessionID, nil
}

// VerifyToken is the reconnect path for a client that already holds a token.
func (s *Service) VerifyToken(ctx context.Context, token string) (*db.Profile, string, error) {
	profile, err := s.store.FindUserByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", ErrInvalidToken
	}
	sessionID, err := s.sessions.Create(ctx, profile.User.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return profile, sessionID, nil
}

func (s *Service) UpdateStats(ctx context.Context, userID int64, score, level int) error {
	return s.store.UpdateStats(ctx, userID, score, level)
}

// GetStats returns the joined profile for a session's user. Users are never
// deleted, so a dangling id should not happen, but it is reported as
// ErrUserNotFound rather than left to fault.
func (s *Service) GetStats(ctx context.Context, userID int64) (*db.Profile, error) {
	profile, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	return profile, nil
}
