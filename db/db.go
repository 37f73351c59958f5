package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Store wraps the database handle and owns all SQL in the project.
type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates both tables if they are missing. There is no migration
// path beyond this additive step.
func (s *Store) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			auth_token TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_login TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS game_stats (
			user_id BIGINT PRIMARY KEY REFERENCES users(id),
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			games_played INTEGER NOT NULL DEFAULT 0,
			last_game_date TIMESTAMPTZ
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// UpsertUser inserts a user or fully overwrites the row sharing the same
// telegram_id. The conflict update keeps the original id, so sessions and the
// game_stats foreign key stay valid across re-registrations.
func (s *Store) UpsertUser(ctx context.Context, telegramID int64, username, firstName, lastName, authToken string) (int64, error) {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, auth_token, last_login)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			auth_token = excluded.auth_token,
			last_login = now()
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, telegramID, username, firstName, lastName, authToken).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

// EnsureStats creates the zero-valued stats row for userID if none exists.
func (s *Store) EnsureStats(ctx context.Context, userID int64) error {
	query := `INSERT INTO game_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("ensure stats: %w", err)
	}
	return nil
}

// FindUserByToken returns the joined profile for an auth token, or (nil, nil)
// when no user holds that token.
func (s *Store) FindUserByToken(ctx context.Context, token string) (*Profile, error) {
	return s.findUser(ctx, "u.auth_token = $1", token)
}

// FindUserByID returns the joined profile for a user id, or (nil, nil) when
// the id does not resolve.
func (s *Store) FindUserByID(ctx context.Context, id int64) (*Profile, error) {
	return s.findUser(ctx, "u.id = $1", id)
}

func (s *Store) findUser(ctx context.Context, where string, arg interface{}) (*Profile, error) {
	query := `
		SELECT u.id, u.telegram_id, u.username, u.first_name, u.last_name,
			u.auth_token, u.created_at, u.last_login,
			COALESCE(g.score, 0), COALESCE(g.level, 1), COALESCE(g.games_played, 0),
			g.last_game_date
		FROM users u
		LEFT JOIN game_stats g ON g.user_id = u.id
		WHERE ` + where

	var p Profile
	var lastGame sql.NullTime
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&p.User.ID, &p.User.TelegramID, &p.User.Username, &p.User.FirstName,
		&p.User.LastName, &p.User.AuthToken, &p.User.CreatedAt, &p.User.LastLogin,
		&p.Stats.Score, &p.Stats.Level, &p.Stats.GamesPlayed, &lastGame,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	p.Stats.UserID = p.User.ID
	if lastGame.Valid {
		p.Stats.LastGameDate = &lastGame.Time
	}
	return &p, nil
}

// UpdateStats overwrites score and level, bumps games_played by one and
// stamps last_game_date. The increment happens inside the UPDATE, so
// concurrent callers never lose a game. A missing userID affects zero rows
// and is not an error.
func (s *Store) UpdateStats(ctx context.Context, userID int64, score, level int) error {
	query := `
		UPDATE game_stats
		SET score = $1, level = $2, games_played = games_played + 1, last_game_date = now()
		WHERE user_id = $3`

	if _, err := s.db.ExecContext(ctx, query, score, level, userID); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	return nil
}
