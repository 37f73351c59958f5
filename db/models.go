package db

import "time"

type User struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID int64     `json:"telegramId" db:"telegram_id"`
	Username   string    `json:"username" db:"username"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	AuthToken  string    `json:"-" db:"auth_token"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	LastLogin  time.Time `json:"lastLogin" db:"last_login"`
}

type GameStats struct {
	UserID       int64      `json:"-" db:"user_id"`
	Score        int        `json:"score" db:"score"`
	Level        int        `json:"level" db:"level"`
	GamesPlayed  int        `json:"gamesPlayed" db:"games_played"`
	LastGameDate *time.Time `json:"lastGameDate" db:"last_game_date"`
}

// Profile is a user joined with their stats row.
type Profile struct {
	User  User
	Stats GameStats
}
