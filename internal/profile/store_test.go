package profile

import (
	"context"
	"sync"
	"time"

	"github.com/tgarcade/game-backend/db"
)

// fakeStore implements Store in memory with the same semantics as the
// Postgres queries: upsert keeps the original id, EnsureStats never resets an
// existing row, UpdateStats increments games_played atomically and is a no-op
// for unknown users.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*db.User
	stats  map[int64]*db.GameStats
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*db.User),
		stats: make(map[int64]*db.GameStats),
	}
}

func (f *fakeStore) UpsertUser(ctx context.Context, telegramID int64, username, firstName, lastName, authToken string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, u := range f.users {
		if u.TelegramID == telegramID {
			u.Username = username
			u.FirstName = firstName
			u.LastName = lastName
			u.AuthToken = authToken
			u.LastLogin = now
			return u.ID, nil
		}
	}
	f.nextID++
	f.users[f.nextID] = &db.User{
		ID:         f.nextID,
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		AuthToken:  authToken,
		CreatedAt:  now,
		LastLogin:  now,
	}
	return f.nextID, nil
}

func (f *fakeStore) EnsureStats(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.stats[userID]; !ok {
		f.stats[userID] = &db.GameStats{UserID: userID, Level: 1}
	}
	return nil
}

func (f *fakeStore) FindUserByToken(ctx context.Context, token string) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.AuthToken == token {
			return f.profileLocked(u), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByID(ctx context.Context, id int64) (*db.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return f.profileLocked(u), nil
}

func (f *fakeStore) UpdateStats(ctx context.Context, userID int64, score, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.stats[userID]
	if !ok {
		return nil
	}
	now := time.Now()
	s.Score = score
	s.Level = level
	s.GamesPlayed++
	s.LastGameDate = &now
	return nil
}

func (f *fakeStore) profileLocked(u *db.User) *db.Profile {
	p := &db.Profile{User: *u, Stats: db.GameStats{UserID: u.ID, Level: 1}}
	if s, ok := f.stats[u.ID]; ok {
		p.Stats = *s
	}
	return p
}

func (f *fakeStore) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fakeStore) statsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stats)
}
