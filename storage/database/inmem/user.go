package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/portal/core/auth"
)

type userRepository struct {
	db *DB
}

var _ auth.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) auth.Repository {
	return &userRepository{db: db}
}

// CreateUser stores usr; used to seed the DB.
func (db *DB) CreateUser(usr auth.User) auth.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := usr
	db.users[u.ID] = &u
	return usr
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (auth.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, usr := range repo.db.users {
		if strings.EqualFold(usr.Email, email) {
			return *usr, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (repo *userRepository) SaveSession(ctx context.Context, rec auth.SessionRecord) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r := rec
	repo.db.sessions[r.AccessToken] = &r
	return nil
}

func (repo *userRepository) GetSession(ctx context.Context, accessToken string) (auth.SessionRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if rec, ok := repo.db.sessions[accessToken]; ok {
		return *rec, nil
	}
	return auth.SessionRecord{}, auth.ErrSessionNotFound
}

func (repo *userRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (auth.SessionRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, rec := range repo.db.sessions {
		if rec.RefreshToken == refreshToken {
			return *rec, nil
		}
	}
	if rec, ok := repo.db.evicted[refreshToken]; ok {
		return *rec, nil
	}
	return auth.SessionRecord{}, auth.ErrSessionNotFound
}

func (repo *userRepository) EvictAccessToken(ctx context.Context, accessToken string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rec, ok := repo.db.sessions[accessToken]
	if !ok {
		return nil
	}
	delete(repo.db.sessions, accessToken)
	if rec.RefreshToken != "" {
		repo.db.evicted[rec.RefreshToken] = rec
	}
	return nil
}

// dropSession removes the session of accessToken, live or evicted. Callers must hold db.mu for writing.
func (db *DB) dropSession(accessToken string) bool {
	if _, ok := db.sessions[accessToken]; ok {
		delete(db.sessions, accessToken)
		return true
	}
	for refreshToken, rec := range db.evicted {
		if rec.AccessToken == accessToken {
			delete(db.evicted, refreshToken)
			return true
		}
	}
	return false
}

func (repo *userRepository) ReplaceSession(ctx context.Context, oldAccessToken string, rec auth.SessionRecord) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if !repo.db.dropSession(oldAccessToken) {
		return auth.ErrSessionNotFound
	}
	r := rec
	repo.db.sessions[r.AccessToken] = &r
	return nil
}

func (repo *userRepository) DeleteSession(ctx context.Context, accessToken string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.dropSession(accessToken)
	return nil
}
