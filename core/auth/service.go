package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
)

type (
	Repository interface {
		GetUserByID(ctx context.Context, id string) (User, error)
		// GetUserByEmail does a case-insensitive match on User.Email.
		GetUserByEmail(ctx context.Context, email string) (User, error)
		SaveSession(ctx context.Context, rec SessionRecord) error
		GetSession(ctx context.Context, accessToken string) (SessionRecord, error)
		GetSessionByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
		// ReplaceSession atomically swaps the session keyed by oldAccessToken for rec.
		// It fails with ErrSessionNotFound if the old session is gone.
		ReplaceSession(ctx context.Context, oldAccessToken string, rec SessionRecord) error
		// EvictAccessToken stops accessToken from being found by GetSession. The session stays
		// reachable through GetSessionByRefreshToken until it is replaced or deleted.
		EvictAccessToken(ctx context.Context, accessToken string) error
		// DeleteSession removes the session of accessToken, evicted or not.
		DeleteSession(ctx context.Context, accessToken string) error
	}

	Service struct {
		repo   Repository
		tokens tokenIssuer
		ttl    time.Duration
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	ttl := conf.Server.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		repo:   repo,
		tokens: newTokenIssuer(conf),
		ttl:    ttl,
	}
}

func (svc *Service) newRecord(usr User) (SessionRecord, error) {
	now := core.Now()
	expiresAt := now.Add(svc.ttl)
	access, err := svc.tokens.accessToken(usr, now, expiresAt)
	if err != nil {
		return SessionRecord{}, err
	}
	return SessionRecord{
		AccessToken:  access,
		RefreshToken: svc.tokens.refreshToken(),
		UserID:       usr.ID,
		IssuedAt:     now,
		ExpiresAt:    expiresAt,
	}, nil
}

func newSession(usr User, rec SessionRecord) Session {
	return Session{
		User:     usr,
		Tokens:   Tokens{AccessToken: rec.AccessToken, RefreshToken: rec.RefreshToken},
		IssuedAt: rec.IssuedAt,
	}
}

// Login authenticates a user by email (case-insensitive) and password, and issues a new session.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(creds.Email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrUserNotFound {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	rec, err := svc.newRecord(usr)
	if err != nil {
		return Session{}, errors.Wrap(err, "creating session")
	}
	if err = svc.repo.SaveSession(ctx, rec); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return newSession(usr, rec), nil
}

// VerifyAccessToken returns the user bound to a live session. Expired access tokens are evicted.
func (svc *Service) VerifyAccessToken(ctx context.Context, accessToken string) (User, error) {
	usr, _, err := svc.verify(ctx, accessToken)
	return usr, err
}

// CurrentSession returns the session bound to accessToken, without its refresh token.
func (svc *Service) CurrentSession(ctx context.Context, accessToken string) (Session, error) {
	usr, rec, err := svc.verify(ctx, accessToken)
	if err != nil {
		return Session{}, err
	}
	return Session{
		User:     usr,
		Tokens:   Tokens{AccessToken: rec.AccessToken},
		IssuedAt: rec.IssuedAt,
	}, nil
}

func (svc *Service) verify(ctx context.Context, accessToken string) (User, SessionRecord, error) {
	if accessToken == "" {
		return User{}, SessionRecord{}, ErrInvalidToken
	}
	claims, err := svc.tokens.parse(accessToken)
	if err != nil {
		return User{}, SessionRecord{}, err
	}

	rec, err := svc.repo.GetSession(ctx, accessToken)
	if err != nil {
		if errors.Cause(err) == ErrSessionNotFound {
			return User{}, SessionRecord{}, ErrInvalidToken
		}
		return User{}, SessionRecord{}, errors.Wrap(err, "finding session")
	}
	// only the access token is evicted: the refresh token can still be exchanged
	if rec.Expired(core.Now()) {
		if err = svc.repo.EvictAccessToken(ctx, accessToken); err != nil {
			return User{}, SessionRecord{}, errors.Wrap(err, "evicting expired access token")
		}
		return User{}, SessionRecord{}, ErrInvalidToken
	}
	if rec.UserID != claims.Subject {
		return User{}, SessionRecord{}, ErrInvalidToken
	}

	usr, err := svc.repo.GetUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Cause(err) == ErrUserNotFound {
			return User{}, SessionRecord{}, ErrInvalidToken
		}
		return User{}, SessionRecord{}, errors.Wrap(err, "finding user by ID")
	}
	return usr, rec, nil
}

// Refresh exchanges a refresh token for a new session, also when the access token has expired.
// The previous session, refresh token included, stops being valid.
func (svc *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrInvalidToken
	}
	old, err := svc.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Cause(err) == ErrSessionNotFound {
			return Session{}, ErrInvalidToken
		}
		return Session{}, errors.Wrap(err, "finding session by refresh token")
	}

	usr, err := svc.repo.GetUserByID(ctx, old.UserID)
	if err != nil {
		if errors.Cause(err) == ErrUserNotFound {
			return Session{}, ErrInvalidToken
		}
		return Session{}, errors.Wrap(err, "finding user by ID")
	}

	rec, err := svc.newRecord(usr)
	if err != nil {
		return Session{}, errors.Wrap(err, "creating session")
	}
	if err = svc.repo.ReplaceSession(ctx, old.AccessToken, rec); err != nil {
		if errors.Cause(err) == ErrSessionNotFound {
			return Session{}, ErrInvalidToken
		}
		return Session{}, errors.Wrap(err, "replacing session")
	}
	return newSession(usr, rec), nil
}

// Logout destroys the session bound to accessToken. Unknown tokens are ignored.
func (svc *Service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := svc.repo.DeleteSession(ctx, accessToken); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
