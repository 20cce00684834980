package state

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/client"
	"github.com/trezcool/portal/core/auth"
)

type AuthStatus string

const (
	StatusInitializing    AuthStatus = "initializing"
	StatusAuthenticated   AuthStatus = "authenticated"
	StatusUnauthenticated AuthStatus = "unauthenticated"
)

const msgUnexpectedAuth = "Erro inesperado ao autenticar."

type AuthAPI interface {
	Login(ctx context.Context, creds auth.Credentials) (auth.Session, error)
	Logout(ctx context.Context) error
	RefreshSession(ctx context.Context, refreshToken string) (auth.Session, error)
	RestoreSession(ctx context.Context) (*auth.Session, error)
}

// Auth tracks the signed-in teacher. Login, Logout and RefreshSession run one at a time, in call order.
type Auth struct {
	api   AuthAPI
	queue chan struct{}

	mu      sync.RWMutex
	status  AuthStatus
	session *auth.Session
	err     *client.AuthError
	closed  bool
}

func NewAuth(api AuthAPI) *Auth {
	return &Auth{
		api:    api,
		queue:  make(chan struct{}, 1),
		status: StatusInitializing,
	}
}

func (a *Auth) Status() AuthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *Auth) IsAuthenticated() bool {
	return a.Status() == StatusAuthenticated
}

func (a *Auth) IsLoading() bool {
	return a.Status() == StatusInitializing
}

func (a *Auth) Session() *auth.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	sess := *a.session
	return &sess
}

func (a *Auth) User() *auth.User {
	if sess := a.Session(); sess != nil {
		return &sess.User
	}
	return nil
}

func (a *Auth) Err() *client.AuthError {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

func (a *Auth) ResetError() {
	a.set(func() { a.err = nil })
}

func (a *Auth) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

func (a *Auth) set(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		fn()
	}
}

// exclusive runs fn once every operation queued before it has finished.
func (a *Auth) exclusive(ctx context.Context, fn func() error) error {
	select {
	case a.queue <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-a.queue }()
	return fn()
}

func (a *Auth) authenticated(sess auth.Session) {
	a.set(func() {
		a.session = &sess
		a.status = StatusAuthenticated
		a.err = nil
	})
}

func asAuthError(err error) *client.AuthError {
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return &client.AuthError{Code: client.AuthUnknown, Message: msgUnexpectedAuth, Cause: err}
}

// Restore resumes the stored session, if any.
func (a *Auth) Restore(ctx context.Context) error {
	sess, err := a.api.RestoreSession(ctx)
	if err != nil {
		authErr := asAuthError(err)
		a.set(func() {
			a.session = nil
			a.status = StatusUnauthenticated
			a.err = authErr
		})
		return authErr
	}
	if sess == nil {
		a.set(func() {
			a.session = nil
			a.status = StatusUnauthenticated
		})
		return nil
	}
	a.authenticated(*sess)
	return nil
}

func (a *Auth) Login(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	var sess auth.Session
	err := a.exclusive(ctx, func() error {
		a.set(func() {
			a.status = StatusInitializing
			a.err = nil
		})

		var err error
		if sess, err = a.api.Login(ctx, creds); err != nil {
			authErr := asAuthError(err)
			a.set(func() {
				a.session = nil
				a.status = StatusUnauthenticated
				a.err = authErr
			})
			return authErr
		}
		a.authenticated(sess)
		return nil
	})
	return sess, err
}

// Logout always ends unauthenticated, even when the server call fails.
func (a *Auth) Logout(ctx context.Context) error {
	return a.exclusive(ctx, func() error {
		return a.logout(ctx)
	})
}

func (a *Auth) logout(ctx context.Context) error {
	a.set(func() {
		a.status = StatusInitializing
		a.err = nil
	})
	err := a.api.Logout(ctx)
	a.set(func() {
		a.session = nil
		a.status = StatusUnauthenticated
	})
	return err
}

// RefreshSession rotates the tokens of the current session. Without a refresh token, or when the
// refresh fails, the teacher is logged out and the refresh error is kept.
func (a *Auth) RefreshSession(ctx context.Context) error {
	return a.exclusive(ctx, func() error {
		current := a.Session()
		if current == nil || current.Tokens.RefreshToken == "" {
			return a.logout(ctx)
		}

		sess, err := a.api.RefreshSession(ctx, current.Tokens.RefreshToken)
		if err != nil {
			authErr := asAuthError(err)
			_ = a.logout(ctx)
			a.set(func() { a.err = authErr })
			return authErr
		}
		a.authenticated(sess)
		return nil
	})
}
