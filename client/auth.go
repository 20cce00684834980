package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
)

// AuthService persists the session on every successful auth event and clears it on logout or when it
// can no longer be refreshed.
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

func (svc *AuthService) persist(sess auth.Session) (auth.Session, error) {
	if err := svc.c.tokens.Write(storedSession(sess)); err != nil {
		return auth.Session{}, &AuthError{Code: AuthUnknown, Message: "Erro ao salvar a sessão.", Cause: err}
	}
	return sess, nil
}

func (svc *AuthService) Login(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	var sess auth.Session
	r := request{method: http.MethodPost, path: "/auth/login", body: creds, noAuth: true}
	if err := svc.c.do(ctx, r, &sess); err != nil {
		return auth.Session{}, newAuthError(err, AuthInvalidCredentials)
	}
	return svc.persist(sess)
}

// Logout clears the stored session, then invalidates it on the server. Server failures are only logged.
func (svc *AuthService) Logout(ctx context.Context) error {
	stored, _ := svc.c.tokens.Read()
	if err := svc.c.tokens.Clear(); err != nil {
		return &AuthError{Code: AuthUnknown, Message: "Erro ao encerrar a sessão.", Cause: err}
	}
	if stored == nil || stored.AccessToken == "" {
		return nil
	}

	r := request{method: http.MethodPost, path: "/auth/logout", token: stored.AccessToken, noRetry: true}
	if err := svc.c.do(ctx, r, nil); err != nil && svc.c.logger != nil {
		svc.c.logger.Warn("failed to invalidate session on server", err)
	}
	return nil
}

// RefreshSession exchanges refreshToken, or the stored one when empty, for a new session.
func (svc *AuthService) RefreshSession(ctx context.Context, refreshToken string) (auth.Session, error) {
	if refreshToken == "" {
		if stored, _ := svc.c.tokens.Read(); stored != nil {
			refreshToken = stored.RefreshToken
		}
	}
	if refreshToken == "" {
		svc.c.clearTokens()
		return auth.Session{}, &AuthError{Code: AuthInvalidToken, Message: "Refresh token ausente."}
	}
	return svc.refreshWithToken(ctx, refreshToken)
}

func (svc *AuthService) refreshWithToken(ctx context.Context, refreshToken string) (auth.Session, error) {
	sess, err := svc.c.refresh(ctx, refreshToken)
	if err != nil {
		svc.c.clearTokens()
		return auth.Session{}, newAuthError(err, AuthInvalidToken)
	}
	return sess, nil
}

// CurrentSession returns the session bound to the stored access token, without refreshing it.
func (svc *AuthService) CurrentSession(ctx context.Context) (auth.Session, error) {
	var sess auth.Session
	if err := svc.c.do(ctx, request{method: http.MethodGet, path: "/auth/session", noRetry: true}, &sess); err != nil {
		return auth.Session{}, newAuthError(err, AuthInvalidToken)
	}
	return sess, nil
}

// RestoreSession resumes the stored session. A rejected access token is refreshed; when that fails
// because the token is invalid or the server is unreachable, the cached user is kept.
// It returns nil when there is no session to restore.
func (svc *AuthService) RestoreSession(ctx context.Context) (*auth.Session, error) {
	stored, err := svc.c.tokens.Read()
	if err != nil {
		return nil, &AuthError{Code: AuthUnknown, Message: "Erro ao ler a sessão.", Cause: err}
	}
	if stored == nil || stored.AccessToken == "" {
		return nil, nil
	}

	var current auth.Session
	r := request{method: http.MethodGet, path: "/auth/session", token: stored.AccessToken, noRetry: true}
	err = svc.c.do(ctx, r, &current)
	if err == nil {
		sess := auth.Session{
			User: current.User,
			Tokens: auth.Tokens{
				AccessToken:  stored.AccessToken,
				RefreshToken: stored.RefreshToken,
			},
			IssuedAt: core.Now(),
		}
		return svc.persistPtr(sess)
	}
	if !rejectedOrOffline(err) {
		return nil, newAuthError(err, AuthInvalidToken)
	}

	if stored.RefreshToken == "" {
		svc.c.clearTokens()
		return nil, nil
	}

	sess, err := svc.refreshWithToken(ctx, stored.RefreshToken)
	if err == nil {
		return &sess, nil
	}
	if !IsAuthError(err, AuthInvalidToken) && !isTransport(err) {
		return nil, err
	}
	if stored.User == nil {
		return nil, nil
	}

	fallback := auth.Session{
		User: *stored.User,
		Tokens: auth.Tokens{
			AccessToken:  stored.AccessToken,
			RefreshToken: stored.RefreshToken,
		},
		IssuedAt: core.Now(),
	}
	return svc.persistPtr(fallback)
}

func (svc *AuthService) persistPtr(sess auth.Session) (*auth.Session, error) {
	sess, err := svc.persist(sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func rejectedOrOffline(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized || isTransport(err)
}

func isTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsTransport()
}
