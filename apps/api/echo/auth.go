package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core/auth"
)

const (
	contextUserKey  = "user"
	contextTokenKey = "accessToken"
	bearerPrefix    = "Bearer "
)

type authApi struct {
	svc      *auth.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *auth.Service, validate *validator.Validate) {
	api := authApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.POST("/refresh", api.refresh)

	// authed endpoints
	ag.GET("/session", api.session, authed)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data auth.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *authApi) logout(ctx echo.Context) error {
	if token := bearerToken(ctx.Request()); token != "" {
		if err := api.svc.Logout(ctx.Request().Context(), token); err != nil {
			return errors.Wrap(err, "logging out")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) refresh(ctx echo.Context) error {
	var data RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}
	if data.RefreshToken == "" {
		return errRefreshRequired
	}

	sess, err := api.svc.Refresh(ctx.Request().Context(), data.RefreshToken)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidToken {
			return errRefreshInvalid
		}
		return errors.Wrap(err, "refreshing session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *authApi) session(ctx echo.Context) error {
	token, _ := ctx.Get(contextTokenKey).(string)
	sess, err := api.svc.CurrentSession(ctx.Request().Context(), token)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidToken {
			return errInvalidSession
		}
		return errors.Wrap(err, "getting current session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

// bearerAuth only lets through requests carrying the access token of a live session.
func bearerAuth(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx.Request())
			if token == "" {
				return errTokenMissing
			}
			usr, err := svc.VerifyAccessToken(ctx.Request().Context(), token)
			if err != nil {
				if errors.Cause(err) == auth.ErrInvalidToken {
					return errInvalidSession
				}
				return errors.Wrap(err, "verifying access token")
			}
			ctx.Set(contextUserKey, usr)
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

func contextUser(ctx echo.Context) (auth.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(auth.User)
	return usr, ok
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
