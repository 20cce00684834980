package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/auth"
)

var (
	errTokenMissing       = echo.NewHTTPError(http.StatusUnauthorized, "Token não informado.")
	errInvalidSession     = echo.NewHTTPError(http.StatusUnauthorized, "Sessão inválida.")
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas.")
	errRefreshRequired    = echo.NewHTTPError(http.StatusBadRequest, "Refresh token é obrigatório.")
	errRefreshInvalid     = echo.NewHTTPError(http.StatusUnauthorized, "Sessão expirada ou inválida.")
	errClassNotFound      = echo.NewHTTPError(http.StatusNotFound, "Turma não encontrada.")
	errStudentNotFound    = echo.NewHTTPError(http.StatusNotFound, "Aluno não encontrado.")
	errConfigNotFound     = echo.NewHTTPError(http.StatusNotFound, "Configuração de avaliação não encontrada.")
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Debug   string            `json:"debug,omitempty"`
}

// errorResponse maps err to a status code and body. internal is true for unexpected errors.
func errorResponse(err error, translator ut.Translator) (code int, resp ErrorResponse, internal bool) {
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		code = origErr.Code
		resp.Message = fmt.Sprint(origErr.Message)
		if origErr == echo.ErrNotFound {
			resp.Message = "Endpoint não encontrado."
		}
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		flds := core.TranslateValidationErrors(origErr, translator)
		resp.Message = flds[0].Error
		resp.Fields = core.ValidationError{Fields: flds}.FieldMap()
	case *core.ValidationError:
		code = http.StatusBadRequest
		resp.Message = origErr.Error()
		if len(origErr.Fields) > 0 {
			resp.Message = origErr.Fields[0].Error
			resp.Fields = origErr.FieldMap()
		}
	default: // any other error is a server error
		code = http.StatusInternalServerError
		resp.Message = http.StatusText(http.StatusInternalServerError)
		internal = true
	}
	return code, resp, internal
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, resp, internal := errorResponse(err, translator)

		if internal {
			var usr auth.User
			if u, ok := contextUser(ctx); ok {
				usr = u
			}
			logger.Error(resp.Message, errors.Wrap(err, resp.Message), usr)

			if ctx.Echo().Debug {
				resp.Debug = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
