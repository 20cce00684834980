package client

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// APIError is a failed API call: either an error answer or a transport failure (Status 0).
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// StatusCode returns the HTTP status of err if it comes from an API answer, 0 otherwise.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ServiceError is what the entity services return: a user-facing message and the underlying failure.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// FieldErrors returns the validation messages by field, if any.
func (e *ServiceError) FieldErrors() map[string]string {
	var apiErr *APIError
	if errors.As(e.Cause, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

// newServiceError builds a ServiceError for an entity service.
// API failures keep the server message, or get "Erro ao comunicar com o serviço de <entity>.".
func newServiceError(err error, entity string) *ServiceError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "Erro ao comunicar com o serviço de " + entity + "."
		}
		return &ServiceError{Message: msg, Cause: err}
	}
	return &ServiceError{Message: "Erro inesperado ao comunicar com o serviço de " + entity + ".", Cause: err}
}

type AuthErrorCode string

const (
	AuthInvalidCredentials AuthErrorCode = "invalid-credentials"
	AuthInvalidToken       AuthErrorCode = "invalid-token"
	AuthUnknown            AuthErrorCode = "unknown"
)

// AuthError is what the auth service returns.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// IsAuthError reports whether err is an AuthError with the given code.
func IsAuthError(err error, code AuthErrorCode) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Code == code
}

// newAuthError maps a failed auth call; a 401 means `unauthorized`.
func newAuthError(err error, unauthorized AuthErrorCode) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		switch unauthorized {
		case AuthInvalidCredentials:
			return &AuthError{Code: AuthInvalidCredentials, Message: "Credenciais inválidas.", Cause: err}
		default:
			return &AuthError{Code: AuthInvalidToken, Message: "Sessão expirada ou inválida.", Cause: err}
		}
	}
	if apiErr != nil && apiErr.Message != "" {
		return &AuthError{Code: AuthUnknown, Message: apiErr.Message, Cause: err}
	}
	return &AuthError{Code: AuthUnknown, Message: "Erro desconhecido na autenticação.", Cause: err}
}
