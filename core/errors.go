package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldValidationError reports a single invalid field, using msg for both the error and the field.
func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Err: errors.New(msg), Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// FieldMap returns the field errors keyed by field name; the first error of a field wins.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	flds := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		if _, ok := flds[f.Field]; !ok {
			flds[f.Field] = f.Error
		}
	}
	return flds
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
