// Package forms holds the local state of the portal's edit forms.
//
// A form keeps what the teacher typed apart from what gets submitted. Rules are checked on every
// Submit call, and field errors are only reported once a submit has been attempted.
package forms

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

// ErrNotSubmittable is the cause of the ValidationError returned by a rejected Submit.
var ErrNotSubmittable = errors.New("form has invalid fields")

type form struct {
	validate   *validator.Validate
	translator ut.Translator
	messages   map[string]string // form texts by field, overriding the translated ones

	submitted bool
	errs      []core.FieldError
}

func newForm(validate *validator.Validate, translator ut.Translator, messages map[string]string) form {
	return form{validate: validate, translator: translator, messages: messages}
}

// check validates v and returns its field errors, using the form texts where they exist.
func (f *form) check(v interface{}) []core.FieldError {
	err := f.validate.Struct(v)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []core.FieldError{{Error: err.Error()}}
	}

	flds := core.TranslateValidationErrors(vErrs, f.translator)
	for i := range flds {
		if msg, ok := f.messages[flds[i].Field]; ok {
			flds[i].Error = msg
		}
	}
	return flds
}

// attempt records a submit attempt with the errors found; it fails when there are any.
func (f *form) attempt(flds []core.FieldError) error {
	f.submitted = true
	f.errs = flds
	if len(flds) > 0 {
		return core.NewValidationError(ErrNotSubmittable, flds...)
	}
	return nil
}

func (f *form) reset() {
	f.submitted = false
	f.errs = nil
}

func (f *form) WasSubmitted() bool {
	return f.submitted
}

// FieldError returns the error shown for a field: empty before the first submit attempt.
func (f *form) FieldError(field string) string {
	if !f.submitted {
		return ""
	}
	for _, fe := range f.errs {
		if fe.Field == field {
			return fe.Error
		}
	}
	return ""
}

// Errors returns the field errors of the last submit attempt.
func (f *form) Errors() []core.FieldError {
	if !f.submitted {
		return nil
	}
	return append([]core.FieldError(nil), f.errs...)
}
