package core

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	notBlankTag = "notblank"

	portalEmailTag   = "portalemail"
	portalEmailText  = "Informe um e-mail válido."
	portalEmailRegex = regexp.MustCompile(`(?i)^[\w.-]+@([\w-]+\.)+[\w-]{2,}$`)

	requiredText = "{0} é obrigatório."
	invalidText  = "{0} inválido."
	gtText       = "{0} deve ser maior que {1}."
	minItemsText = "Adicione pelo menos um item."

	labelsMu sync.RWMutex
	labels   = map[string]string{
		"name":     "Nome",
		"email":    "E-mail",
		"status":   "Status",
		"password": "O campo senha",
		"title":    "Título",
		"weight":   "Peso",
		"capacity": "Capacidade",
		"classId":  "Turma",
	}
)

// NewTranslator returns the translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, requiredText, true)

	_ = validate.RegisterValidation(portalEmailTag, portalEmailValidation)
	RegisterCustomTranslation(validate, translator, portalEmailTag, portalEmailText, true)

	RegisterCustomTranslation(validate, translator, "required", requiredText, true)
	RegisterCustomTranslation(validate, translator, "oneof", invalidText, true)
	RegisterCustomTranslation(validate, translator, "gt", gtText, true)
	RegisterCustomTranslation(validate, translator, "min", minItemsText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// The text may reference the field label as {0} and the tag param as {1}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, FieldLabel(fe), fe.Param())
			return s
		},
	)
}

// RegisterFieldLabel sets the label used in messages for a field.
// key is either a JSON field name ("name") or a struct-qualified one ("NewClass.name").
func RegisterFieldLabel(key, label string) {
	labelsMu.Lock()
	defer labelsMu.Unlock()
	labels[key] = label
}

// FieldLabel returns the human label of the field that failed validation.
func FieldLabel(fe validator.FieldError) string {
	labelsMu.RLock()
	defer labelsMu.RUnlock()

	field := fe.Field()
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	if ns := fe.Namespace(); ns != "" {
		strct := strings.SplitN(ns, ".", 2)[0]
		if l, ok := labels[strct+"."+field]; ok {
			return l
		}
	}
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// TranslateValidationErrors turns validator errors into FieldErrors keyed by the field's path without the
// top-level struct name (e.g. "criteria[1].name").
func TranslateValidationErrors(vErrs validator.ValidationErrors, translator ut.Translator) []FieldError {
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		field := vErr.Field()
		if parts := strings.SplitN(vErr.Namespace(), ".", 2); len(parts) == 2 {
			field = parts[1]
		}
		flds = append(flds, FieldError{Field: field, Error: vErr.Translate(translator)})
	}
	return flds
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// portalEmailValidation checks the e-mail shape accepted by the portal forms.
func portalEmailValidation(fl validator.FieldLevel) bool {
	return portalEmailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// IsValidEmail reports whether s has the e-mail shape accepted by the portal forms.
func IsValidEmail(s string) bool {
	return portalEmailRegex.MatchString(strings.TrimSpace(s))
}
