package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
)

var (
	statusTag  = "studentstatus"
	statusText = "Status inválido."

	msgNameRequired  = "Nome é obrigatório."
	msgEmailRequired = "E-mail é obrigatório."
)

// InitValidators registers the student validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText, true)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}
