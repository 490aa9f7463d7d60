package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tricitytutors/backend/core"
)

var (
	roleTag  = "role"
	roleText = "unknown role"
)

// InitValidators registers user-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation only allows a member of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range AllRoles {
		if val == r {
			return true
		}
	}
	return false
}
