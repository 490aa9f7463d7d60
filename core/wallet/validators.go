package wallet

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tricitytutors/backend/core"
)

var (
	purposeTag  = "purpose"
	purposeText = "unknown spend purpose"
)

// InitValidators registers wallet-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(purposeTag, purposeValidation)
	core.RegisterCustomTranslation(validate, translator, purposeTag, purposeText)
}

// purposeValidation only allows a member of SpendPurposes.
func purposeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, p := range SpendPurposes {
		if val == p {
			return true
		}
	}
	return false
}
