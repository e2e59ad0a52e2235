package validation

import (
	"errors"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterPasswordRule installs the userpassword binding rule on gin's
// validator engine: a password must contain an uppercase letter, a lowercase
// letter, and a digit or symbol. Length is enforced separately by min/max
// tags.
func RegisterPasswordRule() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not *validator.Validate")
	}
	return v.RegisterValidation("userpassword", passwordStrength)
}

func passwordStrength(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigitOrSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasDigitOrSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigitOrSymbol
}
