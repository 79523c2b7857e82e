package router

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"store_rating/internal/policy"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 16
)

var registerOnce sync.Once

// RegisterValidators adds the "role" and "password" binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("role", validateRole)
		_ = v.RegisterValidation("password", validatePassword)
	})
}

func validateRole(fl validator.FieldLevel) bool {
	return policy.Role(fl.Field().String()).Valid()
}

func validatePassword(fl validator.FieldLevel) bool {
	return ValidPassword(fl.Field().String())
}

// ValidPassword requires 8 to 16 characters with at least one uppercase letter
// and one character that is neither a letter nor a digit.
func ValidPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < passwordMinLen || n > passwordMaxLen {
		return false
	}

	var upper, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && special
}
