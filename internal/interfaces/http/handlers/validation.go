package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Entity codes must be a single token with no whitespace. Case is
// normalized by the domain layer.
var entityCodePattern = regexp.MustCompile(`^\S+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("entitycode", func(fl validator.FieldLevel) bool {
			return entityCodePattern.MatchString(fl.Field().String())
		})
	}
}
