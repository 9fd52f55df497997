package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// SetupValidator configures the binding validator with JSON field names and
// the custom platformcode tag.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// platformcode validates marketplace platform identifiers
	_ = v.RegisterValidation("platformcode", func(fl validator.FieldLevel) bool {
		_, ok := marketplace.ParsePlatformCode(fl.Field().String())
		return ok
	})
}
