package serverutils

import (
	"fmt"

	"ai-chatspace-gateway/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first failure
// into a validation error the error handler maps to 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return apperr.Validation(fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag()))
		}
		return apperr.Validation(err.Error())
	}
	return nil
}
