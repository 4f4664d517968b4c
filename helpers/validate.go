package helpers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct tags and reports the first failing field path.
// Nested txn arrays are covered via the dive tag on the request structs.
func Validate(s any) (string, bool) {
	err := validate.Struct(s)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Namespace(), false
	}
	return "", false
}
