package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devhuddle/doubtboard/internal/apperror"
)

// validate is shared by all handlers; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New()

// validateStruct runs the request struct's validate tags and folds the
// first failure into a domain validation error, so writeError renders
// it as a 400 like any other.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return apperror.ValidationFailed("", "invalid request")
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(field, field+" is required")
	case "oneof":
		return apperror.ValidationFailed(field, field+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return apperror.ValidationFailed(field, field+" must be "+fe.Param()+" characters or less")
	default:
		return apperror.ValidationFailed(field, field+" is invalid")
	}
}
