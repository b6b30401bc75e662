package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags and reports every failing
// field by its namespace (e.g. "Dataset.Users[2].ID").
func Struct(v any) error {
	if v == nil {
		return errors.New("validation: nil value")
	}
	return formatValidationError(validate.Struct(v))
}

// formatValidationError turns validator errors into one readable error per field.
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Errorf("%s: field is required", field))
		case "min":
			msgs = append(msgs, fmt.Errorf("%s: must be at least %s", field, param))
		case "max":
			msgs = append(msgs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "oneof":
			msgs = append(msgs, fmt.Errorf("%s: must be one of [%s]", field, param))
		case "url", "http_url":
			msgs = append(msgs, fmt.Errorf("%s: %q is not a valid URL", field, e.Value()))
		default:
			msgs = append(msgs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}

	return errors.Join(msgs...)
}
