package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks a request body's validate tags before it is sent.
func validateRequest(request interface{}) error {
	if request == nil {
		return fmt.Errorf("%w: request body is required", constants.ErrInvalidRequest)
	}

	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %w", constants.ErrInvalidRequest, err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		problems = append(problems, describeFieldError(fieldErr))
	}

	return fmt.Errorf("%w: %s", constants.ErrInvalidRequest, strings.Join(problems, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fieldErr.Tag())
	}
}

// resourcePath joins a collection path and an escaped id.
func resourcePath(collection, id string, suffix ...string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", constants.ErrIDRequired
	}

	parts := append([]string{collection, url.PathEscape(id)}, suffix...)

	return strings.Join(parts, "/"), nil
}

// decode unmarshals a response body; a body that does not match the target
// shape is reported as a parse error.
func decode(resp *http.Response, target interface{}, what string) error {
	err := json.Unmarshal(resp.Body, target)
	if err != nil {
		return &console.APIError{
			Kind:       console.ErrorKindParseError,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("parsing %s response: %v", what, err),
			Body:       resp.Body,
			Err:        err,
		}
	}

	return nil
}

func queryValues(params *console.QueryParams) url.Values {
	if params == nil {
		return nil
	}

	return params.ToValues()
}
