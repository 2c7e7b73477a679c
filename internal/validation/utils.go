// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags
// and extracts validation errors into a format the client can
// understand
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FailedMessage is the top-level message of every validation failure.
const FailedMessage = "Validation failed"

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,email"`)
//   - Implement Validate() error that runs validation.Struct(req)
//   - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// MessageProvider is implemented by payloads that carry their own
// human-readable messages.
//
// Keys are "<field>.<tag>" for validator failures (e.g. "email.email") and
// "<field>" alone for type mismatches found while binding.
type MessageProvider interface {
	ValidationMessages() map[string]string
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return FailedMessage
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the struct from path params, query (GET/DELETE) and body.
//  2. payload.Validate() applies validation rules.
//  3. Failures come back as *errs.HTTPError (400) with field-level errors.
//
// A type mismatch does not stop validation: the decoder keeps filling the
// other fields, so their rule failures are reported alongside it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	messages := messagesOf(payload)

	if err := c.Bind(payload); err != nil {
		field, ok := mismatchedField(c, payload, err)
		if !ok {
			return bindError(err)
		}

		fieldErrors := []errs.FieldError{{Field: field, Message: typeMessage(field, messages)}}
		for _, fe := range validateStruct(payload, messages) {
			if fe.Field != field {
				fieldErrors = append(fieldErrors, fe)
			}
		}
		return errs.NewBadRequestError(FailedMessage, true, nil, fieldErrors, nil)
	}

	if fieldErrors := validateStruct(payload, messages); fieldErrors != nil {
		return errs.NewBadRequestError(FailedMessage, true, nil, fieldErrors, nil)
	}

	return nil
}

func messagesOf(payload Validatable) map[string]string {
	if mp, ok := payload.(MessageProvider); ok {
		return mp.ValidationMessages()
	}
	return nil
}

// mismatchedField names the field whose value had the wrong type, if err
// is such a failure.
//
// The JSON decoder reports embedded payloads with their Go path
// ("BrandPayload.rating"); only the last segment is the client's field.
func mismatchedField(c echo.Context, payload any, err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field[strings.LastIndex(typeErr.Field, ".")+1:], true
	}

	var bindingErr *echo.BindingError
	if errors.As(err, &bindingErr) && bindingErr.Field != "" {
		return bindingErr.Field, true
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if field := queryFieldFor(c, payload, numErr.Num); field != "" {
			return field, true
		}
	}

	return "", false
}

// bindError turns any other binding failure (malformed JSON, bad content
// type) into a 400 with a single message.
func bindError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.NewBadRequestError("Malformed JSON body", false, nil, nil, nil)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return errs.NewBadRequestError(msg, false, nil, nil, nil)
		}
	}

	return errs.NewBadRequestError("Invalid request", false, nil, nil, nil)
}

// queryFieldFor finds the query-tagged field whose raw value failed to parse.
func queryFieldFor(c echo.Context, payload any, raw string) string {
	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}

	params := c.QueryParams()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("query")
		if name == "" {
			continue
		}
		for _, v := range params[name] {
			if v == raw {
				return name
			}
		}
	}
	return ""
}

func typeMessage(field string, messages map[string]string) string {
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "has an invalid type"
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable, messages map[string]string) []errs.FieldError {
	if err := v.Validate(); err != nil {
		return extractValidationError(err, messages)
	}
	return nil
}

func extractValidationError(err error, messages map[string]string) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field:   ce.Field,
				Message: ce.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "", Message: err.Error()}}
	}

	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe, messages),
		})
	}

	return fieldErrors
}

// fieldMessage prefers a payload supplied message and falls back to a
// generic one built from the tag.
func fieldMessage(fe validator.FieldError, messages map[string]string) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "is required"

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))

	case "email":
		return "must be a valid email address"

	case "url":
		return "must be a valid URL"

	case "brandname":
		return "must contain only letters, numbers and spaces"

	case "notfutureyear":
		return fmt.Sprintf("must not be later than %d", CurrentYear())

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
	}
}
