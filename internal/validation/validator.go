// Package validation checks request bodies before they are sent, using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is a client-side validation failure. It is raised before any network call.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a validation error with a user-facing message
func New(message string) *Error {
	return &Error{Message: message}
}

// IsValidation returns true if err is a client-side validation failure
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Validator wraps go-playground/validator with friendly messages
type Validator struct {
	v *validator.Validate
}

var labels = map[string]string{
	"title":       "Title",
	"category_id": "Category",
	"status":      "Status",
	"rating":      "Rating",
	"name":        "Name",
	"field_type":  "Field type",
	"value":       "Value",
}

// NewValidator creates a validator reporting fields by their JSON names
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks s and returns an *Error describing the first failing field
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return fieldOrder(names[i]) < fieldOrder(names[j])
	})

	first := names[0]
	return &Error{
		Message: fmt.Sprintf("%s %s", label(first), fields[first]),
		Fields:  fields,
	}
}

func fieldOrder(name string) string {
	// title first so the most common mistake is the one reported
	if name == "title" || name == "name" {
		return "0"
	}
	return "1" + name
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		if e.Param() == "0" {
			return "is required"
		}
		return "must be greater than " + e.Param()
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	default:
		return "is invalid"
	}
}
