// Package validate wraps go-playground/validator with JSON field naming and
// readable per-field messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validator checks request payloads and stored records.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	// notblank on an optional pointer: nil passes, a blank value does not.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Validator{validator: validate}
}

// Struct validates s and returns a *Error listing every failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	return newError(verrs)
}

// Error maps a JSON field path to a message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(msgs, ", ")
}

func newError(errs validator.ValidationErrors) *Error {
	fields := make(map[string]string, len(errs))

	for _, err := range errs {
		path := fieldPath(err.Namespace())

		switch err.Tag() {
		case "required":
			fields[path] = fmt.Sprintf("%s is required", err.Field())
		case "notblank":
			fields[path] = fmt.Sprintf("%s must not be blank", err.Field())
		case "slug":
			fields[path] = "slug must contain only lowercase letters, numbers and hyphens"
		default:
			fields[path] = fmt.Sprintf("%s is invalid", err.Field())
		}
	}

	return &Error{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return ns
}
