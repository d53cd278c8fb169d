package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

// Validator collects field errors of a request.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the errors map doesn't contain any entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map (so long as no entry already exists for the given key).
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message to the map only if a validation check is not 'ok'.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Struct runs `validate` struct tags of s and records failures under their json names.
func (v *Validator) Struct(s any) {
	err := engine().Struct(s)
	if err == nil {
		return
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("body", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), message(fe))
	}
}

// PermittedValue returns true if a specific value is in a list of permitted values.
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

var (
	once     sync.Once
	validate *playground.Validate
)

func engine() *playground.Validate {
	once.Do(func() {
		validate = playground.New(playground.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "latitude":
		return "must be between -90 and 90"
	case "longitude":
		return "must be between -180 and 180"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("must not be more than %s characters long", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "excluded_with":
		return fmt.Sprintf("must not be combined with %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %q rule", fe.Tag())
	}
}
