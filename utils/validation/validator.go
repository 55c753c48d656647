package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CourseCodeRegex matches codes such as CSSE1001, MATH1061 or ENGG1100A.
var CourseCodeRegex = regexp.MustCompile(`^[A-Za-z]{2,8}[0-9]{3,4}[A-Za-z]?$`)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the planner's custom tags registered.
// Field names in errors use the json tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil function.
	_ = v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		return ValidateCourseCode(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateCourseCode reports whether code looks like a course code.
func ValidateCourseCode(code string) bool {
	return CourseCodeRegex.MatchString(strings.TrimSpace(code))
}

// FormatValidationErrors converts validation errors to a field -> message map.
// Nested fields are keyed by their namespace without the root struct, e.g.
// "components[0].type".
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}

		switch e.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("%s is required", e.Field())
		case "coursecode":
			errs[field] = fmt.Sprintf("%q is not a valid course code", e.Value())
		case "max":
			errs[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
		case "lte":
			errs[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		case "url":
			errs[field] = fmt.Sprintf("%s must be a valid URL", e.Field())
		default:
			errs[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}

	return errs
}

// SanitizeString removes null bytes and surrounding whitespace.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
