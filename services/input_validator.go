package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/errs"
)

var (
	usernamePattern   = regexp.MustCompile(`^[\w.@+-]{1,150}$`)
	forbiddenUsername = map[string]bool{"me": true, "user": true, "admin": true, "moderator": true}
)

// inputValidator checks the shape of request payloads through `validate`
// struct tags. Checks that need the store live in validation.go.
type inputValidator struct {
	validate *validator.Validate
	limits   config.Limits
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		return usernamePattern.MatchString(username) && !forbiddenUsername[strings.ToLower(username)]
	})
	return &inputValidator{validate: v}
}

// newRecipeValidator adds the configurable cooking time and amount bounds
func newRecipeValidator(limits config.Limits) *inputValidator {
	iv := newInputValidator()
	iv.limits = limits
	mustRegister(iv.validate, "cooking_time", func(fl validator.FieldLevel) bool {
		minutes := int(fl.Field().Int())
		return minutes >= limits.MinCookingTime && minutes <= limits.MaxCookingTime
	})
	mustRegister(iv.validate, "amount", func(fl validator.FieldLevel) bool {
		amount := int(fl.Field().Int())
		return amount >= limits.MinAmount && amount <= limits.MaxAmount
	})
	return iv
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates s and reports the first failing field as a validation error
func (iv *inputValidator) Struct(s interface{}) error {
	return iv.translate("", iv.validate.Struct(s))
}

// Var validates a single value that is reported under field
func (iv *inputValidator) Var(field string, value interface{}, tag string) error {
	return iv.translate(field, iv.validate.Var(value, tag))
}

func (iv *inputValidator) translate(field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewInternalErrorWithCause("failed to validate input", err)
	}

	fe := fieldErrs[0]
	if field == "" {
		field = payloadField(fe)
	}
	return errs.NewValidationError(field, iv.message(field, fe))
}

// payloadField maps "RecipeInput.ingredients[0].amount" to "ingredients"
func payloadField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

func (iv *inputValidator) message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return "enter a valid email address"
	case "username":
		return "username may contain only letters, digits and @/./+/-/_ (at most 150) and must not be a reserved name"
	case "unique":
		return field + " must not contain duplicates"
	case "cooking_time":
		return fmt.Sprintf("cooking time must be between %d and %d minutes", iv.limits.MinCookingTime, iv.limits.MaxCookingTime)
	case "amount":
		return fmt.Sprintf("ingredient amounts must be between %d and %d", iv.limits.MinAmount, iv.limits.MaxAmount)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}
