package v1

import (
	"errors"
	"reflect"
	"strings"

	"github.com/duynhne/profile-service/middleware"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// RequestValidator validates request payloads and reports per-field failures
// as a middleware.ValidationError, which the validation error handler turns
// into a structured 422 response.
type RequestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewRequestValidator constructs a RequestValidator with English failure
// messages. Property names are taken from json struct tags so responses match
// the request payload shape.
func NewRequestValidator() (*RequestValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	return &RequestValidator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// ValidateStruct validates payload against its validate tags. On rule
// failures it returns a *middleware.ValidationError naming target, with
// failures in the order the rules reported them (duplicate properties stay).
// Any other validator error is returned as-is.
func (v *RequestValidator) ValidateStruct(target string, payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make([]middleware.ValidationFailure, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, middleware.ValidationFailure{
			Property: fe.Field(),
			Message:  fe.Translate(v.translator),
		})
	}

	return middleware.NewValidationError(target, failures...)
}
