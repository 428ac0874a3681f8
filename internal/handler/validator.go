package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Validator checks request structs against their validate tags. Field
// names in errors are the JSON names clients send.
type Validator struct {
	validate *validator.Validate
}

var (
	sharedValidator *Validator
	validatorOnce   sync.Once
)

// GetValidator returns the process-wide validator
func GetValidator() *Validator {
	validatorOnce.Do(func() { sharedValidator = newValidator() })
	return sharedValidator
}

func newValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range map[string]validator.Func{
		"currency": validateCurrency,
		"spintype": validateSpinType,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return &Validator{validate: v}
}

// jsonFieldName reports the json tag name, or the Go name when untagged
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// fixed messages per tag; tags with a parameter are formatted below
var tagMessages = map[string]string{
	"required":    "This field is required",
	"currency":    "Invalid currency",
	"spintype":    "Must be free or premium",
	"excludesall": "Contains invalid characters",
}

// FormatValidationError maps each failing field to a client-facing message
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "max":
		return "Must be at most " + fe.Param()
	case "min":
		return "Must be at least " + fe.Param()
	}
	return "Invalid value"
}

func validateCurrency(fl validator.FieldLevel) bool {
	switch domain.Currency(strings.ToLower(fl.Field().String())) {
	case domain.CurrencyCoins, domain.CurrencyGems:
		return true
	}
	return false
}

func validateSpinType(fl validator.FieldLevel) bool {
	return domain.SpinType(strings.ToLower(fl.Field().String())).Valid()
}
