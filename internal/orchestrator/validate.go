package orchestrator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"feepay/internal/ledger"
	"feepay/internal/receipt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("fee_category", func(fl validator.FieldLevel) bool {
		return ledger.FeeCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return ledger.Method(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("receipt_text", func(fl validator.FieldLevel) bool {
		return receipt.Printable(fl.Field().String())
	})

	return v
}

func (s *Service) check(req any) *ValidationError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return newValidationError("request", err.Error())
	}

	verr := &ValidationError{Fields: make(map[string]string, len(validationErrs))}
	for _, fe := range validationErrs {
		verr.Fields[fe.Field()] = message(fe)
	}
	return verr
}

func checkAmount(d decimal.Decimal) string {
	switch {
	case !d.IsPositive():
		return "must be greater than 0"
	case !d.Equal(d.Round(2)):
		return "must have at most 2 decimal places"
	case d.GreaterThan(ledger.MaxAmount):
		return "must be at most " + ledger.MaxAmount.StringFixed(2)
	}
	return ""
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "fee_category":
		return "must be one of: " + joinValues(ledger.FeeCategories)
	case "payment_method":
		return "must be one of: " + joinValues(ledger.Methods)
	case "receipt_text":
		return "contains characters that cannot be printed on a receipt"
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
