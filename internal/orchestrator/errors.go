package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"feepay/internal/ledger"
	"feepay/internal/payer"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrPaymentNotFound = ledger.ErrNotFound
	ErrPayerNotFound   = payer.ErrNotFound
	// ErrMissingConfirmation means a confirmation carried neither a complete
	// gateway callback nor a transaction reference.
	ErrMissingConfirmation = fmt.Errorf("%w: payment verification data missing", ErrValidation)
)

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
