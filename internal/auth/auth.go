package auth

import "errors"

var ErrInvalidToken = errors.New("invalid or expired token")

// Authenticator issues and checks the signed tokens behind shareable
// receipt links.
type Authenticator interface {
	GenerateReceiptToken(paymentID string) (string, error)
	ValidateReceiptToken(token string) (string, error)
}
