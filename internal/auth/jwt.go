package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const receiptAudience = "receipt"

type receiptClaims struct {
	PaymentID string `json:"pid"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	secret string
	iss    string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTAuthenticator(secret, iss string, ttl time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, iss: iss, ttl: ttl, now: time.Now}
}

func (a *JWTAuthenticator) GenerateReceiptToken(paymentID string) (string, error) {
	if paymentID == "" {
		return "", errors.New("payment id is required")
	}
	now := a.now()
	claims := receiptClaims{
		PaymentID: paymentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   paymentID,
			Issuer:    a.iss,
			Audience:  jwt.ClaimStrings{receiptAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateReceiptToken returns the payment id the token grants access to.
func (a *JWTAuthenticator) ValidateReceiptToken(token string) (string, error) {
	var claims receiptClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(a.iss),
		jwt.WithAudience(receiptAudience),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.PaymentID == "" || claims.PaymentID != claims.Subject {
		return "", ErrInvalidToken
	}
	return claims.PaymentID, nil
}
