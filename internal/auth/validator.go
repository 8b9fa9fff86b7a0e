package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator validates HS256 JWT tokens issued by the platform's identity
// service.
type Validator struct {
	secret    []byte
	issuer    string
	clockSkew time.Duration
}

// NewValidator creates a validator for tokens signed with the shared secret.
func NewValidator(secret []byte, issuer string, clockSkew time.Duration) *Validator {
	return &Validator{
		secret:    secret,
		issuer:    issuer,
		clockSkew: clockSkew,
	}
}

// Validate parses and validates a token and returns its claims.
func (v *Validator) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithLeeway(v.clockSkew), jwt.WithIssuer(v.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(AuthFailureTokenExpired, "token expired", err)
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, NewAuthError(AuthFailureInvalidSignature, "invalid signature", err)
		}
		if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
			return nil, NewAuthError(AuthFailureInvalidIssuer, "invalid issuer", err)
		}
		return nil, NewAuthError(AuthFailureUnknown, "failed to parse token", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, NewAuthError(AuthFailureUnknown, fmt.Sprintf("invalid token: valid=%v", token.Valid), nil)
	}

	if err := claims.Validate(); err != nil {
		return nil, NewAuthError(AuthFailureUnknown, "invalid claims", err)
	}

	return claims, nil
}
