package auth

import (
	"praxis-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims represents the custom JWT claims for the API
type CustomClaims struct {
	TenantID string `json:"tenantId"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Validate performs additional validation on custom claims
func (c *CustomClaims) Validate() error {
	if c.TenantID == "" {
		return jwt.ErrTokenInvalidClaims
	}
	if c.UserID == "" {
		return jwt.ErrTokenInvalidClaims
	}
	if !domain.Role(c.Role).IsValid() {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}

// Principal converts validated claims into the principal the evaluators
// consume.
func (c *CustomClaims) Principal() domain.Principal {
	return domain.Principal{
		ID:       c.UserID,
		Role:     domain.Role(c.Role),
		TenantID: c.TenantID,
	}
}
