package auth

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents structured JWT claims with scope checking
type AuthClaims interface {
	Subject() string
	UserID() string
	UserPhone() string
	UserScope() []string
	HasScope(scope string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The claim set is
// closed: decoding rejects tokens missing the subject or phone claims rather
// than trusting an open-ended map.
type JWTClaims struct {
	jwt.RegisteredClaims
	Phone string   `json:"phone,omitempty"`
	Scope []string `json:"scope,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID; the subject claim carries it
func (c *JWTClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// UserPhone returns the phone claim
func (c *JWTClaims) UserPhone() string {
	return c.Phone
}

// UserScope returns the capability strings embedded in the token
func (c *JWTClaims) UserScope() []string {
	return c.Scope
}

// HasScope checks if the token carries a specific capability
func (c *JWTClaims) HasScope(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// validateRequired enforces the closed claim shape after a successful parse.
func (c *JWTClaims) validateRequired() error {
	if c.RegisteredClaims.Subject == "" || c.Phone == "" {
		return ErrTokenMalformed
	}
	return nil
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
