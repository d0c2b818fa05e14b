package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the read side of an issued session token.
type AuthClaims interface {
	Subject() string
	UserID() string
	AccountEmail() string
	Verified() bool
	HasGroup(group string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// IdentityClaims is the claim set carried by every session token: issuer,
// upn/subject set to the account email, plus userId, email, isVerified and
// groups extensions.
type IdentityClaims struct {
	jwt.RegisteredClaims
	UPN        string   `json:"upn,omitempty"`
	UID        string   `json:"userId,omitempty"`
	Email      string   `json:"email,omitempty"`
	IsVerified bool     `json:"isVerified"`
	Groups     []string `json:"groups,omitempty"`
}

var _ AuthClaims = (*IdentityClaims)(nil)

// Subject returns the subject claim
func (c *IdentityClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account ID carried by the token
func (c *IdentityClaims) UserID() string {
	return c.UID
}

// AccountEmail returns the email claim, falling back to the subject
func (c *IdentityClaims) AccountEmail() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Subject()
}

// Verified reports the verification flag captured at issuance
func (c *IdentityClaims) Verified() bool {
	return c.IsVerified
}

// HasGroup checks membership in the groups claim
func (c *IdentityClaims) HasGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *IdentityClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time
func (c *IdentityClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
