package accounts

import (
	"time"

	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionObject is the decoded view of a session token handed to HTTP
// handlers once the middleware has validated the raw string.
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	Email          string     `json:"email,omitempty"`
	IsVerified     bool       `json:"is_verified"`
	Issuer         string     `json:"issuer,omitempty"`
	Groups         []string   `json:"groups,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetEmail() string {
	return s.Email
}

func (s *SessionObject) GetIsVerified() bool {
	return s.IsVerified
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToMapClaims
	}

	var groups []string
	var issuer string
	if ic, ok := claims.(*IdentityClaims); ok {
		groups = append(groups, ic.Groups...)
		issuer = ic.RegisteredClaims.Issuer
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Email:          claims.AccountEmail(),
		IsVerified:     claims.Verified(),
		Issuer:         issuer,
		Groups:         groups,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
