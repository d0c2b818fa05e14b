package accounts

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerificationStatus tracks how far an account got through email verification.
type VerificationStatus = string

const (
	// VerificationPending means the account holds a live verification token.
	VerificationPending VerificationStatus = "pending"
	// VerificationComplete is terminal; the token has been consumed.
	VerificationComplete VerificationStatus = "verified"
)

// ErrInvalidVerificationTransition is returned when a transition would move a
// verified account back to pending.
var ErrInvalidVerificationTransition = goerrors.New("invalid verification state transition", goerrors.CategoryConflict).
	WithTextCode("INVALID_VERIFICATION_TRANSITION").
	WithCode(goerrors.CodeConflict)

// Account is the durable identity record. Email matching is exact; callers
// that want case-insensitive addresses must normalize before storage.
type Account struct {
	bun.BaseModel     `bun:"table:accounts,alias:acc"`
	ID                uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email             string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash      string     `bun:"password_hash,notnull" json:"-"`
	EmailVerified     bool       `bun:"is_verified,notnull,default:false" json:"is_verified"`
	VerificationToken *string    `bun:"verification_token,nullzero,unique" json:"-"`
	CreatedAt         *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// VerificationStatus derives the account's verification state.
func (a *Account) VerificationStatus() VerificationStatus {
	if a.EmailVerified {
		return VerificationComplete
	}
	return VerificationPending
}

// MarkVerified consumes the verification token and moves the account to the
// terminal verified state. Verifying twice is a no-op.
func (a *Account) MarkVerified() {
	a.EmailVerified = true
	a.VerificationToken = nil
	now := time.Now()
	a.UpdatedAt = &now
}

// RotateVerificationToken swaps in a fresh token while the account is still
// pending. Verified accounts never get a new token.
func (a *Account) RotateVerificationToken(token string) error {
	if a.EmailVerified {
		return ErrInvalidVerificationTransition
	}

	a.VerificationToken = &token
	now := time.Now()
	a.UpdatedAt = &now
	return nil
}

// NewVerificationToken generates an opaque single-use token. UUIDv4 draws
// from crypto/rand.
func NewVerificationToken() string {
	return uuid.NewString()
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
		record.UpdatedAt = &now
	}
}
