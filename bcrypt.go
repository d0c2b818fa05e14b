package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// DummyPasswordHash is a fixed cost-10 hash verified against when a login
// targets an unknown email, so the miss path costs the same as a mismatch.
const DummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword will generate a salted password hash. The empty string is a
// valid input; bcrypt embeds a random salt so repeated calls differ. Inputs
// beyond bcrypt's 72-byte cap are rejected by the underlying implementation.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. The comparison runs in constant time relative to the
// mismatch position.
func ComparePasswordAndHash(password, hash string) error {
	if hash == "" {
		return ErrNoEmptyString
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return goerrors.Wrap(err, ErrInvalidHash.Category, ErrInvalidHash.Message)
	}
	return nil
}

// CompareDummyHash burns a full bcrypt verification against DummyPasswordHash.
// Login uses it when no account exists so the two failure paths are
// indistinguishable by timing.
func CompareDummyHash(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(DummyPasswordHash), []byte(password))
}
