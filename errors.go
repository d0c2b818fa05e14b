package accounts

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCreds is the text code for undifferentiated login failures.
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeDuplicateEmail is the text code for signup conflicts.
	TextCodeDuplicateEmail = "DUPLICATE_EMAIL"
	// TextCodeInvalidVerification is the text code for verification lookup misses.
	TextCodeInvalidVerification = "INVALID_VERIFICATION_TOKEN"
	// TextCodeAlreadyVerified is the text code for resend attempts on verified accounts.
	TextCodeAlreadyVerified = "ALREADY_VERIFIED"
	// TextCodeAccountNotFound is the text code for account lookup misses.
	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	// TextCodeTokenExpired is the text code for expired session tokens.
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed is the text code for malformed session tokens.
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is returned by Login for both unknown accounts and
// wrong passwords. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateEmail is returned by Signup when the email is already registered.
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrInvalidVerificationToken is returned when no account holds the token.
var ErrInvalidVerificationToken = goerrors.New("invalid or expired verification token", goerrors.CategoryNotFound).
	WithTextCode(TextCodeInvalidVerification).
	WithCode(goerrors.CodeNotFound)

// ErrAccountNotFound is returned by resend when the email is unknown.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrAlreadyVerified is returned by resend when the account completed verification.
var ErrAlreadyVerified = goerrors.New("email already verified", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(goerrors.CodeConflict)

// ErrNoEmptyString is returned when a required hashing argument is missing.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidHash is returned when a stored hash is not structurally valid bcrypt.
var ErrInvalidHash = goerrors.New("hash is not a valid bcrypt hash", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed.
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToMapClaims is returned when token claims cannot be decoded.
var ErrUnableToMapClaims = goerrors.New("unable to map claims", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
