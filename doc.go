// Package accounts implements account onboarding and authentication:
// registration, email verification, and credential login with signed
// session tokens.
//
// Lifecycle:
//   - Accounts are created unverified with a single-use verification token.
//     Verifying consumes the token; the transition is one-way. Resend
//     rotates the token for accounts that are still pending.
//   - Login runs a bcrypt verification on every attempt, against a fixed
//     dummy hash when the email is unknown, so unknown-email and
//     wrong-password failures are indistinguishable by timing or shape.
//   - Unverified accounts may log in. Tokens carry an isVerified claim so
//     callers can gate features downstream; requiring verification before
//     login is a product decision this package deliberately does not make.
//
// Notification:
//   - Notifier implementations deliver the verification link best-effort.
//     The lifecycle dispatches them on a detached goroutine and absorbs
//     failures; a lost email never rolls back a persisted account.
package accounts
