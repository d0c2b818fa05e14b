package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// Lifecycle orchestrates signup, email verification, resend, and login.
// It owns the transition rules; persistence and notification stay behind
// RepositoryManager and Notifier.
type Lifecycle struct {
	repo          RepositoryManager
	tokens        TokenService
	notifier      Notifier
	logger        Logger
	useHashID     bool
	opTimeout     time.Duration
	notifyTimeout time.Duration
}

var _ Lifecycler = (*Lifecycle)(nil)

// NewLifecycle returns a new account Lifecycle. The signing key comes from
// Config and is read once here; it is never mutated afterwards.
func NewLifecycle(repo RepositoryManager, notifier Notifier, opts Config) *Lifecycle {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Lifecycle{
		repo:          repo,
		tokens:        tokens,
		notifier:      notifier,
		logger:        defLogger{},
		opTimeout:     time.Second * 10,
		notifyTimeout: time.Second * 30,
	}
}

func (s *Lifecycle) WithLogger(logger Logger) *Lifecycle {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the default token service.
func (s *Lifecycle) WithTokenService(tokens TokenService) *Lifecycle {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithDeterministicIDs derives account IDs from the email address instead of
// generating random UUIDs. Useful for fixtures and cross-system joins.
func (s *Lifecycle) WithDeterministicIDs() *Lifecycle {
	s.useHashID = true
	return s
}

// TokenService returns the TokenService instance used by this Lifecycle
func (s *Lifecycle) TokenService() TokenService {
	return s.tokens
}

// Signup registers a new unverified account and dispatches the verification
// email. The duplicate check and the insert share one transaction; the
// store's unique constraint on email remains the final authority under
// concurrent signups. Signup succeeds once the account is durably persisted,
// notifier failures are logged and absorbed.
func (s *Lifecycle) Signup(ctx context.Context, email, password string) (*Account, error) {
	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := s.repo.Accounts().ExistsByEmailTx(ctx, tx, email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		if exists {
			return ErrDuplicateEmail
		}

		hash, err := HashPassword(password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		token := NewVerificationToken()

		account.Email = email
		account.PasswordHash = hash
		account.EmailVerified = false
		account.VerificationToken = &token

		if s.useHashID {
			if id, err := hashid.NewUUID(email); err == nil {
				account.ID = id
			}
		}

		if account, err = s.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	s.dispatchVerification(account.Email, derefToken(account.VerificationToken))

	return account, nil
}

// VerifyEmail consumes a verification token: the owning account moves to
// verified and the token is cleared. An account that is already verified is
// a no-op success, so a stale link re-visited after success does not error.
// A token that resolves to no account fails with ErrInvalidVerificationToken.
func (s *Lifecycle) VerifyEmail(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := s.repo.Accounts().GetByVerificationTokenTx(ctx, tx, token)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrInvalidVerificationToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
		}

		if account.EmailVerified {
			s.logger.Info("email already verified", "email", account.Email)
			return nil
		}

		if _, err := s.repo.Accounts().MarkVerifiedTx(ctx, tx, token); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification failed")
	}

	return nil
}

// ResendVerification rotates the pending token and dispatches a fresh
// verification email. Verified accounts fail with ErrAlreadyVerified and are
// not mutated.
func (s *Lifecycle) ResendVerification(ctx context.Context, email string) error {
	token := NewVerificationToken()

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := s.repo.Accounts().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}

		if account.EmailVerified {
			return ErrAlreadyVerified
		}

		if _, err := s.repo.Accounts().ReplaceVerificationTokenTx(ctx, tx, account.ID, token); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to rotate verification token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "resend verification failed")
	}

	s.dispatchVerification(email, token)

	return nil
}

// Login authenticates the credential pair and returns a signed session
// token. A full bcrypt verification runs even when the account does not
// exist, against DummyPasswordHash, so unknown-email and wrong-password
// failures share latency and error shape. Unverified accounts may log in;
// the token carries isVerified=false for downstream gating.
func (s *Lifecycle) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil && !goerrors.IsNotFound(err) {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during login")
	}

	hashToVerify := DummyPasswordHash
	if err == nil && account != nil {
		hashToVerify = account.PasswordHash
	} else {
		account = nil
	}

	// The comparison must run on every path. Do not fold into an early return.
	cmpErr := ComparePasswordAndHash(password, hashToVerify)

	if account == nil || cmpErr != nil {
		s.logger.Warn("login failed", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token")
	}

	s.logger.Info("login successful", "email", email)
	return token, nil
}

// SessionFromToken validates a raw session token and decodes it into a
// Session for handlers that need the current account.
func (s *Lifecycle) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// dispatchVerification hands the token to the notifier on a detached
// goroutine. The caller never waits on it and never sees its error.
func (s *Lifecycle) dispatchVerification(email, token string) {
	if s.notifier == nil || token == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.SendVerification(ctx, email, token); err != nil {
			s.logger.Error("verification email failed", "email", email, "error", err)
		}
	}()
}

func derefToken(token *string) string {
	if token == nil {
		return ""
	}
	return *token
}
