package accounts_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	accounts "github.com/oppexai/go-accounts"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// fakeRepoManager runs transaction bodies inline against a zero bun.Tx so
// the repository calls inside the closure hit the Accounts mock.
type fakeRepoManager struct {
	accounts accounts.Accounts
}

func (f *fakeRepoManager) Accounts() accounts.Accounts { return f.accounts }

func (f *fakeRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return fn(ctx, tx)
}

func (f *fakeRepoManager) Validate() error { return nil }
func (f *fakeRepoManager) MustValidate()   {}

// MockAccounts overrides the repository methods the lifecycle touches. The
// embedded interface covers the rest; an unstubbed call panics, which is the
// failure mode we want in tests.
type MockAccounts struct {
	mock.Mock
	accounts.Accounts
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) ExistsByEmailTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	args := m.Called(ctx, tx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) MarkVerifiedTx(ctx context.Context, tx bun.IDB, token string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) ReplaceVerificationTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

// MockLifecycle implements accounts.Lifecycler
type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Signup(ctx context.Context, email, password string) (*accounts.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockLifecycle) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockLifecycle) ResendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockLifecycle) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockLifecycle) SessionFromToken(token string) (accounts.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(accounts.Session), args.Error(1)
}

// MockNotifier implements accounts.Notifier. The sent channel lets tests wait
// for the fire-and-forget dispatch goroutine.
type MockNotifier struct {
	mock.Mock
	sent chan struct{}
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{sent: make(chan struct{}, 8)}
}

func (m *MockNotifier) SendVerification(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	if m.sent != nil {
		m.sent <- struct{}{}
	}
	return args.Error(0)
}

// MockTokenService implements accounts.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(account *accounts.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *accounts.IdentityClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (accounts.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(accounts.AuthClaims), args.Error(1)
}

// MockLogger implements accounts.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type testConfig struct {
	signingKey      string
	issuer          string
	tokenExpiration int
	contextKey      string
	authScheme      string
}

// notFoundErr mirrors what the bun repository returns on a lookup miss.
func notFoundErr() error {
	return repository.NewRecordNotFound()
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetContextKey() string   { return c.contextKey }
func (c testConfig) GetAuthScheme() string   { return c.authScheme }
