package accounts

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// RepositoryManager aggregates the stores the lifecycle needs and scopes
// multi-step mutations to a single transaction.
type RepositoryManager interface {
	Accounts() Accounts
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}
