package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	accounts "github.com/oppexai/go-accounts"
	"github.com/uptrace/bun"
)

type mngr struct {
	db       *bun.DB
	accounts accounts.Accounts
}

func NewRepositoryManager(db *bun.DB) accounts.RepositoryManager {
	return &mngr{
		db:       db,
		accounts: accounts.NewAccountsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() accounts.Accounts {
	return m.accounts
}
