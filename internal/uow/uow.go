package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/postgres"
)

// AfterCommit runs once the enclosing transaction has committed. Hooks
// are for side effects that must not fire on rollback, like cache
// invalidation and pub/sub notifications.
type AfterCommit func(ctx context.Context)

// UoW groups repository calls into one transaction and defers their
// side effects until the commit lands.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn in a transaction with the store's default options.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn in a transaction. Hooks registered through after
// run in registration order, and only when the commit succeeded.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, tx, func(hook AfterCommit) {
			hooks = append(hooks, hook)
		})
	})
	if err != nil {
		return err
	}

	for _, hook := range hooks {
		hook(ctx)
	}

	return nil
}
