package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
)

// FailOnNthExecUoW wraps a unit of work and fails the Nth ExecContext call
// made inside a transaction, counting from 1. Reads are not counted.
type FailOnNthExecUoW struct {
	Inner  database.UnitOfWork
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx database.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failOnNthExec struct {
	database.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}

	return f.DBTX.ExecContext(ctx, query, args...)
}
