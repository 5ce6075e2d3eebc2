package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// DBTxKey stores an open transaction in the request context.
const DBTxKey contextKey = "db_tx"

// WithTx begins a transaction on the tenant connection held in the context
// and returns a child context carrying it. Repositories prefer the
// transaction over the plain connection, so multi-repo operations commit
// or roll back as one unit.
func WithTx(ctx context.Context) (context.Context, pgx.Tx, error) {
	conn := ConnFromContext(ctx)
	if conn == nil {
		return ctx, nil, errors.New("no database connection in context")
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return context.WithValue(ctx, DBTxKey, tx), tx, nil
}

// TxFromContext retrieves the transaction from context, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}
