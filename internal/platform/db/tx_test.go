package db

import (
	"context"
	"testing"
)

func TestWithTx_RequiresTenantConnection(t *testing.T) {
	_, _, err := WithTx(context.Background())
	if err == nil {
		t.Fatal("expected error when the context carries no connection")
	}
	if err.Error() != "no database connection in context" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTxFromContext(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from bare context")
	}
	ctx := context.WithValue(context.Background(), DBTxKey, "not-a-tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil tx for wrong-typed value")
	}
}
