//go:build integration_pg
// +build integration_pg

package store_test

import (
	"context"
	"testing"
	"time"

	"agora/internal/platform/store"
	"agora/internal/platform/store/pgtest"
)

func TestStoreGuardAndQueries(t *testing.T) {
	s := pgtest.Open(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Guard(ctx); err != nil {
		t.Fatalf("guard: %v", err)
	}

	one, err := store.Scalar[int](ctx, s.PG, "SELECT 1")
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if one != 1 {
		t.Fatalf("got %d", one)
	}

	// migrations applied: the agents table exists
	n, err := store.Scalar[int](ctx, s.PG, "SELECT count(*) FROM agents")
	if err != nil {
		t.Fatalf("agents count: %v", err)
	}
	if n < 0 {
		t.Fatalf("count %d", n)
	}
}

func TestStoreTxRollback(t *testing.T) {
	s := pgtest.Open(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	boom := context.Canceled
	err := s.PG.Tx(ctx, func(q store.RowQuerier) error {
		if _, e := q.Exec(ctx, `CREATE TEMPORARY TABLE tx_probe (id int)`); e != nil {
			return e
		}
		return boom
	})
	if err == nil {
		t.Fatal("tx should surface the callback error")
	}
}
