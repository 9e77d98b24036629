//go:build integration_pg
// +build integration_pg

// Package pgtest starts a shared Postgres container for integration tests
// and applies the embedded migrations once per test process
package pgtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"agora/db"
	"agora/internal/platform/store"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// DSN returns the DSN of the shared migrated database, starting the
// container on first use. The container lives until the process exits
func DSN(t *testing.T) string {
	t.Helper()
	once.Do(func() {
		sharedDSN, initErr = startAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("pgtest: %v", initErr)
	}
	return sharedDSN
}

// Open returns a Store connected to the shared database,
// closed automatically on test cleanup
func Open(t *testing.T) *store.Store {
	t.Helper()
	dsn := DSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		AppName: "agora-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, ConnectRetries: 3},
	})
	if err != nil {
		t.Fatalf("pgtest open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func startAndMigrate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "agora_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/agora_test?sslmode=disable", host, mapped.Port())

	if err := store.Migrate(ctx, dsn, db.Migrations(), zerolog.Nop()); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	return dsn, nil
}
