// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/usuarios-api/usuarios/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops the usuarios table and the goose bookkeeping table so
// the next SyncSchema starts from scratch.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`DROP TABLE IF EXISTS "Usuarios"`,
		`DROP TABLE IF EXISTS goose_db_version`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema (%s): %w", stmt, err)
		}
	}
	return nil
}

var seq atomic.Uint64

// UniqueEmail returns an email address that is unique within the test run.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@test.local", prefix, time.Now().UnixNano(), seq.Add(1))
}

// NewTestUsuario builds a valid, unsaved usuario. The password is a fixed
// bcrypt-shaped string; tests that need a real hash should hash explicitly.
func NewTestUsuario(t testing.TB, email string) *model.Usuario {
	t.Helper()
	return &model.Usuario{
		Nombre:   "Usuario de prueba",
		Email:    email,
		Password: "$2a$10$7EqJtq98hPqEX7fNZaFWoO5rP8H5Yx0Yk4K8JrKqKfQ4xHcZb7bYe",
		Activo:   true,
	}
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}
