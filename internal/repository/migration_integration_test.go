//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usuarios-api/usuarios/internal/testutil"
)

func TestIntegrationSyncSchema_CreatesUsuariosTable(t *testing.T) {
	ctx, repo := newTestEnv(t)

	exists, err := tableExists(ctx, repo.Pool(), "Usuarios")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if !exists {
		t.Fatal(`table "Usuarios" should exist after SyncSchema`)
	}

	for _, column := range []string{"id", "nombre", "email", "password", "activo", "createdAt", "updatedAt"} {
		t.Run(column, func(t *testing.T) {
			ok, err := columnExists(ctx, repo.Pool(), "Usuarios", column)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !ok {
				t.Errorf("column %q should exist", column)
			}
		})
	}
}

func TestIntegrationSyncSchema_Idempotent(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, testutil.UniqueEmail("sync"))
	if err := repo.CreateUsuario(ctx, u); err != nil {
		t.Fatalf("CreateUsuario failed: %v", err)
	}

	// A second sync must not drop existing rows.
	if err := repo.SyncSchema(ctx, nil); err != nil {
		t.Fatalf("second SyncSchema failed: %v", err)
	}

	if _, err := repo.GetUsuarioByID(ctx, u.ID); err != nil {
		t.Fatalf("row lost after re-sync: %v", err)
	}
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// newTestEnv connects to TEST_DATABASE_URL, resets the schema and returns
// a synced repository. Tests are serialized through an advisory lock.
func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	repo := NewFromPool(pool)
	if err := repo.SyncSchema(ctx, nil); err != nil {
		t.Fatalf("sync schema: %v", err)
	}

	return ctx, repo
}
