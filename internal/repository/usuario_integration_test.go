//go:build integration

package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/usuarios-api/usuarios/internal/model"
	"github.com/usuarios-api/usuarios/internal/testutil"
)

func TestIntegrationUsuario_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, testutil.UniqueEmail("create"))
	if err := repo.CreateUsuario(ctx, u); err != nil {
		t.Fatalf("CreateUsuario failed: %v", err)
	}

	if u.ID == "" {
		t.Fatal("ID should be assigned")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("timestamps should be set by the database")
	}

	got, err := repo.GetUsuarioByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUsuarioByID failed: %v", err)
	}
	if got.Email != u.Email || got.Nombre != u.Nombre || got.Password != u.Password {
		t.Errorf("retrieved usuario mismatch: got %+v, want %+v", got, u)
	}
}

func TestIntegrationUsuario_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUsuario(t, email)
	if err := repo.CreateUsuario(ctx, first); err != nil {
		t.Fatalf("CreateUsuario (first) failed: %v", err)
	}

	second := testutil.NewTestUsuario(t, email)
	second.Nombre = "Otro"
	if err := repo.CreateUsuario(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	got, err := repo.GetUsuarioByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUsuarioByID failed: %v", err)
	}
	if got.Nombre != first.Nombre {
		t.Errorf("first usuario changed: %+v", got)
	}
}

func TestIntegrationUsuario_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("case")
	if err := repo.CreateUsuario(ctx, testutil.NewTestUsuario(t, email)); err != nil {
		t.Fatalf("CreateUsuario (first) failed: %v", err)
	}

	upper := testutil.NewTestUsuario(t, strings.ToUpper(email))
	if err := repo.CreateUsuario(ctx, upper); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for %q, got %v", upper.Email, err)
	}
}

func TestIntegrationUsuario_InvalidEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, "not-an-email")
	err := repo.CreateUsuario(ctx, u)
	if !model.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIntegrationUsuario_GetNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	_, err := repo.GetUsuarioByID(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	if !errors.Is(err, ErrUsuarioNotFound) {
		t.Errorf("expected ErrUsuarioNotFound, got %v", err)
	}
}

func TestIntegrationUsuario_ListInsertionOrder(t *testing.T) {
	ctx, repo := newTestEnv(t)

	var ids []string
	for _, prefix := range []string{"a", "b", "c"} {
		u := testutil.NewTestUsuario(t, testutil.UniqueEmail(prefix))
		if err := repo.CreateUsuario(ctx, u); err != nil {
			t.Fatalf("CreateUsuario failed: %v", err)
		}
		ids = append(ids, u.ID)
	}

	list, err := repo.ListUsuarios(ctx)
	if err != nil {
		t.Fatalf("ListUsuarios failed: %v", err)
	}
	if len(list) != len(ids) {
		t.Fatalf("expected %d usuarios, got %d", len(ids), len(list))
	}
	for i, u := range list {
		if u.ID != ids[i] {
			t.Errorf("list[%d].ID = %s, want %s", i, u.ID, ids[i])
		}
	}
}

func TestIntegrationUsuario_Update(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, testutil.UniqueEmail("update"))
	if err := repo.CreateUsuario(ctx, u); err != nil {
		t.Fatalf("CreateUsuario failed: %v", err)
	}
	created := u.UpdatedAt

	u.Nombre = "Renombrado"
	u.Activo = false
	if err := repo.UpdateUsuario(ctx, u); err != nil {
		t.Fatalf("UpdateUsuario failed: %v", err)
	}
	if u.UpdatedAt.Before(created) {
		t.Errorf("UpdatedAt moved backwards: %s < %s", u.UpdatedAt, created)
	}

	got, err := repo.GetUsuarioByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUsuarioByID failed: %v", err)
	}
	if got.Nombre != "Renombrado" || got.Activo {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestIntegrationUsuario_UpdateCollision(t *testing.T) {
	ctx, repo := newTestEnv(t)

	a := testutil.NewTestUsuario(t, testutil.UniqueEmail("a"))
	b := testutil.NewTestUsuario(t, testutil.UniqueEmail("b"))
	for _, u := range []*model.Usuario{a, b} {
		if err := repo.CreateUsuario(ctx, u); err != nil {
			t.Fatalf("CreateUsuario failed: %v", err)
		}
	}

	b.Email = a.Email
	if err := repo.UpdateUsuario(ctx, b); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestIntegrationUsuario_UpdateNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, testutil.UniqueEmail("ghost"))
	u.ID = "01HZZZZZZZZZZZZZZZZZZZZZZZ"
	if err := repo.UpdateUsuario(ctx, u); !errors.Is(err, ErrUsuarioNotFound) {
		t.Fatalf("expected ErrUsuarioNotFound, got %v", err)
	}
}

func TestIntegrationUsuario_Delete(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestUsuario(t, testutil.UniqueEmail("delete"))
	if err := repo.CreateUsuario(ctx, u); err != nil {
		t.Fatalf("CreateUsuario failed: %v", err)
	}

	if err := repo.DeleteUsuario(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUsuario failed: %v", err)
	}

	if _, err := repo.GetUsuarioByID(ctx, u.ID); !errors.Is(err, ErrUsuarioNotFound) {
		t.Errorf("expected ErrUsuarioNotFound after delete, got %v", err)
	}

	if err := repo.DeleteUsuario(ctx, u.ID); !errors.Is(err, ErrUsuarioNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}
