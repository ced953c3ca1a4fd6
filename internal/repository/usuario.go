package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/usuarios-api/usuarios/internal/model"
)

// Common errors for usuario repository operations.
var (
	ErrUsuarioNotFound = errors.New("usuario not found")
	ErrEmailExists     = errors.New("email must be unique")
)

// PostgreSQL error codes mapped by the repository.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
)

// The table and timestamp columns are mixed-case and must stay quoted.
var (
	usuariosTable = pq.QuoteIdentifier("Usuarios")

	usuarioColumns = strings.Join([]string{
		"id",
		"nombre",
		"email",
		"password",
		"activo",
		pq.QuoteIdentifier("createdAt"),
		pq.QuoteIdentifier("updatedAt"),
	}, ", ")
)

// CreateUsuario validates and inserts a new usuario.
// ID is assigned when empty; CreatedAt and UpdatedAt are set by the database.
func (r *Repository) CreateUsuario(ctx context.Context, u *model.Usuario) error {
	if err := u.Validate(); err != nil {
		return err
	}

	if u.ID == "" {
		u.ID = ulid.Make().String()
	}

	query := `
		INSERT INTO ` + usuariosTable + ` (id, nombre, email, password, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING "createdAt", "updatedAt"
	`

	err := r.pool.QueryRow(ctx, query,
		u.ID,
		u.Nombre,
		u.Email,
		u.Password,
		u.Activo,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create usuario: %w", err)
	}

	return nil
}

// ListUsuarios returns every usuario in insertion order.
func (r *Repository) ListUsuarios(ctx context.Context) ([]*model.Usuario, error) {
	query := `
		SELECT ` + usuarioColumns + `
		FROM ` + usuariosTable + `
		ORDER BY "createdAt", id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}
	defer rows.Close()

	usuarios := make([]*model.Usuario, 0)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usuario: %w", err)
		}
		usuarios = append(usuarios, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usuarios: %w", err)
	}

	return usuarios, nil
}

// GetUsuarioByID retrieves a usuario by its ID.
func (r *Repository) GetUsuarioByID(ctx context.Context, id string) (*model.Usuario, error) {
	query := `
		SELECT ` + usuarioColumns + `
		FROM ` + usuariosTable + `
		WHERE id = $1
	`

	u, err := scanUsuario(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUsuarioNotFound
		}
		return nil, fmt.Errorf("failed to get usuario by ID: %w", err)
	}

	return u, nil
}

// UpdateUsuario writes the mutable fields of u and bumps UpdatedAt.
func (r *Repository) UpdateUsuario(ctx context.Context, u *model.Usuario) error {
	if err := u.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE ` + usuariosTable + `
		SET nombre = $2, email = $3, password = $4, activo = $5, "updatedAt" = now()
		WHERE id = $1
		RETURNING "createdAt", "updatedAt"
	`

	err := r.pool.QueryRow(ctx, query,
		u.ID,
		u.Nombre,
		u.Email,
		u.Password,
		u.Activo,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUsuarioNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update usuario: %w", err)
	}

	return nil
}

// DeleteUsuario permanently removes a usuario.
func (r *Repository) DeleteUsuario(ctx context.Context, id string) error {
	query := `DELETE FROM ` + usuariosTable + ` WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete usuario: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}

	return nil
}

// scanUsuario scans a single row into a Usuario model.
func scanUsuario(row pgx.Row) (*model.Usuario, error) {
	var u model.Usuario
	err := row.Scan(
		&u.ID,
		&u.Nombre,
		&u.Email,
		&u.Password,
		&u.Activo,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapConstraintError translates constraint violations into domain errors.
// Returns nil for anything else.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrEmailExists
	case pgNotNullViolation:
		return &model.ValidationError{Fields: []model.FieldError{{Field: pgErr.ColumnName, Rule: "required"}}}
	case pgCheckViolation:
		return &model.ValidationError{Fields: []model.FieldError{{Field: checkedColumn(pgErr.ConstraintName), Rule: "check"}}}
	default:
		return nil
	}
}

// checkedColumn extracts the column from a "<table>_<column>_check" constraint name.
func checkedColumn(constraint string) string {
	name := strings.TrimPrefix(constraint, "Usuarios_")
	return strings.TrimSuffix(name, "_check")
}
