// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usuarios-api/usuarios/internal/auth"
	"github.com/usuarios-api/usuarios/internal/cache"
	"github.com/usuarios-api/usuarios/internal/metrics"
	"github.com/usuarios-api/usuarios/internal/model"
	"github.com/usuarios-api/usuarios/internal/repository"
)

// Service errors.
var (
	ErrUsuarioNotFound = errors.New("usuario not found")
	ErrEmailExists     = repository.ErrEmailExists
)

// UsuarioStore is the persistence contract the service depends on.
type UsuarioStore interface {
	CreateUsuario(ctx context.Context, u *model.Usuario) error
	ListUsuarios(ctx context.Context) ([]*model.Usuario, error)
	GetUsuarioByID(ctx context.Context, id string) (*model.Usuario, error)
	UpdateUsuario(ctx context.Context, u *model.Usuario) error
	DeleteUsuario(ctx context.Context, id string) error
}

// UsuarioCache is an optional read-through cache keyed by usuario ID.
// AddUsuario must not replace an existing entry; SetUsuario always does.
type UsuarioCache interface {
	GetUsuario(ctx context.Context, id string) (*model.Usuario, error)
	AddUsuario(ctx context.Context, u *model.Usuario) (bool, error)
	SetUsuario(ctx context.Context, u *model.Usuario) error
	DeleteUsuario(ctx context.Context, id string) error
}

// UsuarioService handles usuario business logic.
type UsuarioService struct {
	store   UsuarioStore
	cache   UsuarioCache
	hasher  auth.Hasher
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUsuarioService creates a new UsuarioService without a cache.
func NewUsuarioService(store UsuarioStore, hasher auth.Hasher, recorder metrics.Recorder, logger *slog.Logger) *UsuarioService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UsuarioService{
		store:   store,
		hasher:  hasher,
		metrics: recorder,
		logger:  logger,
	}
}

// WithCache enables read-through caching of GetUsuario.
func (s *UsuarioService) WithCache(c UsuarioCache) *UsuarioService {
	s.cache = c
	return s
}

// CreateUsuarioInput defines input for creating a usuario.
type CreateUsuarioInput struct {
	Nombre   string
	Email    string
	Password string
	Activo   *bool // nil means true
}

// UpdateUsuarioInput defines a partial update. Nil fields are left untouched.
type UpdateUsuarioInput struct {
	ID       string
	Nombre   *string
	Email    *string
	Password *string
	Activo   *bool
}

// CreateUsuario hashes the password and stores a new usuario.
func (s *UsuarioService) CreateUsuario(ctx context.Context, input CreateUsuarioInput) (*model.Usuario, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	activo := true
	if input.Activo != nil {
		activo = *input.Activo
	}

	u := &model.Usuario{
		Nombre:   input.Nombre,
		Email:    input.Email,
		Password: hash,
		Activo:   activo,
	}

	if err := s.store.CreateUsuario(ctx, u); err != nil {
		return nil, err
	}

	s.metrics.IncUsuarioCreated()
	return u, nil
}

// ListUsuarios returns every usuario.
func (s *UsuarioService) ListUsuarios(ctx context.Context) ([]*model.Usuario, error) {
	return s.store.ListUsuarios(ctx)
}

// GetUsuario returns a usuario by ID, consulting the cache first.
func (s *UsuarioService) GetUsuario(ctx context.Context, id string) (*model.Usuario, error) {
	if s.cache != nil {
		u, err := s.cache.GetUsuario(ctx, id)
		switch {
		case err == nil:
			s.metrics.IncCacheHit()
			return u, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.IncCacheMiss()
		default:
			s.logger.Warn("cache read failed", "usuario_id", id, "error", err)
		}
	}

	u, err := s.store.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	// A concurrent update may already have cached a newer row; only fill
	// the entry if it is still empty.
	if s.cache != nil {
		if _, err := s.cache.AddUsuario(ctx, u); err != nil {
			s.logger.Warn("cache write failed", "usuario_id", id, "error", err)
		}
	}

	return u, nil
}

// UpdateUsuario applies a partial update. The password is rehashed only
// when a non-empty plaintext is supplied.
func (s *UsuarioService) UpdateUsuario(ctx context.Context, input UpdateUsuarioInput) (*model.Usuario, error) {
	u, err := s.store.GetUsuarioByID(ctx, input.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if input.Nombre != nil {
		u.Nombre = *input.Nombre
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Activo != nil {
		u.Activo = *input.Activo
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}

	if err := s.store.UpdateUsuario(ctx, u); err != nil {
		return nil, mapStoreError(err)
	}

	s.refresh(ctx, u)
	s.metrics.IncUsuarioUpdated()
	return u, nil
}

// DeleteUsuario permanently removes a usuario.
func (s *UsuarioService) DeleteUsuario(ctx context.Context, id string) error {
	if err := s.store.DeleteUsuario(ctx, id); err != nil {
		return mapStoreError(err)
	}

	s.invalidate(ctx, id)
	s.metrics.IncUsuarioDeleted()
	return nil
}

// refresh overwrites the cached entry with the row just written. If the
// write fails the entry is dropped so readers fall back to the store.
func (s *UsuarioService) refresh(ctx context.Context, u *model.Usuario) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetUsuario(ctx, u); err != nil {
		s.logger.Warn("cache refresh failed", "usuario_id", u.ID, "error", err)
		s.invalidate(ctx, u.ID)
	}
}

func (s *UsuarioService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteUsuario(ctx, id); err != nil {
		s.logger.Warn("cache invalidation failed", "usuario_id", id, "error", err)
	}
}

// mapStoreError converts repository not-found into the service error.
func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrUsuarioNotFound) {
		return fmt.Errorf("%w: %w", ErrUsuarioNotFound, err)
	}
	return err
}
