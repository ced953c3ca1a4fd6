// Package memstore is test-only infrastructure: an in-memory usuario store
// with the same contract and sentinel errors as the PostgreSQL repository.
// Production code never imports it.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/usuarios-api/usuarios/internal/model"
	"github.com/usuarios-api/usuarios/internal/repository"
)

// Store keeps usuarios in insertion order.
type Store struct {
	mu       sync.RWMutex
	order    []string
	usuarios map[string]model.Usuario

	// Err, when set, is returned by every operation.
	Err error
	// PingErr is returned by Ping.
	PingErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{usuarios: make(map[string]model.Usuario)}
}

// Ping implements the connectivity check.
func (s *Store) Ping(ctx context.Context) error {
	return s.PingErr
}

// CreateUsuario inserts u, assigning ID and timestamps.
func (s *Store) CreateUsuario(ctx context.Context, u *model.Usuario) error {
	if s.Err != nil {
		return s.Err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(u.Email, "") {
		return repository.ErrEmailExists
	}

	if u.ID == "" {
		u.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.usuarios[u.ID] = *u
	s.order = append(s.order, u.ID)
	return nil
}

// ListUsuarios returns copies of all usuarios in insertion order.
func (s *Store) ListUsuarios(ctx context.Context) ([]*model.Usuario, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Usuario, 0, len(s.order))
	for _, id := range s.order {
		u := s.usuarios[id]
		out = append(out, &u)
	}
	return out, nil
}

// GetUsuarioByID returns a copy of the usuario or repository.ErrUsuarioNotFound.
func (s *Store) GetUsuarioByID(ctx context.Context, id string) (*model.Usuario, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usuarios[id]
	if !ok {
		return nil, repository.ErrUsuarioNotFound
	}
	return &u, nil
}

// UpdateUsuario replaces the mutable fields of an existing usuario.
func (s *Store) UpdateUsuario(ctx context.Context, u *model.Usuario) error {
	if s.Err != nil {
		return s.Err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.usuarios[u.ID]
	if !ok {
		return repository.ErrUsuarioNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return repository.ErrEmailExists
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.usuarios[u.ID] = *u
	return nil
}

// DeleteUsuario removes a usuario permanently.
func (s *Store) DeleteUsuario(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usuarios[id]; !ok {
		return repository.ErrUsuarioNotFound
	}
	delete(s.usuarios, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// emailTaken reports whether email, compared case-insensitively, belongs to
// a usuario other than exceptID.
// Callers hold the lock.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, u := range s.usuarios {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
