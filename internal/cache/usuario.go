package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/usuarios-api/usuarios/internal/model"
)

const usuarioKeyPrefix = "usuario:"

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

func usuarioKey(id string) string {
	return usuarioKeyPrefix + id
}

// GetUsuario retrieves a cached usuario by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUsuario(ctx context.Context, id string) (*model.Usuario, error) {
	data, err := c.client.Get(ctx, usuarioKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var u model.Usuario
	if err := json.Unmarshal(data, &u); err != nil {
		// Undecodable entries are treated as absent.
		c.client.Del(ctx, usuarioKey(id))
		return nil, ErrCacheMiss
	}

	return &u, nil
}

// SetUsuario stores a usuario with the cache TTL, replacing any entry.
func (c *Cache) SetUsuario(ctx context.Context, u *model.Usuario) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode usuario: %w", err)
	}

	if err := c.client.Set(ctx, usuarioKey(u.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache usuario: %w", err)
	}

	return nil
}

// AddUsuario stores a usuario only if no entry exists (SET NX). Readers
// filling a miss use it so they never overwrite a newer entry written by
// an update. It reports whether the entry was stored.
func (c *Cache) AddUsuario(ctx context.Context, u *model.Usuario) (bool, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("failed to encode usuario: %w", err)
	}

	stored, err := c.client.SetNX(ctx, usuarioKey(u.ID), data, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to cache usuario: %w", err)
	}

	return stored, nil
}

// DeleteUsuario removes a usuario from cache.
func (c *Cache) DeleteUsuario(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, usuarioKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete usuario from cache: %w", err)
	}
	return nil
}
