// Package repository defines data access interfaces for Zettel.
// This file contains a caching decorator for the user repository.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/domain"
)

// cachedUser is the wire form of a user record in the cache. PasswordHash
// is carried explicitly because domain.User excludes it from JSON.
type cachedUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CachedUserRepository wraps a UserRepository with a read-through cache on
// GetByID. Session rehydration resolves the user by id on every
// authenticated request, so this is the hot path worth fronting.
// Writes go straight through; user records are immutable after signup, so
// there is nothing to invalidate besides a failed create.
type CachedUserRepository struct {
	inner  UserRepository
	cache  Cache
	ttl    time.Duration
	keys   CacheKey
	logger zerolog.Logger
}

// NewCachedUserRepository creates a caching decorator around inner.
func NewCachedUserRepository(inner UserRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "user_cache").Logger(),
	}
}

// Create creates a new user.
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

// GetByID retrieves a user by ID, consulting the cache first.
// Cache failures degrade to the underlying repository, never to the caller.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	key := r.keys.UserByID(id)

	data, err := r.cache.Get(ctx, key)
	if err == nil {
		var cu cachedUser
		if err := json.Unmarshal(data, &cu); err == nil {
			return &domain.User{
				ID:           cu.ID,
				Username:     cu.Username,
				PasswordHash: cu.PasswordHash,
				CreatedAt:    cu.CreatedAt,
			}, nil
		}
		// Corrupt entry: drop it and fall through to the source.
		_ = r.cache.Delete(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn().Err(err).Int64("user_id", id).Msg("cache get failed")
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn().Err(err).Int64("user_id", id).Msg("cache set failed")
		}
	}

	return user, nil
}

// GetByUsername retrieves a user by username. Login is comparatively rare,
// so this path is not cached.
func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.inner.GetByUsername(ctx, username)
}

// ExistsByUsername checks if a user with the given username exists.
func (r *CachedUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.inner.ExistsByUsername(ctx, username)
}

// List returns all users with pagination.
func (r *CachedUserRepository) List(ctx context.Context, opts ListOptions) ([]*domain.User, error) {
	return r.inner.List(ctx, opts)
}

// Ensure CachedUserRepository implements UserRepository.
var _ UserRepository = (*CachedUserRepository)(nil)
