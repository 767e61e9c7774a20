// Package storage provides the key/value backends that hold shopper session
// state: the serialized cart and the auth bearer token.
package storage

import (
	"context"

	"github.com/dukerupert/vortex/internal"
)

// Storage defines the interface for session state persistence.
// Implementations can use process memory, the local filesystem, Redis or R2.
type Storage interface {
	// Get returns the value stored under key.
	// Returns an error satisfying IsNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key.
	// Returns nil if the key doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error
}

// NewStorage creates a Storage implementation based on configuration.
func NewStorage(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryStorage(), nil
	case "local":
		return NewLocalStorage(cfg.LocalPath)
	case "redis":
		return NewRedisStorage(ctx, RedisConfig{
			URL:       cfg.RedisURL,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
		})
	case "r2":
		return NewR2Storage(ctx, R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			KeyPrefix:   cfg.KeyPrefix,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
