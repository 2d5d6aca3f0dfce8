package services

import (
	"context"
	"time"

	"eventpin/models"
)

// UserRepository is the slice of the document store the user and friend
// services depend on. Implementations report missing documents with
// repositories.ErrNotFound and unique-index violations with
// repositories.ErrConflict.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Insert(ctx context.Context, user models.User) (models.User, error)
	Replace(ctx context.Context, user models.User) error
	// ReplacePair persists two user documents atomically. Both symmetric
	// relationship writes go through here so neither side can be lost.
	ReplacePair(ctx context.Context, a, b models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// PinRepository is the document-store access the pin service depends on.
type PinRepository interface {
	Insert(ctx context.Context, pin models.Pin) (models.Pin, error)
	FindByID(ctx context.Context, id string) (models.Pin, error)
	List(ctx context.Context) ([]models.Pin, error)
	ListByOwners(ctx context.Context, owners []string) ([]models.Pin, error)
	Replace(ctx context.Context, pin models.Pin) error
	Delete(ctx context.Context, id string) error
}

// SessionStore persists refresh tokens so they survive restarts.
type SessionStore interface {
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	Find(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Cache is a TTL'd key-value store used for cache-aside profile reads.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
