// Package cache holds the client cache used by the service layer.
// Entries are stored under an id key and a username key; every mutating
// service operation overwrites or invalidates both.
package cache

import (
	"context"
	"errors"
	"fmt"

	"clients_backend/internal/models"
)

// ErrMiss is returned by Get when the key holds no live entry.
var ErrMiss = errors.New("cache miss")

// Cache is a key-value store of clients.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Client, error)
	Put(ctx context.Context, key string, client *models.Client) error
	Invalidate(ctx context.Context, keys ...string) error
}

// IDKey is the cache key of a client by id.
func IDKey(id int64) string {
	return fmt.Sprintf("client:id:%d", id)
}

// UsernameKey is the cache key of a client by username.
func UsernameKey(username string) string {
	return "client:username:" + username
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Client, error) { return nil, ErrMiss }
func (Noop) Put(context.Context, string, *models.Client) error { return nil }
func (Noop) Invalidate(context.Context, ...string) error { return nil }
