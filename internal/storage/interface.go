package storage

import (
	"context"

	"github.com/mcoot/dotriacontordle/internal/model"
)

var (
	// ErrNotFound is returned by Get when the key does not exist
	ErrNotFound = model.ErrNotFound

	// ErrStorageUnavailable is returned when a backend fails its probe
	ErrStorageUnavailable = model.ErrStorageUnavailable
)

// KV is a string key-value store.
// Values are opaque strings; callers encode their own records.
type KV interface {
	// Get returns the value for key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// GetMany returns the values for the keys that exist. Missing keys are absent from the map.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)

	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
}
