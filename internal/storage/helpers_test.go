package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dotriacontordle/internal/storage"
	"github.com/mcoot/dotriacontordle/internal/storage/memory"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	require.NoError(t, storage.SetJSON(ctx, kv, "r", record{Name: "x", Count: 2}))

	var got record
	require.NoError(t, storage.GetJSON(ctx, kv, "r", &got))
	assert.Equal(t, record{Name: "x", Count: 2}, got)

	require.NoError(t, kv.Set(ctx, "bad", "{"))
	assert.Error(t, storage.GetJSON(ctx, kv, "bad", &got))

	assert.ErrorIs(t, storage.GetJSON(ctx, kv, "missing", &got), storage.ErrNotFound)
}

type brokenKV struct {
	storage.KV
}

func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestProbeReportsUnavailable(t *testing.T) {
	err := storage.Probe(context.Background(), brokenKV{KV: memory.New()})
	assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
}

func TestNestedNamespaces(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	inner := storage.NewNamespaced(storage.NewNamespaced(kv, "a:"), "b:")
	assert.Equal(t, "a:b:", inner.Namespace())

	require.NoError(t, inner.Set(ctx, "k", "v"))
	got, err := kv.Get(ctx, "a:b:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
