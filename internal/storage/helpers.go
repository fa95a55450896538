package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// GetJSON loads key and decodes it into v
func GetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}

const probeKey = "__dotriacontordle_probe__"

// Probe checks that kv accepts a write, returns it, and deletes it.
// A failed probe wraps model.ErrStorageUnavailable.
func Probe(ctx context.Context, kv KV) error {
	if err := kv.Set(ctx, probeKey, "1"); err != nil {
		return unavailable("write", err)
	}
	got, err := kv.Get(ctx, probeKey)
	if err != nil {
		return unavailable("read", err)
	}
	if got != "1" {
		return unavailable("read", errors.New("probe value mismatch"))
	}
	if err := kv.Delete(ctx, probeKey); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: probe %s: %v", ErrStorageUnavailable, op, err)
}
