package validation

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Dedup collapses concurrent validations of the same word into one lookup
type Dedup struct {
	inner Validator
	group singleflight.Group
}

// NewDedup wraps inner with in-flight de-duplication
func NewDedup(inner Validator) *Dedup {
	return &Dedup{inner: inner}
}

// Validate implements Validator. Callers sharing a lookup share its result,
// including the context of whichever caller started it.
func (d *Dedup) Validate(ctx context.Context, word string, length int) (bool, error) {
	key := strconv.Itoa(length) + ":" + word
	v, err, _ := d.group.Do(key, func() (any, error) {
		return d.inner.Validate(ctx, word, length)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
