package validation

import (
	"context"
	"log/slog"
)

// Chain consults a local validator first and falls back to a remote one for
// unknown words. Remote confirmations are added to the learner so later
// lookups stay local.
type Chain struct {
	local   Validator
	remote  Validator
	learner Learner
	logger  *slog.Logger
}

// NewChain creates a chained validator. remote and learner may be nil.
func NewChain(local, remote Validator, learner Learner, logger *slog.Logger) *Chain {
	return &Chain{
		local:   local,
		remote:  remote,
		learner: learner,
		logger:  logger,
	}
}

// Validate implements Validator
func (c *Chain) Validate(ctx context.Context, word string, length int) (bool, error) {
	if !wellFormed(word, length) {
		return false, nil
	}

	ok, err := c.local.Validate(ctx, word, length)
	if err != nil || ok || c.remote == nil {
		return ok, err
	}

	ok, err = c.remote.Validate(ctx, word, length)
	if err != nil {
		return false, err
	}
	if ok && c.learner != nil {
		c.learner.AddWord(word)
		c.logger.Debug("learned word from remote lookup", slog.String("word", word))
	}
	return ok, nil
}
