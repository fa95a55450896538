package puzzle

import (
	"log/slog"

	"github.com/mcoot/dotriacontordle/internal/dependencies/random"
	"github.com/mcoot/dotriacontordle/internal/model"
)

// WordSource provides the answer pool for a word length
type WordSource interface {
	LoadDictionary(wordLength int) []string
}

// Selector picks the answers for a new game
type Selector struct {
	words  WordSource
	random random.Random
	logger *slog.Logger
}

// NewSelector creates a Selector over the given word pool
func NewSelector(words WordSource, rng random.Random, logger *slog.Logger) *Selector {
	return &Selector{
		words:  words,
		random: rng,
		logger: logger,
	}
}

// DailyAnswers returns the answers for a daily puzzle.
// The same daily number and config always yield the same answers in the same order.
func (s *Selector) DailyAnswers(dailyNumber int, cfg model.GameConfig) []string {
	return s.pick(NewMulberry32(DailySeed(dailyNumber)), cfg.BoardCount, cfg.WordLength)
}

// RandomAnswers returns count answers for a free-play puzzle
func (s *Selector) RandomAnswers(count, wordLength int) []string {
	return s.pick(NewMulberry32(s.random.Uint32()), count, wordLength)
}

func (s *Selector) pick(rng Source, count, wordLength int) []string {
	pool := s.words.LoadDictionary(wordLength)
	if len(pool) == 0 {
		s.logger.Warn("no words available for length", slog.Int("word_length", wordLength))
		return []string{}
	}
	if count > len(pool) {
		s.logger.Warn("answer pool smaller than board count",
			slog.Int("word_length", wordLength),
			slog.Int("pool", len(pool)),
			slog.Int("boards", count),
		)
	}
	shuffled := Shuffle(pool, rng)
	return shuffled[:min(max(count, 0), len(shuffled))]
}
