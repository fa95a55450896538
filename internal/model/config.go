package model

import "fmt"

// Puzzle shape limits
const (
	MinWordLength = 4
	MaxWordLength = 10
	MinBoardCount = 1
	MaxBoardCount = 128
	MinMaxGuesses = 1

	DefaultWordLength = 6
	DefaultBoardCount = 32
	DefaultMaxGuesses = 37
)

// GameConfig describes the shape of a puzzle
type GameConfig struct {
	WordLength int
	BoardCount int
	MaxGuesses int

	// ProfileID is derived from the other fields and namespaces persisted data
	ProfileID string
}

// DefaultConfig returns the standard 6x32x37 puzzle shape
func DefaultConfig() GameConfig {
	return NewConfig(DefaultWordLength, DefaultBoardCount, DefaultMaxGuesses)
}

// NewConfig builds a normalized config from raw values
func NewConfig(wordLength, boardCount, maxGuesses int) GameConfig {
	return NormalizeConfig(GameConfig{
		WordLength: wordLength,
		BoardCount: boardCount,
		MaxGuesses: maxGuesses,
	})
}

// NormalizeConfig clamps every field into its valid range and recomputes ProfileID.
// Zero fields are treated as unset and take the default.
func NormalizeConfig(c GameConfig) GameConfig {
	wordLength := orDefault(c.WordLength, DefaultWordLength)
	boardCount := orDefault(c.BoardCount, DefaultBoardCount)
	maxGuesses := orDefault(c.MaxGuesses, DefaultMaxGuesses)

	wordLength = clamp(wordLength, MinWordLength, MaxWordLength)
	boardCount = clamp(boardCount, MinBoardCount, MaxBoardCount)
	maxGuesses = max(MinMaxGuesses, maxGuesses)

	return GameConfig{
		WordLength: wordLength,
		BoardCount: boardCount,
		MaxGuesses: maxGuesses,
		ProfileID:  ProfileID(wordLength, boardCount, maxGuesses),
	}
}

// ProfileID formats the storage namespace for a puzzle shape
func ProfileID(wordLength, boardCount, maxGuesses int) string {
	return fmt.Sprintf("%dx%dx%d", wordLength, boardCount, maxGuesses)
}

// DefaultMaxGuessesFor suggests a guess budget for a shape: one guess per board
// plus enough slack to work out the first word.
func DefaultMaxGuessesFor(wordLength, boardCount int) int {
	return max(MinMaxGuesses, boardCount+wordLength-1)
}

// IsDefault reports whether c is the default profile
func (c GameConfig) IsDefault() bool {
	return c.ProfileID == DefaultConfig().ProfileID
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
