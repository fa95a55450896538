package model

// Settings holds player preferences read at new-game time
type Settings struct {
	GlowMode        bool
	FeedbackEnabled bool

	PreferredWordLength int
	PreferredBoardCount int
	PreferredMaxGuesses int
}

// DefaultSettings returns the settings used when none are saved
func DefaultSettings() Settings {
	def := DefaultConfig()
	return Settings{
		FeedbackEnabled:     true,
		PreferredWordLength: def.WordLength,
		PreferredBoardCount: def.BoardCount,
		PreferredMaxGuesses: def.MaxGuesses,
	}
}

// PreferredConfig returns the normalized preferred puzzle shape
func (s Settings) PreferredConfig() GameConfig {
	return NewConfig(s.PreferredWordLength, s.PreferredBoardCount, s.PreferredMaxGuesses)
}

// Normalized returns a copy with the preferred shape clamped into range
func (s Settings) Normalized() Settings {
	cfg := s.PreferredConfig()
	s.PreferredWordLength = cfg.WordLength
	s.PreferredBoardCount = cfg.BoardCount
	s.PreferredMaxGuesses = cfg.MaxGuesses
	return s
}
