package request

import "github.com/mcoot/dotriacontordle/internal/model"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewGameRequest is the request body for starting a game.
// Omitted shape fields keep the current game's value.
type NewGameRequest struct {
	Mode        string `json:"mode"`
	DailyNumber *int   `json:"daily_number,omitempty"`
	WordLength  int    `json:"word_length,omitempty"`
	BoardCount  int    `json:"board_count,omitempty"`
	MaxGuesses  int    `json:"max_guesses,omitempty"`
}

// Config returns the requested puzzle shape merged over current, or nil if
// no shape field was given
func (r NewGameRequest) Config(current model.GameConfig) *model.GameConfig {
	if r.WordLength == 0 && r.BoardCount == 0 && r.MaxGuesses == 0 {
		return nil
	}
	cfg := current
	if r.WordLength != 0 {
		cfg.WordLength = r.WordLength
	}
	if r.BoardCount != 0 {
		cfg.BoardCount = r.BoardCount
	}
	if r.MaxGuesses != 0 {
		cfg.MaxGuesses = r.MaxGuesses
	}
	cfg = model.NormalizeConfig(cfg)
	return &cfg
}

// SwitchModeRequest is the request body for moving to another mode or profile
type SwitchModeRequest struct {
	NewGameRequest
	Resume bool `json:"resume"`
}

// LetterRequest is the request body for typing a letter
type LetterRequest struct {
	Letter string `json:"letter"`
}

// GuessRequest is the request body for submitting a guess.
// An empty guess submits the letters typed so far.
type GuessRequest struct {
	Guess string `json:"guess,omitempty"`
}

// ExpandedBoardRequest selects a board; null clears the selection
type ExpandedBoardRequest struct {
	Board *int `json:"board"`
}

// SettingsRequest updates preferences; omitted fields are unchanged
type SettingsRequest struct {
	GlowMode            *bool `json:"glow_mode,omitempty"`
	FeedbackEnabled     *bool `json:"feedback_enabled,omitempty"`
	PreferredWordLength *int  `json:"preferred_word_length,omitempty"`
	PreferredBoardCount *int  `json:"preferred_board_count,omitempty"`
	PreferredMaxGuesses *int  `json:"preferred_max_guesses,omitempty"`
}

// Apply merges the request over current
func (r SettingsRequest) Apply(current model.Settings) model.Settings {
	if r.GlowMode != nil {
		current.GlowMode = *r.GlowMode
	}
	if r.FeedbackEnabled != nil {
		current.FeedbackEnabled = *r.FeedbackEnabled
	}
	if r.PreferredWordLength != nil {
		current.PreferredWordLength = *r.PreferredWordLength
	}
	if r.PreferredBoardCount != nil {
		current.PreferredBoardCount = *r.PreferredBoardCount
	}
	if r.PreferredMaxGuesses != nil {
		current.PreferredMaxGuesses = *r.PreferredMaxGuesses
	}
	return current
}
