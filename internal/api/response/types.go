package response

import (
	"time"

	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
	"github.com/mcoot/dotriacontordle/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Config represents a puzzle shape
type Config struct {
	WordLength int    `json:"word_length"`
	BoardCount int    `json:"board_count"`
	MaxGuesses int    `json:"max_guesses"`
	ProfileID  string `json:"profile_id"`
}

// ConfigFromModel converts model.GameConfig
func ConfigFromModel(c model.GameConfig) Config {
	return Config{
		WordLength: c.WordLength,
		BoardCount: c.BoardCount,
		MaxGuesses: c.MaxGuesses,
		ProfileID:  c.ProfileID,
	}
}

// Board represents one target word and its scored rows
type Board struct {
	Index         int                 `json:"index"`
	Solved        bool                `json:"solved"`
	SolvedAtGuess *int                `json:"solved_at_guess,omitempty"`
	Answer        string              `json:"answer,omitempty"` // revealed once solved or the game is over
	Rows          [][]model.TileState `json:"rows"`
}

// Timer represents the game clock
type Timer struct {
	Running   bool       `json:"running"`
	ElapsedMS int64      `json:"elapsed_ms"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Game represents the full state of a player's puzzle
type Game struct {
	GameID           string              `json:"game_id"`
	Mode             model.GameMode      `json:"mode"`
	DailyNumber      int                 `json:"daily_number,omitempty"`
	Config           Config              `json:"config"`
	Status           model.GameStatus    `json:"status"`
	Guesses          []string            `json:"guesses"`
	CurrentGuess     string              `json:"current_guess"`
	GuessesRemaining int                 `json:"guesses_remaining"`
	SolvedCount      int                 `json:"solved_count"`
	Boards           []Board             `json:"boards"`
	Keyboard         model.KeyboardState `json:"keyboard"`
	ExpandedBoard    *int                `json:"expanded_board"`
	Timer            Timer               `json:"timer"`
}

// GameFromModel converts a game state as seen at now
func GameFromModel(s model.GameState, now time.Time) Game {
	reveal := s.Status.IsTerminal()
	boards := make([]Board, len(s.Boards))
	for i, b := range s.Boards {
		rows := len(s.Guesses)
		if b.Solved && b.SolvedAtGuess != nil {
			rows = *b.SolvedAtGuess + 1
		}
		board := Board{
			Index:         i,
			Solved:        b.Solved,
			SolvedAtGuess: b.SolvedAtGuess,
			Rows:          make([][]model.TileState, 0, rows),
		}
		if b.Solved || reveal {
			board.Answer = b.Answer
		}
		for g := 0; g < rows; g++ {
			board.Rows = append(board.Rows, game.EvaluationForBoard(s, i, g))
		}
		boards[i] = board
	}

	guesses := s.Guesses
	if guesses == nil {
		guesses = []string{}
	}
	keyboard := s.Keyboard
	if keyboard == nil {
		keyboard = model.KeyboardState{}
	}

	return Game{
		GameID:           s.GameID,
		Mode:             s.Mode,
		DailyNumber:      s.DailyNumber,
		Config:           ConfigFromModel(s.Config),
		Status:           s.Status,
		Guesses:          guesses,
		CurrentGuess:     s.CurrentGuess,
		GuessesRemaining: max(0, s.Config.MaxGuesses-len(s.Guesses)),
		SolvedCount:      s.SolvedCount(),
		Boards:           boards,
		Keyboard:         keyboard,
		ExpandedBoard:    s.ExpandedBoard,
		Timer: Timer{
			Running:   s.TimerRunning,
			ElapsedMS: s.Elapsed(now).Milliseconds(),
			StartedAt: s.StartedAt,
			EndedAt:   s.EndedAt,
		},
	}
}

// Stats represents a profile's results
type Stats struct {
	GamesPlayed        int   `json:"games_played"`
	GamesWon           int   `json:"games_won"`
	WinRate            int   `json:"win_rate"`
	CurrentStreak      int   `json:"current_streak"`
	MaxStreak          int   `json:"max_streak"`
	GuessDistribution  []int `json:"guess_distribution"`
	LastPlayedDaily    *int  `json:"last_played_daily,omitempty"`
	LastCompletedDaily *int  `json:"last_completed_daily,omitempty"`
}

// StatsFromModel converts model.GameStats
func StatsFromModel(s model.GameStats) Stats {
	return Stats{
		GamesPlayed:        s.GamesPlayed,
		GamesWon:           s.GamesWon,
		WinRate:            s.WinRate(),
		CurrentStreak:      s.CurrentStreak,
		MaxStreak:          s.MaxStreak,
		GuessDistribution:  s.GuessDistribution,
		LastPlayedDaily:    s.LastPlayedDaily,
		LastCompletedDaily: s.LastCompletedDaily,
	}
}

// GuessResult is the response for a submitted guess
type GuessResult struct {
	Ignored    bool             `json:"ignored,omitempty"`
	Guess      string           `json:"guess,omitempty"`
	GuessIndex int              `json:"guess_index"`
	SolvedNow  []int            `json:"solved_now"`
	Status     model.GameStatus `json:"status,omitempty"`
	Stats      *Stats           `json:"stats,omitempty"`
	Game       Game             `json:"game"`
}

// GuessResultFromOutcome converts a submit outcome
func GuessResultFromOutcome(o game.SubmitOutcome, state model.GameState, now time.Time) GuessResult {
	result := GuessResult{
		Ignored:    o.Ignored,
		Guess:      o.Guess,
		GuessIndex: o.GuessIndex,
		SolvedNow:  o.SolvedNow,
		Status:     o.Status,
		Game:       GameFromModel(state, now),
	}
	if result.SolvedNow == nil {
		result.SolvedNow = []int{}
	}
	if o.Stats != nil {
		stats := StatsFromModel(*o.Stats)
		result.Stats = &stats
	}
	return result
}

// Settings represents player preferences
type Settings struct {
	GlowMode            bool `json:"glow_mode"`
	FeedbackEnabled     bool `json:"feedback_enabled"`
	PreferredWordLength int  `json:"preferred_word_length"`
	PreferredBoardCount int  `json:"preferred_board_count"`
	PreferredMaxGuesses int  `json:"preferred_max_guesses"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings(s)
}

// Daily describes the current daily puzzle cycle
type Daily struct {
	DailyNumber      int       `json:"daily_number"`
	NextResetAt      time.Time `json:"next_reset_at"`
	SecondsUntilNext int64     `json:"seconds_until_next"`
}

// Validation is the response for a word lookup
type Validation struct {
	Word  string `json:"word"`
	Valid bool   `json:"valid"`
}

// Evaluation is one guess scored against one board
type Evaluation struct {
	Board int               `json:"board"`
	Guess int               `json:"guess"`
	Word  string            `json:"word"`
	Tiles []model.TileState `json:"tiles"`
}

// Event is the data payload of a server-sent game event
type Event struct {
	Type      model.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	GameID    string          `json:"game_id"`
	SolvedNow []int           `json:"solved_now,omitempty"`
	Game      Game            `json:"game"`
}

// EventFromModel converts a model.Event
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      e.Type,
		Timestamp: e.Timestamp,
		GameID:    e.GameID,
		SolvedNow: e.SolvedNow,
		Game:      GameFromModel(e.State, e.Timestamp),
	}
}
