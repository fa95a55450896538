package model

import "time"

// EventType identifies what changed in a game
type EventType string

const (
	EventStateChanged  EventType = "state_changed"  // Typing, timer or view changes
	EventGuessAccepted EventType = "guess_accepted" // A guess was scored
	EventGameWon       EventType = "game_won"
	EventGameLost      EventType = "game_lost"
	EventNewGame       EventType = "new_game"
	EventStateLoaded   EventType = "state_loaded" // A saved game was resumed
)

// Event is published to subscribers after every state transition
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    string
	State     GameState

	// SolvedNow lists boards solved by the guess, for EventGuessAccepted and terminal events
	SolvedNow []int
}
