package model

import "time"

// PlayerID uniquely identifies a player
type PlayerID string

// Player owns a private set of saved games, stats and settings
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool
	CreatedAt   time.Time
}

// Namespace returns the storage namespace holding this player's data
func (id PlayerID) Namespace() string {
	return "player:" + string(id) + ":"
}

// RegisteredPlayer carries login credentials for a non-guest player
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
