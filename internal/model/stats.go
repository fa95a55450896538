package model

// GameStats aggregates results for one profile
type GameStats struct {
	GamesPlayed   int
	GamesWon      int
	CurrentStreak int
	MaxStreak     int

	// GuessDistribution counts wins by number of guesses used; index = guesses - 1
	GuessDistribution []int

	LastPlayedDaily    *int
	LastCompletedDaily *int
}

// NewStats returns empty stats sized for maxGuesses
func NewStats(maxGuesses int) GameStats {
	return GameStats{
		GuessDistribution: make([]int, max(0, maxGuesses)),
	}
}

// WinRate returns the percentage of games won, rounded down
func (s GameStats) WinRate() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.GamesWon * 100 / s.GamesPlayed
}

// ResizeDistribution truncates or zero-pads dist to exactly n entries
func ResizeDistribution(dist []int, n int) []int {
	out := make([]int, max(0, n))
	copy(out, dist)
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out
}
