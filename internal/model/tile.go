package model

// TileState is the display state of a single letter tile
type TileState string

const (
	TileEmpty   TileState = "empty"   // No letter yet
	TileTBD     TileState = "tbd"     // Typed but not yet scored
	TileCorrect TileState = "correct" // Right letter, right position
	TilePresent TileState = "present" // Right letter, wrong position
	TileAbsent  TileState = "absent"  // Letter not in the answer (or already used up)
)

// Rank orders scoring outcomes for keyboard aggregation.
// Unscored states rank zero.
func (t TileState) Rank() int {
	switch t {
	case TileCorrect:
		return 3
	case TilePresent:
		return 2
	case TileAbsent:
		return 1
	default:
		return 0
	}
}

// KeyboardState maps an uppercase letter to the best state seen for it
type KeyboardState map[string]TileState

// Clone returns an independent copy of the keyboard state
func (k KeyboardState) Clone() KeyboardState {
	out := make(KeyboardState, len(k))
	for letter, state := range k {
		out[letter] = state
	}
	return out
}

// EmptyRow returns a row of n empty tiles
func EmptyRow(n int) []TileState {
	row := make([]TileState, n)
	for i := range row {
		row[i] = TileEmpty
	}
	return row
}
