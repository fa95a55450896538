// Package puzzle chooses answer sets: a deterministic daily selection shared by
// every player, and a random selection for free play.
package puzzle

// Mulberry32 is a small 32-bit generator. Its output sequence is stable across
// platforms, which keeps daily puzzles identical for every client.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a generator seeded with seed
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Next returns the next value in [0, 1)
func (m *Mulberry32) Next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Source is anything that yields uniform values in [0, 1)
type Source interface {
	Next() float64
}

// DailySeed derives the generator seed for a daily puzzle number
func DailySeed(dailyNumber int) uint32 {
	return uint32(dailyNumber*12345 + 67890)
}

// Shuffle returns a Fisher-Yates shuffled copy of words
func Shuffle(words []string, rng Source) []string {
	out := make([]string, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rng.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
