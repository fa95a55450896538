package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulberry32ReferenceSequence(t *testing.T) {
	tests := []struct {
		seed uint32
		want []float64
	}{
		{seed: 80235, want: []float64{0.544013551203534, 0.16097973613068461, 0.599867535289377}},
		{seed: 1, want: []float64{0.6270739405881613, 0.002735721180215478, 0.5274470399599522}},
		{seed: 0, want: []float64{0.26642920868471265, 0.0003297457005828619, 0.2232720274478197}},
	}

	for _, tt := range tests {
		rng := NewMulberry32(tt.seed)
		for i, want := range tt.want {
			assert.Equal(t, want, rng.Next(), "seed %d value %d", tt.seed, i)
		}
	}
}

func TestMulberry32StaysInUnitInterval(t *testing.T) {
	rng := NewMulberry32(12345)
	for range 10000 {
		v := rng.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestDailySeed(t *testing.T) {
	assert.Equal(t, uint32(80235), DailySeed(1))
	assert.Equal(t, uint32(586380), DailySeed(42))
}

func TestShuffleMatchesReference(t *testing.T) {
	letters := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	got := Shuffle(letters, NewMulberry32(DailySeed(1)))
	assert.Equal(t, []string{"I", "G", "H", "A", "D", "J", "C", "E", "B", "F"}, got)

	got = Shuffle(letters, NewMulberry32(DailySeed(42)))
	assert.Equal(t, []string{"B", "H", "G", "E", "C", "I", "D", "A", "J", "F"}, got)
}

func TestShuffleDoesNotModifyInput(t *testing.T) {
	words := []string{"ALPHA", "BRAVO", "DELTA"}
	out := Shuffle(words, NewMulberry32(7))

	assert.Equal(t, []string{"ALPHA", "BRAVO", "DELTA"}, words)
	assert.ElementsMatch(t, words, out)
}

func TestShuffleEmpty(t *testing.T) {
	assert.Empty(t, Shuffle(nil, NewMulberry32(1)))
}
