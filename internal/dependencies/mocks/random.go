package mocks

import (
	"fmt"

	"github.com/mcoot/dotriacontordle/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// Uint32Results is a queue of results to return from Uint32
	Uint32Results []uint32
	uint32Index   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	uuidCount int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Uint32 returns the next queued result, or 1 if none remaining
func (r *MockRandom) Uint32() uint32 {
	if r.uint32Index >= len(r.Uint32Results) {
		return 1
	}
	result := r.Uint32Results[r.uint32Index]
	r.uint32Index++
	return result
}

// UUID returns a predictable sequence of ids: uuid-1, uuid-2, ...
func (r *MockRandom) UUID() string {
	r.uuidCount++
	return fmt.Sprintf("uuid-%d", r.uuidCount)
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueUint32 adds values to the Uint32 result queue
func (r *MockRandom) QueueUint32(values ...uint32) {
	r.Uint32Results = append(r.Uint32Results, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.Uint32Results = nil
	r.uint32Index = 0
	r.StringResults = nil
	r.stringIndex = 0
	r.uuidCount = 0
}
