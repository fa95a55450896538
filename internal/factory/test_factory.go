package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/dotriacontordle/internal/config"
	"github.com/mcoot/dotriacontordle/internal/dependencies/mocks"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
	"github.com/mcoot/dotriacontordle/internal/services/dictionary"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
	"github.com/mcoot/dotriacontordle/internal/storage/memory"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

// TestStart is the mock clock's starting instant: 09:00 New York on the
// first day of the default calendar, daily puzzle 1
var TestStart = time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Word validation uses only the bundled dictionary.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestStart)
	mockRandom := mocks.NewMockRandom()
	logger := testutil.NopLogger()

	dict := dictionary.New(logger)
	if err := dict.LoadEmbedded(); err != nil {
		panic(err)
	}

	cfg := config.Default()
	app := newWithDependencies(cfg, store, mockClock, mockRandom, puzzle.DefaultCalendar(), dict, validation.NewDictionary(dict), logger)
	app.AuthService = auth.New(store, mockClock, mockRandom, auth.Config{
		SessionDuration: cfg.Auth.SessionDuration,
		PasswordCost:    bcrypt.MinCost,
	}, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// LoadTestWords adds words to the dictionary so they validate as guesses
func (t *TestApp) LoadTestWords(words ...string) {
	for _, w := range words {
		t.DictionaryService.AddWord(w)
	}
}
