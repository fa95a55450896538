package factory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dotriacontordle/internal/config"
	"github.com/mcoot/dotriacontordle/internal/dependencies/mocks"
	"github.com/mcoot/dotriacontordle/internal/services/dictionary"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
	"github.com/mcoot/dotriacontordle/internal/storage/memory"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

func TestSessionsShareValidationLookups(t *testing.T) {
	ctx := context.Background()
	logger := testutil.NopLogger()

	var lookups atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	gated := validation.ValidatorFunc(func(context.Context, string, int) (bool, error) {
		lookups.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return true, nil
	})

	dict := dictionary.New(logger)
	require.NoError(t, dict.LoadEmbedded())
	app := newWithDependencies(config.Default(), memory.New(), mocks.NewMockClock(TestStart), mocks.NewMockRandom(),
		puzzle.DefaultCalendar(), dict, gated, logger)
	defer func() { require.NoError(t, app.Close(ctx)) }()

	first, err := app.Sessions.ControllerFor(ctx, "p1")
	require.NoError(t, err)
	second, err := app.Sessions.ControllerFor(ctx, "p2")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = first.SubmitWord(ctx, "ZYGOTE")
	}()
	<-started
	go func() {
		defer wg.Done()
		_, errs[1] = second.SubmitWord(ctx, "ZYGOTE")
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), lookups.Load(), "concurrent sessions share one lookup")
	assert.Equal(t, []string{"ZYGOTE"}, first.State().Guesses)
	assert.Equal(t, []string{"ZYGOTE"}, second.State().Guesses)

	ok, err := app.Validator.Validate(ctx, "ZYGOTE", 6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.IsType(t, &validation.Dedup{}, app.Validator)
}
