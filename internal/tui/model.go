// Package tui is a full-screen terminal client for a single local game.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/game"
)

// MessageDuration is how long a transient message stays on screen
const MessageDuration = 2 * time.Second

// Controller is the game surface the terminal client drives
type Controller interface {
	State() model.GameState
	AddLetter(letter rune) error
	RemoveLetter()
	ToggleTimer()
	SetExpandedBoard(board *int) error
	NewGame(ctx context.Context, mode model.GameMode, dailyNumber *int, cfg *model.GameConfig) error
	SwitchMode(ctx context.Context, mode model.GameMode, dailyNumber *int, cfg *model.GameConfig, resume bool) error
	SubmitGuess(ctx context.Context) (game.SubmitOutcome, error)
	Subscribe(buffer int) (<-chan model.Event, func())
}

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

// Messages
type (
	eventMsg      model.Event
	tickMsg       time.Time
	clearMsg      struct{ id int }
	submitDoneMsg struct {
		outcome game.SubmitOutcome
		err     error
	}
)

// Model is the bubbletea model for the play screen
type Model struct {
	ctx         context.Context
	controller  Controller
	clock       clock.Clock
	settings    model.Settings
	events      <-chan model.Event
	unsubscribe func()

	state      model.GameState
	keys       keyMap
	help       help.Model
	viewport   viewport.Model
	message    string
	isError    bool
	messageID  int
	submitting bool
	width      int
	height     int
}

// New creates the play screen for controller
func New(ctx context.Context, controller Controller, settings model.Settings, clk clock.Clock) Model {
	events, unsubscribe := controller.Subscribe(16)
	m := Model{
		ctx:         ctx,
		controller:  controller,
		clock:       clk,
		settings:    settings,
		events:      events,
		unsubscribe: unsubscribe,
		state:       controller.State(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		viewport:    viewport.New(80, 20),
		width:       80,
		height:      30,
	}
	m.refresh()
	return m
}

// Close stops listening for game events
func (m Model) Close() {
	m.unsubscribe()
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick())
}

func waitForEvent(events <-chan model.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case eventMsg:
		m.state = msg.State
		m.refresh()
		var cmd tea.Cmd
		switch msg.Type {
		case model.EventGameWon:
			cmd = m.notify(fmt.Sprintf("Solved all %d boards!", len(msg.State.Boards)), false)
		case model.EventGameLost:
			cmd = m.notify(fmt.Sprintf("Out of guesses: %d/%d solved", msg.State.SolvedCount(), len(msg.State.Boards)), false)
		}
		return m, tea.Batch(waitForEvent(m.events), cmd)

	case tickMsg:
		return m, tick()

	case clearMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		m.state = m.controller.State()
		m.refresh()
		switch {
		case msg.err != nil:
			return m, m.notify(errorText(msg.err), true)
		case len(msg.outcome.SolvedNow) > 0 && !msg.outcome.Status.IsTerminal() && m.settings.FeedbackEnabled:
			return m, m.notify(solvedText(msg.outcome.SolvedNow), false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		return m, m.submit()

	case key.Matches(msg, m.keys.Backspace):
		m.controller.RemoveLetter()

	case key.Matches(msg, m.keys.Timer):
		m.controller.ToggleTimer()

	case key.Matches(msg, m.keys.NextBoard):
		m.moveExpanded(1)

	case key.Matches(msg, m.keys.PrevBoard):
		m.moveExpanded(-1)

	case key.Matches(msg, m.keys.Collapse):
		_ = m.controller.SetExpandedBoard(nil)

	case key.Matches(msg, m.keys.NewFree):
		if err := m.controller.NewGame(m.ctx, model.ModeFree, nil, nil); err != nil {
			return m, m.notify(errorText(err), true)
		}

	case key.Matches(msg, m.keys.Daily):
		if err := m.controller.SwitchMode(m.ctx, model.ModeDaily, nil, nil, true); err != nil {
			return m, m.notify(errorText(err), true)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refresh()

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDn):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		// Anything that is not a letter is ignored
		_ = m.controller.AddLetter(msg.Runes[0])
	}

	m.state = m.controller.State()
	m.refresh()
	return m, nil
}

func (m Model) submit() tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		outcome, err := c.SubmitGuess(ctx)
		return submitDoneMsg{outcome: outcome, err: err}
	}
}

// notify shows text until MessageDuration passes or another message replaces it
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.messageID++
	m.message = text
	m.isError = isError
	id := m.messageID
	return tea.Tick(MessageDuration, func(time.Time) tea.Msg {
		return clearMsg{id: id}
	})
}

func (m *Model) moveExpanded(delta int) {
	n := len(m.state.Boards)
	if n == 0 {
		return
	}
	next := 0
	if delta < 0 {
		next = n - 1
	}
	if m.state.ExpandedBoard != nil {
		next = (*m.state.ExpandedBoard + delta + n) % n
	}
	_ = m.controller.SetExpandedBoard(&next)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, model.ErrWrongLength):
		return "Not enough letters"
	case errors.Is(err, model.ErrDuplicateGuess):
		return "Already guessed"
	case errors.Is(err, model.ErrNotAWord):
		return "Not in word list"
	case errors.Is(err, model.ErrValidationUnavailable):
		return "Couldn't check the word, try again"
	case errors.Is(err, model.ErrNotPlaying):
		return "Game over: ctrl+n for a new game"
	case errors.Is(err, model.ErrNoAnswers):
		return "Not enough words for that puzzle"
	default:
		return err.Error()
	}
}

func solvedText(boards []int) string {
	if len(boards) == 1 {
		return fmt.Sprintf("Solved board %d", boards[0]+1)
	}
	return fmt.Sprintf("Solved %d boards", len(boards))
}

// refresh re-renders the board area into the viewport
func (m *Model) refresh() {
	m.viewport.Width = max(20, m.width)
	m.viewport.Height = max(3, m.height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()))
	m.viewport.SetContent(m.boards())
}

// View implements tea.Model
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m Model) header() string {
	s := m.state
	title := "Free play"
	if s.Mode == model.ModeDaily {
		title = fmt.Sprintf("Daily #%d", s.DailyNumber)
	}
	elapsed := s.Elapsed(m.clock.Now())
	timer := fmt.Sprintf("%d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
	if !s.TimerRunning && s.Status == model.StatusPlaying && s.StartedAt != nil {
		timer += " (paused)"
	}

	status := fmt.Sprintf("Solved %d/%d  Guesses %d/%d  %s",
		s.SolvedCount(), len(s.Boards), len(s.Guesses), s.Config.MaxGuesses, timer)
	switch s.Status {
	case model.StatusWon:
		status = styleWon.Render("Won! ") + status
	case model.StatusLost:
		status = styleLost.Render("Lost. ") + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(fmt.Sprintf("%s  %s", title, styleSubtle.Render(s.Config.ProfileID))),
		status,
		renderTyping(s.CurrentGuess, s.Config.WordLength),
	)
}

func (m Model) boards() string {
	s := m.state
	if s.ExpandedBoard != nil && *s.ExpandedBoard < len(s.Boards) {
		return m.expandedBoard(*s.ExpandedBoard)
	}

	cellWidth := s.Config.WordLength*3 + 2
	perRow := max(1, m.width/cellWidth)
	var rows []string
	for start := 0; start < len(s.Boards); start += perRow {
		var cells []string
		for i := start; i < min(start+perRow, len(s.Boards)); i++ {
			cells = append(cells, styleCell.Render(m.boardCell(i)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// boardCell shows a board's number and its latest row, or its answer once solved
func (m Model) boardCell(i int) string {
	s := m.state
	b := s.Boards[i]
	label := styleSubtle.Render(fmt.Sprintf("%d", i+1))
	switch {
	case b.Solved:
		row := make([]model.TileState, s.Config.WordLength)
		for j := range row {
			row[j] = model.TileCorrect
		}
		return label + "\n" + renderRow(b.Answer, row, m.settings.GlowMode)
	case len(s.Guesses) == 0:
		return label + "\n" + renderTyping("", s.Config.WordLength)
	}
	last := len(s.Guesses) - 1
	row := renderRow(s.Guesses[last], game.EvaluationForBoard(s, i, last), m.settings.GlowMode)
	if s.Status.IsTerminal() {
		row += "\n" + styleSolved.Render(b.Answer)
	}
	return label + "\n" + row
}

func (m Model) expandedBoard(i int) string {
	s := m.state
	b := s.Boards[i]
	var lines []string
	header := fmt.Sprintf("Board %d of %d", i+1, len(s.Boards))
	if b.Solved || s.Status.IsTerminal() {
		header += "  " + styleSolved.Render(b.Answer)
	}
	lines = append(lines, styleTitle.Render(header))

	rows := len(s.Guesses)
	if b.SolvedAtGuess != nil {
		rows = *b.SolvedAtGuess + 1
	}
	for g := 0; g < rows; g++ {
		lines = append(lines, renderRow(s.Guesses[g], game.EvaluationForBoard(s, i, g), m.settings.GlowMode))
	}
	return styleSelected.Render(strings.Join(lines, "\n"))
}

func (m Model) footer() string {
	var lines []string
	for _, row := range keyboardRows {
		cells := make([]string, 0, len(row))
		for _, r := range row {
			cells = append(cells, tileStyle(m.state.Keyboard[string(r)], m.settings.GlowMode).Render(string(r)))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	message := m.message
	if message != "" {
		if m.isError {
			message = styleError.Render(message)
		} else {
			message = styleMessage.Render(message)
		}
	}
	lines = append(lines, message, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
