package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GuessResult:
		o.printGuessResult(v)
	case BoardView:
		o.printBoardView(v)
	case Stats:
		o.printStats(v)
	case Settings:
		o.printSettings(v)
	case Daily:
		o.printDaily(v)
	case Validation:
		o.printValidation(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// GameConfig response type
type GameConfig struct {
	WordLength int    `json:"word_length"`
	BoardCount int    `json:"board_count"`
	MaxGuesses int    `json:"max_guesses"`
	ProfileID  string `json:"profile_id"`
}

// Board response type
type Board struct {
	Index         int        `json:"index"`
	Solved        bool       `json:"solved"`
	SolvedAtGuess *int       `json:"solved_at_guess,omitempty"`
	Answer        string     `json:"answer,omitempty"`
	Rows          [][]string `json:"rows"`
}

// Timer response type
type Timer struct {
	Running   bool       `json:"running"`
	ElapsedMS int64      `json:"elapsed_ms"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Game response type
type Game struct {
	GameID           string            `json:"game_id"`
	Mode             string            `json:"mode"`
	DailyNumber      int               `json:"daily_number,omitempty"`
	Config           GameConfig        `json:"config"`
	Status           string            `json:"status"`
	Guesses          []string          `json:"guesses"`
	CurrentGuess     string            `json:"current_guess"`
	GuessesRemaining int               `json:"guesses_remaining"`
	SolvedCount      int               `json:"solved_count"`
	Boards           []Board           `json:"boards"`
	Keyboard         map[string]string `json:"keyboard"`
	ExpandedBoard    *int              `json:"expanded_board"`
	Timer            Timer             `json:"timer"`
}

// GuessResult response type
type GuessResult struct {
	Ignored    bool   `json:"ignored,omitempty"`
	Guess      string `json:"guess,omitempty"`
	GuessIndex int    `json:"guess_index"`
	SolvedNow  []int  `json:"solved_now"`
	Status     string `json:"status,omitempty"`
	Stats      *Stats `json:"stats,omitempty"`
	Game       Game   `json:"game"`
}

// Stats response type
type Stats struct {
	GamesPlayed        int   `json:"games_played"`
	GamesWon           int   `json:"games_won"`
	WinRate            int   `json:"win_rate"`
	CurrentStreak      int   `json:"current_streak"`
	MaxStreak          int   `json:"max_streak"`
	GuessDistribution  []int `json:"guess_distribution"`
	LastPlayedDaily    *int  `json:"last_played_daily,omitempty"`
	LastCompletedDaily *int  `json:"last_completed_daily,omitempty"`
}

// Settings response type
type Settings struct {
	GlowMode            bool `json:"glow_mode"`
	FeedbackEnabled     bool `json:"feedback_enabled"`
	PreferredWordLength int  `json:"preferred_word_length"`
	PreferredBoardCount int  `json:"preferred_board_count"`
	PreferredMaxGuesses int  `json:"preferred_max_guesses"`
}

// Daily response type
type Daily struct {
	DailyNumber      int       `json:"daily_number"`
	NextResetAt      time.Time `json:"next_reset_at"`
	SecondsUntilNext int64     `json:"seconds_until_next"`
}

// Validation response type
type Validation struct {
	Word  string `json:"word"`
	Valid bool   `json:"valid"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// BoardView is one board shown with the guesses that scored on it
type BoardView struct {
	Board   Board    `json:"board"`
	Guesses []string `json:"guesses"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	title := "Free play"
	if g.Mode == "daily" {
		title = fmt.Sprintf("Daily #%d", g.DailyNumber)
	}
	fmt.Fprintf(o.w, "%s (%s) - %s\n", title, g.Config.ProfileID, g.Status)
	fmt.Fprintf(o.w, "Solved: %d/%d  Guesses: %d/%d  Time: %s\n",
		g.SolvedCount, len(g.Boards), len(g.Guesses), g.Config.MaxGuesses, formatElapsed(g.Timer.ElapsedMS))
	if g.CurrentGuess != "" {
		fmt.Fprintf(o.w, "Typing: %s\n", g.CurrentGuess)
	}

	fmt.Fprintln(o.w)
	for _, b := range g.Boards {
		fmt.Fprintf(o.w, "%3d %s\n", b.Index+1, boardSummary(b, g.Guesses))
	}

	if len(g.Keyboard) > 0 {
		fmt.Fprintln(o.w)
		fmt.Fprintf(o.w, "Keyboard: %s\n", keyboardLine(g.Keyboard))
	}
}

// boardSummary renders a board's latest row, or its answer once solved
func boardSummary(b Board, guesses []string) string {
	if b.Solved {
		return fmt.Sprintf("%s solved in %d", b.Answer, *b.SolvedAtGuess+1)
	}
	if len(b.Rows) == 0 {
		return "-"
	}
	last := len(b.Rows) - 1
	line := formatRow(guesses[last], b.Rows[last])
	if b.Answer != "" {
		line += "  answer: " + b.Answer
	}
	return line
}

// formatRow marks each letter: [A] correct, (A) present, and a lowercase letter when absent
func formatRow(word string, tiles []string) string {
	var b strings.Builder
	for i, r := range word {
		state := ""
		if i < len(tiles) {
			state = tiles[i]
		}
		switch state {
		case "correct":
			fmt.Fprintf(&b, "[%c]", r)
		case "present":
			fmt.Fprintf(&b, "(%c)", r)
		default:
			fmt.Fprintf(&b, " %s ", strings.ToLower(string(r)))
		}
	}
	return b.String()
}

func keyboardLine(keyboard map[string]string) string {
	letters := make([]string, 0, len(keyboard))
	for letter := range keyboard {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	var b strings.Builder
	for _, letter := range letters {
		b.WriteString(formatRow(letter, []string{keyboard[letter]}))
	}
	return b.String()
}

func formatElapsed(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (o *Output) printGuessResult(r GuessResult) {
	if r.Ignored {
		fmt.Fprintln(o.w, "Guess ignored: another guess is still being checked")
		return
	}
	fmt.Fprintf(o.w, "Guess %d: %s\n", r.GuessIndex+1, r.Guess)
	if len(r.SolvedNow) > 0 {
		boards := make([]string, len(r.SolvedNow))
		for i, b := range r.SolvedNow {
			boards[i] = fmt.Sprint(b + 1)
		}
		fmt.Fprintf(o.w, "Solved boards: %s\n", strings.Join(boards, ", "))
	}
	switch r.Status {
	case "won":
		fmt.Fprintf(o.w, "You won in %d guesses!\n", len(r.Game.Guesses))
	case "lost":
		fmt.Fprintf(o.w, "Out of guesses: %d/%d boards solved\n", r.Game.SolvedCount, len(r.Game.Boards))
	default:
		fmt.Fprintf(o.w, "Solved: %d/%d  Guesses left: %d\n", r.Game.SolvedCount, len(r.Game.Boards), r.Game.GuessesRemaining)
	}
	if r.Stats != nil {
		fmt.Fprintln(o.w)
		o.printStats(*r.Stats)
	}
}

func (o *Output) printBoardView(v BoardView) {
	fmt.Fprintf(o.w, "Board %d", v.Board.Index+1)
	if v.Board.Answer != "" {
		fmt.Fprintf(o.w, " (%s)", v.Board.Answer)
	}
	fmt.Fprintln(o.w)
	for i, row := range v.Board.Rows {
		fmt.Fprintf(o.w, "%3d %s\n", i+1, formatRow(v.Guesses[i], row))
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Played: %d  Won: %d  Win rate: %d%%\n", s.GamesPlayed, s.GamesWon, s.WinRate)
	fmt.Fprintf(o.w, "Streak: %d  Best: %d\n", s.CurrentStreak, s.MaxStreak)

	peak := 0
	for _, n := range s.GuessDistribution {
		peak = max(peak, n)
	}
	if peak == 0 {
		return
	}
	fmt.Fprintln(o.w, "Guess distribution:")
	for i, n := range s.GuessDistribution {
		if n == 0 {
			continue
		}
		fmt.Fprintf(o.w, "%3d %s %d\n", i+1, strings.Repeat("#", max(1, n*30/peak)), n)
	}
}

func (o *Output) printSettings(s Settings) {
	fmt.Fprintf(o.w, "Preferred puzzle: %d letters, %d boards, %d guesses\n",
		s.PreferredWordLength, s.PreferredBoardCount, s.PreferredMaxGuesses)
	fmt.Fprintf(o.w, "Glow mode: %t\n", s.GlowMode)
	fmt.Fprintf(o.w, "Feedback: %t\n", s.FeedbackEnabled)
}

func (o *Output) printDaily(d Daily) {
	until := time.Duration(d.SecondsUntilNext) * time.Second
	fmt.Fprintf(o.w, "Daily #%d\n", d.DailyNumber)
	fmt.Fprintf(o.w, "Next puzzle in %s (%s)\n", until, d.NextResetAt.Local().Format(time.RFC1123))
}

func (o *Output) printValidation(v Validation) {
	if v.Valid {
		fmt.Fprintf(o.w, "%s is a word\n", v.Word)
	} else {
		fmt.Fprintf(o.w, "%s is not in the word list\n", v.Word)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
