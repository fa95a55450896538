package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameSwitchCmd())
	cmd.AddCommand(newGameTypeCmd())
	cmd.AddCommand(newGameBackspaceCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameTimerCmd())
	cmd.AddCommand(newGameExpandCmd())
	cmd.AddCommand(newGameBoardCmd())

	return cmd
}

// shapeFlags are the puzzle options shared by new and switch
type shapeFlags struct {
	free       bool
	daily      int
	wordLength int
	boardCount int
	maxGuesses int
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.free, "free", false, "Free play instead of the daily puzzle")
	cmd.Flags().IntVar(&f.daily, "daily", 0, "Daily puzzle number (default today)")
	cmd.Flags().IntVar(&f.wordLength, "length", 0, "Word length (4-10)")
	cmd.Flags().IntVar(&f.boardCount, "boards", 0, "Number of boards (1-128)")
	cmd.Flags().IntVar(&f.maxGuesses, "guesses", 0, "Maximum guesses")
}

func (f *shapeFlags) request() map[string]any {
	req := map[string]any{"mode": "daily"}
	if f.free {
		req["mode"] = "free"
	}
	if f.daily > 0 {
		req["daily_number"] = f.daily
	}
	if f.wordLength > 0 {
		req["word_length"] = f.wordLength
	}
	if f.boardCount > 0 {
		req["board_count"] = f.boardCount
	}
	if f.maxGuesses > 0 {
		req["max_guesses"] = f.maxGuesses
	}
	return req
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), "/api/v1/game", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameNewCmd() *cobra.Command {
	var flags shapeFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/game/new", flags.request(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newGameSwitchCmd() *cobra.Command {
	var flags shapeFlags
	var fresh bool

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Switch mode, daily puzzle or puzzle shape, resuming saved progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request()
			req["resume"] = !fresh
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/game/switch", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Start over instead of resuming")
	return cmd
}

func newGameTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <letters>",
		Short: "Type letters into the current guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			for _, r := range args[0] {
				req := map[string]string{"letter": string(r)}
				if err := client.Post(cmd.Context(), "/api/v1/game/letters", req, &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameBackspaceCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "backspace",
		Short: "Delete letters from the current guess",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			for i := 0; i < max(1, count); i++ {
				if err := client.Delete(cmd.Context(), "/api/v1/game/letters", &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Letters to delete")
	return cmd
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess [word]",
		Short: "Submit a guess, or the letters typed so far",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if len(args) == 1 {
				req["guess"] = strings.ToUpper(args[0])
			}
			var result GuessResult

			if err := client.Post(cmd.Context(), "/api/v1/game/guess", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameTimerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timer",
		Short: "Start, pause or resume the timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/game/timer", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result)
			} else if result.Timer.Running {
				out.PrintMessage("Timer running at " + formatElapsed(result.Timer.ElapsedMS))
			} else {
				out.PrintMessage("Timer paused at " + formatElapsed(result.Timer.ElapsedMS))
			}
			return nil
		},
	}
}

func newGameExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [board]",
		Short: "Select a board (1-based) for the single-board view; no argument clears it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"board": nil}
			if len(args) == 1 {
				board, err := parseBoard(args[0])
				if err != nil {
					return err
				}
				req["board"] = board
			}
			var result Game

			if err := client.Put(cmd.Context(), "/api/v1/game/expanded", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <board>",
		Short: "Show every guess scored on one board (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := parseBoard(args[0])
			if err != nil {
				return err
			}
			var game Game

			if err := client.Get(cmd.Context(), "/api/v1/game", &game); err != nil {
				return err
			}
			if board >= len(game.Boards) {
				return fmt.Errorf("board must be between 1 and %d", len(game.Boards))
			}

			out := NewOutput(cfg.Output)
			out.Print(BoardView{Board: game.Boards[board], Guesses: game.Guesses})
			return nil
		},
	}
}

// parseBoard converts a 1-based board argument to an index
func parseBoard(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid board %q: must be a number from 1", arg)
	}
	return n - 1, nil
}
