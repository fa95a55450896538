package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's daily puzzle number and time to the next one",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Daily

			if err := client.Get(cmd.Context(), "/api/v1/daily", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "validate <word>",
		Short: "Check whether a word is accepted as a guess",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"word": {args[0]}}
			if length > 0 {
				query.Set("length", strconv.Itoa(length))
			}
			var result Validation

			if err := client.Get(cmd.Context(), "/api/v1/validate?"+query.Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "Required word length (default the word's own length)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the current puzzle shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSettingsCmd() *cobra.Command {
	var (
		glow       bool
		feedback   bool
		wordLength int
		boardCount int
		maxGuesses int
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Long: `Show preferences, or change them with flags. The preferred puzzle
shape is used the next time a session starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("glow") {
				req["glow_mode"] = glow
			}
			if cmd.Flags().Changed("feedback") {
				req["feedback_enabled"] = feedback
			}
			if cmd.Flags().Changed("length") {
				req["preferred_word_length"] = wordLength
			}
			if cmd.Flags().Changed("boards") {
				req["preferred_board_count"] = boardCount
			}
			if cmd.Flags().Changed("guesses") {
				req["preferred_max_guesses"] = maxGuesses
			}

			var result Settings
			var err error
			if len(req) == 0 {
				err = client.Get(cmd.Context(), "/api/v1/settings", &result)
			} else {
				err = client.Put(cmd.Context(), "/api/v1/settings", req, &result)
			}
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&glow, "glow", false, "Glow mode")
	cmd.Flags().BoolVar(&feedback, "feedback", true, "Show guess feedback messages")
	cmd.Flags().IntVar(&wordLength, "length", 0, "Preferred word length")
	cmd.Flags().IntVar(&boardCount, "boards", 0, "Preferred number of boards")
	cmd.Flags().IntVar(&maxGuesses, "guesses", 0, "Preferred maximum guesses")
	return cmd
}
