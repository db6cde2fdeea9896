package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/engine"
)

var errNoSuggestion = errors.New("no suggestion yet\n\n💡 Run 'suggest-engine suggest' first")

// NewReactCmd creates the 'react' command.
func NewReactCmd() *cobra.Command {
	var rating int
	var title string

	cmd := &cobra.Command{
		Use:   "react <saved|completed|skipped|not_interested>",
		Short: "Record how you felt about a suggestion",
		Long: `Record a reaction to the most recent suggestion (or --title for an earlier one).
"saved" and "completed" teach the engine what you like; "skipped" and
"not_interested" teach it what to avoid.`,
		Example: `  suggest-engine react completed --rating 5
  suggest-engine react not_interested --title "Trail run"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := activity.ParseInteractionType(args[0])
			if err != nil {
				return err
			}

			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := findSuggestion(e, title)
			if err != nil {
				return err
			}

			rec, err := e.RecordReaction(s, t, rating)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %q\n", rec.Type, rec.Title)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&title, "title", "", "Title of an earlier suggestion")

	return cmd
}

// NewSaveCmd creates the 'save' command.
func NewSaveCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the latest suggestion for later",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := findSuggestion(e, title)
			if err != nil {
				return err
			}

			added := e.SaveForLater(s)
			// Saving is also a like.
			if _, err := e.RecordReaction(s, activity.InteractionSaved, 0); err != nil {
				return err
			}

			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q for later\n", s.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q was already saved\n", s.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title of an earlier suggestion")
	return cmd
}

// NewUnsaveCmd creates the 'unsave' command.
func NewUnsaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <title>",
		Short: "Remove a saved suggestion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			title := strings.Join(args, " ")
			if !e.UnsaveForLater(title) {
				return fmt.Errorf("%q is not in your saved list", title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", title)
			return nil
		},
	}
}

// NewSavedCmd creates the 'saved' command.
func NewSavedCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List suggestions saved for later",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			saved := e.SavedForLater()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return printJSON(out, saved)
			}
			if len(saved) == 0 {
				fmt.Fprintln(out, "Nothing saved yet.")
				return nil
			}

			fmt.Fprintf(out, "Saved for later (%d):\n\n", len(saved))
			for _, s := range saved {
				printSuggestion(out, s)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

// findSuggestion returns the newest generated suggestion, or the one titled
// title from history or the saved list.
func findSuggestion(e *engine.Engine, title string) (activity.Suggestion, error) {
	history := e.History()

	if title == "" {
		if cur, ok := e.CurrentSuggestion(); ok {
			return cur, nil
		}
		if len(history) == 0 {
			return activity.Suggestion{}, errNoSuggestion
		}
		return history[0], nil
	}

	candidates := append(history, e.SavedForLater()...)
	for _, s := range candidates {
		if strings.EqualFold(strings.TrimSpace(s.Title), strings.TrimSpace(title)) {
			return s, nil
		}
	}
	return activity.Suggestion{}, fmt.Errorf("no recent suggestion titled %q", title)
}
