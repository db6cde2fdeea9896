package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/engine"
)

// NewSuggestCmd creates the 'suggest' command.
func NewSuggestCmd() *cobra.Command {
	var filters activity.Filters
	var budget, setting string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Get one activity suggestion",
		Long: `Ask for one activity suggestion. Filters left unset (or "Any") are filled in
from your learned preferences.`,
		Example: `  suggest-engine suggest
  suggest-engine suggest --category Foodie --budget '$'
  suggest-engine suggest --setting outdoor --timing "Saturday morning" --participants 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Budget = activity.CostTier(budget)
			filters.Setting = activity.Setting(strings.ToLower(setting))
			if err := validateFilters(filters); err != nil {
				return err
			}
			return runGenerate(cmd, jsonOutput, func(ctx context.Context, e *engine.Engine) engine.Result {
				return e.Request(ctx, filters)
			})
		},
	}

	cmd.Flags().StringVarP(&filters.Category, "category", "c", "", "Category, e.g. Foodie, Active, Cultural (default Any)")
	cmd.Flags().StringVarP(&budget, "budget", "b", "", "Budget: free, $, $$, $$$ (default Any)")
	cmd.Flags().StringVarP(&setting, "setting", "s", "", "Setting: indoor, outdoor, either")
	cmd.Flags().StringVarP(&filters.Timing, "timing", "t", "", "When, e.g. tonight")
	cmd.Flags().StringVarP(&filters.Participants, "participants", "p", "", "Who or how many")
	cmd.Flags().StringVarP(&filters.Location, "location", "l", "", "Where")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// NewRegenerateCmd creates the 'regenerate' command.
func NewRegenerateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Get another suggestion with the last filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, jsonOutput, func(ctx context.Context, e *engine.Engine) engine.Result {
				return e.Regenerate(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func validateFilters(f activity.Filters) error {
	if !f.BudgetUnset() && !f.Budget.Valid() {
		return fmt.Errorf("invalid budget %q: use free, $, $$, $$$ or Any", f.Budget)
	}
	switch f.Setting {
	case activity.SettingUnset, activity.SettingEither, activity.SettingIndoor, activity.SettingOutdoor:
		return nil
	default:
		return fmt.Errorf("invalid setting %q: use indoor, outdoor or either", f.Setting)
	}
}

func runGenerate(cmd *cobra.Command, jsonOutput bool, call func(context.Context, *engine.Engine) engine.Result) error {
	e, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	// Ctrl-C abandons the request.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res := call(ctx, e)
	out := cmd.OutOrStdout()

	if jsonOutput {
		return printJSON(out, resultView(res))
	}

	if !res.Success {
		return describeFailure(out, res)
	}

	printSuggestion(out, res.Suggestion)
	if len(res.Filters.Inferred) > 0 {
		fmt.Fprintf(out, "\n(from your preferences: %s)\n", strings.Join(res.Filters.Inferred, ", "))
	}
	fmt.Fprintf(out, "\nSuggestions left this month: %d\n", e.RemainingQuota())
	return nil
}

func describeFailure(w io.Writer, res engine.Result) error {
	switch res.Reason {
	case engine.ReasonLimitReached:
		fmt.Fprintln(w, "You've used all your suggestions for this month.")
	case engine.ReasonCooldownActive:
		fmt.Fprintf(w, "Please wait %s before asking again.\n", formatDuration(res.CooldownRemaining))
	case engine.ReasonNoPriorFilters:
		fmt.Fprintln(w, "Nothing to regenerate yet. Run 'suggest-engine suggest' first.")
	case engine.ReasonAbandoned:
		fmt.Fprintln(w, "Cancelled.")
		return nil
	case engine.ReasonTimeout:
		fmt.Fprintln(w, "The suggestion service took too long. Try again.")
	case engine.ReasonNetwork:
		fmt.Fprintln(w, "Couldn't reach the suggestion service. Try again.")
	case engine.ReasonValidation:
		fmt.Fprintln(w, "The suggestion service returned something unusable. Try again.")
	default:
		fmt.Fprintln(w, "Something went wrong. Try again.")
	}

	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Reason, res.Err)
	}
	return fmt.Errorf("%s", res.Reason)
}

type resultJSON struct {
	Success           bool                 `json:"success"`
	Reason            string               `json:"reason,omitempty"`
	Error             string               `json:"error,omitempty"`
	Suggestion        *activity.Suggestion `json:"suggestion,omitempty"`
	Filters           any                  `json:"filters,omitempty"`
	Attempts          int                  `json:"attempts,omitempty"`
	Remaining         int                  `json:"remaining"`
	CooldownRemaining string               `json:"cooldown_remaining,omitempty"`
}

func resultView(res engine.Result) resultJSON {
	v := resultJSON{
		Success:   res.Success,
		Reason:    string(res.Reason),
		Attempts:  res.Attempts,
		Remaining: res.Remaining,
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	if res.Success {
		s := res.Suggestion
		v.Suggestion = &s
		v.Filters = res.Filters
	}
	if res.CooldownRemaining > 0 {
		v.CooldownRemaining = res.CooldownRemaining.String()
	}
	return v
}
