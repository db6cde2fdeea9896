package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewQuotaCmd creates the 'quota' command.
func NewQuotaCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show remaining suggestions and cooldown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			remaining := e.RemainingQuota()
			cooldown := e.CooldownRemaining()
			state := e.QuotaState()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return printJSON(out, map[string]any{
					"period":             state.PeriodKey,
					"used":               state.Count,
					"monthly_cap":        e.MonthlyCap(),
					"remaining":          remaining,
					"cooldown_remaining": cooldown.String(),
					"unlimited":          cfg.Quota.Unlimited,
				})
			}

			fmt.Fprintln(out, "Suggestion Quota")
			fmt.Fprintln(out, "================")
			if cfg.Quota.Unlimited {
				fmt.Fprintln(out, "Plan:      unlimited")
				return nil
			}
			fmt.Fprintf(out, "Period:    %s\n", orDash(state.PeriodKey))
			fmt.Fprintf(out, "Remaining: %d/%d\n", remaining, e.MonthlyCap())
			fmt.Fprintf(out, "Cooldown:  %s\n", formatDuration(cooldown))
			if remaining == 0 {
				fmt.Fprintf(out, "\nResets on %s\n", nextPeriodStart(time.Now()).Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

// nextPeriodStart returns the first instant of the next quota period.
func nextPeriodStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// NewProfileCmd creates the 'profile' command.
func NewProfileCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show what the engine has learned about you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			p := e.RefreshProfile()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return printJSON(out, p)
			}

			fmt.Fprintln(out, "Learning Profile")
			fmt.Fprintln(out, "================")
			if p.Empty() {
				fmt.Fprintln(out, "No reactions recorded yet.")
				fmt.Fprintln(out, "Use 'suggest-engine react' after a suggestion to teach the engine.")
				return nil
			}
			fmt.Fprintf(out, "Liked categories:    %s\n", formatCounts(p.LikedCategoryCounts))
			fmt.Fprintf(out, "Disliked categories: %s\n", formatCounts(p.DislikedCategoryCounts))
			fmt.Fprintf(out, "Liked themes:        %s\n", orDash(strings.Join(p.LikedThemes, ", ")))
			fmt.Fprintf(out, "Avoided themes:      %s\n", orDash(strings.Join(p.StronglyDislikedThemes(), ", ")))
			fmt.Fprintf(out, "Preferred budget:    %s\n", orDash(string(p.PreferredBudget)))
			fmt.Fprintf(out, "Preferred setting:   %s\n", orDash(string(p.PreferredSetting)))
			if top := p.TopLikedCategory(); top != "" {
				fmt.Fprintf(out, "\n\"Any\" category currently means: %s\n", top)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

// NewHistoryCmd creates the 'history' command.
func NewHistoryCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reactions and suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			interactions := e.RecentInteractions(limit)
			suggestions := e.History()
			out := cmd.OutOrStdout()

			if jsonOutput {
				return printJSON(out, map[string]any{
					"interactions": interactions,
					"suggestions":  suggestions,
				})
			}

			fmt.Fprintf(out, "Recent reactions (%d):\n", len(interactions))
			for _, rec := range interactions {
				when := time.UnixMilli(rec.TimestampMs).Local().Format("2006-01-02 15:04")
				line := fmt.Sprintf("  %s  %-15s %s [%s]", when, rec.Type, rec.Title, rec.Category)
				if rec.Rating > 0 {
					line += fmt.Sprintf(" ★%d", rec.Rating)
				}
				fmt.Fprintln(out, line)
			}

			fmt.Fprintf(out, "\nRecent suggestions (%d):\n", len(suggestions))
			for _, s := range suggestions {
				fmt.Fprintf(out, "  %s [%s, %s]\n", s.Title, s.Category, s.Cost)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of reactions to show")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}
