/*
Package cli implements the suggest-engine command line.

Every command opens the engine from configuration, does one thing, and
closes it again so state is flushed to storage between invocations.
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/khanglvm/suggest-engine/internal/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

var globals globalOptions

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	globals = globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "suggest-engine",
		Short: "Personalized activity suggestions with a monthly quota",
		Long: `suggest-engine asks a generation service for one activity idea at a time.

Explicit filters (category, budget, setting, timing, participants, location)
are blended with preferences learned from how you reacted to earlier ideas:
saving or completing one counts as a like, skipping or marking it
"not interested" counts as a dislike.

Free usage is limited to a few suggestions per calendar month, optionally
with a cooldown between requests.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "Config file (default ~/.suggest-engine/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewSuggestCmd())
	rootCmd.AddCommand(NewRegenerateCmd())
	rootCmd.AddCommand(NewReactCmd())
	rootCmd.AddCommand(NewSaveCmd())
	rootCmd.AddCommand(NewUnsaveCmd())
	rootCmd.AddCommand(NewSavedCmd())
	rootCmd.AddCommand(NewQuotaCmd())
	rootCmd.AddCommand(NewProfileCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
