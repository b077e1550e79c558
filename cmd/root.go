package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "brainzbot",
	Short: "Discord bot that links accounts to ListenBrainz",
	Long: `brainzbot is a Discord bot for ListenBrainz.

It lets Discord users link their ListenBrainz account through an
interactive /login flow (token submitted via a modal, verified against
the ListenBrainz API, stored for later use) and query what a linked
user is currently listening to with /nowplaying.

It also runs a small auxiliary HTTP server for the public origin.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
