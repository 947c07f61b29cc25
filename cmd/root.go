// Package cmd contains the nutrichat command surface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/evanmaki/nutrichat/api"
	"github.com/evanmaki/nutrichat/config"
)

var rootCmd = &cobra.Command{
	Use:   "nutrichat",
	Short: "Terminal client for a nutrition advice chat service",
	Long: `nutrichat is a terminal client for a remote nutrition advice service.

It keeps a running transcript of your questions and the assistant's answers,
one request per turn. Running nutrichat with no arguments starts an
interactive conversation.

Examples:
  nutrichat                                # interactive chat
  nutrichat ask "how much protein daily?"  # one-shot question
  nutrichat health                         # service diagnostics
  nutrichat upload nutrition-basics.pdf    # index a document`,
	SilenceUsage: true,
	RunE:         runChat,
}

// apiBase overrides the configured service base URL for any subcommand.
var apiBase string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "nutrition service base URL (overrides config and NUTRICHAT_API_BASE)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig returns the user config, falling back to defaults when no
// config file exists yet.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// newClient builds an API client from the resolved config.
func newClient(cfg *config.Config) *api.Client {
	client := api.NewClient(cfg.ResolveBaseURL(apiBase))
	client.SetHealthTimeout(cfg.HealthTimeout())
	return client
}
