package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/evanmaki/nutrichat/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize nutrichat configuration",
	Long:  `Create the nutrichat configuration directory and default config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()

	var (
		baseURL   = cfg.API.BaseURL
		logToFile = true
		logLevel  = "info"
	)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nutrition service base URL").
				Description("Where the chat API is running, e.g. http://localhost:8000.").
				Placeholder(cfg.API.BaseURL).
				Value(&baseURL),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write logs to a file?").
				Description("Logs are written to logs/nutrichat.log under the config directory.").
				Value(&logToFile),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("info (default)", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&logLevel),
		),
	).Run()
	if err != nil {
		return err
	}

	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	cfg.Logging.Level = logLevel
	if !logToFile {
		// The file is the only default sink, so declining it disables logging.
		disabled := false
		cfg.Logging.Enabled = &disabled
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println("Config written to:", configPath)
	fmt.Println("Run `nutrichat` to start chatting, or `nutrichat health` to verify connectivity.")
	return nil
}
