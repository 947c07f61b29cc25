package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single nutrition question",
	Long: `Send one question to the nutrition service and print the answer.

Unlike chat, ask exits non-zero when the request fails, which makes it
usable from scripts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := newClient(cfg)

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	reply, err := client.Chat(context.Background(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Println(renderMarkdown(reply.Response, cfg.UI.WordWrap))
	if len(reply.Sources) > 0 {
		fmt.Println("sources: " + strings.Join(reply.Sources, ", "))
	}
	return nil
}

// renderMarkdown pretty-prints markdown for the terminal, falling back to
// the raw text when rendering is unavailable.
func renderMarkdown(text string, wordWrap int) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if os.Getenv("NO_COLOR") != "" {
		opts = append(opts, glamour.WithStylePath("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
