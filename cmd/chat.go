package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evanmaki/nutrichat/api"
	"github.com/evanmaki/nutrichat/conversation"
	"github.com/evanmaki/nutrichat/logger"
	"github.com/evanmaki/nutrichat/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the nutrition service.

With a terminal attached this opens the full-screen chat view. When stdin is
piped, questions are read line by line and answers printed in plain text.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	client := newClient(cfg)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return tui.Run(client, tui.Options{WordWrap: cfg.UI.WordWrap})
	}
	return runPlainChat(client)
}

// runPlainChat reads questions from stdin one line at a time (non-TTY mode).
// Turns are strictly sequential, so the conversation is never busy when a
// new line is read; the same settle rules as the TUI apply.
func runPlainChat(client *api.Client) error {
	conv := conversation.New()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("nutrichat> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" || text == "/exit" || text == "/quit" {
			fmt.Println("Goodbye!")
			break
		}

		sent, ok := conv.Begin(text)
		if !ok {
			continue
		}

		reply, err := client.Chat(context.Background(), sent)
		var answer string
		switch {
		case err == nil:
			answer = reply.Response
		case errors.Is(err, api.ErrNoReply):
			logger.Warn("chat turn returned no reply", "error", err)
			answer = conversation.FallbackNoReply
		default:
			logger.Error("chat turn failed", "error", err)
			answer = conversation.FallbackFailure
		}
		conv.Resolve(answer)

		fmt.Println()
		fmt.Println(answer)
		if err == nil && len(reply.Sources) > 0 {
			fmt.Println("sources: " + strings.Join(reply.Sources, ", "))
		}
		fmt.Println()
	}

	return scanner.Err()
}
