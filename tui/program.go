package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanmaki/nutrichat/api"
	"github.com/evanmaki/nutrichat/logger"
)

// Options tunes the conversation view.
type Options struct {
	WordWrap int // markdown wrap column for assistant replies
}

// Run starts the conversation view and blocks until the user quits. Log
// output is routed into the log panel for the duration of the session.
func Run(client *api.Client, opts Options) error {
	app := NewApp(client, opts.WordWrap)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	logger.Intercept(&logWriter{program: program})
	defer logger.Restore()

	_, err := program.Run()
	return err
}

// logWriter forwards intercepted log output into the TUI as LogLineMsg.
type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.program.Send(LogLineMsg{Line: string(p)})
	return len(p), nil
}
