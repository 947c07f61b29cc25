package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	userMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
)

// ChatPanel displays the transcript in a scrollable viewport. User lines are
// echoed verbatim; assistant replies are rendered as terminal markdown.
type ChatPanel struct {
	viewport viewport.Model
	lines    []string
	renderer *glamour.TermRenderer
}

// NewChatPanel creates a chat panel wrapping markdown at wordWrap columns.
func NewChatPanel(wordWrap int) *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if os.Getenv("NO_COLOR") != "" {
		opts = append(opts, glamour.WithStylePath("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	// A nil renderer falls back to plain text.
	renderer, _ := glamour.NewTermRenderer(opts...)

	return &ChatPanel{viewport: vp, renderer: renderer}
}

// AppendUser echoes a submitted user message.
func (p *ChatPanel) AppendUser(text string) {
	p.appendLine(userMsgStyle.Render("> " + text))
}

// AppendAssistant renders an assistant reply as markdown.
func (p *ChatPanel) AppendAssistant(text string) {
	rendered := text
	if p.renderer != nil {
		if out, err := p.renderer.Render(text); err == nil {
			rendered = strings.TrimRight(out, "\n")
		}
	}
	p.appendLine(rendered)
}

// AppendInfo adds a dim annotation line, e.g. the reply's source documents.
func (p *ChatPanel) AppendInfo(text string) {
	p.appendLine(sourceStyle.Render(text))
}

func (p *ChatPanel) appendLine(line string) {
	p.lines = append(p.lines, line)
	p.viewport.SetContent(strings.Join(p.lines, "\n"))
	p.viewport.GotoBottom()
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}
