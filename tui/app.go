package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evanmaki/nutrichat/api"
	"github.com/evanmaki/nutrichat/conversation"
	"github.com/evanmaki/nutrichat/logger"
)

const (
	defaultLogRatio = 0.3
	// bannerTTL is how long a transient error banner stays visible.
	bannerTTL = 5 * time.Second
)

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// chatReplyMsg settles a chat turn with the service reply.
type chatReplyMsg struct{ reply *api.ChatReply }

// chatFailedMsg settles a chat turn that could not produce a reply.
type chatFailedMsg struct{ err error }

// healthReplyMsg carries the result of an explicit /health command.
type healthReplyMsg struct{ status *api.HealthStatus }

// healthFailedMsg reports a failed /health command.
type healthFailedMsg struct{ err error }

// startupPingMsg reports whether the service answered the initial probe.
type startupPingMsg struct{ err error }

// bannerExpiredMsg dismisses the banner shown under the given id.
type bannerExpiredMsg struct{ id int }

// App is the root bubbletea model: the conversation view. It owns the
// transcript, drives the request lifecycle and surfaces transient errors.
type App struct {
	conv   *conversation.Conversation
	client *api.Client

	logPanel   Panel
	chatPanel  *ChatPanel
	inputPanel *InputPanel
	spin       spinner.Model

	width, height int
	logRatio      float64

	// healthPending gates /health the same way the conversation's busy
	// flag gates chat turns: one outstanding call at a time, total.
	healthPending bool

	banner   string
	bannerID int // invalidates stale expiry ticks
}

// NewApp creates the conversation view for one service client.
func NewApp(client *api.Client, wordWrap int) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return &App{
		conv:       conversation.New(),
		client:     client,
		logPanel:   NewLogPanel(),
		chatPanel:  NewChatPanel(wordWrap),
		inputPanel: NewInputPanel("nutrichat> "),
		spin:       s,
		logRatio:   defaultLogRatio,
	}
}

func (m *App) Init() tea.Cmd {
	return startupPingCmd(m.client)
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		// All other keys go to the input panel; the field stays editable
		// while a reply is outstanding.
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p.(*InputPanel)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)

	case InputSubmitMsg:
		return m.handleSubmit(msg.Text)

	case chatReplyMsg:
		reply := m.conv.Resolve(msg.reply.Response)
		m.chatPanel.AppendAssistant(reply.Content)
		if len(msg.reply.Sources) > 0 {
			m.chatPanel.AppendInfo("sources: " + strings.Join(msg.reply.Sources, ", "))
		}
		return m, nil

	case chatFailedMsg:
		// Transport failures and malformed replies look the same to the
		// user: a fixed assistant message, never the raw error.
		content := conversation.FallbackFailure
		if errors.Is(msg.err, api.ErrNoReply) {
			content = conversation.FallbackNoReply
		}
		logger.Error("chat turn failed", "error", msg.err)
		m.chatPanel.AppendAssistant(m.conv.Resolve(content).Content)
		return m, m.showBanner("The nutrition service request failed.")

	case healthReplyMsg:
		m.healthPending = false
		m.chatPanel.AppendAssistant(m.conv.Note(msg.status.Summary()).Content)
		return m, nil

	case healthFailedMsg:
		// Banner only; a failed probe leaves no transcript entry.
		m.healthPending = false
		logger.Error("health check failed", "error", msg.err)
		return m, m.showBanner("Health check failed: service unreachable.")

	case startupPingMsg:
		if msg.err != nil {
			logger.Warn("nutrition service unreachable", "base", m.client.BaseURL(), "error", msg.err)
			return m, m.showBanner("Cannot reach the nutrition service at " + m.client.BaseURL() + ".")
		}
		logger.Info("nutrition service reachable", "base", m.client.BaseURL())
		return m, nil

	case bannerExpiredMsg:
		if msg.id == m.bannerID {
			m.banner = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.awaiting() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case LogLineMsg:
		p, cmd := m.logPanel.Update(msg)
		m.logPanel = p
		cmds = append(cmds, cmd)

	default:
		// Broadcast unknown messages to the input panel (e.g. blink cursor).
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p.(*InputPanel)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleSubmit drives one turn of the Idle -> Sending -> Idle cycle.
func (m *App) handleSubmit(text string) (tea.Model, tea.Cmd) {
	switch strings.TrimSpace(text) {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	case "/health":
		m.inputPanel.Reset()
		if m.awaiting() {
			return m, nil
		}
		m.healthPending = true
		return m, tea.Batch(m.spin.Tick, healthCmd(m.client))
	}

	if m.healthPending {
		return m, nil
	}
	sent, ok := m.conv.Begin(text)
	if !ok {
		// Empty input, or a reply is still outstanding.
		return m, nil
	}
	m.inputPanel.Reset()
	m.chatPanel.AppendUser(sent)
	return m, tea.Batch(m.spin.Tick, chatCmd(m.client, sent))
}

func (m *App) awaiting() bool {
	return m.conv.Busy() || m.healthPending
}

// showBanner displays a transient error line and schedules its dismissal.
func (m *App) showBanner(text string) tea.Cmd {
	m.banner = text
	m.bannerID++
	id := m.bannerID
	return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return bannerExpiredMsg{id: id}
	})
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.logPanel.View(),
		sep,
		m.chatPanel.View(),
		sep,
		m.statusLine(),
		m.inputPanel.View(),
	)
}

func (m *App) statusLine() string {
	if m.banner != "" {
		return bannerStyle.Render(m.banner)
	}
	if m.awaiting() {
		return statusStyle.Render(m.spin.View() + " waiting for reply...")
	}
	return ""
}

func (m *App) recalcLayout() {
	const inputH = 1
	const statusH = 1
	const sepLines = 2

	usable := max(m.height-inputH-statusH-sepLines, 2)
	logH := max(int(float64(usable)*m.logRatio), 1)
	chatH := max(usable-logH, 1)

	m.logPanel.SetSize(m.width, logH)
	m.chatPanel.SetSize(m.width, chatH)
	m.inputPanel.SetSize(m.width, inputH)
}

// chatCmd issues the single /api/chat call for an accepted turn. No timeout
// and no cancellation: the default transport governs, and a reply arriving
// after the program quits is simply discarded.
func chatCmd(client *api.Client, message string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Chat(context.Background(), message)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReplyMsg{reply: reply}
	}
}

func healthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		status, err := client.Health(context.Background())
		if err != nil {
			return healthFailedMsg{err: err}
		}
		return healthReplyMsg{status: status}
	}
}

func startupPingCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		_, err := client.Health(context.Background())
		return startupPingMsg{err: err}
	}
}
