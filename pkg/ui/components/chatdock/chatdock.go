package chatdock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"netsight/pkg/chat"
	"netsight/pkg/commands"
	"netsight/pkg/ui/components/utils"
	"netsight/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	dockBorderSize = 1
	// title + separator + input + footer
	dockChromeLines = 4
	footerLabel     = "Enter send | Ctrl+O mode | Ctrl+Y copy | Esc leave chat"
	thinkingLabel   = "Thinking…"
	userLabel       = "You"
	botLabel        = "NetSight"
)

// ReplyMsg is delivered when an in-flight question has been answered.
type ReplyMsg struct {
	Answer string
}

// CommandMsg carries a slash command typed into the dock.
type CommandMsg struct {
	Line string
}

// Dock is the always-available chat panel.
type Dock struct {
	ctx      context.Context
	router   *chat.Router
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	focused  bool
	width    int
	height   int
	notice   string
}

// New creates a dock backed by router. ctx bounds every request it sends.
func New(ctx context.Context, router *chat.Router) *Dock {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Ask about your AIOps ecosystem..."
	input.CharLimit = 2000

	d := &Dock{
		ctx:      ctx,
		router:   router,
		input:    input,
		viewport: viewport.New(viewport.WithWidth(40), viewport.WithHeight(5)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.TitleStyle)),
		width:    44,
		height:   11,
	}
	d.Refresh()
	return d
}

// SetSize sets the outer dimensions of the dock including its border.
func (d *Dock) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.input.SetWidth(d.contentWidth() - 2)
	d.viewport.SetWidth(d.contentWidth())
	d.viewport.SetHeight(d.transcriptHeight())
	d.Refresh()
}

// Focus gives the dock the keyboard.
func (d *Dock) Focus() tea.Cmd {
	d.focused = true
	return d.input.Focus()
}

// Blur releases the keyboard.
func (d *Dock) Blur() {
	d.focused = false
	d.input.Blur()
}

// Focused reports whether the dock owns the keyboard.
func (d *Dock) Focused() bool {
	return d.focused
}

// Refresh re-renders the transcript and scrolls to the newest message.
func (d *Dock) Refresh() {
	d.viewport.SetContent(RenderTranscript(d.router.Transcript(), d.contentWidth()))
	d.viewport.GotoBottom()
}

// Update handles keys while focused, replies, and spinner ticks.
func (d *Dock) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReplyMsg:
		d.Refresh()
		return nil

	case spinner.TickMsg:
		if !d.router.Busy() {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		if !d.focused {
			return nil
		}
		return d.handleKey(msg)
	}
	return nil
}

func (d *Dock) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return d.submit()
	case "ctrl+o":
		next := d.router.Mode().Next()
		if err := d.router.SetMode(next); err == nil {
			d.notice = "Mode: " + next.Label()
		}
		return nil
	case "ctrl+y":
		return d.copyLastAnswer()
	case "up":
		d.viewport.ScrollUp(1)
		return nil
	case "down":
		d.viewport.ScrollDown(1)
		return nil
	case "pgup":
		d.viewport.PageUp()
		return nil
	case "pgdown":
		d.viewport.PageDown()
		return nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

func (d *Dock) submit() tea.Cmd {
	if line := strings.TrimSpace(d.input.Value()); commands.IsCommand(line) {
		d.input.Reset()
		return func() tea.Msg { return CommandMsg{Line: line} }
	}

	ex, ok := d.router.Submit(d.input.Value())
	if !ok {
		return nil
	}
	d.input.Reset()
	d.notice = ""
	d.Refresh()
	slog.Debug("chat_dock_submit", "mode", string(ex.Mode()), "length", len(ex.Text()))

	ctx := d.ctx
	return tea.Batch(d.spinner.Tick, func() tea.Msg {
		return ReplyMsg{Answer: ex.Do(ctx)}
	})
}

func (d *Dock) copyLastAnswer() tea.Cmd {
	text, ok := d.router.LastAnswer()
	if !ok {
		return nil
	}
	d.notice = "Copied last answer"
	return func() tea.Msg {
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return nil
	}
}

// SetNotice replaces the footer hint until the next question.
func (d *Dock) SetNotice(notice string) {
	d.notice = notice
}

// View renders the dock.
func (d *Dock) View() string {
	width := d.contentWidth()

	title := styles.TitleStyle.Render("NetSight Chat") +
		styles.TextMutedStyle.Render(" (always available) ") +
		styles.TextStyle.Render("mode: "+d.router.Mode().Label())

	lines := []string{utils.PadStyled(utils.Truncate(title, width), width)}
	lines = append(lines, d.viewport.View())
	lines = append(lines, strings.Repeat("─", width))

	if d.router.Busy() {
		lines = append(lines, d.spinner.View()+" "+styles.TextMutedStyle.Render(thinkingLabel))
	} else {
		lines = append(lines, d.input.View())
	}

	footer := footerLabel
	if d.notice != "" {
		footer = d.notice
	}
	lines = append(lines, styles.FooterStyle.Render(utils.Truncate(footer, width)))

	style := styles.DockStyle
	if d.focused {
		style = styles.DockFocusedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (d *Dock) contentWidth() int {
	width := d.width - 2*dockBorderSize
	if width < 10 {
		return 10
	}
	return width
}

func (d *Dock) transcriptHeight() int {
	height := d.height - 2*dockBorderSize - dockChromeLines
	if height < 1 {
		return 1
	}
	return height
}

// RenderTranscript lays out messages as speaker headers followed by wrapped,
// indented text.
func RenderTranscript(messages []chat.Message, width int) string {
	bodyWidth := width - 2
	if bodyWidth < 1 {
		bodyWidth = 1
	}

	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		if msg.Speaker == chat.SpeakerUser {
			sb.WriteString(styles.UserSpeakerStyle.Render(userLabel))
		} else {
			sb.WriteString(styles.BotSpeakerStyle.Render(botLabel))
		}
		for _, line := range utils.Wrap(msg.Text, bodyWidth) {
			sb.WriteString("\n  ")
			sb.WriteString(styles.TextStyle.Render(line))
		}
	}
	return sb.String()
}
