package login

import (
	"strings"

	"netsight/pkg/ui/styles"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

const (
	fieldUsername = iota
	fieldPassword

	inputWidth  = 32
	footerLabel = "Tab switch field | Enter sign in | Ctrl+C quit"
)

// SubmitMsg carries the credentials entered in the form.
type SubmitMsg struct {
	Username string
	Password string
}

// AcknowledgeMsg is sent when the user edits the form after a failed login.
type AcknowledgeMsg struct{}

// Form is the sign-in form.
type Form struct {
	username textinput.Model
	password textinput.Model
	focus    int

	status string
	err    error
	busy   bool
}

// New creates an empty sign-in form.
func New() *Form {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 128
	username.SetWidth(inputWidth)

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 256
	password.SetWidth(inputWidth)

	return &Form{username: username, password: password}
}

// Focus puts the cursor in the username field.
func (f *Form) Focus() tea.Cmd {
	f.focus = fieldUsername
	f.password.Blur()
	return f.username.Focus()
}

// SetBusy locks the form while a login is in flight and shows status.
func (f *Form) SetBusy(busy bool, status string) {
	f.busy = busy
	f.status = status
}

// SetError shows a login failure and clears the password.
func (f *Form) SetError(err error) {
	f.err = err
	f.busy = false
	f.status = ""
	f.password.Reset()
}

// Err returns the failure currently shown.
func (f *Form) Err() error {
	return f.err
}

// Reset clears both fields and any status.
func (f *Form) Reset() {
	f.username.Reset()
	f.password.Reset()
	f.err = nil
	f.busy = false
	f.status = ""
}

// Update handles a key press.
func (f *Form) Update(msg tea.KeyPressMsg) tea.Cmd {
	if f.busy {
		return nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return f.toggleFocus()
	case "enter":
		if f.focus == fieldUsername {
			return f.toggleFocus()
		}
		submit := SubmitMsg{Username: f.username.Value(), Password: f.password.Value()}
		return func() tea.Msg { return submit }
	}

	var ack tea.Cmd
	if f.err != nil {
		f.err = nil
		ack = func() tea.Msg { return AcknowledgeMsg{} }
	}

	var cmd tea.Cmd
	if f.focus == fieldUsername {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return tea.Batch(ack, cmd)
}

func (f *Form) toggleFocus() tea.Cmd {
	if f.focus == fieldUsername {
		f.focus = fieldPassword
		f.username.Blur()
		return f.password.Focus()
	}
	f.focus = fieldUsername
	f.password.Blur()
	return f.username.Focus()
}

// View renders the form.
func (f *Form) View() string {
	var lines []string
	lines = append(lines, styles.TitleStyle.Render("NetSight sign in"), "")
	lines = append(lines, styles.LabelStyle.Render("Username")+f.username.View())
	lines = append(lines, styles.LabelStyle.Render("Password")+f.password.View())
	lines = append(lines, "")

	switch {
	case f.err != nil:
		lines = append(lines, styles.ErrorStyle.Render(f.err.Error()))
	case f.status != "":
		lines = append(lines, styles.TextMutedStyle.Render(f.status))
	default:
		lines = append(lines, "")
	}

	lines = append(lines, styles.FooterStyle.Render(footerLabel))
	return styles.BoxStyle.Render(strings.Join(lines, "\n"))
}
