package ui

import (
	"context"
	"strings"
	"sync"

	"netsight/pkg/auth"
	"netsight/pkg/chat"
	"netsight/pkg/commands"
	"netsight/pkg/inventory"
	"netsight/pkg/rbac"
	"netsight/pkg/session"
	"netsight/pkg/ui/components/chatdock"
	"netsight/pkg/ui/components/inventorytable"
	"netsight/pkg/ui/components/login"
	"netsight/pkg/ui/components/statusbar"
	"netsight/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// TargetLogin is the redirect target for unauthenticated access.
const TargetLogin = "login"

// SessionController is the part of auth.Controller the TUI drives.
type SessionController interface {
	Submit(ctx context.Context, username, password string) (rbac.Page, error)
	Acknowledge()
	RequireAuth(target string) bool
	Session() (session.Session, bool)
	Role() session.Role
	Logout()
}

// InventorySource lists ecosystem services.
type InventorySource interface {
	List(ctx context.Context) ([]inventory.Service, error)
}

// Redirect records navigation requests from the session controller so the
// model can act on them during Update.
type Redirect struct {
	mu     sync.Mutex
	target string
}

// NewRedirect creates an empty redirect.
func NewRedirect() *Redirect {
	return &Redirect{}
}

// Navigate records target. It is passed to auth.WithNavigator.
func (r *Redirect) Navigate(target string) {
	r.mu.Lock()
	r.target = target
	r.mu.Unlock()
}

// Take returns and clears the pending target.
func (r *Redirect) Take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.target
	r.target = ""
	return target, target != ""
}

// AuthStateMsg reports a login state change from the controller.
type AuthStateMsg struct {
	State auth.State
}

type loginDoneMsg struct {
	landing rbac.Page
	err     error
}

type inventoryMsg struct {
	services []inventory.Service
	err      error
}

type screen int

const (
	screenLogin screen = iota
	screenPortal
)

// Model is the portal TUI.
type Model struct {
	ctx       context.Context
	ctrl      SessionController
	router    *chat.Router
	inventory InventorySource
	redirect  *Redirect
	commands  *commands.Dispatcher

	layout    *LayoutManager
	login     *login.Form
	dock      *chatdock.Dock
	statusBar *statusbar.StatusBarView

	screen   screen
	landing  rbac.Page
	navIndex int
	open     rbac.NavItem

	// status is the login progress shown in the status bar.
	status string

	services   []inventory.Service
	invErr     error
	invLoading bool
	result     *commands.Result

	width  int
	height int
	ready  bool
}

// NewModel creates the portal model. The redirect must be the one whose
// Navigate method was given to the controller.
func NewModel(ctx context.Context, ctrl SessionController, router *chat.Router, inv InventorySource, redirect *Redirect) Model {
	if redirect == nil {
		redirect = NewRedirect()
	}
	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		router:    router,
		inventory: inv,
		redirect:  redirect,
		commands:  commands.NewDispatcher(),
		layout:    NewLayoutManager(),
		login:     login.New(),
		dock:      chatdock.New(ctx, router),
		statusBar: statusbar.NewStatusBarView(),
		screen:    screenPortal,
	}
	if ctrl.RequireAuth(TargetLogin) {
		m.landing = rbac.Landing(ctrl.Role())
	}
	m.followRedirect()
	return m
}

// Init starts the cursor blink in whichever input has focus.
func (m Model) Init() tea.Cmd {
	if m.screen == screenLogin {
		return m.login.Focus()
	}
	return nil
}

// followRedirect switches screens when the controller asked for one.
func (m *Model) followRedirect() tea.Cmd {
	target, ok := m.redirect.Take()
	if !ok || target != TargetLogin {
		return nil
	}
	m.screen = screenLogin
	m.open = ""
	m.navIndex = 0
	m.services = nil
	m.invErr = nil
	m.result = nil
	m.login.Reset()
	m.dock.Blur()
	return m.login.Focus()
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout.SetSize(msg.Width, msg.Height)
		m.dock.SetSize(msg.Width, m.layout.DockHeight())
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case login.SubmitMsg:
		m.ctrl.Acknowledge()
		m.login.SetBusy(true, "Signing in…")
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			landing, err := ctrl.Submit(ctx, msg.Username, msg.Password)
			return loginDoneMsg{landing: landing, err: err}
		}

	case login.AcknowledgeMsg:
		m.ctrl.Acknowledge()
		return m, nil

	case AuthStateMsg:
		switch msg.State {
		case auth.StateAuthenticating:
			m.status = "Signing in…"
			m.login.SetBusy(true, m.status)
		case auth.StateResolvingRole:
			m.status = "Resolving role…"
			m.login.SetBusy(true, m.status)
		default:
			m.status = ""
		}
		return m, nil

	case loginDoneMsg:
		m.status = ""
		if msg.err != nil {
			m.login.SetError(msg.err)
			return m, nil
		}
		m.login.Reset()
		m.screen = screenPortal
		m.landing = msg.landing
		m.navIndex = 0
		m.open = ""
		return m, nil

	case inventoryMsg:
		m.invLoading = false
		m.services = msg.services
		m.invErr = msg.err
		return m, nil

	case chatdock.ReplyMsg:
		return m, m.dock.Update(msg)

	case chatdock.CommandMsg:
		return m.runCommand(msg.Line)
	}

	// Spinner ticks and other component messages go to the dock.
	return m, m.dock.Update(msg)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		if m.dock.Focused() {
			m.dock.Blur()
			if m.screen == screenLogin {
				return m, m.login.Focus()
			}
			return m, nil
		}
		return m, m.dock.Focus()
	}

	if m.dock.Focused() {
		if msg.String() == "esc" {
			m.dock.Blur()
			if m.screen == screenLogin {
				return m, m.login.Focus()
			}
			return m, nil
		}
		return m, m.dock.Update(msg)
	}

	if m.screen == screenLogin {
		if msg.String() == "esc" && m.result != nil {
			m.result = nil
			return m, nil
		}
		return m, m.login.Update(msg)
	}

	// Protected screen: re-check the session before acting on input.
	if !m.ctrl.RequireAuth(TargetLogin) {
		cmd := m.followRedirect()
		return m, cmd
	}

	items := rbac.VisibleItems(m.ctrl.Role())
	if m.navIndex >= len(items) {
		m.navIndex = 0
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		return m, m.dock.Focus()
	case "left", "h":
		if m.navIndex > 0 {
			m.navIndex--
		}
	case "right", "l":
		if m.navIndex < len(items)-1 {
			m.navIndex++
		}
	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		m.open = items[m.navIndex]
		if m.open == rbac.NavEcosystem {
			cmd := m.loadInventory()
			return m, cmd
		}
	case "esc":
		if m.result != nil {
			m.result = nil
			return m, nil
		}
		m.open = ""
	case "r":
		if m.open == rbac.NavEcosystem {
			cmd := m.loadInventory()
			return m, cmd
		}
	case "ctrl+l":
		m.ctrl.Logout()
		m.ctrl.RequireAuth(TargetLogin)
		cmd := m.followRedirect()
		return m, cmd
	}
	return m, nil
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	res := m.commands.Dispatch(line, commands.NewContext(m.ctrl, m.router))
	m.result = res
	m.dock.SetNotice(res.Title)

	switch res.Action {
	case commands.ActionLogout:
		m.ctrl.Logout()
		m.ctrl.RequireAuth(TargetLogin)
		cmd := m.followRedirect()
		m.result = res
		return m, cmd
	case commands.ActionShowLogin:
		m.result = nil
		m.dock.Blur()
		return m, m.login.Focus()
	case commands.ActionOpenInventory:
		m.result = nil
		for i, item := range rbac.VisibleItems(m.ctrl.Role()) {
			if item == rbac.NavEcosystem {
				m.navIndex = i
			}
		}
		m.open = rbac.NavEcosystem
		cmd := m.loadInventory()
		return m, cmd
	}
	return m, nil
}

func (m *Model) loadInventory() tea.Cmd {
	if m.inventory == nil || m.invLoading {
		return nil
	}
	m.invLoading = true
	ctx, src := m.ctx, m.inventory
	return func() tea.Msg {
		services, err := src.List(ctx)
		return inventoryMsg{services: services, err: err}
	}
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.WindowTitle = "NetSight"
	return v
}

func (m Model) render() string {
	if !m.ready {
		return "Initializing..."
	}

	role := session.RoleUnknown
	user := ""
	if sess, ok := m.ctrl.Session(); ok && sess.LoggedIn() && m.screen == screenPortal {
		user = sess.User
		role = m.ctrl.Role()
	}
	m.statusBar.SetSession(user, string(role))
	m.statusBar.SetMode(string(m.router.Mode()))
	m.statusBar.SetMessage(m.status)

	header := m.renderHeader(user != "", role)
	var nav, body string
	switch {
	case m.result != nil:
		if m.screen == screenPortal {
			nav = m.renderNav(role)
		}
		body = renderResult(m.result)
	case m.screen == screenLogin:
		body = lipgloss.Place(m.width, m.layout.BodyHeight(), lipgloss.Center, lipgloss.Center, m.login.View())
	default:
		nav = m.renderNav(role)
		body = m.renderBody(role)
	}
	return m.layout.RenderLayout(header, nav, body, m.dock.View(), m.statusBar.Render())
}

func (m Model) renderHeader(loggedIn bool, role session.Role) string {
	title := styles.TitleStyle.Render("NetSight Portal")
	if !loggedIn {
		return title
	}
	banner := styles.BannerStyle.Render(rbac.Banner(role))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(banner)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + banner
}

// renderNav shows only the entries the current role may see.
func (m Model) renderNav(role session.Role) string {
	items := rbac.VisibleItems(role)
	parts := make([]string, 0, len(items))
	for i, item := range items {
		if i == m.navIndex {
			parts = append(parts, styles.NavSelectedStyle.Render(item.Title()))
			continue
		}
		parts = append(parts, styles.NavItemStyle.Render(item.Title()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderBody(role session.Role) string {
	// An entry opened under a previous role is dropped if no longer visible.
	if m.open != "" && rbac.Visible(role, m.open) {
		return m.renderItem(m.open)
	}
	return renderLanding(m.landing)
}

func (m Model) renderItem(item rbac.NavItem) string {
	switch item {
	case rbac.NavEcosystem:
		if m.invLoading {
			return styles.TextMutedStyle.Render("Loading inventory…")
		}
		return styles.TitleStyle.Render("AIOps Ecosystem Inventory") + "\n" +
			inventorytable.View(m.services, m.invErr, m.width)
	case rbac.NavAIOps:
		return styles.TitleStyle.Render("AIOps") + "\n" +
			styles.TextStyle.Render("Anomaly detection, RAG search and the ML gateway answer through the chat dock.") + "\n" +
			styles.FooterStyle.Render("Press Tab to ask a question.")
	case rbac.NavAwareness:
		return renderLanding(rbac.PageAwareness)
	}
	return ""
}

func renderResult(res *commands.Result) string {
	content := styles.TextStyle.Render(res.Content)
	if res.Error != nil {
		content = styles.ErrorStyle.Render(res.Content)
	}
	return styles.TitleStyle.Render(res.Title) + "\n" + content + "\n" +
		styles.FooterStyle.Render("Esc to close")
}

func renderLanding(page rbac.Page) string {
	switch page {
	case rbac.PageHRDashboard:
		return styles.TitleStyle.Render("HR Dashboard") + "\n" +
			styles.TextStyle.Render("Awareness training progress and quiz scores for your teams.")
	case rbac.PageITDashboard:
		return styles.TitleStyle.Render("IT Dashboard") + "\n" +
			styles.TextStyle.Render("Open Ecosystem for the live service inventory.")
	default:
		return styles.TitleStyle.Render("Security Awareness") + "\n" +
			styles.TextStyle.Render("Complete the awareness modules and record your result with") + "\n" +
			styles.FooterStyle.Render("netsight quiz submit <module> <score>")
	}
}
