// internal/tui/app.go
//
// Root bubbletea model for loomboard. It follows The Elm Architecture:
// state lives in the model, user input and network completions arrive as
// messages on one update loop, and View renders the active screen. Network
// calls are dispatched as commands and never block the interaction thread;
// their completion messages drive the optimistic-update and reconciliation
// paths in the board view.

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/loomboard/internal/config"
	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/logbook"
	"github.com/kingrea/loomboard/internal/session"
	"github.com/kingrea/loomboard/internal/track"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateLogin    appState = iota // Email/password (or registration) form
	stateProjects                 // Project dashboard
	stateBoard                    // Kanban board for one project
	stateAdmin                    // User management panel
)

// sessionExpiredMsg is returned by any command whose call came back 401.
// The transport has already cleared the stored credential by the time this
// message lands; the app only has to route back to login.
type sessionExpiredMsg struct{}

// meLoadedMsg carries the current-session identity.
type meLoadedMsg struct {
	user track.User
	err  error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithGateway overrides the remote sync gateway used by all views.
func WithGateway(gw Gateway) AppOption {
	return func(a *App) {
		if gw != nil {
			a.gw = gw
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL state.
type App struct {
	state   appState
	cfg     *config.Config
	gw      Gateway
	session *session.Store
	logbook *logbook.Logbook
	styles  styles

	// Current session identity; nil until /auth/me answers.
	me *track.User

	login    *loginView
	projects *projectsView
	board    *boardView
	admin    *adminView

	// Window size (we get this from bubbletea)
	width  int
	height int

	statusMsg     string
	lastLogStatus string
}

// NewApp creates the application model. The session store doubles as the
// gateway's token source; a 401 clears it through the expiry hook and the
// views route back to the login screen.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	store, err := session.NewStore(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("tui: open session store: %w", err)
	}
	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "session.log"))
	if err != nil {
		return nil, fmt.Errorf("tui: open logbook: %w", err)
	}

	app := &App{
		state:   stateLogin,
		cfg:     cfg,
		session: store,
		logbook: lb,
		styles:  newStyles(cfg.DarkMode()),
	}
	app.gw = gateway.New(cfg.ServerURL(), store, func() { _ = store.Clear() })
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.login = newLoginView(app)
	app.projects = newProjectsView(app)
	if store.LoggedIn() {
		app.state = stateProjects
	}
	lb.Info("Session opened · server: %s", cfg.ServerURL())
	return app, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.state == stateProjects {
		return tea.Batch(a.fetchMe(), a.projects.load())
	}
	return a.login.Init()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.projects != nil {
			a.projects.resize(msg.Width, msg.Height)
		}
		return a, nil

	case sessionExpiredMsg:
		a.me = nil
		a.state = stateLogin
		a.login = newLoginView(a)
		a.notify("Session expired, please sign in again")
		return a, a.login.Init()

	case meLoadedMsg:
		if msg.err != nil {
			if gateway.IsAuthError(msg.err) {
				return a.Update(sessionExpiredMsg{})
			}
			a.notifyError("Could not load your account: %v", msg.err)
			return a, nil
		}
		user := msg.user
		a.me = &user
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			a.toggleTheme()
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateLogin:
		cmd = a.login.Update(msg)
	case stateProjects:
		cmd = a.projects.Update(msg)
	case stateBoard:
		if a.board != nil {
			cmd = a.board.Update(msg)
		}
	case stateAdmin:
		if a.admin != nil {
			cmd = a.admin.Update(msg)
		}
	}
	return a, cmd
}

// View renders the active screen with a shared header and status footer.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateLogin:
		body = a.login.View()
	case stateProjects:
		body = a.projects.View()
	case stateBoard:
		if a.board != nil {
			body = a.board.View()
		}
	case stateAdmin:
		if a.admin != nil {
			body = a.admin.View()
		}
	}

	header := a.styles.Title.Render("Loomboard")
	if a.me != nil {
		header += a.styles.Subtle.Render(fmt.Sprintf("  ·  %s", a.me.FullName()))
		if a.me.IsAdmin() {
			header += "  " + a.styles.AdminBadge.Render("ADMIN")
		}
	}

	footer := ""
	if a.statusMsg != "" {
		footer = a.styles.Status.Render(a.statusMsg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

// isAdmin reports whether the signed-in user may open the admin panel.
func (a *App) isAdmin() bool {
	return a.me != nil && a.me.IsAdmin()
}

// openBoard switches to the Kanban board for one project and kicks off the
// three independent load fetches.
func (a *App) openBoard(project track.Project) tea.Cmd {
	a.board = newBoardView(a, project)
	a.state = stateBoard
	a.logInfo("Board opened · project %d", project.ID)
	return a.board.load()
}

// openAdmin switches to the user management panel.
func (a *App) openAdmin(returnTo appState) tea.Cmd {
	a.admin = newAdminView(a, returnTo)
	a.state = stateAdmin
	return a.admin.load()
}

// returnToProjects leaves the current screen for the dashboard.
func (a *App) returnToProjects() tea.Cmd {
	a.state = stateProjects
	a.board = nil
	a.admin = nil
	return a.projects.load()
}

// completeLogin stores the fresh credential and moves to the dashboard.
func (a *App) completeLogin(token string) tea.Cmd {
	if err := a.session.Save(token); err != nil {
		a.notifyError("Could not store session: %v", err)
	}
	a.state = stateProjects
	a.logInfo("Signed in")
	return tea.Batch(a.fetchMe(), a.projects.load())
}

// logout clears the credential and returns to the login form.
func (a *App) logout() tea.Cmd {
	if err := a.session.Clear(); err != nil {
		a.notifyError("Could not clear session: %v", err)
	}
	a.me = nil
	a.state = stateLogin
	a.login = newLoginView(a)
	a.logInfo("Signed out")
	return a.login.Init()
}

// toggleTheme flips dark/light and writes the choice through to the config
// file so the next launch starts with it.
func (a *App) toggleTheme() {
	theme := config.ThemeDark
	if a.cfg.DarkMode() {
		theme = config.ThemeLight
	}
	if err := a.cfg.SetTheme(theme); err != nil {
		a.notifyError("Theme not saved: %v", err)
		return
	}
	a.styles = newStyles(a.cfg.DarkMode())
	a.notify("Theme: %s", theme)
}

func (a *App) fetchMe() tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		user, err := gw.Me(context.Background())
		return meLoadedMsg{user: user, err: err}
	}
}

// expireOr converts an auth failure into the session-expiry path and
// anything else into a notification. Used by every view's error branch.
func (a *App) expireOr(err error, format string, args ...any) tea.Cmd {
	if gateway.IsAuthError(err) {
		return func() tea.Msg { return sessionExpiredMsg{} }
	}
	a.notifyError(format, args...)
	return nil
}

func (a *App) notify(format string, args ...any) {
	a.statusMsg = strings.TrimSpace(fmt.Sprintf(format, args...))
	a.logProgress(a.statusMsg)
}

func (a *App) notifyError(format string, args ...any) {
	a.statusMsg = strings.TrimSpace(fmt.Sprintf(format, args...))
	a.logError(a.statusMsg)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

func (a *App) logProgress(status string) {
	status = strings.TrimSpace(status)
	if status == "" || status == a.lastLogStatus {
		return
	}
	a.lastLogStatus = status
	a.logInfo(status)
}
