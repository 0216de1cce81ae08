package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/track"
)

type adminUsersMsg struct {
	users []track.User
	err   error
}

type userDeleteDoneMsg struct {
	id  int64
	err error
}

// adminView manages service accounts. The signed-in admin's own row shows a
// shield instead of the delete affordance; attempting "d" on it does
// nothing. Removal is applied locally only after the server confirms.
type adminView struct {
	app      *App
	returnTo appState

	users   []track.User
	loading bool
	cursor  int

	confirming bool
	confirm    track.User
}

func newAdminView(app *App, returnTo appState) *adminView {
	return &adminView{app: app, returnTo: returnTo, loading: true}
}

func (v *adminView) load() tea.Cmd {
	v.loading = true
	cmds := []tea.Cmd{v.fetchUsers()}
	if v.app.me == nil {
		cmds = append(cmds, v.app.fetchMe())
	}
	return tea.Batch(cmds...)
}

func (v *adminView) fetchUsers() tea.Cmd {
	gw := v.app.gw
	return func() tea.Msg {
		users, err := gw.Users(context.Background())
		return adminUsersMsg{users: users, err: err}
	}
}

func (v *adminView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case adminUsersMsg:
		v.loading = false
		if msg.err != nil {
			return v.app.expireOr(msg.err, "Users could not be loaded: %v", msg.err)
		}
		v.users = msg.users
		v.cursor = clamp(v.cursor, 0, max(0, len(v.users)-1))
		return nil

	case userDeleteDoneMsg:
		if msg.err != nil {
			// Server message shown verbatim; the row stays.
			return v.app.expireOr(msg.err, "%v", msg.err)
		}
		for i, u := range v.users {
			if u.ID == msg.id {
				v.users = append(v.users[:i], v.users[i+1:]...)
				break
			}
		}
		v.cursor = clamp(v.cursor, 0, max(0, len(v.users)-1))
		v.app.notify("User deleted")
		return nil

	case tea.KeyMsg:
		if v.confirming {
			return v.updateConfirm(msg)
		}
		return v.handleKey(msg)
	}
	return nil
}

func (v *adminView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		v.cursor = clamp(v.cursor-1, 0, max(0, len(v.users)-1))
	case "down", "j":
		v.cursor = clamp(v.cursor+1, 0, max(0, len(v.users)-1))
	case "d":
		if v.cursor >= len(v.users) {
			return nil
		}
		target := v.users[v.cursor]
		if v.isSelf(target) {
			v.app.notify("You cannot delete your own account")
			return nil
		}
		v.confirm = target
		v.confirming = true
	case "r":
		return v.load()
	case "esc", "q":
		return v.leave()
	}
	return nil
}

func (v *adminView) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		target := v.confirm
		v.confirming = false
		gw := v.app.gw
		return func() tea.Msg {
			err := gw.DeleteUser(context.Background(), target.ID)
			return userDeleteDoneMsg{id: target.ID, err: err}
		}
	case "n", "N", "esc":
		v.confirming = false
	}
	return nil
}

func (v *adminView) leave() tea.Cmd {
	if v.returnTo == stateBoard && v.app.board != nil {
		v.app.state = stateBoard
		v.app.admin = nil
		return nil
	}
	return v.app.returnToProjects()
}

func (v *adminView) isSelf(u track.User) bool {
	return v.app.me != nil && v.app.me.ID == u.ID
}

func (v *adminView) View() string {
	s := v.app.styles
	if v.confirming {
		return strings.Join([]string{
			s.ErrorMsg.Render(fmt.Sprintf("Delete user %q (%s)?", v.confirm.FullName(), v.confirm.Email)),
			"",
			s.Help.Render("y=delete  n=keep"),
		}, "\n")
	}

	lines := []string{s.Title.Render("User management"), ""}
	switch {
	case v.loading && len(v.users) == 0:
		lines = append(lines, s.Subtle.Render("Loading users…"))
	case len(v.users) == 0:
		lines = append(lines, s.Subtle.Render("No users"))
	default:
		for i, u := range v.users {
			cursor := "  "
			if i == v.cursor {
				cursor = "› "
			}
			role := "user"
			if u.IsAdmin() {
				role = "admin"
			}
			marker := "d=delete"
			if v.isSelf(u) {
				marker = "🛡 (you)"
			}
			row := fmt.Sprintf("%s%-24s %-28s %-6s %s", cursor, u.FullName(), u.Email, role, s.Badge.Render(marker))
			if v.isSelf(u) {
				row = s.SelfRow.Render(row)
			} else if i == v.cursor {
				row = s.CardFocused.Render(row)
			}
			lines = append(lines, row)
		}
	}
	lines = append(lines, "", s.Help.Render("↑↓=select  d=delete  r=reload  esc=back"))
	return strings.Join(lines, "\n")
}
