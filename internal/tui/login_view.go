package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/gateway"
)

// Field order on the login form; registration adds the two name fields.
const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldFirstName
	loginFieldLastName
)

// loginDoneMsg carries the outcome of a login or registration call.
type loginDoneMsg struct {
	token string
	err   error
}

// loginView is the email/password form, with an inline registration mode.
type loginView struct {
	app         *App
	inputs      []textinput.Model
	focus       int
	registering bool
	submitting  bool
}

func newLoginView(app *App) *loginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	first := textinput.New()
	first.Placeholder = "first name"
	first.CharLimit = 80

	last := textinput.New()
	last.Placeholder = "last name"
	last.CharLimit = 80

	return &loginView{
		app:    app,
		inputs: []textinput.Model{email, password, first, last},
	}
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) fieldCount() int {
	if v.registering {
		return 4
	}
	return 2
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		v.submitting = false
		if msg.err != nil {
			// Input is preserved so the user can fix and retry.
			v.app.notifyError("Sign-in failed: %v", msg.err)
			return nil
		}
		return v.app.completeLogin(msg.token)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			v.setFocus((v.focus + 1) % v.fieldCount())
			return nil
		case "shift+tab", "up":
			v.setFocus((v.focus + v.fieldCount() - 1) % v.fieldCount())
			return nil
		case "ctrl+n":
			v.registering = !v.registering
			if v.focus >= v.fieldCount() {
				v.setFocus(0)
			}
			return nil
		case "enter":
			return v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *loginView) setFocus(idx int) {
	v.inputs[v.focus].Blur()
	v.focus = idx
	v.inputs[v.focus].Focus()
}

func (v *loginView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	email := strings.TrimSpace(v.inputs[loginFieldEmail].Value())
	password := v.inputs[loginFieldPassword].Value()
	if email == "" || password == "" {
		v.app.notify("Email and password are required")
		return nil
	}
	v.submitting = true
	gw := v.app.gw
	if v.registering {
		req := gateway.RegisterRequest{
			FirstName: strings.TrimSpace(v.inputs[loginFieldFirstName].Value()),
			LastName:  strings.TrimSpace(v.inputs[loginFieldLastName].Value()),
			Email:     email,
			Password:  password,
		}
		return func() tea.Msg {
			token, err := gw.Register(context.Background(), req)
			return loginDoneMsg{token: token, err: err}
		}
	}
	creds := gateway.Credentials{Email: email, Password: password}
	return func() tea.Msg {
		token, err := gw.Login(context.Background(), creds)
		return loginDoneMsg{token: token, err: err}
	}
}

func (v *loginView) View() string {
	s := v.app.styles
	title := "Sign in"
	if v.registering {
		title = "Create account"
	}
	lines := []string{s.Title.Render(title), ""}
	labels := []string{"Email", "Password", "First name", "Last name"}
	for i := 0; i < v.fieldCount(); i++ {
		label := s.FormLabel.Render(labels[i])
		if i == v.focus {
			label = s.FormActive.Render(labels[i])
		}
		lines = append(lines, label, "  "+v.inputs[i].View())
	}
	if v.submitting {
		lines = append(lines, "", s.Subtle.Render("Contacting server…"))
	}
	mode := "ctrl+n=create account"
	if v.registering {
		mode = "ctrl+n=back to sign-in"
	}
	lines = append(lines, "", s.Help.Render("enter=submit  tab=next field  "+mode+"  ctrl+c=quit"))
	return strings.Join(lines, "\n")
}
