package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/track"
)

type ticketCreateDoneMsg struct {
	err error
}

const (
	createFieldTitle = iota
	createFieldDescription
	createFieldPriority
	createFieldAssignee
	createFieldCount
)

// createForm is the new-ticket overlay on the board. Priority and assignee
// are cycles rather than free text; the assignee cycle starts at "Assign to
// me", which sends no explicit assignee and lets the server default to the
// caller.
type createForm struct {
	board *boardView

	title       textinput.Model
	description textinput.Model
	priority    int
	assignee    int // 0 = assign to me, i>0 = board.users[i-1]
	focus       int
	submitting  bool
}

func newCreateForm(b *boardView) *createForm {
	title := textinput.New()
	title.Placeholder = "Ticket title"
	title.CharLimit = 140

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 500

	return &createForm{
		board:       b,
		title:       title,
		description: description,
		priority:    1, // MEDIUM
	}
}

func (f *createForm) Init() tea.Cmd {
	return f.setFocus(createFieldTitle)
}

func (f *createForm) setFocus(field int) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	switch field {
	case createFieldTitle:
		return f.title.Focus()
	case createFieldDescription:
		return f.description.Focus()
	}
	return nil
}

func (f *createForm) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if f.submitting {
		return nil
	}
	switch key.String() {
	case "esc":
		f.board.closeOverlay()
		return nil
	case "tab", "down":
		return f.setFocus((f.focus + 1) % createFieldCount)
	case "shift+tab", "up":
		return f.setFocus((f.focus + createFieldCount - 1) % createFieldCount)
	case "left", "right", " ":
		if f.focus == createFieldPriority {
			f.priority = cycle(f.priority, len(track.Priorities), key.String() != "left")
			return nil
		}
		if f.focus == createFieldAssignee {
			f.assignee = cycle(f.assignee, len(f.board.users)+1, key.String() != "left")
			return nil
		}
	case "enter":
		return f.submit()
	}
	var cmd tea.Cmd
	switch f.focus {
	case createFieldTitle:
		f.title, cmd = f.title.Update(key)
	case createFieldDescription:
		f.description, cmd = f.description.Update(key)
	}
	return cmd
}

func (f *createForm) submit() tea.Cmd {
	req := gateway.CreateTicketRequest{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		Priority:    track.Priorities[f.priority],
		ProjectID:   f.board.project.ID,
	}
	if f.assignee > 0 {
		id := f.board.users[f.assignee-1].ID
		req.AssignedToUserID = &id
	}
	if err := req.Validate(); err != nil {
		f.board.app.notifyError("Cannot create ticket: %v", err)
		return nil
	}
	f.submitting = true
	gw := f.board.app.gw
	return func() tea.Msg {
		_, err := gw.CreateTicket(context.Background(), req)
		return ticketCreateDoneMsg{err: err}
	}
}

// handleResult keeps the form, with its input intact, when the server
// rejects the ticket. The fields reset only on success, by the overlay
// being discarded.
func (f *createForm) handleResult(msg ticketCreateDoneMsg) tea.Cmd {
	f.submitting = false
	if msg.err != nil {
		return f.board.app.expireOr(msg.err, "Ticket not created: %v", msg.err)
	}
	f.board.closeOverlay()
	f.board.app.notify("Ticket created")
	return f.board.fetchTickets()
}

func (f *createForm) assigneeLabel() string {
	if f.assignee == 0 {
		return "Assign to me"
	}
	return f.board.users[f.assignee-1].FullName()
}

func (f *createForm) View() string {
	s := f.board.app.styles
	label := func(field int, text string) string {
		if field == f.focus {
			return s.FormActive.Render("› " + text)
		}
		return s.FormLabel.Render("  " + text)
	}
	lines := []string{
		s.Title.Render("New ticket"),
		"",
		label(createFieldTitle, "Title:       ") + f.title.View(),
		label(createFieldDescription, "Description: ") + f.description.View(),
		label(createFieldPriority, "Priority:    ") + track.Priorities[f.priority].Label(),
		label(createFieldAssignee, "Assignee:    ") + f.assigneeLabel(),
		"",
	}
	if f.submitting {
		lines = append(lines, s.Subtle.Render("Creating…"))
	} else {
		lines = append(lines, s.Help.Render("tab=next  ←/→=cycle  enter=create  esc=back"))
	}
	return strings.Join(lines, "\n")
}

func cycle(cur, n int, forward bool) int {
	if n <= 0 {
		return 0
	}
	if forward {
		return (cur + 1) % n
	}
	return (cur + n - 1) % n
}
