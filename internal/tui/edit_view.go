package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/track"
)

type commentsLoadedMsg struct {
	ticketID int64
	comments []track.Comment
	err      error
}

type commentAddDoneMsg struct {
	ticketID int64
	err      error
}

type ticketSaveDoneMsg struct {
	err error
}

const (
	editFieldTitle = iota
	editFieldDescription
	editFieldPriority
	editFieldAssignee
	editFieldComment
	editFieldCount
)

// editView is the ticket detail overlay: the editable fields plus the
// comment thread. Comments are fetched fresh each time the overlay opens
// and discarded when it closes; the board never caches them.
type editView struct {
	board  *boardView
	ticket track.Ticket

	title       textinput.Model
	description textinput.Model
	priority    int
	assignee    int // 0 = unassigned, i>0 = board.users[i-1]
	focus       int
	saving      bool

	comments        []track.Comment
	commentsLoading bool
	comment         textinput.Model
	commentSending  bool
}

func newEditView(b *boardView, t track.Ticket) *editView {
	title := textinput.New()
	title.CharLimit = 140
	title.SetValue(t.Title)

	description := textinput.New()
	description.CharLimit = 500
	description.SetValue(t.Description)

	comment := textinput.New()
	comment.Placeholder = "Add a comment"
	comment.CharLimit = 500

	v := &editView{
		board:       b,
		ticket:      t,
		title:       title,
		description: description,
		comment:     comment,
	}
	for i, p := range track.Priorities {
		if p == t.Priority {
			v.priority = i
		}
	}
	if t.AssignedTo != nil {
		for i, u := range b.users {
			if u.ID == t.AssignedTo.ID {
				v.assignee = i + 1
			}
		}
	}
	return v
}

func (v *editView) Init() tea.Cmd {
	v.commentsLoading = true
	return tea.Batch(v.setFocus(editFieldTitle), v.fetchComments())
}

func (v *editView) fetchComments() tea.Cmd {
	gw := v.board.app.gw
	id := v.ticket.ID
	return func() tea.Msg {
		comments, err := gw.Comments(context.Background(), id)
		return commentsLoadedMsg{ticketID: id, comments: comments, err: err}
	}
}

func (v *editView) setFocus(field int) tea.Cmd {
	v.focus = field
	v.title.Blur()
	v.description.Blur()
	v.comment.Blur()
	switch field {
	case editFieldTitle:
		return v.title.Focus()
	case editFieldDescription:
		return v.description.Focus()
	case editFieldComment:
		return v.comment.Focus()
	}
	return nil
}

func (v *editView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case commentsLoadedMsg:
		if msg.ticketID != v.ticket.ID {
			return nil
		}
		v.commentsLoading = false
		if msg.err != nil {
			return v.board.app.expireOr(msg.err, "Comments unavailable: %v", msg.err)
		}
		v.comments = msg.comments
		return nil

	case commentAddDoneMsg:
		v.commentSending = false
		if msg.ticketID != v.ticket.ID {
			return nil
		}
		if msg.err != nil {
			// Input stays in the field so the user can retry.
			return v.board.app.expireOr(msg.err, "Comment not saved: %v", msg.err)
		}
		v.comment.SetValue("")
		v.commentsLoading = true
		return v.fetchComments()

	case ticketSaveDoneMsg:
		v.saving = false
		if msg.err != nil {
			// The form keeps the unsaved edits.
			return v.board.app.expireOr(msg.err, "Ticket not saved: %v", msg.err)
		}
		v.board.closeOverlay()
		v.board.app.notify("Ticket saved")
		return v.board.fetchTickets()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *editView) handleKey(key tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	switch key.String() {
	case "esc":
		v.board.closeOverlay()
		return nil
	case "tab", "down":
		return v.setFocus((v.focus + 1) % editFieldCount)
	case "shift+tab", "up":
		return v.setFocus((v.focus + editFieldCount - 1) % editFieldCount)
	case "ctrl+s":
		return v.save()
	case "left", "right":
		if v.focus == editFieldPriority {
			v.priority = cycle(v.priority, len(track.Priorities), key.String() == "right")
			return nil
		}
		if v.focus == editFieldAssignee {
			v.assignee = cycle(v.assignee, len(v.board.users)+1, key.String() == "right")
			return nil
		}
	case "enter":
		if v.focus == editFieldComment {
			return v.sendComment()
		}
		return v.save()
	}
	var cmd tea.Cmd
	switch v.focus {
	case editFieldTitle:
		v.title, cmd = v.title.Update(key)
	case editFieldDescription:
		v.description, cmd = v.description.Update(key)
	case editFieldComment:
		v.comment, cmd = v.comment.Update(key)
	}
	return cmd
}

func (v *editView) save() tea.Cmd {
	req := gateway.UpdateTicketRequest{
		Title:       strings.TrimSpace(v.title.Value()),
		Description: strings.TrimSpace(v.description.Value()),
		Priority:    track.Priorities[v.priority],
	}
	if v.assignee > 0 {
		id := v.board.users[v.assignee-1].ID
		req.AssignedToUserID = &id
	}
	if err := req.Validate(); err != nil {
		v.board.app.notifyError("Cannot save ticket: %v", err)
		return nil
	}
	v.saving = true
	gw := v.board.app.gw
	id := v.ticket.ID
	return func() tea.Msg {
		_, err := gw.UpdateTicket(context.Background(), id, req)
		return ticketSaveDoneMsg{err: err}
	}
}

func (v *editView) sendComment() tea.Cmd {
	text := v.comment.Value()
	if strings.TrimSpace(text) == "" {
		// Rejected locally, no network call.
		v.board.app.notifyError("Comment text is required")
		return nil
	}
	if v.commentSending {
		return nil
	}
	v.commentSending = true
	gw := v.board.app.gw
	id := v.ticket.ID
	return func() tea.Msg {
		_, err := gw.AddComment(context.Background(), id, text)
		return commentAddDoneMsg{ticketID: id, err: err}
	}
}

func (v *editView) assigneeLabel() string {
	if v.assignee == 0 {
		return "Unassigned"
	}
	return v.board.users[v.assignee-1].FullName()
}

func (v *editView) View() string {
	s := v.board.app.styles
	label := func(field int, text string) string {
		if field == v.focus {
			return s.FormActive.Render("› " + text)
		}
		return s.FormLabel.Render("  " + text)
	}

	lines := []string{
		s.Title.Render(fmt.Sprintf("Ticket #%d", v.ticket.ID)),
		"",
		label(editFieldTitle, "Title:       ") + v.title.View(),
		label(editFieldDescription, "Description: ") + v.description.View(),
		label(editFieldPriority, "Priority:    ") + track.Priorities[v.priority].Label(),
		label(editFieldAssignee, "Assignee:    ") + v.assigneeLabel(),
		"",
		s.Subtle.Render("Comments"),
	}

	switch {
	case v.commentsLoading:
		lines = append(lines, s.Subtle.Render("  loading…"))
	case len(v.comments) == 0:
		lines = append(lines, s.Subtle.Render("  no comments yet"))
	default:
		for _, c := range v.comments {
			author := "unknown"
			if c.CreatedBy != nil {
				author = c.CreatedBy.FullName()
			}
			stamp := ""
			if !c.CreatedAt.IsZero() {
				stamp = c.CreatedAt.Format("2006-01-02 15:04")
			}
			lines = append(lines,
				s.Badge.Render(fmt.Sprintf("  %s  %s", author, stamp)),
				"    "+c.Text,
			)
		}
	}

	lines = append(lines, "", label(editFieldComment, "Comment: ")+v.comment.View(), "")
	if v.saving {
		lines = append(lines, s.Subtle.Render("Saving…"))
	} else if v.commentSending {
		lines = append(lines, s.Subtle.Render("Sending comment…"))
	} else {
		lines = append(lines, s.Help.Render("tab=next  ←/→=cycle  ctrl+s=save  enter=save/comment  esc=back"))
	}
	return strings.Join(lines, "\n")
}
