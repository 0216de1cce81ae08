// internal/tui/board_view.go
//
// The Kanban board for one project. A "drag" in the terminal is an explicit
// grab-and-drop: space grabs the focused ticket, the movement keys carry it
// to a destination slot, space or enter drops it and esc cancels. The drop
// goes through the board resolver; a genuine move is applied optimistically
// by the controller and the PATCH is dispatched as a command. When the
// server rejects the move, the controller owes a full reload and the board
// re-fetches authoritative state.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/loomboard/internal/board"
	"github.com/kingrea/loomboard/internal/track"
)

type projectMetaMsg struct {
	project track.Project
	err     error
}

type boardTicketsMsg struct {
	items []track.Ticket
	err   error
}

type boardUsersMsg struct {
	users []track.User
	err   error
}

type statusSaveDoneMsg struct {
	itemID int64
	err    error
}

type ticketDeleteDoneMsg struct {
	id  int64
	err error
}

type boardMode int

const (
	modeBoard boardMode = iota
	modeCreate
	modeEdit
	modeConfirmDelete
)

// grabState is an in-progress drag: the grabbed item, where it came from,
// and the slot currently hovered as the destination.
type grabState struct {
	itemID  int64
	source  board.Location
	destCol int
	destRow int
}

type boardView struct {
	app     *App
	project track.Project
	ctrl    *board.Controller
	users   []track.User
	loading bool

	focusCol int
	focusRow int
	grabbed  *grabState

	mode    boardMode
	create  *createForm
	edit    *editView
	confirm track.Ticket
}

func newBoardView(app *App, project track.Project) *boardView {
	return &boardView{
		app:     app,
		project: project,
		ctrl:    board.NewController(project.ID),
		loading: true,
	}
}

// load kicks off the three fetches the board needs. They have no ordering
// dependency, so they run as one batch; each failure surfaces its own
// notification and the board tolerates partial data (no users just means
// an empty assignee picker).
func (v *boardView) load() tea.Cmd {
	v.loading = true
	return tea.Batch(v.fetchProject(), v.fetchTickets(), v.fetchUsers())
}

func (v *boardView) fetchProject() tea.Cmd {
	gw := v.app.gw
	id := v.project.ID
	return func() tea.Msg {
		project, err := gw.Project(context.Background(), id)
		return projectMetaMsg{project: project, err: err}
	}
}

func (v *boardView) fetchTickets() tea.Cmd {
	gw := v.app.gw
	id := v.project.ID
	return func() tea.Msg {
		items, err := gw.TicketsByProject(context.Background(), id)
		return boardTicketsMsg{items: items, err: err}
	}
}

func (v *boardView) fetchUsers() tea.Cmd {
	gw := v.app.gw
	return func() tea.Msg {
		users, err := gw.Users(context.Background())
		return boardUsersMsg{users: users, err: err}
	}
}

func (v *boardView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectMetaMsg:
		if msg.err != nil {
			return v.app.expireOr(msg.err, "Project details unavailable: %v", msg.err)
		}
		v.project = msg.project
		return nil

	case boardTicketsMsg:
		v.loading = false
		if msg.err != nil {
			return v.app.expireOr(msg.err, "Tickets could not be loaded: %v", msg.err)
		}
		v.ctrl.ApplyLoad(msg.items)
		v.clampFocus()
		return nil

	case boardUsersMsg:
		if msg.err != nil {
			// Assignee pickers degrade to an empty set.
			return v.app.expireOr(msg.err, "Collaborators could not be loaded: %v", msg.err)
		}
		v.users = msg.users
		return nil

	case statusSaveDoneMsg:
		needsReload := v.ctrl.CompleteTransition(msg.itemID, msg.err != nil)
		if msg.err == nil {
			// Local state already reflects the move; nothing to do.
			return nil
		}
		cmd := v.app.expireOr(msg.err, "Move rejected by the server: %v · reloading board", msg.err)
		if cmd != nil {
			return cmd
		}
		if needsReload {
			return v.fetchTickets()
		}
		return nil

	case ticketDeleteDoneMsg:
		if msg.err != nil {
			// Never applied locally, so the collection is intact.
			return v.app.expireOr(msg.err, "Delete failed: %v", msg.err)
		}
		v.ctrl.RemoveItem(msg.id)
		v.clampFocus()
		v.app.notify("Ticket deleted")
		return nil

	case ticketCreateDoneMsg:
		return v.create.handleResult(msg)

	case commentsLoadedMsg, commentAddDoneMsg, ticketSaveDoneMsg:
		if v.edit != nil {
			return v.edit.Update(msg)
		}
		return nil

	case tea.KeyMsg:
		switch v.mode {
		case modeCreate:
			return v.create.Update(msg)
		case modeEdit:
			return v.edit.Update(msg)
		case modeConfirmDelete:
			return v.updateConfirm(msg)
		}
		return v.handleBoardKey(msg)
	}
	return nil
}

func (v *boardView) handleBoardKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		v.moveHorizontal(-1)
	case "right", "l":
		v.moveHorizontal(1)
	case "up", "k":
		v.moveVertical(-1)
	case "down", "j":
		v.moveVertical(1)
	case " ":
		if v.grabbed != nil {
			return v.drop(false)
		}
		v.grab()
	case "enter":
		if v.grabbed != nil {
			return v.drop(false)
		}
		return v.openEdit()
	case "esc":
		if v.grabbed != nil {
			// Cancelled gesture: no destination, resolver says no-op.
			return v.drop(true)
		}
		return v.app.returnToProjects()
	case "n":
		v.create = newCreateForm(v)
		v.mode = modeCreate
		return v.create.Init()
	case "d":
		if t, ok := v.focusedTicket(); ok {
			v.confirm = t
			v.mode = modeConfirmDelete
		}
	case "r":
		return v.load()
	case "a":
		if v.app.isAdmin() {
			return v.app.openAdmin(stateBoard)
		}
		v.app.notify("Admin panel requires the admin role")
	case "q":
		return v.app.returnToProjects()
	}
	return nil
}

func (v *boardView) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		target := v.confirm
		v.mode = modeBoard
		gw := v.app.gw
		// Deletion is applied locally only after the server confirms.
		return func() tea.Msg {
			err := gw.DeleteTicket(context.Background(), target.ID)
			return ticketDeleteDoneMsg{id: target.ID, err: err}
		}
	case "n", "N", "esc":
		v.mode = modeBoard
	}
	return nil
}

// grab starts a drag on the focused ticket.
func (v *boardView) grab() {
	t, ok := v.focusedTicket()
	if !ok {
		return
	}
	v.grabbed = &grabState{
		itemID:  t.ID,
		source:  board.Location{Column: track.Columns[v.focusCol], Index: v.focusRow},
		destCol: v.focusCol,
		destRow: v.focusRow,
	}
}

// drop finishes the gesture. cancelled means no destination (the resolver
// treats it as a no-op: no mutation, no network call).
func (v *boardView) drop(cancelled bool) tea.Cmd {
	g := v.grabbed
	v.grabbed = nil
	if g == nil {
		return nil
	}
	d := board.Drag{ItemID: g.itemID, Source: g.source}
	if !cancelled {
		d.Dest = &board.Location{Column: track.Columns[g.destCol], Index: g.destRow}
	}
	tr, ok := board.Resolve(d)
	if !ok {
		return nil
	}
	if !v.ctrl.BeginTransition(tr) {
		return nil
	}
	v.focusCol = g.destCol
	v.clampFocus()
	gw := v.app.gw
	return func() tea.Msg {
		err := gw.UpdateTicketStatus(context.Background(), tr.ItemID, tr.To)
		return statusSaveDoneMsg{itemID: tr.ItemID, err: err}
	}
}

func (v *boardView) openEdit() tea.Cmd {
	t, ok := v.focusedTicket()
	if !ok {
		return nil
	}
	v.edit = newEditView(v, t)
	v.mode = modeEdit
	return v.edit.Init()
}

// closeOverlay returns from the create/edit overlays to the plain board.
func (v *boardView) closeOverlay() {
	v.mode = modeBoard
	v.edit = nil
}

func (v *boardView) moveHorizontal(delta int) {
	if v.grabbed != nil {
		v.grabbed.destCol = clamp(v.grabbed.destCol+delta, 0, len(track.Columns)-1)
		v.grabbed.destRow = clamp(v.grabbed.destRow, 0, v.dropSlots(v.grabbed.destCol))
		return
	}
	v.focusCol = clamp(v.focusCol+delta, 0, len(track.Columns)-1)
	v.clampFocus()
}

func (v *boardView) moveVertical(delta int) {
	if v.grabbed != nil {
		v.grabbed.destRow = clamp(v.grabbed.destRow+delta, 0, v.dropSlots(v.grabbed.destCol))
		return
	}
	v.focusRow = clamp(v.focusRow+delta, 0, max(0, v.columnLen(v.focusCol)-1))
}

// dropSlots returns the highest valid drop index in a column: one past the
// last card, so a ticket can land at the end.
func (v *boardView) dropSlots(col int) int {
	n := v.columnLen(col)
	if v.grabbed != nil && track.Columns[col] == v.grabbed.source.Column {
		return max(0, n-1)
	}
	return n
}

func (v *boardView) columnLen(col int) int {
	return len(v.ctrl.Column(track.Columns[col]))
}

func (v *boardView) clampFocus() {
	v.focusRow = clamp(v.focusRow, 0, max(0, v.columnLen(v.focusCol)-1))
}

func (v *boardView) focusedTicket() (track.Ticket, bool) {
	col := v.ctrl.Column(track.Columns[v.focusCol])
	if v.focusRow < 0 || v.focusRow >= len(col) {
		return track.Ticket{}, false
	}
	return col[v.focusRow], true
}

func (v *boardView) View() string {
	s := v.app.styles
	switch v.mode {
	case modeCreate:
		return v.create.View()
	case modeEdit:
		return v.edit.View()
	case modeConfirmDelete:
		return strings.Join([]string{
			s.ErrorMsg.Render(fmt.Sprintf("Delete ticket %q?", v.confirm.Title)),
			"",
			s.Help.Render("y=delete  n=keep"),
		}, "\n")
	}

	if v.loading && v.ctrl.Len() == 0 {
		return s.Subtle.Render("Loading board…")
	}

	name := v.project.Name
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Project #%d", v.project.ID)
	}
	title := s.Title.Render(name)

	columns := make([]string, 0, len(track.Columns))
	for ci, status := range track.Columns {
		columns = append(columns, v.renderColumn(ci, status))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	help := "←→↑↓=move  space=grab/drop  enter=open  n=new  d=delete  r=reload  ctrl+t=theme  esc=projects"
	if v.grabbed != nil {
		help = "←→↑↓=carry ticket  space/enter=drop  esc=cancel"
	}
	return strings.Join([]string{title, "", row, "", s.Help.Render(help)}, "\n")
}

func (v *boardView) renderColumn(ci int, status track.Status) string {
	s := v.app.styles
	tickets := v.ctrl.Column(status)
	focused := ci == v.focusCol && v.grabbed == nil
	hovered := v.grabbed != nil && ci == v.grabbed.destCol

	var lines []string
	lines = append(lines, s.ColumnTitle.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tickets))))
	for ri, t := range tickets {
		lines = append(lines, v.renderCard(t, focused && ri == v.focusRow, hovered && ri == v.grabbed.destRow))
	}
	if hovered && v.grabbed.destRow >= len(tickets) {
		lines = append(lines, s.CardGrabbed.Render("▾ drop here"))
	}
	if len(tickets) == 0 && !hovered {
		lines = append(lines, s.Subtle.Render("  —"))
	}

	body := strings.Join(lines, "\n")
	style := s.Column
	if focused || hovered {
		style = s.ColumnFocused
	}
	width := 30
	if v.app.width > 12 {
		width = max(20, v.app.width/3-4)
	}
	return style.Width(width).Render(body)
}

func (v *boardView) renderCard(t track.Ticket, focused, hovered bool) string {
	s := v.app.styles
	grabbed := v.grabbed != nil && v.grabbed.itemID == t.ID

	title := t.Title
	meta := s.priority(string(t.Priority)).Render(t.Priority.Label())
	if name := t.AssigneeName(); name != "" {
		meta += s.Badge.Render(" · " + name)
	}
	switch v.ctrl.Sync(t.ID) {
	case board.Pending:
		meta += s.Badge.Render(" · saving…")
	case board.Reconciling:
		meta += s.Badge.Render(" · reloading…")
	}

	style := s.Card
	switch {
	case grabbed:
		style = s.CardGrabbed
		title = "✥ " + title
	case hovered:
		style = s.CardGrabbed
	case focused:
		style = s.CardFocused
	case v.ctrl.Sync(t.ID) != board.Confirmed:
		style = s.CardPending
	}
	return style.Render(title + "\n" + meta)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
