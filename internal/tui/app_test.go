package tui

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/config"
	"github.com/kingrea/loomboard/internal/gateway"
	"github.com/kingrea/loomboard/internal/track"
)

// fakeGateway drives every view without a server. Canned data goes in,
// calls are recorded, and per-endpoint errors simulate rejections.
type fakeGateway struct {
	me       track.User
	projects []track.Project
	tickets  []track.Ticket
	users    []track.User
	comments []track.Comment

	projectsErr error
	statusErr   error
	deleteErr   error

	ticketsCalls    int
	statusCalls     []track.Status
	createCalls     []gateway.CreateTicketRequest
	updateCalls     []gateway.UpdateTicketRequest
	commentCalls    []string
	deleteUserCalls []int64
	deletedTickets  []int64
}

func (f *fakeGateway) Login(_ context.Context, creds gateway.Credentials) (string, error) {
	return "fake-token", nil
}

func (f *fakeGateway) Register(_ context.Context, req gateway.RegisterRequest) (string, error) {
	return "fake-token", nil
}

func (f *fakeGateway) Me(_ context.Context) (track.User, error) { return f.me, nil }

func (f *fakeGateway) Projects(_ context.Context) ([]track.Project, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return f.projects, nil
}

func (f *fakeGateway) Project(_ context.Context, id int64) (track.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return track.Project{ID: id}, nil
}

func (f *fakeGateway) CreateProject(_ context.Context, name, description string) (track.Project, error) {
	p := track.Project{ID: int64(len(f.projects) + 1), Name: name, Description: description}
	f.projects = append(f.projects, p)
	return p, nil
}

func (f *fakeGateway) DeleteProject(_ context.Context, id int64) error { return nil }

func (f *fakeGateway) TicketsByProject(_ context.Context, projectID int64) ([]track.Ticket, error) {
	f.ticketsCalls++
	return f.tickets, nil
}

func (f *fakeGateway) CreateTicket(_ context.Context, req gateway.CreateTicketRequest) (track.Ticket, error) {
	f.createCalls = append(f.createCalls, req)
	return track.Ticket{ID: 100, Title: req.Title, Status: track.StatusOpen, Priority: req.Priority}, nil
}

func (f *fakeGateway) UpdateTicket(_ context.Context, id int64, req gateway.UpdateTicketRequest) (track.Ticket, error) {
	f.updateCalls = append(f.updateCalls, req)
	return track.Ticket{ID: id, Title: req.Title, Priority: req.Priority}, nil
}

func (f *fakeGateway) UpdateTicketStatus(_ context.Context, id int64, status track.Status) error {
	f.statusCalls = append(f.statusCalls, status)
	return f.statusErr
}

func (f *fakeGateway) DeleteTicket(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedTickets = append(f.deletedTickets, id)
	return nil
}

func (f *fakeGateway) Comments(_ context.Context, ticketID int64) ([]track.Comment, error) {
	return f.comments, nil
}

func (f *fakeGateway) AddComment(_ context.Context, ticketID int64, text string) (track.Comment, error) {
	f.commentCalls = append(f.commentCalls, text)
	return track.Comment{ID: int64(len(f.commentCalls)), Text: text}, nil
}

func (f *fakeGateway) Users(_ context.Context) ([]track.User, error) { return f.users, nil }

func (f *fakeGateway) DeleteUser(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteUserCalls = append(f.deleteUserCalls, id)
	return nil
}

func newTestApp(t *testing.T, fake *fakeGateway) *App {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	app, err := NewApp(cfg, WithGateway(fake))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

// runCommands executes a command tree the way the bubbletea runtime would,
// feeding every produced message back into the app. Depth is capped so
// self-perpetuating commands (cursor blinks) terminate.
func runCommands(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	runCommandsDepth(t, app, cmd, 0)
}

func runCommandsDepth(t *testing.T, app *App, cmd tea.Cmd, depth int) {
	t.Helper()
	if cmd == nil || depth > 8 {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCommandsDepth(t, app, c, depth+1)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	_, next := app.Update(msg)
	runCommandsDepth(t, app, next, depth+1)
}

func pressKey(t *testing.T, app *App, key string) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := app.Update(msg)
	runCommands(t, app, cmd)
}

func boardFixture() *fakeGateway {
	return &fakeGateway{
		me: track.User{ID: 1, Email: "ada@example.com", FirstName: "Ada", Roles: []string{track.RoleUser}},
		projects: []track.Project{
			{ID: 7, Name: "Apollo"},
		},
		tickets: []track.Ticket{
			{ID: 11, Title: "fix login redirect", Status: track.StatusOpen, Priority: track.PriorityHigh},
			{ID: 12, Title: "update docs", Status: track.StatusInProgress, Priority: track.PriorityLow},
		},
		users: []track.User{
			{ID: 1, Email: "ada@example.com", FirstName: "Ada"},
			{ID: 2, Email: "grace@example.com", FirstName: "Grace"},
		},
	}
}

func openTestBoard(t *testing.T, fake *fakeGateway) *App {
	t.Helper()
	app := newTestApp(t, fake)
	me := fake.me
	app.me = &me
	runCommands(t, app, app.openBoard(fake.projects[0]))
	if app.state != stateBoard {
		t.Fatalf("app state = %v, want board", app.state)
	}
	if app.board.ctrl.Len() != len(fake.tickets) {
		t.Fatalf("board loaded %d tickets, want %d", app.board.ctrl.Len(), len(fake.tickets))
	}
	return app
}

func TestLoginSuccessEntersDashboard(t *testing.T) {
	fake := boardFixture()
	app := newTestApp(t, fake)
	if app.state != stateLogin {
		t.Fatalf("fresh app state = %v, want login", app.state)
	}

	app.login.inputs[loginFieldEmail].SetValue("ada@example.com")
	app.login.inputs[loginFieldPassword].SetValue("secret")
	pressKey(t, app, "enter")

	if app.state != stateProjects {
		t.Fatalf("state after login = %v, want projects", app.state)
	}
	if !app.session.LoggedIn() {
		t.Fatalf("token not stored after login")
	}
	if app.me == nil || app.me.Email != "ada@example.com" {
		t.Fatalf("identity not loaded after login")
	}
}

func TestLoginRequiresCredentialsLocally(t *testing.T) {
	fake := boardFixture()
	app := newTestApp(t, fake)
	pressKey(t, app, "enter")
	if app.state != stateLogin {
		t.Fatalf("empty submit left the login screen")
	}
}

func TestDragAppliesOptimisticallyAndConfirms(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	// Grab the OPEN ticket, carry it one column right, drop.
	pressKey(t, app, "space")
	pressKey(t, app, "l")
	pressKey(t, app, "space")

	got, _ := app.board.ctrl.Item(11)
	if got.Status != track.StatusInProgress {
		t.Fatalf("ticket status = %s, want IN_PROGRESS", got.Status)
	}
	if len(fake.statusCalls) != 1 || fake.statusCalls[0] != track.StatusInProgress {
		t.Fatalf("status calls = %v", fake.statusCalls)
	}
	if s := app.board.ctrl.Sync(11); s != 0 { // Confirmed
		t.Fatalf("sync after confirmed save = %v", s)
	}
}

func TestCancelledDragIssuesNoCall(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "space")
	pressKey(t, app, "l")
	pressKey(t, app, "esc")

	if len(fake.statusCalls) != 0 {
		t.Fatalf("cancelled drag reached the network: %v", fake.statusCalls)
	}
	got, _ := app.board.ctrl.Item(11)
	if got.Status != track.StatusOpen {
		t.Fatalf("cancelled drag mutated status to %s", got.Status)
	}
}

func TestDropOnSourceSlotIssuesNoCall(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "space")
	pressKey(t, app, "space")

	if len(fake.statusCalls) != 0 {
		t.Fatalf("no-op drop reached the network: %v", fake.statusCalls)
	}
}

func TestRejectedDragReloadsBoard(t *testing.T) {
	fake := boardFixture()
	fake.statusErr = &gateway.APIError{StatusCode: http.StatusConflict, Message: "ticket is locked"}
	app := openTestBoard(t, fake)
	loads := fake.ticketsCalls

	pressKey(t, app, "space")
	pressKey(t, app, "l")
	pressKey(t, app, "space")

	if fake.ticketsCalls != loads+1 {
		t.Fatalf("rejected move did not trigger a reload: %d loads", fake.ticketsCalls)
	}
	// The reload replaced local state with the server's version.
	got, _ := app.board.ctrl.Item(11)
	if got.Status != track.StatusOpen {
		t.Fatalf("ticket status after reconcile = %s, want OPEN", got.Status)
	}
}

func TestCreateTicketWithBlankTitleStaysLocal(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "n")
	if app.board.mode != modeCreate {
		t.Fatalf("create form did not open")
	}
	pressKey(t, app, "enter")

	if len(fake.createCalls) != 0 {
		t.Fatalf("blank title reached the network")
	}
	if app.board.mode != modeCreate {
		t.Fatalf("form closed despite the local rejection")
	}
}

func TestCreateTicketDefaultsAssigneeToCaller(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "n")
	app.board.create.title.SetValue("new work item")
	pressKey(t, app, "enter")

	if len(fake.createCalls) != 1 {
		t.Fatalf("create calls = %d, want 1", len(fake.createCalls))
	}
	if fake.createCalls[0].AssignedToUserID != nil {
		t.Fatalf("default assignee should be nil (assign to caller)")
	}
	if app.board.mode != modeBoard {
		t.Fatalf("form did not close after success")
	}
}

func TestTicketDeleteOnlyAfterConfirmation(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "d")
	if _, ok := app.board.ctrl.Item(11); !ok {
		t.Fatalf("ticket removed before confirmation")
	}
	pressKey(t, app, "n") // answer "keep"
	if len(fake.deletedTickets) != 0 {
		t.Fatalf("declined delete reached the network")
	}

	pressKey(t, app, "d")
	pressKey(t, app, "y")
	if len(fake.deletedTickets) != 1 || fake.deletedTickets[0] != 11 {
		t.Fatalf("deleted tickets = %v", fake.deletedTickets)
	}
	if _, ok := app.board.ctrl.Item(11); ok {
		t.Fatalf("ticket still on the board after confirmed delete")
	}
}

func TestWhitespaceCommentRejectedLocally(t *testing.T) {
	fake := boardFixture()
	fake.comments = []track.Comment{{ID: 1, Text: "looks good"}}
	app := openTestBoard(t, fake)

	pressKey(t, app, "enter") // open edit on focused ticket
	if app.board.mode != modeEdit {
		t.Fatalf("edit overlay did not open")
	}
	edit := app.board.edit
	if len(edit.comments) != 1 {
		t.Fatalf("comments not fetched on open: %d", len(edit.comments))
	}

	edit.focus = editFieldComment
	edit.comment.SetValue("   ")
	pressKey(t, app, "enter")

	if len(fake.commentCalls) != 0 {
		t.Fatalf("whitespace comment reached the network")
	}

	edit.comment.SetValue("ship it")
	pressKey(t, app, "enter")
	if len(fake.commentCalls) != 1 || fake.commentCalls[0] != "ship it" {
		t.Fatalf("comment calls = %v", fake.commentCalls)
	}
	if edit.comment.Value() != "" {
		t.Fatalf("input not cleared after accepted comment")
	}
}

func TestEditSaveSendsFullFields(t *testing.T) {
	fake := boardFixture()
	app := openTestBoard(t, fake)

	pressKey(t, app, "enter")
	edit := app.board.edit
	edit.title.SetValue("retitled")
	pressKey(t, app, "ctrl+s")

	if len(fake.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want 1", len(fake.updateCalls))
	}
	if fake.updateCalls[0].Title != "retitled" {
		t.Fatalf("saved title = %q", fake.updateCalls[0].Title)
	}
	if app.board.mode != modeBoard {
		t.Fatalf("edit overlay did not close after save")
	}
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	fake := boardFixture()
	fake.me.Roles = []string{track.RoleAdmin}
	app := newTestApp(t, fake)
	me := fake.me
	app.me = &me
	runCommands(t, app, app.openAdmin(stateProjects))

	if app.state != stateAdmin {
		t.Fatalf("app state = %v, want admin", app.state)
	}
	// Row 0 is the signed-in admin.
	app.admin.cursor = 0
	pressKey(t, app, "d")
	if app.admin.confirming {
		t.Fatalf("delete confirmation opened for own account")
	}

	app.admin.cursor = 1
	pressKey(t, app, "d")
	pressKey(t, app, "y")
	if len(fake.deleteUserCalls) != 1 || fake.deleteUserCalls[0] != 2 {
		t.Fatalf("deleted users = %v", fake.deleteUserCalls)
	}
	if len(app.admin.users) != 1 {
		t.Fatalf("confirmed delete not applied locally")
	}
}

func TestAuthFailureRoutesToLogin(t *testing.T) {
	fake := boardFixture()
	fake.projectsErr = &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "token expired"}
	app := newTestApp(t, fake)
	me := fake.me
	app.me = &me
	app.state = stateProjects

	runCommands(t, app, app.projects.load())

	if app.state != stateLogin {
		t.Fatalf("expired session left state = %v, want login", app.state)
	}
	if app.me != nil {
		t.Fatalf("identity survived session expiry")
	}
}
