package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/loomboard/internal/track"
)

type projectsLoadedMsg struct {
	projects []track.Project
	err      error
}

type projectCreateDoneMsg struct {
	project track.Project
	err     error
}

type projectDeleteDoneMsg struct {
	id  int64
	err error
}

// projectItem implements list.Item for the dashboard.
type projectItem struct {
	project track.Project
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	if strings.TrimSpace(i.project.Description) == "" {
		return fmt.Sprintf("Project #%d", i.project.ID)
	}
	return i.project.Description
}
func (i projectItem) FilterValue() string { return i.project.Name }

type projectsMode int

const (
	projectsBrowse projectsMode = iota
	projectsCreate
	projectsConfirmDelete
)

// projectsView is the dashboard: list, create bar, delete with
// confirmation, and the door into a project's board.
type projectsView struct {
	app  *App
	menu list.Model
	mode projectsMode

	nameInput textinput.Model
	descInput textinput.Model
	formFocus int

	deleteTarget track.Project
	loading      bool
}

func newProjectsView(app *App) *projectsView {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Projects"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	name := textinput.New()
	name.Placeholder = "project name"
	name.CharLimit = 120

	desc := textinput.New()
	desc.Placeholder = "description (optional)"
	desc.CharLimit = 300

	return &projectsView{app: app, menu: menu, nameInput: name, descInput: desc}
}

func (v *projectsView) resize(width, height int) {
	v.menu.SetSize(max(0, width-4), max(0, height-12))
}

// load fetches the project list. Failure is a notification, not a crash;
// the dashboard renders with whatever it already has.
func (v *projectsView) load() tea.Cmd {
	v.loading = true
	gw := v.app.gw
	return func() tea.Msg {
		projects, err := gw.Projects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (v *projectsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return v.app.expireOr(msg.err, "Projects could not be loaded: %v", msg.err)
		}
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.menu.SetItems(items)
		return nil

	case projectCreateDoneMsg:
		if msg.err != nil {
			// Form stays open with its input for a retry.
			return v.app.expireOr(msg.err, "Project not created: %v", msg.err)
		}
		v.nameInput.SetValue("")
		v.descInput.SetValue("")
		v.mode = projectsBrowse
		v.app.notify("Project %q created", msg.project.Name)
		return v.load()

	case projectDeleteDoneMsg:
		if msg.err != nil {
			return v.app.expireOr(msg.err, "Project not deleted: %v", msg.err)
		}
		// Local removal only after the server confirmed.
		items := v.menu.Items()
		kept := make([]list.Item, 0, len(items))
		for _, it := range items {
			if p, ok := it.(projectItem); ok && p.project.ID == msg.id {
				continue
			}
			kept = append(kept, it)
		}
		v.menu.SetItems(kept)
		v.app.notify("Project deleted")
		return nil

	case tea.KeyMsg:
		switch v.mode {
		case projectsCreate:
			return v.updateCreateForm(msg)
		case projectsConfirmDelete:
			return v.updateConfirm(msg)
		}
		switch msg.String() {
		case "enter":
			item, ok := v.menu.SelectedItem().(projectItem)
			if !ok {
				return nil
			}
			return v.app.openBoard(item.project)
		case "n":
			v.mode = projectsCreate
			v.formFocus = 0
			v.nameInput.Focus()
			v.descInput.Blur()
			return textinput.Blink
		case "d":
			item, ok := v.menu.SelectedItem().(projectItem)
			if !ok {
				return nil
			}
			v.deleteTarget = item.project
			v.mode = projectsConfirmDelete
			return nil
		case "a":
			if v.app.isAdmin() {
				return v.app.openAdmin(stateProjects)
			}
			v.app.notify("Admin panel requires the admin role")
			return nil
		case "r":
			return v.load()
		case "ctrl+l":
			return v.app.logout()
		case "q":
			return tea.Quit
		}
	}

	var cmd tea.Cmd
	v.menu, cmd = v.menu.Update(msg)
	return cmd
}

func (v *projectsView) updateCreateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = projectsBrowse
		return nil
	case "tab", "shift+tab", "up", "down":
		if v.formFocus == 0 {
			v.formFocus = 1
			v.nameInput.Blur()
			v.descInput.Focus()
		} else {
			v.formFocus = 0
			v.descInput.Blur()
			v.nameInput.Focus()
		}
		return nil
	case "enter":
		name := strings.TrimSpace(v.nameInput.Value())
		if name == "" {
			v.app.notify("Project name is required")
			return nil
		}
		desc := strings.TrimSpace(v.descInput.Value())
		gw := v.app.gw
		return func() tea.Msg {
			project, err := gw.CreateProject(context.Background(), name, desc)
			return projectCreateDoneMsg{project: project, err: err}
		}
	}
	var cmd tea.Cmd
	if v.formFocus == 0 {
		v.nameInput, cmd = v.nameInput.Update(msg)
	} else {
		v.descInput, cmd = v.descInput.Update(msg)
	}
	return cmd
}

func (v *projectsView) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		target := v.deleteTarget
		v.mode = projectsBrowse
		gw := v.app.gw
		return func() tea.Msg {
			err := gw.DeleteProject(context.Background(), target.ID)
			return projectDeleteDoneMsg{id: target.ID, err: err}
		}
	case "n", "N", "esc":
		v.mode = projectsBrowse
		return nil
	}
	return nil
}

func (v *projectsView) View() string {
	s := v.app.styles
	switch v.mode {
	case projectsCreate:
		nameLabel := s.FormLabel.Render("Name")
		descLabel := s.FormLabel.Render("Description")
		if v.formFocus == 0 {
			nameLabel = s.FormActive.Render("Name")
		} else {
			descLabel = s.FormActive.Render("Description")
		}
		return strings.Join([]string{
			s.Title.Render("New project"),
			"",
			nameLabel,
			"  " + v.nameInput.View(),
			descLabel,
			"  " + v.descInput.View(),
			"",
			s.Help.Render("enter=create  tab=next field  esc=cancel"),
		}, "\n")
	case projectsConfirmDelete:
		return strings.Join([]string{
			s.ErrorMsg.Render(fmt.Sprintf("Delete project %q and every ticket in it?", v.deleteTarget.Name)),
			"",
			s.Help.Render("y=delete  n=keep"),
		}, "\n")
	}

	body := v.menu.View()
	if v.loading && len(v.menu.Items()) == 0 {
		body = s.Subtle.Render("Loading projects…")
	}
	help := "enter=open board  n=new  d=delete  r=refresh  ctrl+t=theme  ctrl+l=sign out  q=quit"
	if v.app.isAdmin() {
		help = "enter=open board  n=new  d=delete  a=admin  r=refresh  ctrl+t=theme  ctrl+l=sign out  q=quit"
	}
	return body + "\n" + s.Help.Render(help)
}
