// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/components"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

// OpenProjectMsg asks the app to open a project's detail screen.
type OpenProjectMsg struct {
	Project model.Project
}

type projectsMode int

const (
	projectsBrowse projectsMode = iota
	projectsCreateName
	projectsCreateDesc
	projectsConfirmDelete
)

// ProjectList is the landing screen: all projects for the signed-in user.
type ProjectList struct {
	theme  *styles.Theme
	client *api.Client
	ctx    context.Context

	projects []model.Project
	cursor   int
	loaded   bool
	loadErr  error

	mode      projectsMode
	nameInput textinput.Model
	descInput textinput.Model

	toast components.Toast
	bar   components.StatusBar
	width int
}

// NewProjectList builds the project list screen.
func NewProjectList(ctx context.Context, client *api.Client, theme *styles.Theme) *ProjectList {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 120

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500

	return &ProjectList{
		theme:     theme,
		client:    client,
		ctx:       ctx,
		nameInput: name,
		descInput: desc,
	}
}

// Init loads the projects.
func (p *ProjectList) Init() tea.Cmd {
	return loadProjectsCmd(p.ctx, p.client)
}

// Update implements tea.Model.
func (p *ProjectList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.bar.Width = msg.Width
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case ProjectsLoadedMsg:
		p.loaded = true
		p.loadErr = msg.Err
		if msg.Err == nil {
			p.projects = msg.Projects
			p.clampCursor()
		}
		return p, nil

	case ProjectCreatedMsg:
		if msg.Err != nil {
			return p, p.toast.Show(components.ToastError, "Create failed: "+msg.Err.Error())
		}
		return p, tea.Batch(
			loadProjectsCmd(p.ctx, p.client),
			p.toast.Show(components.ToastSuccess, "Project created."),
		)

	case ProjectDeletedMsg:
		if msg.Err != nil {
			return p, p.toast.Show(components.ToastError, "Delete failed: "+msg.Err.Error())
		}
		return p, tea.Batch(
			loadProjectsCmd(p.ctx, p.client),
			p.toast.Show(components.ToastSuccess, "Project deleted."),
		)

	case components.ToastExpiredMsg:
		p.toast.Update(msg)
		return p, nil
	}

	var cmd tea.Cmd
	switch p.mode {
	case projectsCreateName:
		p.nameInput, cmd = p.nameInput.Update(msg)
	case projectsCreateDesc:
		p.descInput, cmd = p.descInput.Update(msg)
	}
	return p, cmd
}

func (p *ProjectList) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch p.mode {
	case projectsCreateName:
		switch msg.String() {
		case "esc":
			p.mode = projectsBrowse
			p.nameInput.Reset()
			return p, nil
		case "enter":
			if strings.TrimSpace(p.nameInput.Value()) == "" {
				return p, p.toast.Show(components.ToastWarning, "A project needs a name.")
			}
			p.mode = projectsCreateDesc
			p.nameInput.Blur()
			p.descInput.Focus()
			return p, nil
		}
		var cmd tea.Cmd
		p.nameInput, cmd = p.nameInput.Update(msg)
		return p, cmd

	case projectsCreateDesc:
		switch msg.String() {
		case "esc":
			p.mode = projectsBrowse
			p.nameInput.Reset()
			p.descInput.Reset()
			return p, nil
		case "enter":
			name := strings.TrimSpace(p.nameInput.Value())
			desc := strings.TrimSpace(p.descInput.Value())
			p.mode = projectsBrowse
			p.nameInput.Reset()
			p.descInput.Reset()
			p.descInput.Blur()
			return p, createProjectCmd(p.ctx, p.client, name, desc)
		}
		var cmd tea.Cmd
		p.descInput, cmd = p.descInput.Update(msg)
		return p, cmd

	case projectsConfirmDelete:
		switch msg.String() {
		case "y":
			p.mode = projectsBrowse
			if sel, ok := p.selected(); ok {
				return p, deleteProjectCmd(p.ctx, p.client, sel.ID)
			}
		default:
			p.mode = projectsBrowse
		}
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case "enter":
		if sel, ok := p.selected(); ok {
			return p, func() tea.Msg { return OpenProjectMsg{Project: sel} }
		}
	case "n":
		p.mode = projectsCreateName
		p.nameInput.Focus()
	case "d":
		if _, ok := p.selected(); ok {
			p.mode = projectsConfirmDelete
		}
	case "r":
		return p, loadProjectsCmd(p.ctx, p.client)
	}
	return p, nil
}

func (p *ProjectList) selected() (model.Project, bool) {
	if p.cursor < 0 || p.cursor >= len(p.projects) {
		return model.Project{}, false
	}
	return p.projects[p.cursor], true
}

func (p *ProjectList) clampCursor() {
	if p.cursor >= len(p.projects) {
		p.cursor = len(p.projects) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// View implements tea.Model.
func (p *ProjectList) View() string {
	var b strings.Builder
	b.WriteString(p.theme.Title.Render("Projects") + "\n\n")

	switch {
	case !p.loaded:
		b.WriteString(p.theme.Subtitle.Render("Loading...") + "\n")
	case p.loadErr != nil:
		b.WriteString(p.theme.ErrorPanel.Render("Could not load projects.\n\n"+p.loadErr.Error()) + "\n")
	case len(p.projects) == 0:
		b.WriteString(p.theme.Subtitle.Render("No projects yet. Press n to create one.") + "\n")
	default:
		for i, project := range p.projects {
			line := project.Name
			if project.Description != "" {
				line += "  " + p.theme.Subtitle.Render(project.Description)
			}
			if i == p.cursor {
				b.WriteString(p.theme.ListSelected.Render("> "+line) + "\n")
			} else {
				b.WriteString(p.theme.ListItem.Render(line) + "\n")
			}
		}
	}

	switch p.mode {
	case projectsCreateName:
		b.WriteString("\n" + p.theme.FormLabel.Render("Name: ") + p.nameInput.View() + "\n")
	case projectsCreateDesc:
		b.WriteString("\n" + p.theme.FormLabel.Render("Description: ") + p.descInput.View() + "\n")
	case projectsConfirmDelete:
		if sel, ok := p.selected(); ok {
			b.WriteString("\n" + p.theme.FormError.Render(
				fmt.Sprintf("Delete %q and all its chats and documents? (y/N)", sel.Name)) + "\n")
		}
	}

	if toast := p.toast.View(p.theme); toast != "" {
		b.WriteString("\n" + toast + "\n")
	}

	b.WriteString("\n" + p.bar.Render(p.theme, fmt.Sprintf("%d projects", len(p.projects)), []components.Shortcut{
		{Key: "enter", Desc: "open"},
		{Key: "n", Desc: "new"},
		{Key: "d", Desc: "delete"},
		{Key: "r", Desc: "refresh"},
		{Key: "ctrl+c", Desc: "quit"},
	}))
	return b.String()
}
