// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/components"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
	"github.com/nextgensoft/ragdesk/internal/util"
)

// OpenChatMsg asks the app to open a conversation.
type OpenChatMsg struct {
	Chat model.Chat
}

// CloseProjectMsg asks the app to return to the project list.
type CloseProjectMsg struct{}

type detailTab int

const (
	tabChats detailTab = iota
	tabDocuments
	tabSettings
)

func (t detailTab) String() string {
	switch t {
	case tabChats:
		return "Chats"
	case tabDocuments:
		return "Documents"
	case tabSettings:
		return "Settings"
	}
	return "?"
}

type detailMode int

const (
	detailBrowse detailMode = iota
	detailNewChat
	detailUploadPath
	detailAddURL
	detailConfirmDelete
	detailChunks
)

// ProjectDetail is the per-project screen with chats, documents, and
// settings tabs.
type ProjectDetail struct {
	theme   *styles.Theme
	client  *api.Client
	ctx     context.Context
	project model.Project

	tab  detailTab
	mode detailMode

	chats      []model.Chat
	documents  []model.Document
	chatCursor int
	docCursor  int

	settings *SettingsForm

	input       textinput.Model
	chunksView  viewport.Model
	chunksTitle string
	uploading   bool
	codeStyle   string

	toast  components.Toast
	bar    components.StatusBar
	width  int
	height int
}

// NewProjectDetail builds the detail screen for one project.
func NewProjectDetail(ctx context.Context, client *api.Client, project model.Project, theme *styles.Theme) *ProjectDetail {
	input := textinput.New()
	input.CharLimit = 500

	return &ProjectDetail{
		theme:      theme,
		client:     client,
		ctx:        ctx,
		project:    project,
		settings:   NewSettingsForm(theme),
		input:      input,
		chunksView: viewport.New(80, 20),
	}
}

// Init loads everything the tabs need.
func (d *ProjectDetail) Init() tea.Cmd {
	return tea.Batch(
		loadChatsCmd(d.ctx, d.client, d.project.ID),
		loadDocumentsCmd(d.ctx, d.client, d.project.ID),
		loadSettingsCmd(d.ctx, d.client, d.project.ID),
	)
}

// Update implements tea.Model.
func (d *ProjectDetail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.bar.Width = msg.Width
		d.chunksView.Width = msg.Width - 4
		d.chunksView.Height = msg.Height - 8
		return d, nil

	case tea.KeyMsg:
		return d.handleKey(msg)

	case ChatsLoadedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Chats: "+msg.Err.Error())
		}
		d.chats = msg.Chats
		d.chatCursor = clamp(d.chatCursor, len(d.chats))
		return d, nil

	case ChatCreatedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "New chat: "+msg.Err.Error())
		}
		// Jump straight into the fresh conversation.
		return d, tea.Batch(
			loadChatsCmd(d.ctx, d.client, d.project.ID),
			func() tea.Msg { return OpenChatMsg{Chat: msg.Chat} },
		)

	case ChatDeletedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Delete: "+msg.Err.Error())
		}
		return d, loadChatsCmd(d.ctx, d.client, d.project.ID)

	case DocumentsLoadedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Documents: "+msg.Err.Error())
		}
		d.documents = msg.Documents
		d.docCursor = clamp(d.docCursor, len(d.documents))
		return d, nil

	case DocumentAddedMsg:
		d.uploading = false
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Ingest failed: "+msg.Err.Error())
		}
		return d, tea.Batch(
			loadDocumentsCmd(d.ctx, d.client, d.project.ID),
			d.toast.Show(components.ToastSuccess, msg.Document.Filename+" queued for processing."),
		)

	case DocumentDeletedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Delete: "+msg.Err.Error())
		}
		return d, loadDocumentsCmd(d.ctx, d.client, d.project.ID)

	case ChunksLoadedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Chunks: "+msg.Err.Error())
		}
		d.mode = detailChunks
		d.chunksTitle = msg.Document.Filename
		d.chunksView.SetContent(d.renderChunks(msg.Chunks))
		d.chunksView.GotoTop()
		return d, nil

	case SettingsLoadedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Settings: "+msg.Err.Error())
		}
		d.settings.SetValues(msg.Settings)
		return d, nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			return d, d.toast.Show(components.ToastError, "Save failed: "+msg.Err.Error())
		}
		d.settings.SetValues(msg.Settings)
		return d, d.toast.Show(components.ToastSuccess, "Settings saved.")

	case components.ToastExpiredMsg:
		d.toast.Update(msg)
		return d, nil
	}

	if d.mode == detailNewChat || d.mode == detailUploadPath || d.mode == detailAddURL {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *ProjectDetail) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch d.mode {
	case detailNewChat, detailUploadPath, detailAddURL:
		return d.handleInputKey(msg)

	case detailConfirmDelete:
		d.mode = detailBrowse
		if msg.String() != "y" {
			return d, nil
		}
		switch d.tab {
		case tabChats:
			if c, ok := d.selectedChat(); ok {
				return d, deleteChatCmd(d.ctx, d.client, c.ID)
			}
		case tabDocuments:
			if doc, ok := d.selectedDocument(); ok {
				return d, deleteDocumentCmd(d.ctx, d.client, d.project.ID, doc.ID)
			}
		}
		return d, nil

	case detailChunks:
		switch msg.String() {
		case "esc", "q":
			d.mode = detailBrowse
			return d, nil
		}
		var cmd tea.Cmd
		d.chunksView, cmd = d.chunksView.Update(msg)
		return d, cmd
	}

	if d.tab == tabSettings {
		if handled, cmd := d.settings.HandleKey(msg); handled {
			if cmd == nil && d.settings.WantsSave() {
				values, err := d.settings.Values()
				if err != nil {
					return d, d.toast.Show(components.ToastWarning, err.Error())
				}
				return d, saveSettingsCmd(d.ctx, d.client, d.project.ID, values)
			}
			return d, cmd
		}
	}

	switch msg.String() {
	case "esc":
		return d, func() tea.Msg { return CloseProjectMsg{} }
	case "tab":
		d.tab = (d.tab + 1) % 3
	case "shift+tab":
		d.tab = (d.tab + 2) % 3
	case "up", "k":
		d.moveCursor(-1)
	case "down", "j":
		d.moveCursor(1)
	case "enter":
		switch d.tab {
		case tabChats:
			if c, ok := d.selectedChat(); ok {
				return d, func() tea.Msg { return OpenChatMsg{Chat: c} }
			}
		case tabDocuments:
			if doc, ok := d.selectedDocument(); ok {
				return d, loadChunksCmd(d.ctx, d.client, d.project.ID, doc)
			}
		}
	case "n":
		if d.tab == tabChats {
			d.startInput(detailNewChat, "Chat title")
		}
	case "u":
		if d.tab == tabDocuments {
			d.startInput(detailUploadPath, "Path to file")
		}
	case "a":
		if d.tab == tabDocuments {
			d.startInput(detailAddURL, "https://...")
		}
	case "d":
		if (d.tab == tabChats && len(d.chats) > 0) || (d.tab == tabDocuments && len(d.documents) > 0) {
			d.mode = detailConfirmDelete
		}
	case "r":
		return d, d.refreshTab()
	}
	return d, nil
}

func (d *ProjectDetail) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.mode = detailBrowse
		d.input.Reset()
		d.input.Blur()
		return d, nil
	case "enter":
		value := strings.TrimSpace(d.input.Value())
		mode := d.mode
		d.mode = detailBrowse
		d.input.Reset()
		d.input.Blur()
		if value == "" {
			return d, nil
		}
		switch mode {
		case detailNewChat:
			return d, createChatCmd(d.ctx, d.client, d.project.ID, value)
		case detailUploadPath:
			d.uploading = true
			return d, uploadFileCmd(d.ctx, d.client, d.project.ID, value)
		case detailAddURL:
			d.uploading = true
			return d, addURLCmd(d.ctx, d.client, d.project.ID, value)
		}
		return d, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *ProjectDetail) startInput(mode detailMode, placeholder string) {
	d.mode = mode
	d.input.Placeholder = placeholder
	d.input.Focus()
}

func (d *ProjectDetail) moveCursor(delta int) {
	switch d.tab {
	case tabChats:
		d.chatCursor = clamp(d.chatCursor+delta, len(d.chats))
	case tabDocuments:
		d.docCursor = clamp(d.docCursor+delta, len(d.documents))
	}
}

func (d *ProjectDetail) refreshTab() tea.Cmd {
	switch d.tab {
	case tabChats:
		return loadChatsCmd(d.ctx, d.client, d.project.ID)
	case tabDocuments:
		return loadDocumentsCmd(d.ctx, d.client, d.project.ID)
	case tabSettings:
		return loadSettingsCmd(d.ctx, d.client, d.project.ID)
	}
	return nil
}

func (d *ProjectDetail) selectedChat() (model.Chat, bool) {
	if d.chatCursor < 0 || d.chatCursor >= len(d.chats) {
		return model.Chat{}, false
	}
	return d.chats[d.chatCursor], true
}

func (d *ProjectDetail) selectedDocument() (model.Document, bool) {
	if d.docCursor < 0 || d.docCursor >= len(d.documents) {
		return model.Document{}, false
	}
	return d.documents[d.docCursor], true
}

// View implements tea.Model.
func (d *ProjectDetail) View() string {
	var b strings.Builder

	b.WriteString(d.theme.Title.Render(d.project.Name) + "\n")
	b.WriteString(d.renderTabs() + "\n\n")

	if d.mode == detailChunks {
		b.WriteString(d.theme.Subtitle.Render("Chunks of "+d.chunksTitle) + "\n")
		b.WriteString(d.chunksView.View() + "\n")
		b.WriteString(d.bar.Render(d.theme, d.chunksTitle, []components.Shortcut{
			{Key: "esc", Desc: "back"},
		}))
		return b.String()
	}

	switch d.tab {
	case tabChats:
		b.WriteString(d.renderChatList())
	case tabDocuments:
		b.WriteString(d.renderDocumentList())
	case tabSettings:
		b.WriteString(d.settings.View())
	}

	switch d.mode {
	case detailNewChat:
		b.WriteString("\n" + d.theme.FormLabel.Render("Title: ") + d.input.View() + "\n")
	case detailUploadPath:
		b.WriteString("\n" + d.theme.FormLabel.Render("File: ") + d.input.View() + "\n")
	case detailAddURL:
		b.WriteString("\n" + d.theme.FormLabel.Render("URL: ") + d.input.View() + "\n")
	case detailConfirmDelete:
		b.WriteString("\n" + d.theme.FormError.Render("Really delete? (y/N)") + "\n")
	}

	if d.uploading {
		b.WriteString("\n" + d.theme.AgentStatus.Render("Uploading...") + "\n")
	}
	if toast := d.toast.View(d.theme); toast != "" {
		b.WriteString("\n" + toast + "\n")
	}

	b.WriteString("\n" + d.bar.Render(d.theme, d.project.Name, d.shortcuts()))
	return b.String()
}

func (d *ProjectDetail) renderTabs() string {
	parts := make([]string, 0, 3)
	for _, t := range []detailTab{tabChats, tabDocuments, tabSettings} {
		if t == d.tab {
			parts = append(parts, d.theme.TabActive.Render(t.String()))
		} else {
			parts = append(parts, d.theme.TabInactive.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (d *ProjectDetail) renderChatList() string {
	if len(d.chats) == 0 {
		return d.theme.Subtitle.Render("No chats yet. Press n to start one.") + "\n"
	}
	var b strings.Builder
	for i, c := range d.chats {
		line := c.Title
		if !c.CreatedAt.IsZero() {
			line += "  " + d.theme.MessageMeta.Render(c.CreatedAt.Display())
		}
		if i == d.chatCursor {
			b.WriteString(d.theme.ListSelected.Render("> "+line) + "\n")
		} else {
			b.WriteString(d.theme.ListItem.Render(line) + "\n")
		}
	}
	return b.String()
}

func (d *ProjectDetail) renderDocumentList() string {
	if len(d.documents) == 0 {
		return d.theme.Subtitle.Render("No documents yet. Press u to upload a file or a to add a URL.") + "\n"
	}
	var b strings.Builder
	for i, doc := range d.documents {
		line := doc.Filename
		if doc.FileSize > 0 {
			line += "  " + d.theme.MessageMeta.Render(humanize.Bytes(uint64(doc.FileSize)))
		}
		line += "  " + d.renderStatus(doc.ProcessingStatus)
		if i == d.docCursor {
			b.WriteString(d.theme.ListSelected.Render("> "+line) + "\n")
		} else {
			b.WriteString(d.theme.ListItem.Render(line) + "\n")
		}
	}
	return b.String()
}

func (d *ProjectDetail) renderStatus(status string) string {
	switch status {
	case model.ProcessingCompleted:
		return d.theme.StatusCompleted.Render(status)
	case model.ProcessingFailed:
		return d.theme.StatusFailed.Render(status)
	default:
		return d.theme.StatusProcessing.Render(status)
	}
}

func (d *ProjectDetail) renderChunks(chunks []model.Chunk) string {
	if len(chunks) == 0 {
		return d.theme.Subtitle.Render("No chunks yet; the document may still be processing.")
	}
	var b strings.Builder
	for _, chunk := range chunks {
		header := fmt.Sprintf("#%d", chunk.Index)
		if chunk.Page > 0 {
			header += fmt.Sprintf(" (p.%d)", chunk.Page)
		}
		b.WriteString(d.theme.FormLabel.Render(header) + "\n")
		block := components.NewCodeBlock("", util.TruncateRunes(chunk.Content, 2000), d.codeStyle)
		block.MaxWidth = d.width
		b.WriteString(block.Render() + "\n\n")
	}
	return b.String()
}

func (d *ProjectDetail) shortcuts() []components.Shortcut {
	common := []components.Shortcut{
		{Key: "tab", Desc: "switch tab"},
		{Key: "r", Desc: "refresh"},
		{Key: "esc", Desc: "back"},
	}
	switch d.tab {
	case tabChats:
		return append([]components.Shortcut{
			{Key: "enter", Desc: "open"},
			{Key: "n", Desc: "new chat"},
			{Key: "d", Desc: "delete"},
		}, common...)
	case tabDocuments:
		return append([]components.Shortcut{
			{Key: "enter", Desc: "chunks"},
			{Key: "u", Desc: "upload"},
			{Key: "a", Desc: "add url"},
			{Key: "d", Desc: "delete"},
		}, common...)
	default:
		return append([]components.Shortcut{
			{Key: "enter", Desc: "edit"},
			{Key: "s", Desc: "save"},
		}, common...)
	}
}

func clamp(cursor, length int) int {
	if cursor >= length {
		cursor = length - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
