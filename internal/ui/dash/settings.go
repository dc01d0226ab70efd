// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

type settingsField struct {
	label string
	get   func(*model.ProjectSettings) string
	set   func(*model.ProjectSettings, string) error
}

// SettingsForm edits a project's retrieval settings one field at a time.
// Arrow keys pick a field, enter edits it, s queues a save; the detail
// screen runs the actual PUT.
type SettingsForm struct {
	theme  *styles.Theme
	fields []settingsField

	values  model.ProjectSettings
	cursor  int
	editing bool
	input   textinput.Model

	loaded    bool
	wantsSave bool
}

// NewSettingsForm builds the form with empty values; SetValues fills it
// once the load finishes.
func NewSettingsForm(theme *styles.Theme) *SettingsForm {
	input := textinput.New()
	input.CharLimit = 120

	f := &SettingsForm{theme: theme, input: input}
	f.fields = []settingsField{
		stringField("Embedding model", func(s *model.ProjectSettings) *string { return &s.EmbeddingModel }),
		stringField("RAG strategy", func(s *model.ProjectSettings) *string { return &s.RAGStrategy }),
		stringField("Agent type", func(s *model.ProjectSettings) *string { return &s.AgentType }),
		intField("Chunks per search", func(s *model.ProjectSettings) *int { return &s.ChunksPerSearch }),
		intField("Final context size", func(s *model.ProjectSettings) *int { return &s.FinalContextSize }),
		floatField("Similarity threshold", func(s *model.ProjectSettings) *float64 { return &s.SimilarityThreshold }),
		intField("Number of queries", func(s *model.ProjectSettings) *int { return &s.NumberOfQueries }),
		boolField("Reranking enabled", func(s *model.ProjectSettings) *bool { return &s.RerankingEnabled }),
		stringField("Reranking model", func(s *model.ProjectSettings) *string { return &s.RerankingModel }),
		floatField("Vector weight", func(s *model.ProjectSettings) *float64 { return &s.VectorWeight }),
		floatField("Keyword weight", func(s *model.ProjectSettings) *float64 { return &s.KeywordWeight }),
	}
	return f
}

func stringField(label string, ptr func(*model.ProjectSettings) *string) settingsField {
	return settingsField{
		label: label,
		get:   func(s *model.ProjectSettings) string { return *ptr(s) },
		set: func(s *model.ProjectSettings, v string) error {
			*ptr(s) = v
			return nil
		},
	}
}

func intField(label string, ptr func(*model.ProjectSettings) *int) settingsField {
	return settingsField{
		label: label,
		get:   func(s *model.ProjectSettings) string { return strconv.Itoa(*ptr(s)) },
		set: func(s *model.ProjectSettings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s must be a whole number", label)
			}
			*ptr(s) = n
			return nil
		},
	}
}

func floatField(label string, ptr func(*model.ProjectSettings) *float64) settingsField {
	return settingsField{
		label: label,
		get:   func(s *model.ProjectSettings) string { return strconv.FormatFloat(*ptr(s), 'g', -1, 64) },
		set: func(s *model.ProjectSettings, v string) error {
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s must be a number", label)
			}
			*ptr(s) = n
			return nil
		},
	}
}

func boolField(label string, ptr func(*model.ProjectSettings) *bool) settingsField {
	return settingsField{
		label: label,
		get:   func(s *model.ProjectSettings) string { return strconv.FormatBool(*ptr(s)) },
		set: func(s *model.ProjectSettings, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s must be true or false", label)
			}
			*ptr(s) = b
			return nil
		},
	}
}

// SetValues replaces the form contents, e.g. after a load or save.
func (f *SettingsForm) SetValues(s model.ProjectSettings) {
	f.values = s
	f.loaded = true
	f.editing = false
	f.wantsSave = false
}

// Values validates and returns the edited settings.
func (f *SettingsForm) Values() (model.ProjectSettings, error) {
	if err := f.values.Validate(); err != nil {
		return model.ProjectSettings{}, err
	}
	return f.values, nil
}

// WantsSave reports and consumes a queued save request.
func (f *SettingsForm) WantsSave() bool {
	want := f.wantsSave
	f.wantsSave = false
	return want
}

// HandleKey consumes keys the form cares about. It reports false for keys
// the caller should handle itself, like tab switching.
func (f *SettingsForm) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !f.loaded {
		return false, nil
	}

	if f.editing {
		switch msg.String() {
		case "esc":
			f.editing = false
			f.input.Blur()
			return true, nil
		case "enter":
			field := f.fields[f.cursor]
			if err := field.set(&f.values, f.input.Value()); err != nil {
				// Keep editing; the bad value stays visible for fixing.
				return true, nil
			}
			f.editing = false
			f.input.Blur()
			return true, nil
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return true, cmd
	}

	switch msg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
		return true, nil
	case "down", "j":
		if f.cursor < len(f.fields)-1 {
			f.cursor++
		}
		return true, nil
	case "enter":
		f.editing = true
		f.input.SetValue(f.fields[f.cursor].get(&f.values))
		f.input.CursorEnd()
		f.input.Focus()
		return true, nil
	case "s":
		f.wantsSave = true
		return true, nil
	}
	return false, nil
}

// View renders the field table.
func (f *SettingsForm) View() string {
	if !f.loaded {
		return f.theme.Subtitle.Render("Loading settings...") + "\n"
	}

	var b strings.Builder
	for i, field := range f.fields {
		value := field.get(&f.values)
		if f.editing && i == f.cursor {
			value = f.input.View()
		}
		line := fmt.Sprintf("%-22s %s", field.label, value)
		if i == f.cursor {
			b.WriteString(f.theme.ListSelected.Render("> "+line) + "\n")
		} else {
			b.WriteString(f.theme.ListItem.Render(line) + "\n")
		}
	}

	if err := f.values.Validate(); err != nil {
		b.WriteString("\n" + f.theme.FormError.Render(err.Error()) + "\n")
	}
	return b.String()
}
