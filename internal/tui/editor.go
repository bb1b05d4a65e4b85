package tui

import (
	"context"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
)

type focusArea int

const (
	focusLabel focusArea = iota
	focusChoices
	focusNewChoice
	focusDefault
	focusDisplayOrder
	focusMultiselect
	focusRequired
	focusSubmit
	focusReset
	focusCount
)

func (f focusArea) next() focusArea { return (f + 1) % focusCount }
func (f focusArea) prev() focusArea { return (f + focusCount - 1) % focusCount }

// Submitter is the part of the submit workflow the editor needs.
type Submitter interface {
	Submit(ctx context.Context, b *builder.Builder) (model.State, error)
}

type submitDoneMsg struct {
	state model.State
	err   error
}

type editorModel struct {
	ctx       context.Context
	b         *builder.Builder
	submitter Submitter

	width  int
	height int

	focus     focusArea
	choiceIdx int

	label         textinput.Model
	newChoice     textinput.Model
	defaultChoice textinput.Model
	suggestions   []string
	suggestionIdx int

	// pending is true while a submission is in flight; every control is disabled.
	pending bool

	banner    string
	bannerErr bool

	showHelp bool
	help     help.Model
}

func newEditorModel(ctx context.Context, b *builder.Builder, s Submitter) editorModel {
	m := editorModel{
		ctx:           ctx,
		b:             b,
		submitter:     s,
		width:         80,
		suggestionIdx: -1,
		help:          help.New(),
	}

	m.label = newInput("Field label")
	m.newChoice = newInput("Type a choice and press enter")
	m.defaultChoice = newInput("Default value (optional)")

	m.syncInputs()
	m.applyFocus()
	return m
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	// Longer text is allowed and flagged; it is cut on submit.
	in.CharLimit = 200
	in.Width = 48
	return in
}

// syncInputs copies the builder's text values into the inputs, e.g. after a
// reset or a submission replaced the state.
func (m *editorModel) syncInputs() {
	st := m.b.State()
	m.label.SetValue(st.Fields.Label.Value)
	m.newChoice.SetValue(st.Fields.NewChoice.Value)
	m.defaultChoice.SetValue(st.Fields.DefaultChoice.Value)
	m.suggestions = nil
	m.suggestionIdx = -1
	if n := len(st.Fields.Choices.Value); m.choiceIdx >= n {
		m.choiceIdx = max(0, n-1)
	}
}

func (m *editorModel) applyFocus() {
	for _, f := range []struct {
		area focusArea
		in   *textinput.Model
	}{
		{focusLabel, &m.label},
		{focusNewChoice, &m.newChoice},
		{focusDefault, &m.defaultChoice},
	} {
		if m.focus == f.area && !m.pending {
			f.in.Focus()
		} else {
			f.in.Blur()
		}
	}
}

// typing reports whether keystrokes go to a text input.
func (m editorModel) typing() bool {
	if m.pending {
		return false
	}
	switch m.focus {
	case focusLabel, focusDefault:
		return true
	case focusNewChoice:
		return !builder.NewChoiceInputDisabled(m.b.State(), m.pending)
	}
	return false
}
