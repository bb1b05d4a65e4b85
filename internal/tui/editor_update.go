package tui

import (
	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/submit"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m editorModel) Init() tea.Cmd { return textinput.Blink }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case submitDoneMsg:
		m.pending = false
		if msg.err != nil {
			m.banner = submit.FailureText(msg.err)
			m.bannerErr = true
		} else {
			m.banner = "Field saved."
			m.bannerErr = false
			m.syncInputs()
		}
		m.applyFocus()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateInput(msg)
}

func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if m.showHelp {
		switch k {
		case "ctrl+c":
			return m, tea.Quit
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		m.focus = m.focus.next()
		m.applyFocus()
		return m, nil
	case key.Matches(msg, keys.Prev):
		m.focus = m.focus.prev()
		m.applyFocus()
		return m, nil
	case key.Matches(msg, keys.Submit):
		return m.startSubmit()
	case key.Matches(msg, keys.Reset):
		return m.reset(), nil
	}

	if m.pending {
		return m, nil
	}
	if m.typing() {
		return m.updateTyping(msg)
	}

	if key.Matches(msg, keys.Help) {
		m.showHelp = true
		return m, nil
	}

	switch m.focus {
	case focusChoices:
		n := len(m.b.State().Fields.Choices.Value)
		switch k {
		case "up", "k":
			if m.choiceIdx > 0 {
				m.choiceIdx--
			}
		case "down", "j":
			if m.choiceIdx < n-1 {
				m.choiceIdx++
			}
		case "d", "x", "delete", "backspace":
			if n > 0 {
				m.b.RemoveChoice(m.choiceIdx)
				if m.choiceIdx >= n-1 {
					m.choiceIdx = max(0, n-2)
				}
			}
		}

	case focusDisplayOrder:
		order := m.b.State().Fields.DisplayOrder.Value
		switch k {
		case "right", "l", " ", "space", "enter":
			m.b.SetDisplayOrder(order.Next())
		case "left", "h":
			m.b.SetDisplayOrder(order.Prev())
		}

	case focusMultiselect:
		if isPress(k) {
			m.b.SetMultiselect(!m.b.State().Fields.Multiselect.Value)
		}

	case focusRequired:
		if isPress(k) {
			m.b.SetRequired(!m.b.State().Fields.Required.Value)
		}

	case focusSubmit:
		if isPress(k) {
			return m.startSubmit()
		}

	case focusReset:
		if isPress(k) {
			return m.reset(), nil
		}
	}
	return m, nil
}

func (m editorModel) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusNewChoice:
		if msg.String() == "enter" {
			if builder.CanAddNewChoice(m.b.State(), m.pending) {
				m.b.AddNewChoice()
				m.newChoice.SetValue("")
			}
			return m, nil
		}
	case focusDefault:
		switch msg.String() {
		case "down", "up":
			return m.cycleSuggestion(msg.String() == "down"), nil
		case "enter":
			m.focus = m.focus.next()
			m.applyFocus()
			return m, nil
		}
	case focusLabel:
		if msg.String() == "enter" {
			m.focus = m.focus.next()
			m.applyFocus()
			return m, nil
		}
	}
	return m.updateInput(msg)
}

// updateInput forwards msg to the focused input and dispatches the new value
// when it changed.
func (m editorModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	st := m.b.State()
	switch m.focus {
	case focusLabel:
		m.label, cmd = m.label.Update(msg)
		if v := m.label.Value(); v != st.Fields.Label.Value {
			m.b.SetLabel(v)
		}
	case focusNewChoice:
		m.newChoice, cmd = m.newChoice.Update(msg)
		if v := m.newChoice.Value(); v != st.Fields.NewChoice.Value {
			m.b.SetNewChoice(v)
		}
	case focusDefault:
		m.defaultChoice, cmd = m.defaultChoice.Update(msg)
		if v := m.defaultChoice.Value(); v != st.Fields.DefaultChoice.Value {
			m.b.SetDefaultChoice(v)
			m.suggestionIdx = -1
		}
	}
	return m, cmd
}

// cycleSuggestion steps through the choices matching what was typed when
// cycling started.
func (m editorModel) cycleSuggestion(forward bool) editorModel {
	if m.suggestionIdx < 0 {
		m.suggestions = builder.DefaultChoiceSuggestions(m.b.State())
	}
	n := len(m.suggestions)
	if n == 0 {
		return m
	}
	switch {
	case m.suggestionIdx < 0:
		m.suggestionIdx = 0
	case forward:
		m.suggestionIdx = (m.suggestionIdx + 1) % n
	default:
		m.suggestionIdx = (m.suggestionIdx + n - 1) % n
	}
	v := m.suggestions[m.suggestionIdx]
	m.defaultChoice.SetValue(v)
	m.defaultChoice.CursorEnd()
	m.b.SetDefaultChoice(v)
	return m
}

func (m editorModel) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitter == nil || !builder.CanSubmit(m.b.State(), m.pending) {
		return m, nil
	}
	m.pending = true
	m.banner = "Submitting…"
	m.bannerErr = false
	m.applyFocus()

	ctx, b, s := m.ctx, m.b, m.submitter
	return m, func() tea.Msg {
		st, err := s.Submit(ctx, b)
		return submitDoneMsg{state: st, err: err}
	}
}

func (m editorModel) reset() editorModel {
	if !builder.CanReset(m.b.State(), m.pending) {
		return m
	}
	m.b.ResetAll()
	m.banner = ""
	m.bannerErr = false
	m.choiceIdx = 0
	m.syncInputs()
	return m
}

func isPress(k string) bool {
	return k == " " || k == "space" || k == "enter"
}
