package tui

import (
	"fmt"
	"strings"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/docs"
	"fieldbuilder/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m editorModel) View() string {
	if m.showHelp {
		body, _ := docs.Get("keys")
		return docs.Render(body, m.width) + "\n" + styleMuted().Render("?/esc: close help")
	}

	st := m.b.State()
	msgs := builder.Messages(st)
	inputW := min(max(m.width-4, 20), 60)

	var sections []string
	sections = append(sections, styleTitle().Render("Field Builder"))

	sections = append(sections, m.section(focusLabel, "Label",
		renderInputLine(inputW, m.label.View(), m.pending),
		msgs[model.KeyLabel]))

	sections = append(sections, m.section(focusChoices, "Choices",
		m.renderChoices(st),
		msgs[model.KeyChoices]))

	sections = append(sections, m.section(focusNewChoice, "New choice",
		renderInputLine(inputW, m.newChoice.View(), m.pending || builder.NewChoiceInputDisabled(st, m.pending))+" "+m.renderAddHint(st),
		msgs[model.KeyNewChoice]))

	def := renderInputLine(inputW, m.defaultChoice.View(), m.pending)
	if m.focus == focusDefault && !m.pending {
		if s := builder.DefaultChoiceSuggestions(st); len(s) > 0 && st.Fields.DefaultChoice.Value != "" {
			def += "\n" + styleMuted().Render(glyphArrows()+": "+strings.Join(s, ", "))
		}
	}
	sections = append(sections, m.section(focusDefault, "Default value", def, msgs[model.KeyDefaultChoice]))

	sections = append(sections, m.section(focusDisplayOrder, "Display order",
		glyphCycle(st.Fields.DisplayOrder.Value.Label()),
		builder.FieldMessages{}))

	sections = append(sections, m.section(focusMultiselect, "Multiselect",
		glyphCheckbox(st.Fields.Multiselect.Value)+" Allow more than one value",
		builder.FieldMessages{}))
	sections = append(sections, m.section(focusRequired, "Required",
		glyphCheckbox(st.Fields.Required.Value)+" A value must be chosen",
		builder.FieldMessages{}))

	submitBtn := styleButton(m.focus == focusSubmit, !builder.CanSubmit(st, m.pending)).Render("Save changes")
	resetBtn := styleButton(m.focus == focusReset, !builder.CanReset(st, m.pending)).Render("Reset")
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, submitBtn, " ", resetBtn))

	if m.banner != "" {
		banner := styleSuccess()
		if m.bannerErr {
			banner = styleError()
		}
		sections = append(sections, banner.Width(max(m.width-2, 20)).Render(m.banner))
	}

	sections = append(sections, m.help.View(keys))
	return strings.Join(sections, "\n\n")
}

func (m editorModel) section(area focusArea, title, body string, msg builder.FieldMessages) string {
	marker := "  "
	if m.focus == area {
		marker = glyphFocus() + " "
	}
	lines := []string{styleFieldLabel(m.focus == area).Render(marker + title), body}
	if msg.Error != "" {
		lines = append(lines, styleError().Render(msg.Error))
	}
	if msg.Warning != "" {
		lines = append(lines, styleWarning().Render(msg.Warning))
	}
	if msg.Description != "" {
		lines = append(lines, styleMuted().Render(msg.Description))
	}
	return strings.Join(lines, "\n")
}

// renderChoices lists the choices, highlighting the part of each that is cut on submit.
func (m editorModel) renderChoices(st model.State) string {
	choices := st.Fields.Choices.Value
	if len(choices) == 0 {
		return styleMuted().Render("No choices yet.")
	}
	lines := make([]string, 0, len(choices))
	for i, c := range choices {
		head, tail := model.SplitString(c, model.TextValueMaxLength)
		row := head
		if tail != "" {
			row += styleOverflow().Render(tail)
		}
		cursor := "  "
		if m.focus == focusChoices && i == m.choiceIdx {
			cursor = glyphCursor() + " "
			row = lipgloss.NewStyle().Bold(true).Render(row)
		}
		lines = append(lines, fmt.Sprintf("%s%d. %s", cursor, i+1, row))
	}
	return strings.Join(lines, "\n")
}

func (m editorModel) renderAddHint(st model.State) string {
	return styleButton(false, !builder.CanAddNewChoice(st, m.pending)).Render("enter: add")
}
