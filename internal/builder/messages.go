package builder

import (
	"fmt"
	"strings"

	"fieldbuilder/internal/model"
)

// FieldMessages is the user-facing copy for one field. At most one of the
// three is shown at a time, except label and default choice which may carry
// both an error and a warning.
type FieldMessages struct {
	Error       string `json:"error,omitempty"`
	Warning     string `json:"warning,omitempty"`
	Description string `json:"description,omitempty"`
}

func (m FieldMessages) Empty() bool {
	return m.Error == "" && m.Warning == "" && m.Description == ""
}

const (
	msgRequired       = "This field is required and cannot be left empty"
	msgMaxItems       = "You have reached the maximum number of items"
	msgDuplicated     = "This value already exists in the list"
	msgDefaultTooMany = "The entered value is new and not one of the existing choices. The maximum number of entries has been reached. Please select an existing option."
)

var (
	msgTextTooLong = fmt.Sprintf("The entered text exceeds the maximum length of %d characters and will be truncated upon submission", model.TextValueMaxLength)
	msgSomeTooLong = fmt.Sprintf("One or more items exceed the maximum length of %d characters and will be truncated upon submission", model.TextValueMaxLength)
)

// Messages maps validation codes to UI copy. Nothing is reported until the
// state has been touched, so a fresh form does not open full of errors.
func Messages(st model.State) map[model.FieldKey]FieldMessages {
	out := map[model.FieldKey]FieldMessages{}
	if !st.Touched() {
		return out
	}
	f := st.Fields

	var choices FieldMessages
	switch {
	case f.Choices.Validation.ErrorCode == model.ErrorRequired:
		choices.Error = msgRequired
	case f.Choices.Validation.WarnCode == model.WarnSomeTooLong:
		choices.Warning = msgSomeTooLong
	case f.Choices.Validation.WarnCode == model.WarnTooMany:
		choices.Description = msgMaxItems
	}
	setIfAny(out, model.KeyChoices, choices)

	var def FieldMessages
	if f.DefaultChoice.Validation.ErrorCode == model.ErrorTooMany {
		def.Error = msgDefaultTooMany
	}
	if f.DefaultChoice.Validation.WarnCode == model.WarnTooLong {
		def.Warning = msgTextTooLong
	}
	setIfAny(out, model.KeyDefaultChoice, def)

	var label FieldMessages
	if f.Label.Validation.ErrorCode == model.ErrorRequired {
		label.Error = msgRequired
	}
	if f.Label.Validation.WarnCode == model.WarnTooLong {
		label.Warning = msgTextTooLong
	}
	setIfAny(out, model.KeyLabel, label)

	var nc FieldMessages
	switch {
	case f.NewChoice.Validation.ErrorCode == model.ErrorDuplicated:
		nc.Error = msgDuplicated
	case f.NewChoice.Validation.WarnCode == model.WarnTooLong:
		nc.Warning = msgTextTooLong
	case f.NewChoice.Validation.WarnCode == model.WarnTooMany:
		nc.Description = msgMaxItems
	}
	setIfAny(out, model.KeyNewChoice, nc)

	return out
}

func setIfAny(out map[model.FieldKey]FieldMessages, key model.FieldKey, m FieldMessages) {
	if !m.Empty() {
		out[key] = m
	}
}

// CanAddNewChoice reports whether the add button for the new-choice input is enabled.
func CanAddNewChoice(st model.State, pending bool) bool {
	v := st.Fields.NewChoice.Validation
	return v.ErrorCode == model.ErrorNone &&
		v.WarnCode != model.WarnTooMany &&
		st.Fields.NewChoice.Value != "" &&
		!pending
}

// NewChoiceInputDisabled reports whether the new-choice input accepts typing.
func NewChoiceInputDisabled(st model.State, pending bool) bool {
	return st.Fields.NewChoice.Validation.ErrorCode == model.ErrorTooMany || pending
}

// CanSubmit reports whether submission is allowed: no error codes and nothing in flight.
func CanSubmit(st model.State, pending bool) bool {
	return !HasErrors(st) && !pending
}

// CanReset reports whether there is anything to reset.
func CanReset(st model.State, pending bool) bool {
	return st.Touched() && !pending
}

// DefaultChoiceSuggestions returns the choices containing the typed default, case-insensitively.
func DefaultChoiceSuggestions(st model.State) []string {
	needle := strings.ToLower(st.Fields.DefaultChoice.Value)
	out := []string{}
	for _, c := range st.Fields.Choices.Value {
		if strings.Contains(strings.ToLower(c), needle) {
			out = append(out, c)
		}
	}
	return out
}
