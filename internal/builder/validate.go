package builder

import (
	"fieldbuilder/internal/model"
)

var none = model.Validation{ErrorCode: model.ErrorNone, WarnCode: model.WarnNone}

// ValidateField computes the error/warning codes for one field given the whole state.
// The first matching rule wins; fields without rules always validate clean.
func ValidateField(key model.FieldKey, st model.State) model.Validation {
	choices := st.Fields.Choices.Value

	switch key {
	case model.KeyChoices:
		if len(choices) == 0 {
			return model.Validation{ErrorCode: model.ErrorRequired}
		}
		for _, c := range choices {
			if model.TooLong(c) {
				return model.Validation{WarnCode: model.WarnSomeTooLong}
			}
		}
		if len(choices) >= model.ChoicesMaxNumber {
			return model.Validation{WarnCode: model.WarnTooMany}
		}

	case model.KeyDefaultChoice:
		value := st.Fields.DefaultChoice.Value
		// A new default would become one more choice past the cap.
		if len(choices) >= model.ChoicesMaxNumber && value != "" && !model.Contains(choices, value) {
			return model.Validation{ErrorCode: model.ErrorTooMany}
		}
		if model.TooLong(value) {
			return model.Validation{WarnCode: model.WarnTooLong}
		}

	case model.KeyLabel:
		value := st.Fields.Label.Value
		if value == "" {
			return model.Validation{ErrorCode: model.ErrorRequired}
		}
		if model.TooLong(value) {
			return model.Validation{WarnCode: model.WarnTooLong}
		}

	case model.KeyNewChoice:
		value := st.Fields.NewChoice.Value
		if model.Contains(choices, value) {
			return model.Validation{ErrorCode: model.ErrorDuplicated}
		}
		if len(choices) >= model.ChoicesMaxNumber {
			return model.Validation{WarnCode: model.WarnTooMany}
		}
		if model.TooLong(value) {
			return model.Validation{WarnCode: model.WarnTooLong}
		}
	}

	return none
}

// Validate re-runs every field rule and returns the state with fresh codes.
func Validate(st model.State) model.State {
	out := st.Clone()
	for _, key := range model.FieldKeys() {
		out.Fields.SetValidation(key, ValidateField(key, out))
	}
	return out
}

// HasErrors reports whether any field carries an error code.
func HasErrors(st model.State) bool {
	for _, key := range model.FieldKeys() {
		if st.Fields.Validation(key).ErrorCode != model.ErrorNone {
			return true
		}
	}
	return false
}

// HasWarns reports whether any field carries a warning code.
func HasWarns(st model.State) bool {
	for _, key := range model.FieldKeys() {
		if st.Fields.Validation(key).WarnCode != model.WarnNone {
			return true
		}
	}
	return false
}
