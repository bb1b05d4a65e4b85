package model

// InitialState returns a fresh copy of the hard-coded starting state.
//
// The validation codes here are fixed rather than derived from the rules: an
// untouched form starts with choices, default choice and label flagged as required.
func InitialState() State {
	required := Validation{ErrorCode: ErrorRequired, WarnCode: WarnNone}
	return State{
		Fields: Fields{
			Choices: Field[[]string]{
				Validation: required,
				Value:      []string{},
			},
			DefaultChoice: Field[string]{
				Validation: required,
			},
			DisplayOrder: Field[DisplayOrder]{
				Value: DisplayAlphabeticallyAscending,
			},
			Label: Field[string]{
				Validation: required,
			},
			Multiselect: Field[bool]{},
			NewChoice:   Field[string]{},
			Required: Field[bool]{
				Value: true,
			},
		},
		UpdatedAt: nil,
	}
}
