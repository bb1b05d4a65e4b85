// Package adapter converts between the editable field state and the payload
// exchanged with the builder API. Both directions validate strictly.
package adapter

import (
	"slices"

	"fieldbuilder/internal/model"
)

// FeToBe projects the business fields of st into a payload.
//
// It fails with a *SchemaError when st or the resulting payload is invalid.
// newChoice is dropped. Text is sent as-is; the server truncates.
func FeToBe(st model.State) (model.Payload, error) {
	if err := ValidateState(st); err != nil {
		return model.Payload{}, err
	}

	p := model.Payload{
		Choices:      slices.Clone(st.Fields.Choices.Value),
		Default:      st.Fields.DefaultChoice.Value,
		DisplayOrder: st.Fields.DisplayOrder.Value,
		Label:        st.Fields.Label.Value,
		Multiselect:  st.Fields.Multiselect.Value,
		Required:     st.Fields.Required.Value,
	}
	if err := ValidatePayload(p); err != nil {
		return model.Payload{}, err
	}
	return p, nil
}

// BeToFe builds a new state from a server payload.
//
// Every field is marked updated with neutral validation and newChoice is
// cleared. Only UpdatedAt is carried over from prev.
func BeToFe(p model.Payload, prev model.State) (model.State, error) {
	if err := ValidatePayload(p); err != nil {
		return model.State{}, err
	}

	var neutral model.Validation
	st := model.State{
		Fields: model.Fields{
			Choices:       model.Field[[]string]{Value: slices.Clone(p.Choices), IsUpdated: true, Validation: neutral},
			DefaultChoice: model.Field[string]{Value: p.Default, IsUpdated: true, Validation: neutral},
			DisplayOrder:  model.Field[model.DisplayOrder]{Value: p.DisplayOrder, IsUpdated: true, Validation: neutral},
			Label:         model.Field[string]{Value: p.Label, IsUpdated: true, Validation: neutral},
			Multiselect:   model.Field[bool]{Value: p.Multiselect, IsUpdated: true, Validation: neutral},
			NewChoice:     model.Field[string]{Value: model.InitialState().Fields.NewChoice.Value, IsUpdated: true, Validation: neutral},
			Required:      model.Field[bool]{Value: p.Required, IsUpdated: true, Validation: neutral},
		},
		UpdatedAt: prev.Clone().UpdatedAt,
	}
	if err := ValidateState(st); err != nil {
		return model.State{}, err
	}
	return st, nil
}
