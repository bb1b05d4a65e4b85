package builder

import (
	"time"

	"fieldbuilder/internal/model"
)

// Reduce applies action to st and returns the next state.
//
// It is pure: now is the only time source and the input state is never mutated.
// Every action except ResetAll stamps UpdatedAt. Flag toggles (display order,
// multiselect, required) skip revalidation because they cannot fail.
func Reduce(st model.State, action Action, now time.Time) model.State {
	next := st.Clone()

	switch a := action.(type) {
	case AddNewChoice:
		next.Fields.Choices.Value = append(next.Fields.Choices.Value, next.Fields.NewChoice.Value)
		next.Fields.Choices.IsUpdated = true
		next.Fields.NewChoice.Value = ""
		next.Fields.NewChoice.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case RemoveChoice:
		// Out-of-range indexes match nothing and leave choices as they were.
		kept := make([]string, 0, len(next.Fields.Choices.Value))
		for i, c := range next.Fields.Choices.Value {
			if i != a.Index {
				kept = append(kept, c)
			}
		}
		next.Fields.Choices.Value = kept
		next.Fields.Choices.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case ResetAll:
		return model.InitialState()

	case SetDefaultChoice:
		next.Fields.DefaultChoice.Value = a.Value
		next.Fields.DefaultChoice.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case SetDisplayOrder:
		next.Fields.DisplayOrder.Value = a.Value
		next.Fields.DisplayOrder.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return next

	case SetLabel:
		next.Fields.Label.Value = a.Value
		next.Fields.Label.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case SetMultiselect:
		next.Fields.Multiselect.Value = a.Value
		next.Fields.Multiselect.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return next

	case SetNewChoice:
		next.Fields.NewChoice.Value = a.Value
		next.Fields.NewChoice.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case SetNewState:
		snapshot := a.State.Clone()
		next.Fields = snapshot.Fields
		next.UpdatedAt = model.Stamp(now)
		return Validate(next)

	case SetRequired:
		next.Fields.Required.Value = a.Value
		next.Fields.Required.IsUpdated = true
		next.UpdatedAt = model.Stamp(now)
		return next
	}

	return next
}
