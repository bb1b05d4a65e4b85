package builder

import "fieldbuilder/internal/model"

type ActionType string

const (
	ActionAddNewChoice     ActionType = "add_new_choice"
	ActionRemoveChoice     ActionType = "remove_choice"
	ActionResetAll         ActionType = "resetAll"
	ActionSetDefaultChoice ActionType = "set_default_choice"
	ActionSetDisplayOrder  ActionType = "set_display_order"
	ActionSetLabel         ActionType = "set_label"
	ActionSetMultiselect   ActionType = "set_multiselect"
	ActionSetNewChoice     ActionType = "set_new_choice"
	ActionSetNewState      ActionType = "set_new_state"
	ActionSetRequired      ActionType = "set_required"
)

// Action is a reducer input. The set of implementations is closed.
type Action interface {
	Type() ActionType
	isAction()
}

type AddNewChoice struct{}

type RemoveChoice struct{ Index int }

type ResetAll struct{}

type SetDefaultChoice struct{ Value string }

type SetDisplayOrder struct{ Value model.DisplayOrder }

type SetLabel struct{ Value string }

type SetMultiselect struct{ Value bool }

type SetNewChoice struct{ Value string }

// SetNewState replaces every field with the snapshot's fields.
type SetNewState struct{ State model.State }

type SetRequired struct{ Value bool }

func (AddNewChoice) Type() ActionType     { return ActionAddNewChoice }
func (RemoveChoice) Type() ActionType     { return ActionRemoveChoice }
func (ResetAll) Type() ActionType         { return ActionResetAll }
func (SetDefaultChoice) Type() ActionType { return ActionSetDefaultChoice }
func (SetDisplayOrder) Type() ActionType  { return ActionSetDisplayOrder }
func (SetLabel) Type() ActionType         { return ActionSetLabel }
func (SetMultiselect) Type() ActionType   { return ActionSetMultiselect }
func (SetNewChoice) Type() ActionType     { return ActionSetNewChoice }
func (SetNewState) Type() ActionType      { return ActionSetNewState }
func (SetRequired) Type() ActionType      { return ActionSetRequired }

func (AddNewChoice) isAction()     {}
func (RemoveChoice) isAction()     {}
func (ResetAll) isAction()         {}
func (SetDefaultChoice) isAction() {}
func (SetDisplayOrder) isAction()  {}
func (SetLabel) isAction()         {}
func (SetMultiselect) isAction()   {}
func (SetNewChoice) isAction()     {}
func (SetNewState) isAction()      {}
func (SetRequired) isAction()      {}
