package prompt

import (
	"context"
	"fmt"
	"strings"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"
	"fieldbuilder/internal/submit"
)

const (
	choiceAdd    = "Add a choice"
	choiceRemove = "Remove a choice"
	choiceDone   = "Done with choices"

	defaultNone  = "(no default)"
	defaultOther = "Other value..."

	choiceCancel = "Cancel"
)

// Options tunes Run.
type Options struct {
	// Submit is offered at the end when set and the field has no errors.
	Submit func(ctx context.Context, b *builder.Builder) error
}

type step func(ctx context.Context, b *builder.Builder, d Driver) error

// Run walks the user through every field of b, dispatching each answer as it
// is given so listeners (autosave) see the same actions the editor produces.
func Run(ctx context.Context, b *builder.Builder, d Driver, opts Options) error {
	steps := []step{askLabel, askChoices, askDefault, askDisplayOrder, askFlags}
	for _, s := range steps {
		if err := s(ctx, b, d); err != nil {
			return err
		}
	}

	st := b.State()
	if err := d.Info(ctx, Summary(st)); err != nil {
		return err
	}
	if opts.Submit == nil {
		return nil
	}
	if !builder.CanSubmit(st, false) {
		return d.Info(ctx, "The field has errors and cannot be submitted yet.")
	}
	ok, err := d.Confirm(ctx, ConfirmConfig{Message: "Submit the field now?", Default: true})
	if err != nil || !ok {
		return err
	}
	if err := opts.Submit(ctx, b); err != nil {
		if infoErr := d.Info(ctx, submit.FailureText(err)); infoErr != nil {
			return infoErr
		}
		return err
	}
	return d.Info(ctx, "Field saved.")
}

func askLabel(ctx context.Context, b *builder.Builder, d Driver) error {
	for {
		v, err := d.Input(ctx, InputConfig{
			Message: "Label",
			Default: b.State().Fields.Label.Value,
			Help:    fmt.Sprintf("Shown above the field. Text past %d characters is cut on submit.", model.TextValueMaxLength),
		})
		if err != nil {
			return err
		}
		st := b.SetLabel(v)
		if err := showMessages(ctx, d, st, model.KeyLabel); err != nil {
			return err
		}
		if st.Fields.Label.Validation.ErrorCode == model.ErrorNone {
			return nil
		}
	}
}

func askChoices(ctx context.Context, b *builder.Builder, d Driver) error {
	actions := []string{choiceAdd, choiceRemove, choiceDone}
	for {
		st := b.State()
		if err := d.Info(ctx, describeChoices(st)); err != nil {
			return err
		}
		idx, err := d.Select(ctx, SelectConfig{Message: "Choices", Options: actions})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		switch actions[idx] {
		case choiceAdd:
			if err := addChoice(ctx, b, d); err != nil {
				return err
			}
		case choiceRemove:
			if err := removeChoice(ctx, b, d); err != nil {
				return err
			}
		case choiceDone:
			if err := showMessages(ctx, d, st, model.KeyChoices); err != nil {
				return err
			}
			if st.Fields.Choices.Validation.ErrorCode == model.ErrorNone {
				return nil
			}
		}
	}
}

func addChoice(ctx context.Context, b *builder.Builder, d Driver) error {
	if builder.NewChoiceInputDisabled(b.State(), false) {
		return showMessages(ctx, d, b.State(), model.KeyNewChoice)
	}
	v, err := d.Input(ctx, InputConfig{Message: "New choice"})
	if err != nil {
		return err
	}
	st := b.SetNewChoice(v)
	if builder.CanAddNewChoice(st, false) {
		st = b.AddNewChoice()
		return showMessages(ctx, d, st, model.KeyChoices)
	}
	if err := showMessages(ctx, d, st, model.KeyNewChoice); err != nil {
		return err
	}
	if v != "" {
		b.SetNewChoice("")
	}
	return nil
}

func removeChoice(ctx context.Context, b *builder.Builder, d Driver) error {
	choices := b.State().Fields.Choices.Value
	if len(choices) == 0 {
		return d.Info(ctx, "There are no choices to remove.")
	}
	options := append(append([]string{}, choices...), choiceCancel)
	idx, err := d.Select(ctx, SelectConfig{Message: "Remove which choice?", Options: options, DefaultIndex: len(options) - 1})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(choices) {
		b.RemoveChoice(idx)
	}
	return nil
}

func askDefault(ctx context.Context, b *builder.Builder, d Driver) error {
	for {
		st := b.State()
		choices := st.Fields.Choices.Value
		options := append(append([]string{defaultNone}, choices...), defaultOther)

		current := 0
		if v := st.Fields.DefaultChoice.Value; v != "" {
			current = indexOf(options, v)
			if current < 0 {
				current = len(options) - 1
			}
		}
		idx, err := d.Select(ctx, SelectConfig{Message: "Default value", Options: options, DefaultIndex: current})
		if err != nil {
			return err
		}

		var value string
		switch {
		case idx <= 0:
		case idx == len(options)-1:
			value, err = d.Input(ctx, InputConfig{
				Message: "Default value",
				Default: st.Fields.DefaultChoice.Value,
				Help:    "A value that is not a choice yet is added to the choices on submit.",
			})
			if err != nil {
				return err
			}
		default:
			value = options[idx]
		}

		st = b.SetDefaultChoice(value)
		if err := showMessages(ctx, d, st, model.KeyDefaultChoice); err != nil {
			return err
		}
		if st.Fields.DefaultChoice.Validation.ErrorCode == model.ErrorNone {
			return nil
		}
	}
}

func askDisplayOrder(ctx context.Context, b *builder.Builder, d Driver) error {
	orders := model.DisplayOrders()
	labels := make([]string, len(orders))
	current := 0
	for i, o := range orders {
		labels[i] = o.Label()
		if o == b.State().Fields.DisplayOrder.Value {
			current = i
		}
	}
	idx, err := d.Select(ctx, SelectConfig{Message: "Display order", Options: labels, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(orders) {
		b.SetDisplayOrder(orders[idx])
	}
	return nil
}

func askFlags(ctx context.Context, b *builder.Builder, d Driver) error {
	st := b.State()
	multi, err := d.Confirm(ctx, ConfirmConfig{Message: "Allow multiple selections?", Default: st.Fields.Multiselect.Value})
	if err != nil {
		return err
	}
	b.SetMultiselect(multi)

	required, err := d.Confirm(ctx, ConfirmConfig{Message: "Is a value required?", Default: st.Fields.Required.Value})
	if err != nil {
		return err
	}
	b.SetRequired(required)
	return nil
}

func showMessages(ctx context.Context, d Driver, st model.State, key model.FieldKey) error {
	m, ok := builder.Messages(st)[key]
	if !ok {
		return nil
	}
	for _, line := range messageLines(m) {
		if err := d.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func messageLines(m builder.FieldMessages) []string {
	var out []string
	if m.Error != "" {
		out = append(out, "Error: "+m.Error)
	}
	if m.Warning != "" {
		out = append(out, "Warning: "+m.Warning)
	}
	if m.Description != "" {
		out = append(out, "Note: "+m.Description)
	}
	return out
}

func describeChoices(st model.State) string {
	choices := st.Fields.Choices.Value
	if len(choices) == 0 {
		return "No choices yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Choices (%d/%d):", len(choices), model.ChoicesMaxNumber)
	for i, c := range choices {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, c)
	}
	return sb.String()
}

// Summary renders the field and any outstanding messages as plain text.
func Summary(st model.State) string {
	f := st.Fields
	var sb strings.Builder
	fmt.Fprintf(&sb, "Label:         %s\n", f.Label.Value)
	fmt.Fprintf(&sb, "Choices:       %s\n", strings.Join(f.Choices.Value, ", "))
	fmt.Fprintf(&sb, "Default:       %s\n", f.DefaultChoice.Value)
	fmt.Fprintf(&sb, "Display order: %s\n", f.DisplayOrder.Value.Label())
	fmt.Fprintf(&sb, "Multiselect:   %t\n", f.Multiselect.Value)
	fmt.Fprintf(&sb, "Required:      %t", f.Required.Value)

	msgs := builder.Messages(st)
	for _, key := range model.FieldKeys() {
		m, ok := msgs[key]
		if !ok {
			continue
		}
		for _, line := range messageLines(m) {
			fmt.Fprintf(&sb, "\n%s: %s", key, line)
		}
	}
	return sb.String()
}
