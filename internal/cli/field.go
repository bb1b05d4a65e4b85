package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fieldbuilder/internal/adapter"
	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved field state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				return writeOut(cmd, app, map[string]any{"data": s.b.State()})
			})
		},
	}
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report validation codes and messages; exits 1 when the field has errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				st := builder.Validate(s.b.State())
				codes := errorCodes(st)
				if err := writeOut(cmd, app, map[string]any{"data": map[string]any{
					"ok":       len(codes) == 0,
					"errors":   codes,
					"warnings": warnCodes(st),
					"messages": builder.Messages(st),
				}}); err != nil {
					return err
				}
				if len(codes) > 0 {
					return writeErr(cmd, fieldErrorsError{codes: codes})
				}
				return nil
			})
		},
	}
}

func newSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one field value",
	}

	type setter struct {
		use   string
		short string
		key   model.FieldKey
		apply func(b *builder.Builder, v string) (model.State, error)
	}
	setters := []setter{
		{"label <text>", "Set the label", model.KeyLabel, func(b *builder.Builder, v string) (model.State, error) {
			return b.SetLabel(v), nil
		}},
		{"default <text>", "Set the default value (\"\" clears it)", model.KeyDefaultChoice, func(b *builder.Builder, v string) (model.State, error) {
			return b.SetDefaultChoice(v), nil
		}},
		{"new-choice <text>", "Set the pending new choice", model.KeyNewChoice, func(b *builder.Builder, v string) (model.State, error) {
			return b.SetNewChoice(v), nil
		}},
		{"display-order <order>", "Set the display order", model.KeyDisplayOrder, func(b *builder.Builder, v string) (model.State, error) {
			order := model.DisplayOrder(strings.TrimSpace(v))
			if !order.Valid() {
				return model.State{}, fmt.Errorf("invalid display order %q (expected one of: %s)", v, displayOrderNames())
			}
			return b.SetDisplayOrder(order), nil
		}},
		{"multiselect <true|false>", "Allow more than one selected value", model.KeyMultiselect, func(b *builder.Builder, v string) (model.State, error) {
			on, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return model.State{}, fmt.Errorf("multiselect: %w", err)
			}
			return b.SetMultiselect(on), nil
		}},
		{"required <true|false>", "Require a value", model.KeyRequired, func(b *builder.Builder, v string) (model.State, error) {
			on, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return model.State{}, fmt.Errorf("required: %w", err)
			}
			return b.SetRequired(on), nil
		}},
	}

	for _, st := range setters {
		st := st
		cmd.AddCommand(&cobra.Command{
			Use:   st.use,
			Short: st.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd, app, func(s *session) error {
					next, err := st.apply(s.b, args[0])
					if err != nil {
						return writeErr(cmd, err)
					}
					return writeOut(cmd, app, fieldResult(next, st.key))
				})
			},
		})
	}
	return cmd
}

func fieldResult(st model.State, key model.FieldKey) map[string]any {
	data := map[string]any{
		"field":      key,
		"validation": st.Fields.Validation(key),
	}
	if m, ok := builder.Messages(st)[key]; ok {
		data["messages"] = m
	}
	return map[string]any{"data": data}
}

func displayOrderNames() string {
	names := []string{}
	for _, o := range model.DisplayOrders() {
		names = append(names, string(o))
	}
	return strings.Join(names, ", ")
}

func newChoicesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choices",
		Short: "List, add and remove choices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List choices (1-based indexes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				return writeOut(cmd, app, map[string]any{"data": s.b.State().Fields.Choices.Value})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add [text]",
		Short: "Add a choice (default: the pending new choice)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				st := s.b.State()
				if len(args) == 1 {
					st = s.b.SetNewChoice(args[0])
				}
				value := st.Fields.NewChoice.Value
				if !builder.CanAddNewChoice(st, false) {
					return writeErr(cmd, addRefusal(st, value))
				}
				next := s.b.AddNewChoice()
				out := fieldResult(next, model.KeyChoices)
				out["data"].(map[string]any)["choices"] = next.Fields.Choices.Value
				return writeOut(cmd, app, out)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <index>",
		Short: "Remove the choice at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				choices := s.b.State().Fields.Choices.Value
				if err != nil || n < 1 || n > len(choices) {
					return writeErr(cmd, errNotFound("choice", args[0]))
				}
				next := s.b.RemoveChoice(n - 1)
				out := fieldResult(next, model.KeyChoices)
				out["data"].(map[string]any)["choices"] = next.Fields.Choices.Value
				return writeOut(cmd, app, out)
			})
		},
	})

	return cmd
}

func addRefusal(st model.State, value string) error {
	if value == "" {
		return errors.New("nothing to add: pass a value or set new-choice first")
	}
	m := builder.Messages(st)[model.KeyNewChoice]
	reason := m.Error
	if reason == "" {
		reason = m.Description
	}
	if reason == "" {
		v := st.Fields.NewChoice.Validation
		reason = string(v.ErrorCode)
		if reason == "" {
			reason = string(v.WarnCode)
		}
	}
	return fmt.Errorf("cannot add %q: %s", value, reason)
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the initial field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				return writeOut(cmd, app, map[string]any{"data": s.b.ResetAll()})
			})
		},
	}
}

func newPayloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "payload",
		Short: "Print the request body a submission would send",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				p, err := adapter.FeToBe(s.b.State())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": p})
			})
		},
	}
}
