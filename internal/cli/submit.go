package cli

import (
	"errors"
	"fmt"

	"fieldbuilder/internal/adapter"

	"github.com/spf13/cobra"
)

func newSubmitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Send the field to the builder API and keep the server's version",
		Long: `Send the field to the builder API.

Nothing is sent while any field carries an error code. On success the saved
field is replaced by the server's echo (texts longer than 40 characters come
back truncated). On failure the saved field is left as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				if codes := errorCodes(s.b.State()); len(codes) > 0 {
					return writeErr(cmd, fieldErrorsError{codes: codes})
				}

				next, err := s.submitter(app).Submit(cmd.Context(), s.b)
				if err != nil {
					var se *adapter.SchemaError
					if errors.As(err, &se) {
						return writeErr(cmd, err)
					}
					return writeErr(cmd, submitFailedError{err: err})
				}

				p, err := adapter.FeToBe(next)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("saved field: %w", err))
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"endpoint": app.apiURL(s.cfg),
					"payload":  p,
				}})
			})
		},
	}
}
