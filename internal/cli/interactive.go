package cli

import (
	"context"
	"errors"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/prompt"
	"fieldbuilder/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the field in the full-screen editor (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd.Context(), app, true)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = s.Close(context.WithoutCancel(cmd.Context())) }()

	err = tui.Run(cmd.Context(), tui.Options{
		Builder:   s.b,
		Submitter: s.submitter(app),
		Logger:    s.log,
	})
	return writeErr(cmd, err)
}

func newPromptCmd(app *App) *cobra.Command {
	var offerSubmit bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Edit the field by answering questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = s.Close(context.WithoutCancel(cmd.Context())) }()

			opts := prompt.Options{}
			if offerSubmit {
				submitter := s.submitter(app)
				opts.Submit = func(ctx context.Context, b *builder.Builder) error {
					_, err := submitter.Submit(ctx, b)
					return err
				}
			}

			err = prompt.Run(cmd.Context(), s.b, prompt.NewSurveyDriver(cmd.OutOrStdout()), opts)
			if errors.Is(err, prompt.ErrAborted) {
				// Answers given so far are kept and saved.
				return nil
			}
			return writeErr(cmd, err)
		},
	}

	cmd.Flags().BoolVar(&offerSubmit, "submit", false, "Offer to submit once every question is answered")
	return cmd
}
