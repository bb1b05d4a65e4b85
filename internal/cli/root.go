package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/format"
	"fieldbuilder/internal/logging"
	"fieldbuilder/internal/store"
	"fieldbuilder/internal/submit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	Backend    string
	APIURL     string
	Format     string
	PrettyJSON bool
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "fieldbuilder",
		Short:         "Configure a multi-select field and submit it to the builder API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Edit the field interactively
  fieldbuilder

  # Guided questions instead of the full-screen editor
  fieldbuilder prompt --submit

  # Scriptable edits
  fieldbuilder set label "Sales region"
  fieldbuilder choices add "Asia"
  fieldbuilder submit

  # Local endpoint to submit against
  fieldbuilder serve --addr :3000
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("FIELDBUILDER_DIR", ""), "Directory holding the saved field (default: config dataDir or ~/.fieldbuilder)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("FIELDBUILDER_BACKEND", ""), "Storage backend ("+strings.Join(store.Backends(), "|")+")")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("FIELDBUILDER_API_URL", ""), "Builder endpoint (default: config apiUrl or "+store.DefaultAPIURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FIELDBUILDER_FORMAT", format.JSON), "Output format ("+strings.Join(format.Formats(), "|")+")")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newPromptCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newChoicesCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newPayloadCmd(app))
	cmd.AddCommand(newSubmitCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// session is the state every field command works on: the loaded field, the
// store it came from and the saver that writes it back.
type session struct {
	cfg   *store.Config
	dir   string
	log   *zap.Logger
	kv    store.KV
	b     *builder.Builder
	saver *store.DebouncedSaver
}

// openSession loads the saved field. Interactive sessions log to a file in the
// data dir so log lines do not draw over the terminal UI.
func openSession(ctx context.Context, app *App, interactive bool) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := app.dataDir(cfg)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Verbose: app.Verbose}
	if interactive {
		logOpts.File = filepath.Join(dir, "fieldbuilder.log")
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(ctx, app.backend(cfg), dir)
	if err != nil {
		return nil, err
	}

	st := store.LoadState(ctx, kv, cfg.Key(), log)
	b := builder.New(st, builder.WithLogger(log))
	saver := store.NewDebouncedSaver(store.DebouncedSaverOpts{
		KV:       kv,
		Key:      cfg.Key(),
		Debounce: cfg.Debounce(),
		Logger:   log,
	})
	b.Subscribe(saver.Notify)

	return &session{cfg: cfg, dir: dir, log: log, kv: kv, b: b, saver: saver}, nil
}

// Close writes any pending change and releases the store.
func (s *session) Close(ctx context.Context) error {
	s.saver.Close(ctx)
	_ = s.log.Sync()
	return s.kv.Close()
}

func (s *session) submitter(app *App) *submit.Submitter {
	client := submit.NewClient(app.apiURL(s.cfg),
		submit.WithTimeout(s.cfg.RequestTimeout()),
		submit.WithClientLogger(s.log),
	)
	return submit.NewSubmitter(client, s.log)
}

// withSession opens a session, runs fn and always closes it, flushing edits.
func withSession(cmd *cobra.Command, app *App, fn func(s *session) error) error {
	s, err := openSession(cmd.Context(), app, false)
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := fn(s)
	if err := s.Close(context.WithoutCancel(cmd.Context())); err != nil && runErr == nil {
		return writeErr(cmd, err)
	}
	return runErr
}

// Precedence for every setting: flag > env > config file > built-in default.

func (app *App) dataDir(cfg *store.Config) (string, error) {
	if v := strings.TrimSpace(app.Dir); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(cfg.DataDir); v != "" {
		return v, nil
	}
	return store.ConfigDir()
}

func (app *App) backend(cfg *store.Config) string {
	if v := strings.TrimSpace(app.Backend); v != "" {
		return v
	}
	return cfg.EffectiveBackend()
}

func (app *App) apiURL(cfg *store.Config) string {
	if v := strings.TrimSpace(app.APIURL); v != "" {
		return v
	}
	return cfg.EffectiveAPIURL()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}
