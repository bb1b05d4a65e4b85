package cli

import (
	"context"
	"time"

	"fieldbuilder/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.fieldbuilder/config.json",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the config file and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := app.dataDir(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			lastSaved, err := lastSavedAt(cmd.Context(), app.backend(cfg), dir, cfg.Key())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":   path,
				"config": cfg,
				"effective": map[string]any{
					"apiUrl":           app.apiURL(cfg),
					"backend":          app.backend(cfg),
					"dataDir":          dir,
					"debounceMs":       cfg.Debounce().Milliseconds(),
					"storageKey":       cfg.Key(),
					"requestTimeoutMs": cfg.RequestTimeout().Milliseconds(),
				},
				"lastSavedAt": lastSaved,
			}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one config key (an empty value clears it)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: store.ConfigKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})

	return cmd
}

// lastSavedAt returns when the field was last written, or nil if it never was.
func lastSavedAt(ctx context.Context, backend, dir, key string) (any, error) {
	kv, err := store.Open(ctx, backend, dir)
	if err != nil {
		return nil, err
	}
	defer kv.Close()

	at, ok, err := store.LastSaved(ctx, kv, key)
	if err != nil || !ok {
		return nil, err
	}
	return at.UTC().Format(time.RFC3339Nano), nil
}
