package cli

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"fieldbuilder/internal/api"
	"fieldbuilder/internal/logging"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var failLabel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local builder API to submit against",
		Long: strings.TrimSpace(`
Run a local implementation of the builder API.

POST /api/builder validates the body against the embedded OpenAPI contract,
truncates texts longer than 40 characters and echoes the result.
GET /openapi.json serves the contract and GET /health answers {"ok": true}.
`),
		Example: strings.TrimSpace(`
# Serve on the default endpoint port
fieldbuilder serve --addr :3000

# Reject one label to try the failure path
fieldbuilder serve --fail-label boom
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			log, err := logging.New(logging.Options{Verbose: app.Verbose})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			srv, err := api.NewServer(cmd.Context(), api.ServerConfig{
				Addr:      listenAddr,
				FailLabel: failLabel,
				Logger:    log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + api.BuilderPath
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"failLabel": failLabel,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Builder API running at %s\n", url)

			if err := srv.Serve(cmd.Context(), ln); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&failLabel, "fail-label", "", "Answer 422 for submissions with exactly this label")
	return cmd
}
