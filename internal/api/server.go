// Package api is a local implementation of the builder endpoint used by
// `fieldbuilder serve` and the tests.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"fieldbuilder/internal/adapter"
	"fieldbuilder/internal/model"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed openapi.yaml
var openapiYAML []byte

const (
	BuilderPath = "/api/builder"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type ServerConfig struct {
	Addr string

	// FailLabel makes POST /api/builder answer 422 for this exact label.
	FailLabel string

	Logger *zap.Logger
}

type Server struct {
	cfg    ServerConfig
	doc    *openapi3.T
	schema *openapi3.Schema
	log    *zap.Logger
}

// LoadContract parses and validates the embedded OpenAPI document.
func LoadContract(ctx context.Context) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("api: load contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("api: validate contract: %w", err)
	}
	return doc, nil
}

func payloadSchema(doc *openapi3.T) (*openapi3.Schema, error) {
	item := doc.Paths.Find(BuilderPath)
	if item == nil || item.Post == nil || item.Post.RequestBody == nil || item.Post.RequestBody.Value == nil {
		return nil, errors.New("api: contract has no POST " + BuilderPath + " body")
	}
	mt := item.Post.RequestBody.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, errors.New("api: contract has no JSON request schema")
	}
	return mt.Schema.Value, nil
}

func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	doc, err := LoadContract(ctx)
	if err != nil {
		return nil, err
	}
	schema, err := payloadSchema(doc)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, doc: doc, schema: schema, log: log}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+BuilderPath, s.handleBuilder)
	mux.HandleFunc("GET /openapi.json", s.handleContract)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestID(mux)
}

// Serve runs the HTTP server on ln until ctx is canceled, then shuts it down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) handleBuilder(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Could not read request body.")
		return
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if err := s.schema.VisitJSON(generic, openapi3.MultiErrors()); err != nil {
		s.log.Info("builder: payload rejected by contract", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, contractMessage(err))
		return
	}

	p, err := adapter.DecodePayload(raw)
	if err != nil {
		var se *adapter.SchemaError
		if errors.As(err, &se) {
			writeMessage(w, http.StatusBadRequest, issueMessages(se))
			return
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if fail := s.cfg.FailLabel; fail != "" && p.Label == fail {
		writeMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("Label %q is not accepted.", p.Label))
		return
	}

	stored := Truncate(p)
	s.log.Info("builder: stored",
		zap.String("label", stored.Label),
		zap.Int("choices", len(stored.Choices)),
	)
	writeJSON(w, http.StatusOK, stored)
}

// Truncate cuts every text of p to the maximum length.
func Truncate(p model.Payload) model.Payload {
	out := p
	out.Choices = make([]string, len(p.Choices))
	for i, c := range p.Choices {
		out.Choices[i] = model.Truncate(c, model.TextValueMaxLength)
	}
	out.Default = model.Truncate(p.Default, model.TextValueMaxLength)
	out.Label = model.Truncate(p.Label, model.TextValueMaxLength)
	return out
}

func issueMessages(se *adapter.SchemaError) string {
	msgs := make([]string, 0, len(se.Issues))
	for _, is := range se.Issues {
		msgs = append(msgs, is.Message)
	}
	return strings.Join(msgs, " ")
}

func contractMessage(err error) string {
	var me openapi3.MultiError
	if errors.As(err, &me) && len(me) > 0 {
		parts := make([]string, 0, len(me))
		for _, e := range me {
			parts = append(parts, schemaReason(e))
		}
		return strings.Join(parts, "; ")
	}
	return schemaReason(err)
}

func schemaReason(err error) string {
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if ptr := se.JSONPointer(); len(ptr) > 0 {
			return strings.Join(ptr, ".") + ": " + se.Reason
		}
		return se.Reason
	}
	return err.Error()
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
