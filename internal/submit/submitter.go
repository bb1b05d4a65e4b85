package submit

import (
	"context"
	"fmt"

	"fieldbuilder/internal/adapter"
	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"

	"go.uber.org/zap"
)

// Poster sends a payload and returns the server's echo.
type Poster interface {
	Post(ctx context.Context, p model.Payload) (model.Payload, error)
}

// Submitter runs the submit workflow: state to payload, one request, payload back to state.
type Submitter struct {
	poster Poster
	log    *zap.Logger
}

func NewSubmitter(p Poster, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{poster: p, log: log}
}

// Send converts st, posts it and converts the answer back. Schema violations
// on either side are returned as *adapter.SchemaError.
func (s *Submitter) Send(ctx context.Context, st model.State) (model.State, error) {
	payload, err := adapter.FeToBe(st)
	if err != nil {
		return model.State{}, fmt.Errorf("prepare payload: %w", err)
	}
	echoed, err := s.poster.Post(ctx, payload)
	if err != nil {
		return model.State{}, err
	}
	next, err := adapter.BeToFe(echoed, st)
	if err != nil {
		return model.State{}, fmt.Errorf("server response: %w", err)
	}
	return next, nil
}

// Submit sends b's current state and, on success, replaces it with the
// server's version. On failure b is left untouched.
func (s *Submitter) Submit(ctx context.Context, b *builder.Builder) (model.State, error) {
	next, err := s.Send(ctx, b.State())
	if err != nil {
		s.log.Info("submit failed", zap.Error(err))
		return b.State(), err
	}
	s.log.Info("submit succeeded", zap.Int("choices", len(next.Fields.Choices.Value)))
	return b.SetNewState(next), nil
}

// FailureText is the banner shown when a submission fails.
func FailureText(err error) string {
	if err == nil {
		return ""
	}
	return "Submission failed. Please try again. " + err.Error()
}
