package builder

import (
	"sync"
	"time"

	"fieldbuilder/internal/model"

	"go.uber.org/zap"
)

// Builder owns the single field state of an app instance and is handed by
// reference to every consumer (TUI, prompt flow, CLI commands, submitter).
type Builder struct {
	mu        sync.Mutex
	state     model.State
	now       func() time.Time
	log       *zap.Logger
	listeners []func(model.State)
}

type Option func(*Builder)

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// New returns a Builder seeded with initial.
func New(initial model.State, opts ...Option) *Builder {
	b := &Builder{
		state: initial.Clone(),
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns a copy of the current state.
func (b *Builder) State() model.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Subscribe registers fn to receive every state produced by Dispatch.
// Listeners run synchronously after the state is swapped in.
func (b *Builder) Subscribe(fn func(model.State)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Dispatch runs action through the reducer, stores and returns the new state.
func (b *Builder) Dispatch(action Action) model.State {
	b.mu.Lock()
	next := Reduce(b.state, action, b.now())
	b.state = next
	listeners := append([]func(model.State){}, b.listeners...)
	b.mu.Unlock()

	b.log.Debug("dispatch",
		zap.String("action", string(action.Type())),
		zap.Bool("hasErrors", HasErrors(next)),
	)

	for _, fn := range listeners {
		fn(next.Clone())
	}
	return next.Clone()
}

func (b *Builder) HasErrors() bool { return HasErrors(b.State()) }

func (b *Builder) HasWarns() bool { return HasWarns(b.State()) }

func (b *Builder) AddNewChoice() model.State { return b.Dispatch(AddNewChoice{}) }

func (b *Builder) RemoveChoice(index int) model.State {
	return b.Dispatch(RemoveChoice{Index: index})
}

func (b *Builder) ResetAll() model.State { return b.Dispatch(ResetAll{}) }

func (b *Builder) SetDefaultChoice(v string) model.State {
	return b.Dispatch(SetDefaultChoice{Value: v})
}

func (b *Builder) SetDisplayOrder(v model.DisplayOrder) model.State {
	return b.Dispatch(SetDisplayOrder{Value: v})
}

func (b *Builder) SetLabel(v string) model.State { return b.Dispatch(SetLabel{Value: v}) }

func (b *Builder) SetMultiselect(v bool) model.State {
	return b.Dispatch(SetMultiselect{Value: v})
}

func (b *Builder) SetNewChoice(v string) model.State {
	return b.Dispatch(SetNewChoice{Value: v})
}

func (b *Builder) SetNewState(st model.State) model.State {
	return b.Dispatch(SetNewState{State: st})
}

func (b *Builder) SetRequired(v bool) model.State { return b.Dispatch(SetRequired{Value: v}) }
