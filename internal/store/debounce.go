package store

import (
	"context"
	"sync"
	"time"

	"fieldbuilder/internal/model"

	"go.uber.org/zap"
)

// DebouncedSaver persists the latest state once changes have stopped for the
// configured period. Each Notify resets the timer.
type DebouncedSaver struct {
	kv       KV
	key      string
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	closed  bool
	latest  model.State

	// saveMu orders writes; the snapshot is taken while holding it.
	saveMu sync.Mutex
}

type DebouncedSaverOpts struct {
	KV       KV
	Key      string
	Debounce time.Duration
	Logger   *zap.Logger
}

func NewDebouncedSaver(opts DebouncedSaverOpts) *DebouncedSaver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = model.DebouncePeriod
	}
	key := opts.Key
	if key == "" {
		key = model.StorageKey
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DebouncedSaver{
		kv:       opts.KV,
		key:      key,
		debounce: debounce,
		log:      log,
	}
}

// Notify records st as the value to write and restarts the quiet period.
func (d *DebouncedSaver) Notify(st model.State) {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = true
	d.latest = st.Clone()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		return
	}
	d.timer.Reset(d.debounce)
}

func (d *DebouncedSaver) onTimer() {
	d.mu.Lock()
	if d.running {
		// A write is in flight; try again after another period.
		if d.timer != nil && !d.closed {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.write(context.Background())

	d.mu.Lock()
	d.running = false
	if d.pending && d.timer != nil && !d.closed {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}

func (d *DebouncedSaver) write(ctx context.Context) {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	st := d.latest
	d.pending = false
	d.mu.Unlock()

	SaveState(ctx, st, d.kv, d.key, d.log)
	d.log.Debug("state saved", zap.String("key", d.key))
}

// Flush writes any pending state now.
func (d *DebouncedSaver) Flush(ctx context.Context) {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.write(ctx)
}

// Close stops the timer and flushes. Later Notify calls are ignored.
func (d *DebouncedSaver) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush(ctx)
}
