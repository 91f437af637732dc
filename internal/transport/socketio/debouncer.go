package socketio

import (
	"sync"
	"time"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// ChangeDebouncer collapses rapid store change notifications into batched
// broadcasts. Many changes within the debounce window result in a single
// broadcast carrying every affected entity kind.
type ChangeDebouncer struct {
	window   time.Duration
	callback func(kinds []library.Kind)

	mu      sync.Mutex
	pending map[library.Kind]bool
	timer   *time.Timer
	stopped bool
}

// NewChangeDebouncer creates a debouncer with the given window duration.
// callback receives the deduplicated set of kinds that changed within the
// window.
func NewChangeDebouncer(window time.Duration, callback func(kinds []library.Kind)) *ChangeDebouncer {
	return &ChangeDebouncer{
		window:   window,
		callback: callback,
		pending:  make(map[library.Kind]bool),
	}
}

// Trigger records that entities of the given kind have changed. The actual
// broadcast is deferred until the debounce window elapses without further
// triggers.
func (d *ChangeDebouncer) Trigger(kind library.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[kind] = true

	// Reset the timer
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush fires the callback with any pending kinds and resets them.
func (d *ChangeDebouncer) flush() {
	d.mu.Lock()
	kinds := make([]library.Kind, 0, len(d.pending))
	for k := range d.pending {
		kinds = append(kinds, k)
	}
	d.pending = make(map[library.Kind]bool)
	d.mu.Unlock()

	if len(kinds) > 0 && d.callback != nil {
		d.callback(kinds)
	}
}

// Stop prevents any further callbacks from firing.
func (d *ChangeDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[library.Kind]bool)
}
