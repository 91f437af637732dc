package socketio

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lyraplayer/lyra-backend/internal/domain/library"
)

// recorder collects debouncer flushes in a thread-safe way.
type recorder struct {
	mu      sync.Mutex
	flushes [][]library.Kind
}

func (r *recorder) record(kinds []library.Kind) {
	sorted := make([]library.Kind, len(kinds))
	copy(sorted, kinds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	r.mu.Lock()
	r.flushes = append(r.flushes, sorted)
	r.mu.Unlock()
}

func (r *recorder) snapshot() [][]library.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]library.Kind, len(r.flushes))
	copy(out, r.flushes)
	return out
}

func TestDebouncerRapidChangesCollapseToOne(t *testing.T) {
	rec := &recorder{}
	d := NewChangeDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	// Fire 10 rapid song changes
	for i := 0; i < 10; i++ {
		d.Trigger(library.KindSong)
	}

	// Wait for debounce window to elapse
	time.Sleep(100 * time.Millisecond)

	flushes := rec.snapshot()
	if len(flushes) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(flushes))
	}
	if len(flushes[0]) != 1 || flushes[0][0] != library.KindSong {
		t.Errorf("expected [songs], got %v", flushes[0])
	}
}

func TestDebouncerMixedKindsWithinWindow(t *testing.T) {
	rec := &recorder{}
	d := NewChangeDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger(library.KindSong)
	d.Trigger(library.KindAlbum)
	d.Trigger(library.KindArtist)
	d.Trigger(library.KindSong)

	time.Sleep(100 * time.Millisecond)

	flushes := rec.snapshot()
	if len(flushes) != 1 {
		t.Fatalf("expected 1 flush for mixed kinds, got %d", len(flushes))
	}
	if len(flushes[0]) != 3 {
		t.Errorf("expected 3 distinct kinds in flush, got %v", flushes[0])
	}
}

func TestDebouncerSeparateWindowsFireIndependently(t *testing.T) {
	rec := &recorder{}
	d := NewChangeDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	// First burst
	d.Trigger(library.KindSong)
	time.Sleep(100 * time.Millisecond) // Wait for first flush

	// Second burst (separate window)
	d.Trigger(library.KindAlbum)
	time.Sleep(100 * time.Millisecond) // Wait for second flush

	flushes := rec.snapshot()
	if len(flushes) != 2 {
		t.Errorf("expected 2 flushes for separate windows, got %d", len(flushes))
	}
}

func TestDebouncerStopPreventsCallbacks(t *testing.T) {
	rec := &recorder{}
	d := NewChangeDebouncer(50*time.Millisecond, rec.record)

	d.Trigger(library.KindSong)
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if flushes := rec.snapshot(); len(flushes) != 0 {
		t.Errorf("expected 0 flushes after stop, got %d", len(flushes))
	}
}

func TestDebouncerTriggerAfterStopIsIgnored(t *testing.T) {
	rec := &recorder{}
	d := NewChangeDebouncer(50*time.Millisecond, rec.record)

	d.Stop()
	d.Trigger(library.KindSong)

	time.Sleep(100 * time.Millisecond)

	if flushes := rec.snapshot(); len(flushes) != 0 {
		t.Errorf("expected 0 flushes after stop+trigger, got %d", len(flushes))
	}
}
