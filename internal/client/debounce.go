package client

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid edits per key: each Schedule cancels the pending
// write for that key and arms a new one after the delay, so only the last
// edit is sent.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingWrite
	stopped bool
}

type pendingWrite struct {
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates a debouncer with the given delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingWrite),
	}
}

// Schedule arms fn for key, replacing any write still pending for key
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingWrite{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, p) })
	d.pending[key] = p
}

// fire runs p unless it was replaced, flushed or dropped meanwhile
func (d *Debouncer) fire(key string, p *pendingWrite) {
	d.mu.Lock()
	if d.pending[key] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	p.fn()
}

// Pending returns the number of writes waiting to run
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs every pending write now, in the caller's goroutine
func (d *Debouncer) Flush() {
	d.mu.Lock()
	writes := make([]*pendingWrite, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		writes = append(writes, p)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, p := range writes {
		p.fn()
	}
}

// Stop drops pending writes without running them and ignores later schedules
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
