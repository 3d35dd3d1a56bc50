package fs

import (
	"sync"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// debouncer coalesces bursts of Modified events per file name.
// Other event types pass straight through, after flushing any Modified
// still pending for the same name.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	timer *time.Timer
	event core.Event
	fn    func(core.Event)
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*pendingEvent),
	}
}

func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.window <= 0 {
		d.mu.Unlock()
		fn(e)
		return
	}

	if e.Type != core.EventModified {
		var flush *pendingEvent
		if p, ok := d.pending[e.Name]; ok && p.timer.Stop() {
			delete(d.pending, e.Name)
			d.wg.Done()
			flush = p
		}
		d.mu.Unlock()
		if flush != nil {
			flush.fn(flush.event)
		}
		fn(e)
		return
	}

	if p, ok := d.pending[e.Name]; ok && p.timer.Stop() {
		p.event = e
		p.fn = fn
		p.timer.Reset(d.window)
		d.mu.Unlock()
		return
	}

	p := &pendingEvent{event: e, fn: fn}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.window, func() { d.fire(e.Name, p) })
	d.pending[e.Name] = p
	d.mu.Unlock()
}

func (d *debouncer) fire(name string, p *pendingEvent) {
	defer d.wg.Done()

	d.mu.Lock()
	if d.pending[name] == p {
		delete(d.pending, name)
	}
	e, fn := p.event, p.fn
	d.mu.Unlock()

	fn(e)
}

// stopAndWait drops pending events and waits for callbacks already running.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for name, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, name)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
