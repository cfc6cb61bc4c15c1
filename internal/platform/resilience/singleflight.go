package resilience

import (
	"fmt"
	"sync"
)

// SingleFlight collapses concurrent loads of the same key into one call.
// The zero value is ready to use.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*flightCall
}

type flightCall struct {
	done   chan struct{}
	val    any
	err    error
	shared int
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result was produced by another caller. A panic in fn is returned to
// every waiter as an error.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall)
	}
	if c, ok := g.calls[key]; ok {
		c.shared++
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			c.val, c.err = nil, fmt.Errorf("singleflight %q panicked: %v", key, rec)
			val, err = c.val, c.err
		}
		g.mu.Lock()
		delete(g.calls, key)
		shared = c.shared > 0
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
	return c.val, c.err, false
}

// Forget drops an in-flight key so the next Do starts a fresh call.
func (g *SingleFlight) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
