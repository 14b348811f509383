package vkinit

import "log/slog"

type release struct {
	name string
	fn   func()
}

// teardown runs release functions in the reverse of the order they were
// pushed. Each function runs at most once.
type teardown struct {
	stack  []release
	logger *slog.Logger
}

func (t *teardown) push(name string, fn func()) {
	t.stack = append(t.stack, release{name: name, fn: fn})
}

func (t *teardown) len() int {
	return len(t.stack)
}

func (t *teardown) run() {
	for len(t.stack) > 0 {
		r := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		if t.logger != nil {
			t.logger.Debug("releasing", "resource", r.name)
		}
		r.fn()
	}
}
