package player

import "context"

// Task is the handle of an asynchronous load. It resolves exactly once.
type Task struct {
	origin string
	done   chan struct{}
	err    error
}

func newTask(origin string) *Task {
	return &Task{origin: origin, done: make(chan struct{})}
}

func resolvedTask(origin string, err error) *Task {
	t := newTask(origin)
	t.resolve(err)
	return t
}

func (t *Task) resolve(err error) {
	t.err = err
	close(t.done)
}

// Origin returns the path or URL being loaded.
func (t *Task) Origin() string { return t.origin }

// Done is closed when the load has resolved.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the load's outcome once Done is closed, nil before.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the load resolves or ctx is done. Giving up on the wait
// does not cancel the load.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
