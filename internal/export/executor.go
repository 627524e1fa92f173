package export

import "context"

// executor is a single-goroutine task queue. The batch runner posts itself
// back onto it when its time budget runs out, which yields control between
// batches without relying on timers.
type executor struct {
	tasks chan func()
	done  chan struct{}
}

func newExecutor() *executor {
	return &executor{
		tasks: make(chan func(), 1),
		done:  make(chan struct{}),
	}
}

// post enqueues a task. It reports false once the executor has finished.
func (e *executor) post(task func()) bool {
	select {
	case <-e.done:
		return false
	case e.tasks <- task:
		return true
	}
}

// run consumes tasks until finish is called or the context ends. It must be
// called from exactly one goroutine; tasks never run concurrently.
func (e *executor) run(ctx context.Context) {
	for {
		select {
		case <-e.done:
			return
		case <-ctx.Done():
			return
		case task := <-e.tasks:
			task()
		}
	}
}

// finish stops the executor after the current task returns.
func (e *executor) finish() {
	select {
	case <-e.done:
	default:
		close(e.done)
	}
}
