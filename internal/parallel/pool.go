// Package parallel provides a bounded worker pool used by the
// root-splitting parallel search variant. Search branches are
// independent by construction (each owns a deep-copied assignment),
// so the pool's only job is to cap concurrency and drain cleanly once
// a branch finds a solution.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when submitting a task to a pool that
// has already been shut down.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// Pool runs submitted tasks on a fixed number of goroutines. Submit
// applies backpressure: it blocks until a worker can take the task,
// the context ends, or the pool shuts down.
type Pool struct {
	tasks    chan func()
	shutdown chan struct{}
	workers  sync.WaitGroup
	once     sync.Once
}

// NewPool creates a pool with the given number of workers. A count of
// zero or less defaults to the number of CPUs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks:    make(chan func(), workers),
		shutdown: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.workers.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.workers.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
		case <-p.shutdown:
			// Drain anything already queued before exiting, so a
			// submitted task is always eventually executed.
			for {
				select {
				case task := <-p.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Submit hands a task to the pool. It blocks while all workers are
// busy, and gives up when the context is done or the pool has shut
// down. A task accepted by Submit is guaranteed to run.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdown:
		return ErrPoolShutdown
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops the workers after the queued tasks finish. Safe to
// call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdown)
		p.workers.Wait()
	})
}
