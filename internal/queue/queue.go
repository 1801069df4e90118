package queue

import (
	"context"
	"errors"
)

// ErrShutdown is returned when processing on a queue whose context is done
var ErrShutdown = errors.New("queue has been shutdown")

// Queue is a worker queue with a fixed amount of workers
type Queue[T, R any] struct {
	ctx     context.Context
	workers int
	queue   chan job[T, R]
	handler func(context.Context, T) (R, error)
}

type job[T, R any] struct {
	ctx    context.Context
	data   T
	result chan jobResult[R]
}

type jobResult[R any] struct {
	result R
	err    error
}

// New creates a new Queue with the specified amount of workers
// The queue shuts down when ctx is done
func New[T, R any](ctx context.Context, workers int, handler func(context.Context, T) (R, error)) *Queue[T, R] {
	if workers < 1 {
		workers = 1
	}

	return &Queue[T, R]{
		ctx:     ctx,
		workers: workers,
		queue:   make(chan job[T, R]),
		handler: handler,
	}
}

// Run starts the workers and blocks until the queue is shut down
func (q *Queue[T, R]) Run() {
	for i := 0; i < q.workers; i++ {
		go q.worker()
	}

	<-q.ctx.Done()
}

func (q *Queue[T, R]) worker() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case j := <-q.queue:
			result, err := q.handler(j.ctx, j.data)
			j.result <- jobResult[R]{
				result: result,
				err:    err,
			}
		}
	}
}

// Process adds a job to the queue, waits for it to process, and returns the result
func (q *Queue[T, R]) Process(ctx context.Context, data T) (R, error) {
	var zero R
	if q.ctx.Err() != nil {
		return zero, ErrShutdown
	}

	// Buffered so a worker never blocks on a caller that gave up
	resultChan := make(chan jobResult[R], 1)

	select {
	case q.queue <- job[T, R]{ctx: ctx, data: data, result: resultChan}:
	case <-q.ctx.Done():
		return zero, ErrShutdown
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.result, result.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
