package concurrent

import (
	"context"
	"sync"
	"sync/atomic"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool runs jobFunc over queued jobs with a fixed number of goroutines.
// Results arrive in completion order.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: max(numWorkers, 1),
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker is done and closes the results channel. Call Close first.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexed[T any] struct {
	i   int
	val T
}

// Map applies fn to every job on numWorkers goroutines and returns the results in job order.
func Map[T any, G any](numWorkers int, jobs []T, fn func(T) G) []G {
	out := make([]G, len(jobs))
	if len(jobs) == 0 {
		return out
	}

	wp := NewWorkerPool[indexed[T], indexed[G]](numWorkers, len(jobs))
	wp.Start(func(job indexed[T]) indexed[G] {
		return indexed[G]{i: job.i, val: fn(job.val)}
	})
	for i, job := range jobs {
		wp.AddJob(indexed[T]{i: i, val: job})
	}
	wp.Close()
	wp.Wait()

	for res := range wp.CollectResults() {
		out[res.i] = res.val
	}
	return out
}

// MapCtx is Map for jobs that can fail. The first error cancels the ctx handed to the
// running jobs and the jobs not started yet are skipped. It returns that first error, or
// the error of ctx when jobs were skipped because ctx was done.
func MapCtx[T any, G any](ctx context.Context, numWorkers int, jobs []T,
	fn func(ctx context.Context, job T) (G, error)) ([]G, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
		skipped  atomic.Bool
	)
	out := Map(numWorkers, jobs, func(job T) G {
		var zero G
		if ctx.Err() != nil {
			skipped.Store(true)
			return zero
		}
		res, err := fn(ctx, job)
		if err != nil {
			once.Do(func() {
				firstErr = err
				cancel()
			})
			return zero
		}
		return res
	})

	if firstErr != nil {
		return nil, firstErr
	}
	if skipped.Load() {
		return nil, context.Cause(ctx)
	}
	return out, nil
}
