// Package ingest builds notes for many entry URLs with a bounded worker pool.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/jpdeck/pkg/note"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// BuildFunc produces the note for one entry URL, usually through the cache.
type BuildFunc func(ctx context.Context, url string) (note.Note, error)

// Ingester builds notes for a list of entry URLs.
type Ingester struct {
	Build BuildFunc
	// Workers is the number of concurrent builds. Values below 1 mean 1.
	Workers int
	// Logger is used for per-entry failures. nil means no logging.
	Logger *slog.Logger
	// OnProgress is called after each finished entry with the number of
	// finished entries and the total.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a sequential Ingester.
func NewIngester(build BuildFunc) *Ingester {
	return &Ingester{Build: build, Workers: 1}
}

// errIncomplete reports that the pool stopped before every entry ran.
var errIncomplete = errors.New("ingest: not every entry was built")

type result struct {
	index int
	err   error
}

// Ingest builds every URL and returns the notes in input order. The first
// failure cancels the remaining work and is returned; no partial result is
// returned alongside an error.
func (ig *Ingester) Ingest(ctx context.Context, urls []string) ([]note.Note, error) {
	total := len(urls)
	notes := make([]note.Note, total)
	if total == 0 {
		return notes, nil
	}
	workers := ig.Workers
	if workers < 1 {
		workers = 1
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(runCtx)

	// Buffered for every job so workers never block once the consumer is gone.
	resultCh := make(chan result, total)
	doneCh := make(chan error, 1)

	go func() {
		defer close(doneCh)
		finished := 0
		for res := range resultCh {
			if res.err != nil {
				if ig.Logger != nil {
					ig.Logger.ErrorContext(ctx, "building note failed", "url", urls[res.index], "err", res.err)
				}
				cancel()
				doneCh <- res.err
				return
			}
			finished++
			if ig.OnProgress != nil {
				ig.OnProgress(finished, total)
			}
		}
		if finished != total {
			doneCh <- fmt.Errorf("%w: %d of %d", errIncomplete, finished, total)
			return
		}
		doneCh <- nil
	}()

	var submitErr error
	for i, u := range urls {
		idx, url := i, u
		job := func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				resultCh <- result{index: idx, err: err}
				return err
			}
			n, err := ig.Build(ctx, url)
			if err == nil {
				notes[idx] = n
			}
			resultCh <- result{index: idx, err: err}
			return err
		}
		if err := wp.SubmitCtx(runCtx, job); err != nil {
			submitErr = err
			break
		}
	}

	// Workers are gone after Close, so nothing sends on resultCh any more.
	wp.Close()
	close(resultCh)
	consumerErr := <-doneCh

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if consumerErr != nil && !errors.Is(consumerErr, context.Canceled) && !errors.Is(consumerErr, errIncomplete) {
		return nil, consumerErr
	}
	if submitErr != nil {
		return nil, fmt.Errorf("submit job: %w", submitErr)
	}
	if consumerErr != nil {
		return nil, consumerErr
	}
	return notes, nil
}
