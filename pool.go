package md2hatena

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent renders; rendering is CPU bound and
	// more workers than cores only adds contention.
	MaxPoolSize = 8
)

// RenderJob is one document to render to an HTML preview.
type RenderJob struct {
	Input  string
	Output string // empty = next to Input with an .html extension
}

// RenderOutcome reports one job of RenderBatch.
type RenderOutcome struct {
	Job     RenderJob
	Written string
	Err     error
}

// RenderBatch renders jobs with up to workers goroutines. Outcomes are in
// job order. Jobs not started when ctx is cancelled report ctx.Err().
func (p *Publisher) RenderBatch(ctx context.Context, jobs []RenderJob, workers int) []RenderOutcome {
	outcomes := make([]RenderOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	workers = ResolvePoolSize(workers)
	if workers > len(jobs) {
		workers = len(jobs)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				if err := ctx.Err(); err != nil {
					outcomes[i] = RenderOutcome{Job: job, Err: err}
					continue
				}
				written, err := p.RenderFile(job.Input, job.Output)
				outcomes[i] = RenderOutcome{Job: job, Written: written, Err: err}
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0)

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
