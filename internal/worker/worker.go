// Package worker provides a small channel-backed worker pool used by the
// ingestion pipeline to decouple source polling from database writes.
package worker

import (
	"context"
	"sync"
)

// ProcessFunc handles one job. Errors are the processor's to log; the
// pool does not retry.
type ProcessFunc[J any] func(ctx context.Context, job J) error

type Pool[J any] struct {
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup
}

func NewPool[J any](numWorkers int, bufferSize int, processor ProcessFunc[J]) *Pool[J] {
	return &Pool[J]{
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[J]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool[J]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processor(ctx, job)
		}
	}
}

func (p *Pool[J]) Submit(job J) {
	p.jobs <- job
}

// Stop closes the job channel and waits for in-flight work to finish.
func (p *Pool[J]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
