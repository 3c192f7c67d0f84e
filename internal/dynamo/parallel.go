package dynamo

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/turingsim/internal/grid"
)

// StepperFactory builds a fresh stepper for a parameter set. Steppers own
// scratch buffers, so concurrent runs must not share one.
type StepperFactory func(p Params) Stepper

// Job is one independent run inside a batch.
type Job struct {
	Params  Params
	State   *State
	Metrics []Metric
}

// RunBatch executes jobs concurrently, one goroutine per job. Results are
// returned in job order; the first error encountered is returned.
func RunBatch(ctx context.Context, jobs []Job, factory StepperFactory) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := jobs[idx]
			s := New(job.Params, factory(job.Params))
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, job.State)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Ensemble runs the same parameters from numRuns random initial states
// seeded seedStart, seedStart+1, ...
type Ensemble struct {
	params    Params
	factory   StepperFactory
	numRuns   int
	seedStart int64
}

func NewEnsemble(p Params, factory StepperFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: p, factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, metrics func() []Metric) ([]*Result, error) {
	jobs := make([]Job, e.numRuns)
	for i := range jobs {
		p := e.params
		p.Seed = e.seedStart + int64(i)
		jobs[i] = Job{
			Params: p,
			State:  NewState(p.Size, grid.NewRNG(p.Seed)),
		}
		if metrics != nil {
			jobs[i].Metrics = metrics()
		}
	}
	return RunBatch(ctx, jobs, e.factory)
}

// ParallelFor executes fn over [0, n) split into contiguous chunks, using at
// most workers goroutines. workers <= 0 means runtime.NumCPU().
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
