package sim

import "sync"

// Job is one independent run in an ensemble. Each job must own its
// stepper, detector and sink.
type Job struct {
	Name string
	Run  func() (*Result, error)
}

type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// RunEnsemble runs jobs on at most workers goroutines and returns their
// outcomes in job order.
func RunEnsemble(jobs []Job, workers int) []Outcome {
	if workers <= 0 {
		workers = 1
	}
	out := make([]Outcome, len(jobs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := job.Run()
			out[idx] = Outcome{Name: job.Name, Result: res, Err: err}
		}(i, job)
	}

	wg.Wait()
	return out
}
