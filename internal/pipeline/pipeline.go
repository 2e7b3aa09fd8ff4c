// Package pipeline fans independent work items out to a bounded worker pool.
package pipeline

import (
	"runtime"
	"sync"
)

// Func processes the item at index i.
type Func[T any] func(i int, item T) error

// Run calls fn once for every item using at most workers goroutines and
// returns the non-nil errors in no particular order. workers <= 0 means one
// per CPU.
func Run[T any](items []T, workers int, fn Func[T]) []error {
	if len(items) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(items))

	type job struct {
		i    int
		item T
	}
	jobs := make(chan job)
	errs := make(chan error, len(items))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := fn(j.i, j.item); err != nil {
					errs <- err
				}
			}
		}()
	}

	for i, item := range items {
		jobs <- job{i: i, item: item}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
