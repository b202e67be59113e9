package accumulator

import (
	"runtime"
	"sync"
)

// forEach runs fn for every index in [0, n), fanning out over GOMAXPROCS worker goroutines
// when the batch is at least Parameters.ParallelThreshold. Each index is visited exactly
// once; fn must not share mutable state across indices. Batch hash-to-prime and batch
// witness maintenance are embarrassingly parallel given the read-only group parameters,
// which is the entire concurrency model of this package.
func forEach(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n < Parameters.ParallelThreshold || workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
