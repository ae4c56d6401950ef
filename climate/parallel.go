package climate

import (
	"runtime"
	"sync"
)

// defaultWorkers bounds the per-tile stage parallelism to the machine.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// forEachChunk splits [0, n) into contiguous chunks and runs fn on each from
// a worker pool. Per-tile stages have no shared mutable state across tiles,
// so chunking the index space is enough; stages with cross-tile dependencies
// (the advection worklist) must not use this.
func forEachChunk(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n < workers*4 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(start, end)
	}
	wg.Wait()
}
