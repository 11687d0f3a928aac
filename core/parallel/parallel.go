// Package parallel provides chunked data-parallel loops for row-wise work
// such as batch scoring.
package parallel

import (
	"runtime"
	"sync"
)

// Run splits [0, items) into one contiguous chunk per available CPU and
// invokes fn(start, end) for each chunk concurrently. fn must only write
// to positions inside its own range; under that contract the result is
// independent of scheduling.
func Run(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// WithThreshold runs fn sequentially over the whole range when items is at
// or below threshold, and parallel otherwise.
func WithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Run(items, fn)
}
