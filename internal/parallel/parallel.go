// Package parallel provides the worker pool used by conversion, scoring and extraction.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers int // Number of worker goroutines; <= 0 means runtime.NumCPU().
}

// DefaultConfig returns a config using every available CPU.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Workers normalizes a requested parallelism level.
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Chunks splits [0, n) into at most parts contiguous, non-empty ranges in
// ascending order. Sizes differ by at most one; earlier ranges are larger.
func Chunks(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = max(min(parts, n), 1)

	size, rem := n/parts, n%parts
	out := make([][2]int, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// Map runs f(i) for i in [0, n) on at most cfg.Workers goroutines and returns
// the results indexed by i, independent of completion order.
func Map[T any](n int, f func(i int) T, cfg Config) []T {
	out := make([]T, n)
	For(n, func(i int) {
		out[i] = f(i)
	}, cfg)
	return out
}

// For executes f(i) for i in [0, n), sequentially when a single worker is configured.
func For(n int, f func(i int), cfg Config) {
	workers := min(Workers(cfg.Workers), n)
	if workers <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < n; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			f(i)
		}(i)
	}
	wg.Wait()
}
