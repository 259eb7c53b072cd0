// Package fanout runs independent tasks concurrently and reports every
// outcome instead of failing the batch on the first error.
package fanout

import (
	"context"
	"fmt"
	"sync"
)

// Result holds one task's outcome.
type Result[V any] struct {
	Value V
	Err   error
}

// Map runs fn once per key, each on its own goroutine, and waits for all of
// them. Every key gets a Result; a panic inside one task is captured as that
// task's error and never reaches its siblings.
func Map[K comparable, V any](ctx context.Context, keys []K, fn func(context.Context, K) (V, error)) map[K]Result[V] {
	outcomes := make([]Result[V], len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key K) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Result[V]{Err: fmt.Errorf("task panicked: %v", r)}
				}
			}()
			v, err := fn(ctx, key)
			outcomes[i] = Result[V]{Value: v, Err: err}
		}(i, key)
	}
	wg.Wait()

	results := make(map[K]Result[V], len(keys))
	for i, key := range keys {
		results[key] = outcomes[i]
	}
	return results
}
