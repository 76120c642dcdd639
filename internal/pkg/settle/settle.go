// Package settle runs a batch of independent fetches and waits for all of them,
// keeping each outcome instead of stopping at the first failure.
package settle

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds the number of fetches in flight per batch.
const DefaultLimit = 8

// Result is the outcome of one fetch. Err is nil when Value is usable.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// All calls fn for every item with at most limit calls in flight and returns
// the results in input order. A failed item never cancels the others; the
// only shared cancellation is ctx itself.
func All[In, Out any](ctx context.Context, items []In, limit int, fn func(context.Context, In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := fn(ctx, item)
			results[i] = Result[Out]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed counts the results that carry an error.
func Failed[T any](results []Result[T]) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
