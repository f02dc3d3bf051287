// Package pipeline defines the stage abstraction of mjpegw and the values
// passed between stages: source frames, prepared frames, encode results and
// container inspection.
package pipeline

import (
	"context"
)

// Stage is one step of the pipeline.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a function to Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Cancellable returns a stage that fails with ctx.Err() instead of starting s
// once ctx is done.
func Cancellable[In, Out any](s Stage[In, Out]) Stage[In, Out] {
	return StageFunc[In, Out](func(ctx context.Context, input In) (Out, error) {
		if err := ctx.Err(); err != nil {
			var zero Out
			return zero, err
		}
		return s.Execute(ctx, input)
	})
}
