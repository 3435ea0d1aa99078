package console

import (
	"context"

	"github.com/oneee-playground/crackdash/internal/util/stream"
	"github.com/pkg/errors"
)

type Runner interface {
	Run(ctx context.Context) error
}

// Watch runs every runner until ctx is done or one of them stops. It
// returns the first error that is not a cancellation, after all runners
// have exited.
func Watch(ctx context.Context, runners ...Runner) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errchans := make([]<-chan error, len(runners))
	for idx, r := range runners {
		errchan := make(chan error, 1)
		errchans[idx] = errchan

		go func() {
			defer close(errchan)
			errchan <- r.Run(runCtx)
		}()
	}

	var first error
	// Drained under a context that outlives runCtx so every exit is seen.
	for err := range stream.FanIn(context.Background(), errchans...) {
		cancel()
		if first == nil && err != nil && !errors.Is(err, context.Canceled) {
			first = err
		}
	}

	if first != nil {
		return first
	}
	return ctx.Err()
}
