package stream

import (
	"context"
	"sync"
)

// FanIn merges streams into one channel which is closed once every input
// is drained or ctx is done. Values still pending at cancellation are dropped.
func FanIn[T any](ctx context.Context, streams ...<-chan T) <-chan T {
	out := make(chan T, len(streams))

	var wg sync.WaitGroup
	receive := func(c <-chan T) {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-c:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	wg.Add(len(streams))
	for _, s := range streams {
		go receive(s)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
