package events

import (
	"context"
	"log/slog"
)

// Watch turns a subscription into a live query: it evaluates query
// immediately, then re-evaluates and re-delivers the full result set
// every time an event arrives. The returned channel closes when ctx is
// done or the subscription is cancelled. Query errors are logged and
// skipped so a transient failure doesn't kill the feed.
func Watch[T any](ctx context.Context, sub *Subscription, query func(context.Context) (T, error)) <-chan T {
	out := make(chan T, 1)

	deliver := func() bool {
		result, err := query(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("live query evaluation failed", "error", err)
			}
			return true
		}
		select {
		case out <- result:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				if !deliver() {
					return
				}
			}
		}
	}()

	return out
}
