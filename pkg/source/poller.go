package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andri/cdtable/pkg/datatable"
)

// MinPollInterval is the shortest interval Poll accepts.
const MinPollInterval = 100 * time.Millisecond

// Update is one poll result. Err is set when the fetch failed.
type Update struct {
	Rows []datatable.Row
	Err  error
	Time time.Time
}

// Poll fetches src immediately and then every interval until ctx is done.
// Results are delivered on the returned channel, which is closed on exit.
// A slow consumer misses updates rather than stalling the loop.
func Poll(ctx context.Context, src Source, interval time.Duration) (<-chan Update, error) {
	if interval < MinPollInterval {
		return nil, fmt.Errorf("poll interval must be at least %v, got %v", MinPollInterval, interval)
	}

	updates := make(chan Update, 1)
	go func() {
		defer close(updates)
		runPoller(ctx, updates, interval, src)
	}()
	return updates, nil
}

func runPoller(ctx context.Context, updates chan<- Update, interval time.Duration, src Source) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	send := func(u Update) {
		select {
		case updates <- u:
		case <-ctx.Done():
		default:
		}
	}

	handleFetch := func() {
		rows, err := src.Fetch(ctx)
		if err != nil {
			// Cancellation during shutdown is not a fetch failure.
			if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return
			}
			send(Update{Err: fmt.Errorf("%s: %w", src.Name(), err), Time: time.Now()})
			return
		}
		send(Update{Rows: rows, Time: time.Now()})
	}

	handleFetch()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			handleFetch()
		}
	}
}
