package match

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome pairs an event with its match result.
type Outcome struct {
	Event  Event
	Result Result
}

// RunBatch matches every event against the shared index with a fixed
// threshold, fanning out across at most workers goroutines. Outcomes come
// back in input order regardless of scheduling. Each match is independent, so
// the only failure modes are an empty index or batch cancellation.
func (m *Matcher) RunBatch(ctx context.Context, events []Event, maxDeltaSeconds int64, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(events))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := m.Match(ev.TimestampMS, maxDeltaSeconds)
			if err != nil {
				return fmt.Errorf("match event %s: %w", ev.ID, err)
			}
			outcomes[i] = Outcome{Event: ev, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// CountMatched reports how many outcomes carry a positive match.
func CountMatched(outcomes []Outcome) int {
	matched := 0
	for _, o := range outcomes {
		if o.Result.Matched {
			matched++
		}
	}
	return matched
}
