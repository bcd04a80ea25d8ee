package engine

import (
	"context"
	"time"
)

// timeManager bounds an iterative-deepening search by wall-clock time.
// The hard limit cancels the search context; the soft rule stops starting
// iterations that would likely not finish in time.
type timeManager struct {
	start   time.Time
	maximum time.Duration // zero means no limit
}

func newTimeManager(moveTime time.Duration) *timeManager {
	return &timeManager{start: time.Now(), maximum: moveTime}
}

// withDeadline derives a context cancelled when the move time runs out.
func (tm *timeManager) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if tm.maximum <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, tm.start.Add(tm.maximum))
}

func (tm *timeManager) elapsed() time.Duration {
	return time.Since(tm.start)
}

// canStartIteration reports whether another iteration may start: not once
// more than half the move time is used.
func (tm *timeManager) canStartIteration() bool {
	if tm.maximum <= 0 {
		return true
	}
	return tm.elapsed() < tm.maximum/2
}
