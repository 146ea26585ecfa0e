// Package perf provides a small stopwatch for timing slow operations.
package perf

import (
	"log/slog"
	"time"
)

// slowThreshold is the duration past which an operation is logged at
// warning level instead of debug.
const slowThreshold = 3 * time.Second

// Stopwatch measures one named operation.
type Stopwatch struct {
	name    string
	started time.Time
	now     func() time.Time
}

// Start begins timing the named operation.
func Start(name string) *Stopwatch {
	return start(name, time.Now)
}

func start(name string, now func() time.Time) *Stopwatch {
	return &Stopwatch{
		name:    name,
		started: now(),
		now:     now,
	}
}

// Stop logs the elapsed time and returns it.
func (s *Stopwatch) Stop() time.Duration {
	elapsed := s.now().Sub(s.started)
	if elapsed > slowThreshold {
		slog.Warn("Slow operation", slog.String("name", s.name), slog.Duration("elapsed", elapsed))
	} else {
		slog.Debug("Operation finished", slog.String("name", s.name), slog.Duration("elapsed", elapsed))
	}
	return elapsed
}
