package review

import (
	"fmt"
	"sync"
	"time"

	"github.com/kirostudy/vocabdrill/internal/storage"
)

// DefaultDailyTarget is used when no target has ever been persisted.
const DefaultDailyTarget = 20

// SessionStats owns the DailyStats aggregate: daily learned/reviewed
// counters keyed by calendar date, rolled over at day boundaries.
type SessionStats struct {
	store         storage.KeyValueStore
	defaultTarget int
	now           func() time.Time

	mu sync.Mutex
}

// StatsOption configures a SessionStats.
type StatsOption func(*SessionStats)

// WithStatsClock overrides the clock, for tests.
func WithStatsClock(now func() time.Time) StatsOption {
	return func(s *SessionStats) {
		s.now = now
	}
}

// WithDefaultTarget sets the daily target used before one is persisted.
func WithDefaultTarget(target int) StatsOption {
	return func(s *SessionStats) {
		s.defaultTarget = target
	}
}

// NewSessionStats creates a SessionStats backed by store.
func NewSessionStats(store storage.KeyValueStore, opts ...StatsOption) *SessionStats {
	stats := &SessionStats{
		store:         store,
		defaultTarget: DefaultDailyTarget,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(stats)
	}
	return stats
}

// GetToday returns the live daily counters. When the stored date is not
// today's date the counters are reset to zero, the daily target is
// preserved, and the fresh record is persisted. This side-effecting read
// is the only place day rollover happens.
func (s *SessionStats) GetToday() (DailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getTodayLocked()
}

func (s *SessionStats) getTodayLocked() (DailyStats, error) {
	today := NewDate(s.now()).String()

	stats, ok, err := LoadStats(s.store)
	if err != nil {
		return DailyStats{}, fmt.Errorf("LoadStats > %w", err)
	}
	if ok && stats.Date == today {
		return stats, nil
	}

	target := s.defaultTarget
	if ok && stats.DailyTarget > 0 {
		target = stats.DailyTarget
	}
	fresh := DailyStats{
		Date:        today,
		DailyTarget: target,
	}
	if err := SaveStats(s.store, fresh); err != nil {
		return DailyStats{}, fmt.Errorf("SaveStats > %w", err)
	}
	return fresh, nil
}

// SetDailyTarget persists a new daily target, keeping today's counters.
func (s *SessionStats) SetDailyTarget(target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.getTodayLocked()
	if err != nil {
		return fmt.Errorf("getTodayLocked > %w", err)
	}
	stats.DailyTarget = target
	if err := SaveStats(s.store, stats); err != nil {
		return fmt.Errorf("SaveStats > %w", err)
	}
	return nil
}

// recordGrade increments today's counters after a grading: learnedCount
// for a word graded for the first time, reviewedCount otherwise.
func (s *SessionStats) recordGrade(firstExposure bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.getTodayLocked()
	if err != nil {
		return fmt.Errorf("getTodayLocked > %w", err)
	}
	if firstExposure {
		stats.LearnedCount++
	} else {
		stats.ReviewedCount++
	}
	if err := SaveStats(s.store, stats); err != nil {
		return fmt.Errorf("SaveStats > %w", err)
	}
	return nil
}

// WeeklyTotals buckets every record reviewed within the trailing seven
// calendar days: a record with ReviewCount == 1 counts as newly learned,
// anything else as reviewed.
//
// The ReviewCount == 1 heuristic reconstructs "was this the first time"
// from the record instead of an event log. It misclassifies a record
// that is wiped and relearned within the week; that approximation is
// inherited and kept.
func WeeklyTotals(records map[string]LearningRecord, today Date) (learned, reviewed int) {
	cutoff := today.AddDays(-7)
	for _, record := range records {
		if record.LastReviewDate == nil || record.LastReviewDate.Before(cutoff.Time) {
			continue
		}
		if record.ReviewCount == 1 {
			learned++
		} else {
			reviewed++
		}
	}
	return learned, reviewed
}
