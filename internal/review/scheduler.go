package review

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kirostudy/vocabdrill/internal/storage"
	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

// Scheduler owns the LearningRecord aggregate and the review policy:
// grading, due checks and composition of the day's study queue.
//
// All record mutation is a read-modify-write of the whole progress map
// guarded by a mutex, so concurrent grading cannot interleave between
// the read and the write.
type Scheduler struct {
	store storage.KeyValueStore
	stats *SessionStats
	now   func() time.Time

	mu sync.Mutex
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a Scheduler persisting through store and counting
// gradings into stats.
func NewScheduler(store storage.KeyValueStore, stats *SessionStats, opts ...SchedulerOption) *Scheduler {
	scheduler := &Scheduler{
		store: store,
		stats: stats,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(scheduler)
	}
	return scheduler
}

// Record returns the learning record for a word, or a default unlearned
// record when the word has never been graded.
func (s *Scheduler) Record(bankID, wordID string) (LearningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := LoadRecords(s.store)
	if err != nil {
		return LearningRecord{}, fmt.Errorf("LoadRecords > %w", err)
	}
	record, ok := records[RecordKey(bankID, wordID)]
	if !ok {
		return LearningRecord{Status: StatusUnlearned}, nil
	}
	return record, nil
}

// AllRecords returns the full progress map.
func (s *Scheduler) AllRecords() (map[string]LearningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadRecords(s.store)
}

// Grade records the learner's recall quality g for one word. The next
// review date is chosen from the review count before this grading; the
// record's status, counters and dates are updated and persisted, then
// the daily counters are incremented (learned for a first exposure,
// reviewed otherwise).
func (s *Scheduler) Grade(bankID, wordID string, g Grade) error {
	if !g.IsValid() {
		return fmt.Errorf("invalid grade %q", g)
	}

	s.mu.Lock()
	records, err := LoadRecords(s.store)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("LoadRecords > %w", err)
	}

	key := RecordKey(bankID, wordID)
	record, ok := records[key]
	if !ok {
		record = LearningRecord{Status: StatusUnlearned}
	}
	firstExposure := record.Status == StatusUnlearned

	today := NewDate(s.now())
	next := ScheduleNext(record.ReviewCount, g, today)

	status := StatusLearning
	if g == GradeKnown {
		status = StatusKnown
	}

	records[key] = LearningRecord{
		Status:         status,
		ReviewCount:    record.ReviewCount + 1,
		LastReviewDate: &today,
		NextReviewDate: &next,
		LastGrade:      g,
	}
	if err := SaveRecords(s.store, records); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("SaveRecords > %w", err)
	}
	s.mu.Unlock()

	if err := s.stats.recordGrade(firstExposure); err != nil {
		return fmt.Errorf("stats.recordGrade > %w", err)
	}
	return nil
}

// IsDue reports whether a previously graded word's next review date has
// arrived or passed. Never-graded words are not due; they are new.
func (s *Scheduler) IsDue(bankID, wordID string) (bool, error) {
	record, err := s.Record(bankID, wordID)
	if err != nil {
		return false, fmt.Errorf("s.Record > %w", err)
	}
	return s.isDue(record), nil
}

func (s *Scheduler) isDue(record LearningRecord) bool {
	if record.Status == StatusUnlearned || record.NextReviewDate == nil {
		return false
	}
	today := NewDate(s.now())
	return !today.Before(record.NextReviewDate.Time)
}

// BuildTodayQueue composes the day's study queue from a bank's word
// list. In review mode the due words come first, topped up with new
// words until the daily target; when nothing is due the queue falls
// back to new words only. The returned mode labels what was actually
// composed. The queue never exceeds target and the input slice is left
// untouched.
func (s *Scheduler) BuildTodayQueue(bankID string, allWords []wordbank.WordSummary, mode Mode, target int) ([]wordbank.WordSummary, Mode, error) {
	s.mu.Lock()
	records, err := LoadRecords(s.store)
	if err != nil {
		s.mu.Unlock()
		return nil, mode, fmt.Errorf("LoadRecords > %w", err)
	}
	s.mu.Unlock()

	var dueWords, newWords []wordbank.WordSummary
	for _, word := range allWords {
		record, ok := records[RecordKey(bankID, word.ID)]
		if !ok || record.Status == StatusUnlearned {
			newWords = append(newWords, word)
			continue
		}
		if s.isDue(record) {
			dueWords = append(dueWords, word)
		}
	}

	if mode == ModeReview && len(dueWords) > 0 {
		queue := shuffled(dueWords)
		if len(queue) > target {
			queue = queue[:target]
		} else if remaining := target - len(queue); remaining > 0 {
			extra := shuffled(newWords)
			if len(extra) > remaining {
				extra = extra[:remaining]
			}
			queue = append(queue, extra...)
		}
		return queue, ModeReview, nil
	}

	queue := shuffled(newWords)
	if len(queue) > target {
		queue = queue[:target]
	}
	return queue, ModeNew, nil
}

// shuffled returns a uniformly shuffled copy (Fisher-Yates).
func shuffled(words []wordbank.WordSummary) []wordbank.WordSummary {
	out := make([]wordbank.WordSummary, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
