package review

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

// FlashcardSession presents one study queue word by word. Grading is
// final and persisted immediately; there is no undo. Answer grades at
// most one word per call, so a caller that debounces duplicate input
// cannot double-grade.
type FlashcardSession struct {
	id        string
	bankID    string
	queue     []wordbank.WordSummary
	position  int
	mode      Mode
	scheduler *Scheduler
}

// NewFlashcardSession creates a session over an already composed queue.
func NewFlashcardSession(bankID string, queue []wordbank.WordSummary, mode Mode, scheduler *Scheduler) *FlashcardSession {
	return &FlashcardSession{
		id:        uuid.NewString(),
		bankID:    bankID,
		queue:     queue,
		mode:      mode,
		scheduler: scheduler,
	}
}

// ID returns the session's identifier, used for log correlation.
func (s *FlashcardSession) ID() string {
	return s.id
}

// BankID returns the bank this session studies.
func (s *FlashcardSession) BankID() string {
	return s.bankID
}

// Mode returns what the queue was composed as: "new" or "review".
func (s *FlashcardSession) Mode() Mode {
	return s.mode
}

// Current returns the word at the session position, or nil when the
// queue is exhausted.
func (s *FlashcardSession) Current() *wordbank.WordSummary {
	if s.position >= len(s.queue) {
		return nil
	}
	return &s.queue[s.position]
}

// Answer grades the current word and advances the position. Answering a
// completed session is a no-op.
func (s *FlashcardSession) Answer(g Grade) error {
	current := s.Current()
	if current == nil {
		slog.Debug("answer on completed session ignored", "session", s.id)
		return nil
	}
	if err := s.scheduler.Grade(s.bankID, current.ID, g); err != nil {
		return fmt.Errorf("scheduler.Grade > %w", err)
	}
	s.position++
	return nil
}

// IsComplete reports whether every word in the queue has been answered.
func (s *FlashcardSession) IsComplete() bool {
	return s.position >= len(s.queue)
}

// Progress returns the number of answered words and the queue length.
func (s *FlashcardSession) Progress() (answered, total int) {
	return s.position, len(s.queue)
}
