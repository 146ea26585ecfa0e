package review

// Status is the coarse learning state of one word for one learner.
type Status string

const (
	// StatusUnlearned marks a word that has never been graded.
	StatusUnlearned Status = "unlearned"
	// StatusLearning marks a word still being acquired. It covers both
	// first exposures and words that slipped back after being known;
	// LastGrade keeps the fine-grained history.
	StatusLearning Status = "learning"
	// StatusKnown marks a word whose last grade was Known.
	StatusKnown Status = "known"
)

// Grade is the learner's self-assessed recall quality for one word.
type Grade string

const (
	GradeUnknown Grade = "unknown"
	GradeFuzzy   Grade = "fuzzy"
	GradeKnown   Grade = "known"
)

// IsValid reports whether g is one of the three grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeUnknown, GradeFuzzy, GradeKnown:
		return true
	}
	return false
}

// LearningRecord is the persisted per-word learning state. One record
// exists for every word the learner has ever graded.
//
// ReviewCount equals the number of times the word has been graded.
// NextReviewDate is always set when Status != StatusUnlearned.
type LearningRecord struct {
	Status         Status `json:"status"`
	ReviewCount    int    `json:"review_count"`
	LastReviewDate *Date  `json:"last_review_date"`
	NextReviewDate *Date  `json:"next_review_date"`
	LastGrade      Grade  `json:"last_grade,omitempty"`
}

// Mode selects how the day's study queue is composed.
type Mode string

const (
	ModeNew    Mode = "new"
	ModeReview Mode = "review"
)

// DailyStats are the counters for one calendar day. Exactly one live
// record exists; it is rolled over when the stored date differs from
// today's date on read.
type DailyStats struct {
	Date          string `json:"date"`
	LearnedCount  int    `json:"learned_count"`
	ReviewedCount int    `json:"reviewed_count"`
	DailyTarget   int    `json:"daily_target"`
}

// Settings are the learner's persisted preferences.
type Settings struct {
	CurrentBank  string `json:"current_bank,omitempty"`
	SelectedMode Mode   `json:"selected_mode,omitempty"`
}

// RecordKey builds the progress-map key for a word in a bank.
func RecordKey(bankID, wordID string) string {
	return bankID + "_" + wordID
}
