// Package report renders study progress as markdown and PDF.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kirostudy/vocabdrill/internal/review"
)

// BankProgress summarizes learning progress within one bank.
type BankProgress struct {
	BankID    string
	BankName  string
	Total     int
	Unlearned int
	Learning  int
	Known     int
	Due       int
}

// MasteryRate is the share of known words among started ones.
func (p BankProgress) MasteryRate() float64 {
	started := p.Learning + p.Known
	if started == 0 {
		return 0
	}
	return float64(p.Known) / float64(started)
}

// Summary is the full progress report for one day.
type Summary struct {
	Today           review.DailyStats
	WeeklyLearned   int
	WeeklyReviewed  int
	Banks           []BankProgress
	TrackedWordsLen int
}

// BuildSummary aggregates learning records into per-bank progress.
// bankNames maps bank ids to display names; bankSizes maps ids to the
// total index size so unstarted words are counted too.
func BuildSummary(
	records map[string]review.LearningRecord,
	today review.DailyStats,
	todayDate review.Date,
	bankNames map[string]string,
	bankSizes map[string]int,
) Summary {
	learned, reviewed := review.WeeklyTotals(records, todayDate)

	progressByBank := map[string]*BankProgress{}
	for id, name := range bankNames {
		progressByBank[id] = &BankProgress{
			BankID:   id,
			BankName: name,
			Total:    bankSizes[id],
		}
	}

	for key, record := range records {
		bankID := bankIDOf(key, bankNames)
		progress, ok := progressByBank[bankID]
		if !ok {
			progress = &BankProgress{BankID: bankID, BankName: bankID}
			progressByBank[bankID] = progress
		}
		switch record.Status {
		case review.StatusLearning:
			progress.Learning++
		case review.StatusKnown:
			progress.Known++
		default:
			progress.Unlearned++
		}
		if record.Status != review.StatusUnlearned &&
			record.NextReviewDate != nil &&
			!todayDate.Before(record.NextReviewDate.Time) {
			progress.Due++
		}
	}

	banks := make([]BankProgress, 0, len(progressByBank))
	for _, progress := range progressByBank {
		unstarted := progress.Total - progress.Learning - progress.Known - progress.Unlearned
		if unstarted > 0 {
			progress.Unlearned += unstarted
		}
		banks = append(banks, *progress)
	}
	sort.Slice(banks, func(i, j int) bool {
		return banks[i].BankID < banks[j].BankID
	})

	return Summary{
		Today:           today,
		WeeklyLearned:   learned,
		WeeklyReviewed:  reviewed,
		Banks:           banks,
		TrackedWordsLen: len(records),
	}
}

// bankIDOf recovers the bank id from a record key. Keys are formed as
// <bankID>_<wordID> and bank ids may themselves contain underscores, so
// match against the known ids longest first.
func bankIDOf(key string, bankNames map[string]string) string {
	ids := make([]string, 0, len(bankNames))
	for id := range bankNames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return len(ids[i]) > len(ids[j])
	})
	for _, id := range ids {
		if strings.HasPrefix(key, id+"_") {
			return id
		}
	}
	if i := strings.Index(key, "_"); i > 0 {
		return key[:i]
	}
	return key
}

// BuildMarkdown renders a summary as a markdown document.
func BuildMarkdown(summary Summary) string {
	var b strings.Builder

	b.WriteString("# Study progress\n\n")

	b.WriteString("## Today\n\n")
	fmt.Fprintf(&b, "- Date: %s\n", summary.Today.Date)
	fmt.Fprintf(&b, "- New words learned: %d / %d\n", summary.Today.LearnedCount, summary.Today.DailyTarget)
	fmt.Fprintf(&b, "- Words reviewed: %d\n", summary.Today.ReviewedCount)
	b.WriteString("\n")

	b.WriteString("## Last 7 days\n\n")
	fmt.Fprintf(&b, "- New words learned: %d\n", summary.WeeklyLearned)
	fmt.Fprintf(&b, "- Words reviewed: %d\n", summary.WeeklyReviewed)
	b.WriteString("\n")

	b.WriteString("## Banks\n\n")
	if len(summary.Banks) == 0 {
		b.WriteString("No learning records yet.\n")
		return b.String()
	}
	b.WriteString("| Bank | Total | Unlearned | Learning | Known | Due today | Mastery |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, bank := range summary.Banks {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %.0f%% |\n",
			bank.BankName,
			bank.Total,
			bank.Unlearned,
			bank.Learning,
			bank.Known,
			bank.Due,
			bank.MasteryRate()*100,
		)
	}
	return b.String()
}
