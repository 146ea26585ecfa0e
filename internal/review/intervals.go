package review

// Review interval tables in days, indexed by how many times the word had
// been reviewed before the current grading. The index clamps at the last
// element. Modeled on the Ebbinghaus forgetting curve: unknown words get
// a fixed short re-exposure, fuzzy words a slow-growing schedule, known
// words an aggressively-growing one.
var (
	fuzzyIntervals = []int{1, 2, 4, 7, 15}
	knownIntervals = []int{3, 7, 15, 30, 60, 90}
)

// ScheduleNext computes the next review date for a word graded g today,
// where reviewCount is the number of completed reviews before this
// grading.
func ScheduleNext(reviewCount int, g Grade, today Date) Date {
	var days int
	switch g {
	case GradeUnknown:
		days = 1
	case GradeFuzzy:
		days = fuzzyIntervals[clampIndex(reviewCount, len(fuzzyIntervals))]
	case GradeKnown:
		days = knownIntervals[clampIndex(reviewCount, len(knownIntervals))]
	default:
		days = 1
	}
	return today.AddDays(days)
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}
