package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirostudy/vocabdrill/internal/storage"
)

func newTestStats(t *testing.T, date string, opts ...StatsOption) (*SessionStats, storage.KeyValueStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	opts = append([]StatsOption{WithStatsClock(fixedClock(t, date))}, opts...)
	return NewSessionStats(store, opts...), store
}

func TestSessionStats_GetToday(t *testing.T) {
	t.Run("first read creates today's record with the default target", func(t *testing.T) {
		stats, _ := newTestStats(t, "2026-03-01", WithDefaultTarget(30))

		today, err := stats.GetToday()
		require.NoError(t, err)
		assert.Equal(t, DailyStats{Date: "2026-03-01", DailyTarget: 30}, today)
	})

	t.Run("repeated reads are idempotent", func(t *testing.T) {
		stats, _ := newTestStats(t, "2026-03-01")

		first, err := stats.GetToday()
		require.NoError(t, err)
		second, err := stats.GetToday()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("day rollover resets counters and keeps the target", func(t *testing.T) {
		stats, store := newTestStats(t, "2026-03-01")
		require.NoError(t, stats.SetDailyTarget(35))
		require.NoError(t, stats.recordGrade(true))
		require.NoError(t, stats.recordGrade(false))

		nextDay := NewSessionStats(store, WithStatsClock(fixedClock(t, "2026-03-02")))
		today, err := nextDay.GetToday()
		require.NoError(t, err)
		assert.Equal(t, DailyStats{Date: "2026-03-02", DailyTarget: 35}, today)

		// The rolled-over record is persisted, not just returned.
		persisted, ok, err := LoadStats(store)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, today, persisted)
	})

	t.Run("corrupt persisted stats fall back to a fresh record", func(t *testing.T) {
		stats, store := newTestStats(t, "2026-03-01")
		require.NoError(t, store.Set(statsKey, "{broken"))

		today, err := stats.GetToday()
		require.NoError(t, err)
		assert.Equal(t, DailyStats{Date: "2026-03-01", DailyTarget: DefaultDailyTarget}, today)
	})
}

func TestSessionStats_RecordGrade(t *testing.T) {
	stats, _ := newTestStats(t, "2026-03-01")

	require.NoError(t, stats.recordGrade(true))
	require.NoError(t, stats.recordGrade(true))
	require.NoError(t, stats.recordGrade(false))

	today, err := stats.GetToday()
	require.NoError(t, err)
	assert.Equal(t, 2, today.LearnedCount)
	assert.Equal(t, 1, today.ReviewedCount)
}

func TestWeeklyTotals(t *testing.T) {
	date := func(value string) *Date {
		parsed, err := ParseDate(value)
		require.NoError(t, err)
		return &parsed
	}
	today, err := ParseDate("2026-03-10")
	require.NoError(t, err)

	records := map[string]LearningRecord{
		"cet4_a": {ReviewCount: 1, LastReviewDate: date("2026-03-09")},
		"cet4_b": {ReviewCount: 4, LastReviewDate: date("2026-03-05")},
		"cet4_c": {ReviewCount: 2, LastReviewDate: date("2026-03-10")},
		"cet4_d": {ReviewCount: 1, LastReviewDate: date("2026-03-01")},
		"cet4_e": {ReviewCount: 3},
	}

	learned, reviewed := WeeklyTotals(records, today)
	assert.Equal(t, 1, learned)
	assert.Equal(t, 2, reviewed)
}
