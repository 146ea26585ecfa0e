package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirostudy/vocabdrill/internal/testutil"
)

func TestFlashcardSession(t *testing.T) {
	t.Run("answering advances through the queue", func(t *testing.T) {
		scheduler, _ := newTestScheduler(t, "2026-03-01")
		queue := testutil.Words("cet4", 2)
		session := NewFlashcardSession("cet4", queue, ModeNew, scheduler)

		assert.NotEmpty(t, session.ID())
		assert.Equal(t, "cet4", session.BankID())
		assert.Equal(t, ModeNew, session.Mode())

		require.NotNil(t, session.Current())
		assert.Equal(t, queue[0].ID, session.Current().ID)
		require.NoError(t, session.Answer(GradeKnown))

		answered, total := session.Progress()
		assert.Equal(t, 1, answered)
		assert.Equal(t, 2, total)
		assert.False(t, session.IsComplete())

		assert.Equal(t, queue[1].ID, session.Current().ID)
		require.NoError(t, session.Answer(GradeFuzzy))
		assert.True(t, session.IsComplete())
		assert.Nil(t, session.Current())
	})

	t.Run("grades are persisted through the scheduler", func(t *testing.T) {
		scheduler, _ := newTestScheduler(t, "2026-03-01")
		queue := testutil.Words("cet4", 1)
		session := NewFlashcardSession("cet4", queue, ModeNew, scheduler)

		require.NoError(t, session.Answer(GradeKnown))

		record, err := scheduler.Record("cet4", queue[0].ID)
		require.NoError(t, err)
		assert.Equal(t, StatusKnown, record.Status)
	})

	t.Run("answering a completed session is a no-op", func(t *testing.T) {
		scheduler, _ := newTestScheduler(t, "2026-03-01")
		queue := testutil.Words("cet4", 1)
		session := NewFlashcardSession("cet4", queue, ModeNew, scheduler)

		require.NoError(t, session.Answer(GradeUnknown))
		require.NoError(t, session.Answer(GradeKnown))

		record, err := scheduler.Record("cet4", queue[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, record.ReviewCount)
		assert.Equal(t, GradeUnknown, record.LastGrade)
	})

	t.Run("an empty queue is complete immediately", func(t *testing.T) {
		scheduler, _ := newTestScheduler(t, "2026-03-01")
		session := NewFlashcardSession("cet4", nil, ModeNew, scheduler)

		assert.True(t, session.IsComplete())
		assert.Nil(t, session.Current())
		require.NoError(t, session.Answer(GradeKnown))
	})
}

func TestDate(t *testing.T) {
	t.Run("add days crosses month boundaries", func(t *testing.T) {
		date, err := ParseDate("2026-02-27")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-04", date.AddDays(5).String())
	})

	t.Run("unmarshal accepts legacy timestamps", func(t *testing.T) {
		var date Date
		require.NoError(t, date.UnmarshalJSON([]byte(`"2026-03-01T15:04:05Z"`)))
		assert.Equal(t, NewDate(date.Time), date)
	})
}
