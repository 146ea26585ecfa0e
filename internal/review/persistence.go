package review

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kirostudy/vocabdrill/internal/storage"
)

// The learner's state lives in three aggregates behind the KeyValueStore,
// one JSON document each.
const (
	progressKey = "vocab_progress"
	statsKey    = "vocab_today_stats"
	settingsKey = "vocab_settings"
)

// LoadRecords reads the full progress map keyed by RecordKey. Malformed
// persisted JSON is treated as absent and logged, never raised.
func LoadRecords(store storage.KeyValueStore) (map[string]LearningRecord, error) {
	records := map[string]LearningRecord{}
	value, ok, err := store.Get(progressKey)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", progressKey, err)
	}
	if !ok {
		return records, nil
	}
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		slog.Warn("discarding corrupt progress data", "key", progressKey, "error", err)
		return map[string]LearningRecord{}, nil
	}
	return records, nil
}

// SaveRecords persists the full progress map.
func SaveRecords(store storage.KeyValueStore, records map[string]LearningRecord) error {
	contents, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := store.Set(progressKey, string(contents)); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", progressKey, err)
	}
	return nil
}

// LoadStats reads the persisted daily counters without applying the day
// rollover. Returns false when no stats have been stored yet.
func LoadStats(store storage.KeyValueStore) (DailyStats, bool, error) {
	var stats DailyStats
	value, ok, err := store.Get(statsKey)
	if err != nil {
		return stats, false, fmt.Errorf("store.Get(%s) > %w", statsKey, err)
	}
	if !ok {
		return stats, false, nil
	}
	if err := json.Unmarshal([]byte(value), &stats); err != nil {
		slog.Warn("discarding corrupt daily stats", "key", statsKey, "error", err)
		return DailyStats{}, false, nil
	}
	return stats, true, nil
}

// SaveStats persists the daily counters.
func SaveStats(store storage.KeyValueStore, stats DailyStats) error {
	contents, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := store.Set(statsKey, string(contents)); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", statsKey, err)
	}
	return nil
}

// LoadSettings reads the learner preferences, zero-valued when absent or
// corrupt.
func LoadSettings(store storage.KeyValueStore) (Settings, error) {
	var settings Settings
	value, ok, err := store.Get(settingsKey)
	if err != nil {
		return settings, fmt.Errorf("store.Get(%s) > %w", settingsKey, err)
	}
	if !ok {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		slog.Warn("discarding corrupt settings", "key", settingsKey, "error", err)
		return Settings{}, nil
	}
	return settings, nil
}

// SaveSettings persists the learner preferences.
func SaveSettings(store storage.KeyValueStore, settings Settings) error {
	contents, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := store.Set(settingsKey, string(contents)); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", settingsKey, err)
	}
	return nil
}

// Wipe removes all three learner aggregates.
func Wipe(store storage.KeyValueStore) error {
	for _, key := range []string{progressKey, statsKey, settingsKey} {
		if err := store.Remove(key); err != nil {
			return fmt.Errorf("store.Remove(%s) > %w", key, err)
		}
	}
	return nil
}
