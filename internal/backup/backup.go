// Package backup provides export/import of the learner's data as a
// single JSON archive, plus a full wipe.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kirostudy/vocabdrill/internal/review"
	"github.com/kirostudy/vocabdrill/internal/storage"
)

const archiveVersion = 1

// Archive is the on-disk backup format.
type Archive struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Vocabulary ArchiveData `json:"vocabulary"`
}

// ArchiveData bundles the three persisted aggregates.
type ArchiveData struct {
	Progress   map[string]review.LearningRecord `json:"progress"`
	TodayStats *review.DailyStats               `json:"today_stats,omitempty"`
	Settings   *review.Settings                 `json:"settings,omitempty"`
}

// ImportResult tracks counts for one import operation.
type ImportResult struct {
	RecordsImported int
	RecordsSkipped  int
	StatsMerged     bool
	SettingsMerged  bool
}

// Manager orchestrates backups against the key-value store.
type Manager struct {
	store storage.KeyValueStore
	cache storage.BlobCache
	now   func() time.Time
}

type ManagerOption func(*Manager)

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(store storage.KeyValueStore, cache storage.BlobCache, options ...ManagerOption) *Manager {
	manager := &Manager{
		store: store,
		cache: cache,
		now:   time.Now,
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// Export writes the learner's data to path as indented JSON.
func (m *Manager) Export(path string) error {
	archive, err := m.buildArchive()
	if err != nil {
		return fmt.Errorf("m.buildArchive > %w", err)
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}

func (m *Manager) buildArchive() (Archive, error) {
	records, err := review.LoadRecords(m.store)
	if err != nil {
		return Archive{}, fmt.Errorf("review.LoadRecords > %w", err)
	}

	archive := Archive{
		Version:    archiveVersion,
		ExportedAt: m.now(),
		Vocabulary: ArchiveData{Progress: records},
	}

	stats, ok, err := review.LoadStats(m.store)
	if err != nil {
		return Archive{}, fmt.Errorf("review.LoadStats > %w", err)
	}
	if ok {
		archive.Vocabulary.TodayStats = &stats
	}

	settings, err := review.LoadSettings(m.store)
	if err != nil {
		return Archive{}, fmt.Errorf("review.LoadSettings > %w", err)
	}
	if settings != (review.Settings{}) {
		archive.Vocabulary.Settings = &settings
	}
	return archive, nil
}

// Import reads an archive from path and merges it into the current
// data. Existing newer records win over imported older ones.
func (m *Manager) Import(path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if archive.Version > archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", archive.Version)
	}

	var result ImportResult
	if err := m.mergeProgress(archive.Vocabulary.Progress, &result); err != nil {
		return nil, fmt.Errorf("m.mergeProgress > %w", err)
	}
	if err := m.mergeStats(archive.Vocabulary.TodayStats, &result); err != nil {
		return nil, fmt.Errorf("m.mergeStats > %w", err)
	}
	if err := m.mergeSettings(archive.Vocabulary.Settings, &result); err != nil {
		return nil, fmt.Errorf("m.mergeSettings > %w", err)
	}
	return &result, nil
}

// mergeProgress takes an imported record when there is no current one,
// when the current one has never been reviewed, or when the imported
// one was reviewed more recently.
func (m *Manager) mergeProgress(imported map[string]review.LearningRecord, result *ImportResult) error {
	if len(imported) == 0 {
		return nil
	}
	current, err := review.LoadRecords(m.store)
	if err != nil {
		return fmt.Errorf("review.LoadRecords > %w", err)
	}
	for key, record := range imported {
		existing, ok := current[key]
		if ok && existing.LastReviewDate != nil &&
			(record.LastReviewDate == nil || !existing.LastReviewDate.Before(record.LastReviewDate.Time)) {
			result.RecordsSkipped++
			continue
		}
		current[key] = record
		result.RecordsImported++
	}
	if err := review.SaveRecords(m.store, current); err != nil {
		return fmt.Errorf("review.SaveRecords > %w", err)
	}
	return nil
}

// mergeStats merges imported daily counters only when they cover the
// same date as the current ones, taking the maximum of each counter.
func (m *Manager) mergeStats(imported *review.DailyStats, result *ImportResult) error {
	if imported == nil {
		return nil
	}
	current, ok, err := review.LoadStats(m.store)
	if err != nil {
		return fmt.Errorf("review.LoadStats > %w", err)
	}
	if !ok {
		if err := review.SaveStats(m.store, *imported); err != nil {
			return fmt.Errorf("review.SaveStats > %w", err)
		}
		result.StatsMerged = true
		return nil
	}
	if current.Date != imported.Date {
		return nil
	}
	current.LearnedCount = max(current.LearnedCount, imported.LearnedCount)
	current.ReviewedCount = max(current.ReviewedCount, imported.ReviewedCount)
	if imported.DailyTarget > 0 {
		current.DailyTarget = imported.DailyTarget
	}
	if err := review.SaveStats(m.store, current); err != nil {
		return fmt.Errorf("review.SaveStats > %w", err)
	}
	result.StatsMerged = true
	return nil
}

// mergeSettings overwrites each setting with a non-empty imported value.
func (m *Manager) mergeSettings(imported *review.Settings, result *ImportResult) error {
	if imported == nil {
		return nil
	}
	current, err := review.LoadSettings(m.store)
	if err != nil {
		return fmt.Errorf("review.LoadSettings > %w", err)
	}
	changed := false
	if imported.CurrentBank != "" && imported.CurrentBank != current.CurrentBank {
		current.CurrentBank = imported.CurrentBank
		changed = true
	}
	if imported.SelectedMode != "" && imported.SelectedMode != current.SelectedMode {
		current.SelectedMode = imported.SelectedMode
		changed = true
	}
	if !changed {
		return nil
	}
	if err := review.SaveSettings(m.store, current); err != nil {
		return fmt.Errorf("review.SaveSettings > %w", err)
	}
	result.SettingsMerged = true
	return nil
}

// Wipe removes all learning data and the bank cache.
func (m *Manager) Wipe() error {
	if err := review.Wipe(m.store); err != nil {
		return fmt.Errorf("review.Wipe > %w", err)
	}
	if m.cache != nil {
		if err := m.cache.Clear(); err != nil {
			return fmt.Errorf("cache.Clear > %w", err)
		}
	}
	return nil
}
