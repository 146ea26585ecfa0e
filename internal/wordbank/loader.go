package wordbank

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/kirostudy/vocabdrill/internal/perf"
	"github.com/kirostudy/vocabdrill/internal/storage"
)

const fetchAttempts = 2

// Loader loads bank indexes and word details through a tiered lookup:
// an in-memory map first, then the blob cache, then the network.
// Concurrent loads of the same bank share one fetch.
type Loader struct {
	catalog    *Catalog
	fetcher    Fetcher
	cache      storage.BlobCache
	maxAge     time.Duration
	retryDelay time.Duration
	now        func() time.Time

	mu      sync.Mutex
	indexes map[string][]WordSummary
	pending map[string]chan struct{}
	details map[string]*WordDetail
}

type LoaderOption func(*Loader)

// WithLoaderClock replaces the clock used for cache age checks.
func WithLoaderClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

func NewLoader(
	catalog *Catalog,
	fetcher Fetcher,
	cache storage.BlobCache,
	maxAge time.Duration,
	retryDelay time.Duration,
	options ...LoaderOption,
) *Loader {
	loader := &Loader{
		catalog:    catalog,
		fetcher:    fetcher,
		cache:      cache,
		maxAge:     maxAge,
		retryDelay: retryDelay,
		now:        time.Now,
		indexes:    map[string][]WordSummary{},
		pending:    map[string]chan struct{}{},
		details:    map[string]*WordDetail{},
	}
	for _, option := range options {
		option(loader)
	}
	return loader
}

// LoadIndex returns the word summaries of a bank. A fetch failure is
// not fatal: the caller gets an empty list and can degrade to an empty
// study queue, and the next call tries again. Only an unknown bank id
// is an error.
func (l *Loader) LoadIndex(ctx context.Context, bankID string) ([]WordSummary, error) {
	bank, ok := l.catalog.Bank(bankID)
	if !ok {
		return nil, fmt.Errorf("unknown bank %q", bankID)
	}

	for {
		l.mu.Lock()
		if words, ok := l.indexes[bankID]; ok {
			l.mu.Unlock()
			return words, nil
		}
		if done, ok := l.pending[bankID]; ok {
			l.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, fmt.Errorf("ctx.Done > %w", ctx.Err())
			}
			continue
		}
		done := make(chan struct{})
		l.pending[bankID] = done
		l.mu.Unlock()

		words, loaded := l.loadIndexUncached(ctx, bank)

		l.mu.Lock()
		if loaded {
			l.indexes[bankID] = words
		}
		delete(l.pending, bankID)
		l.mu.Unlock()
		close(done)
		return words, nil
	}
}

// loadIndexUncached reads the blob cache and then the network. The
// second return value reports a usable load; a failed load still hands
// the caller an empty list but must not be remembered, so a later call
// can succeed once connectivity returns.
func (l *Loader) loadIndexUncached(ctx context.Context, bank Bank) ([]WordSummary, bool) {
	stopwatch := perf.Start("load index " + bank.ID)
	defer stopwatch.Stop()

	if words, ok := l.indexFromCache(bank.ID); ok {
		return words, true
	}

	payload, err := l.fetchWithRetry(ctx, bank.IndexURL)
	if err != nil {
		slog.Warn("Failed to fetch a bank index",
			slog.String("bank", bank.ID),
			slog.String("error", err.Error()),
		)
		return []WordSummary{}, false
	}
	var words []WordSummary
	if err := json.Unmarshal(payload, &words); err != nil {
		slog.Warn("Failed to decode a bank index",
			slog.String("bank", bank.ID),
			slog.String("error", err.Error()),
		)
		return []WordSummary{}, false
	}

	if err := l.cache.Put(bank.ID, payload); err != nil {
		slog.Warn("Failed to cache a bank index",
			slog.String("bank", bank.ID),
			slog.String("error", err.Error()),
		)
	}
	return words, true
}

// indexFromCache returns the cached index when it exists and is younger
// than the configured max age.
func (l *Loader) indexFromCache(bankID string) ([]WordSummary, bool) {
	entry, err := l.cache.Get(bankID)
	if err != nil {
		slog.Warn("Failed to read a cached bank index",
			slog.String("bank", bankID),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if l.now().Sub(entry.CachedAt) > l.maxAge {
		slog.Debug("Cached bank index is stale", slog.String("bank", bankID))
		return nil, false
	}
	var words []WordSummary
	if err := json.Unmarshal(entry.Payload, &words); err != nil {
		slog.Warn("Failed to decode a cached bank index",
			slog.String("bank", bankID),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return words, true
}

func (l *Loader) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var payload []byte
	if err := retry.Do(
		func() error {
			var err error
			payload, err = l.fetcher.FetchJSON(ctx, url)
			if err != nil {
				return fmt.Errorf("fetcher.FetchJSON > %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(l.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	); err != nil {
		return nil, fmt.Errorf("retry.Do > %w", err)
	}
	return payload, nil
}

// LoadDetail returns the full record for a word, or nil without an
// error when the record cannot be located. Callers fall back to the
// summary in that case. The record is looked up by the offset embedded
// in the word id first and by headword when the offset is wrong.
func (l *Loader) LoadDetail(ctx context.Context, bankID, wordID, word string) (*WordDetail, error) {
	key := bankID + "/" + wordID
	l.mu.Lock()
	if detail, ok := l.details[key]; ok {
		l.mu.Unlock()
		return detail, nil
	}
	l.mu.Unlock()

	bank, ok := l.catalog.Bank(bankID)
	if !ok {
		return nil, fmt.Errorf("unknown bank %q", bankID)
	}

	stopwatch := perf.Start("load detail " + wordID)
	defer stopwatch.Stop()

	fileIndex, offset, err := ParseWordID(wordID)
	if err != nil {
		slog.Warn("Skipped a word with a malformed id",
			slog.String("word_id", wordID),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	if fileIndex < 0 || fileIndex >= len(bank.SourceURLs) {
		slog.Warn("Word id points to a missing source file",
			slog.String("word_id", wordID),
			slog.Int("file_index", fileIndex),
		)
		return nil, nil
	}

	payload, err := l.fetchWithRetry(ctx, bank.SourceURLs[fileIndex])
	if err != nil {
		slog.Warn("Failed to fetch a bank source file",
			slog.String("bank", bankID),
			slog.Int("file_index", fileIndex),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	records, err := decodeSourceRecords(payload)
	if err != nil {
		slog.Warn("Failed to decode a bank source file",
			slog.String("bank", bankID),
			slog.Int("file_index", fileIndex),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	record, ok := locateRecord(records, offset, word)
	if !ok {
		slog.Warn("Word is missing from its source file",
			slog.String("word_id", wordID),
			slog.String("word", word),
			slog.Int("offset", offset),
		)
		return nil, nil
	}

	detail := record.normalize(wordID)
	l.mu.Lock()
	l.details[key] = &detail
	l.mu.Unlock()
	return &detail, nil
}

// locateRecord trusts the offset when the record there carries the
// expected headword and scans the whole file otherwise.
func locateRecord(records []sourceRecord, offset int, word string) (sourceRecord, bool) {
	if offset >= 0 && offset < len(records) {
		record := records[offset]
		if word == "" || record.headword() == word {
			return record, true
		}
	}
	if word == "" {
		return sourceRecord{}, false
	}
	for _, record := range records {
		if record.headword() == word {
			return record, true
		}
	}
	return sourceRecord{}, false
}

// decodeSourceRecords accepts either a JSON array of records or the
// newline-delimited format the older source files use.
func decodeSourceRecords(payload []byte) ([]sourceRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []sourceRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("json.Unmarshal > %w", err)
		}
		return records, nil
	}

	var records []sourceRecord
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record sourceRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("json.Unmarshal > %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err > %w", err)
	}
	return records, nil
}
