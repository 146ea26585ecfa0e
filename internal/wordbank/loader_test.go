package wordbank

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_wordbank "github.com/kirostudy/vocabdrill/internal/mocks/wordbank"
	"github.com/kirostudy/vocabdrill/internal/storage"
)

const (
	testIndexURL  = "https://example.com/cet4/index.json"
	testSourceURL = "https://example.com/cet4/words_0.json"
)

func testCatalog() *Catalog {
	return &Catalog{Banks: []Bank{
		{
			ID:         "cet4",
			Name:       "CET-4",
			IndexURL:   testIndexURL,
			SourceURLs: []string{testSourceURL},
		},
	}}
}

func newTestLoader(t *testing.T, fetcher Fetcher, options ...LoaderOption) (*Loader, storage.BlobCache) {
	t.Helper()
	cache, err := storage.NewFileBlobCache(t.TempDir())
	require.NoError(t, err)
	loader := NewLoader(testCatalog(), fetcher, cache, 7*24*time.Hour, time.Millisecond, options...)
	return loader, cache
}

func indexPayload(t *testing.T, words ...WordSummary) []byte {
	t.Helper()
	payload, err := json.Marshal(words)
	require.NoError(t, err)
	return payload
}

func TestLoader_LoadIndex(t *testing.T) {
	words := []WordSummary{
		{ID: "cet4_f0_i0", Word: "abandon", Meaning: "v. 放弃"},
		{ID: "cet4_f0_i1", Word: "ability", Meaning: "n. 能力"},
	}

	t.Run("fetches and caches on a cold start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testIndexURL).
			Return(indexPayload(t, words...), nil)
		loader, cache := newTestLoader(t, fetcher)

		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Equal(t, words, got)

		entry, err := cache.Get("cet4")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.JSONEq(t, string(indexPayload(t, words...)), string(entry.Payload))
	})

	t.Run("second load comes from memory without fetching", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testIndexURL).
			Return(indexPayload(t, words...), nil).
			Times(1)
		loader, _ := newTestLoader(t, fetcher)

		_, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Equal(t, words, got)
	})

	t.Run("fresh cache avoids the network", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		loader, cache := newTestLoader(t, fetcher)
		require.NoError(t, cache.Put("cet4", indexPayload(t, words...)))

		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Equal(t, words, got)
	})

	t.Run("stale cache is refetched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testIndexURL).
			Return(indexPayload(t, words...), nil)
		loader, cache := newTestLoader(t, fetcher, WithLoaderClock(func() time.Time {
			return time.Now().Add(8 * 24 * time.Hour)
		}))
		require.NoError(t, cache.Put("cet4", indexPayload(t, words[:1]...)))

		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Equal(t, words, got)
	})

	t.Run("fetch failure retries once then degrades to an empty list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testIndexURL).
			Return(nil, errors.New("connection refused")).
			Times(2)
		loader, cache := newTestLoader(t, fetcher)

		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Empty(t, got)

		// The failure is not cached as an empty index.
		entry, err := cache.Get("cet4")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("load succeeds after an earlier failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		gomock.InOrder(
			fetcher.EXPECT().
				FetchJSON(gomock.Any(), testIndexURL).
				Return(nil, errors.New("connection refused")).
				Times(2),
			fetcher.EXPECT().
				FetchJSON(gomock.Any(), testIndexURL).
				Return(indexPayload(t, words...), nil),
		)
		loader, _ := newTestLoader(t, fetcher)

		got, err := loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = loader.LoadIndex(context.Background(), "cet4")
		require.NoError(t, err)
		assert.Equal(t, words, got)
	})

	t.Run("unknown bank is an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader, _ := newTestLoader(t, mock_wordbank.NewMockFetcher(ctrl))

		_, err := loader.LoadIndex(context.Background(), "toefl")
		assert.ErrorContains(t, err, "unknown bank")
	})
}

func TestLoader_LoadDetail(t *testing.T) {
	sourceFile := []byte(`[
		{"word": "abandon", "phonetic": "/əˈbændən/", "translations": [{"type": "v", "translation": "放弃"}]},
		{"word": "ability", "phonetic": "/əˈbɪləti/", "translations": [{"type": "n", "translation": "能力"}]}
	]`)

	t.Run("locates the record by file index and offset", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testSourceURL).
			Return(sourceFile, nil)
		loader, _ := newTestLoader(t, fetcher)

		detail, err := loader.LoadDetail(context.Background(), "cet4", "cet4_f0_i1", "ability")
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, "ability", detail.Word)
		assert.Equal(t, "n. 能力", detail.Meaning)
	})

	t.Run("stale offset falls back to a headword scan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testSourceURL).
			Return(sourceFile, nil)
		loader, _ := newTestLoader(t, fetcher)

		detail, err := loader.LoadDetail(context.Background(), "cet4", "cet4_f0_i99", "ability")
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, "ability", detail.Word)
	})

	t.Run("details are memoized per word", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testSourceURL).
			Return(sourceFile, nil).
			Times(1)
		loader, _ := newTestLoader(t, fetcher)

		first, err := loader.LoadDetail(context.Background(), "cet4", "cet4_f0_i0", "abandon")
		require.NoError(t, err)
		second, err := loader.LoadDetail(context.Background(), "cet4", "cet4_f0_i0", "abandon")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("newline delimited source files are accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mock_wordbank.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			FetchJSON(gomock.Any(), testSourceURL).
			Return([]byte(`{"headWord": "vague", "content": {"word": {"content": {"trans": [{"pos": "adj", "tranCn": "模糊的"}]}}}}
{"headWord": "terse", "content": {"word": {"content": {"trans": [{"pos": "adj", "tranCn": "简洁的"}]}}}}
`), nil)
		loader, _ := newTestLoader(t, fetcher)

		detail, err := loader.LoadDetail(context.Background(), "cet4", "cet4_f0_i1", "terse")
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, "terse", detail.Word)
	})

	tests := []struct {
		name   string
		wordID string
		word   string
		setup  func(fetcher *mock_wordbank.MockFetcher)
	}{
		{
			name:   "malformed word id",
			wordID: "not-a-word-id",
			word:   "abandon",
			setup:  func(fetcher *mock_wordbank.MockFetcher) {},
		},
		{
			name:   "file index out of range",
			wordID: "cet4_f9_i0",
			word:   "abandon",
			setup:  func(fetcher *mock_wordbank.MockFetcher) {},
		},
		{
			name:   "offset and headword both missing",
			wordID: "cet4_f0_i99",
			word:   "zymurgy",
			setup: func(fetcher *mock_wordbank.MockFetcher) {
				fetcher.EXPECT().
					FetchJSON(gomock.Any(), testSourceURL).
					Return(sourceFile, nil)
			},
		},
		{
			name:   "source fetch keeps failing",
			wordID: "cet4_f0_i0",
			word:   "abandon",
			setup: func(fetcher *mock_wordbank.MockFetcher) {
				fetcher.EXPECT().
					FetchJSON(gomock.Any(), testSourceURL).
					Return(nil, errors.New("boom")).
					Times(2)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name+" returns nil without an error", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mock_wordbank.NewMockFetcher(ctrl)
			tt.setup(fetcher)
			loader, _ := newTestLoader(t, fetcher)

			detail, err := loader.LoadDetail(context.Background(), "cet4", tt.wordID, tt.word)
			require.NoError(t, err)
			assert.Nil(t, detail)
		})
	}
}
