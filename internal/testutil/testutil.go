// Package testutil provides shared test helpers for creating config
// files and word bank fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

// SetupTestConfig creates a minimal config file and all required
// directories for testing. Returns the path to the generated config
// file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "cache", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}
	catalogPath := filepath.Join(tmpDir, "banks.yml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`banks:
  - id: cet4
    name: CET-4
    index_url: https://example.com/cet4/index.json
    source_urls:
      - https://example.com/cet4/words_0.json
`), 0644))

	configContent := fmt.Sprintf(`banks:
  catalog_file: %s
  cache_directory: %s
storage:
  driver: file
  data_directory: %s
reports:
  output_directory: %s
`,
		catalogPath,
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteCatalog writes a bank catalog fixture and returns its path.
func WriteCatalog(t *testing.T, tmpDir string, banks ...wordbank.Bank) string {
	t.Helper()

	var b []byte
	b = append(b, []byte("banks:\n")...)
	for _, bank := range banks {
		b = append(b, []byte(fmt.Sprintf("  - id: %s\n    name: %s\n    index_url: %s\n", bank.ID, bank.Name, bank.IndexURL))...)
		if len(bank.SourceURLs) > 0 {
			b = append(b, []byte("    source_urls:\n")...)
			for _, url := range bank.SourceURLs {
				b = append(b, []byte("      - "+url+"\n")...)
			}
		}
	}
	path := filepath.Join(tmpDir, "banks.yml")
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

// IndexJSON marshals word summaries as an index payload.
func IndexJSON(t *testing.T, words ...wordbank.WordSummary) []byte {
	t.Helper()
	data, err := json.Marshal(words)
	require.NoError(t, err)
	return data
}

// Words builds n summaries with predictable ids for queue tests. The
// ids follow the <bank>_f<file>_i<offset> convention for file 0.
func Words(bankID string, n int) []wordbank.WordSummary {
	words := make([]wordbank.WordSummary, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, wordbank.WordSummary{
			ID:      fmt.Sprintf("%s_f0_i%d", bankID, i),
			Word:    fmt.Sprintf("word%d", i),
			Meaning: fmt.Sprintf("meaning %d", i),
			Rank:    i + 1,
		})
	}
	return words
}
