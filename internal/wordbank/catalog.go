package wordbank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bank describes one vocabulary collection: where its index lives and
// which source files hold the full detail records. The order of
// SourceURLs matters; word ids reference source files by position.
type Bank struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	IndexURL   string   `yaml:"index_url"`
	SourceURLs []string `yaml:"source_urls"`
}

// Catalog is the set of available banks, loaded from a YAML file.
type Catalog struct {
	Banks []Bank `yaml:"banks"`
}

// LoadCatalog reads and validates a bank catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(contents, &catalog); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal > %w", err)
	}

	seen := make(map[string]bool, len(catalog.Banks))
	for i, bank := range catalog.Banks {
		if bank.ID == "" {
			return nil, fmt.Errorf("bank at position %d has no id", i)
		}
		if seen[bank.ID] {
			return nil, fmt.Errorf("duplicate bank id %q", bank.ID)
		}
		seen[bank.ID] = true
		if bank.IndexURL == "" {
			return nil, fmt.Errorf("bank %q has no index_url", bank.ID)
		}
	}
	return &catalog, nil
}

// Bank returns the bank with the given id.
func (c *Catalog) Bank(id string) (Bank, bool) {
	for _, bank := range c.Banks {
		if bank.ID == id {
			return bank, true
		}
	}
	return Bank{}, false
}

// IDs returns the catalog's bank ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Banks))
	for _, bank := range c.Banks {
		ids = append(ids, bank.ID)
	}
	return ids
}
