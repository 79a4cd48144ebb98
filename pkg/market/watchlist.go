package market

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// watchlistFile is the on-disk shape of a custom registry.
type watchlistFile struct {
	Categories  []Category        `yaml:"categories"`
	Names       map[string]string `yaml:"names"`
	BareNumeric []string          `yaml:"bare_numeric"`
}

// LoadRegistry reads a YAML watchlist. An empty path yields the default registry.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes a YAML watchlist document.
func ParseRegistry(data []byte) (*Registry, error) {
	var wf watchlistFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}
	if len(wf.Categories) == 0 {
		return nil, fmt.Errorf("watchlist has no categories")
	}
	return NewRegistry(wf.Categories, wf.Names, wf.BareNumeric)
}
