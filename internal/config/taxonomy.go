package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// LoadTaxonomy returns the built-in enumerations, or the ones from the YAML
// file at path when it is non-empty. A file may override either list; an
// omitted list keeps its default.
func LoadTaxonomy(path string) (domain.Taxonomy, error) {
	taxonomy := domain.DefaultTaxonomy()
	if path == "" {
		return taxonomy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}

	var override domain.Taxonomy
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("parse taxonomy file: %w", err)
	}

	if len(override.MainCategories) > 0 {
		taxonomy.MainCategories = override.MainCategories
	}
	if len(override.Industries) > 0 {
		taxonomy.Industries = override.Industries
	}
	return taxonomy, nil
}
