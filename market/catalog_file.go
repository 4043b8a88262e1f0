package market

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of an instrument table.
type catalogFile struct {
	Instruments []Instrument `json:"instruments" yaml:"instruments"`
}

// LoadCatalogFile reads an instrument table from a YAML or JSON file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cf catalogFile
	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, &cf); err != nil {
		if jerr := json.Unmarshal(data, &cf); jerr != nil {
			return nil, fmt.Errorf("parse catalog (tried YAML and JSON): %w", jerr)
		}
	}
	if len(cf.Instruments) == 0 {
		return nil, fmt.Errorf("catalog %s has no instruments", path)
	}

	c, err := NewCatalog(cf.Instruments)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// SaveCatalogFile writes the table as YAML or JSON depending on extension.
func SaveCatalogFile(path string, c *Catalog) error {
	cf := catalogFile{Instruments: c.Instruments()}

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(cf)
	} else {
		data, err = json.MarshalIndent(cf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}
