package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the dataset set to a JSON file.
func (s *Set) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSet reads a dataset set from a JSON file.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal dataset: %w", err)
	}
	if len(s.Classes) != s.MaxContours {
		return nil, fmt.Errorf("dataset has %d classes, expected %d", len(s.Classes), s.MaxContours)
	}
	for i, c := range s.Classes {
		if c == nil || c.Class != i+1 {
			return nil, fmt.Errorf("dataset class slot %d is malformed", i+1)
		}
		for j, r := range c.Rows {
			if len(r.Features) != c.Columns()-1 {
				return nil, fmt.Errorf("class %d row %d: %d features, expected %d",
					c.Class, j, len(r.Features), c.Columns()-1)
			}
		}
	}
	return &s, nil
}
