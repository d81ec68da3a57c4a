package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the use cases as an indented JSON snapshot, creating parent
// directories as needed.
func Save(path string, cases []UseCase) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads a JSON snapshot written by Save.
func Load(path string) ([]UseCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var cases []UseCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return cases, nil
}
