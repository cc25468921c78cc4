package introspect

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gardenlabs/grasshopper/graph"
)

// WriteSnapshot serializes a schema snapshot to a YAML file, joining the
// discovery and emission stages without a live database. The write is
// atomic: the snapshot is rendered to a temporary file in the target
// directory and promoted with a rename.
func WriteSnapshot(path string, s *graph.Schema) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("introspect: marshal snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.yaml")
	if err != nil {
		return fmt.Errorf("introspect: write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("introspect: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("introspect: write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("introspect: promote snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads and validates a schema snapshot written by
// WriteSnapshot.
func ReadSnapshot(path string) (*graph.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("introspect: read snapshot: %w", err)
	}
	var s graph.Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("introspect: parse snapshot %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("introspect: invalid snapshot %s: %w", path, err)
	}
	return &s, nil
}
