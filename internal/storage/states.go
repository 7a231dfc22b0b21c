package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/gbsim/internal/lattice"
)

const statesDir = "states"

func (s *Store) statePath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid state name %q", name)
	}
	return filepath.Join(s.baseDir, statesDir, name+".json"), nil
}

// SaveState stores a lattice state under name, replacing any earlier one.
func (s *Store) SaveState(name string, st lattice.State) error {
	path, err := s.statePath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := writeJSON(tmp, st); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) LoadState(name string) (*lattice.State, error) {
	path, err := s.statePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st lattice.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("state %s: %w", name, err)
	}
	return &st, nil
}

// States lists the stored state names in order.
func (s *Store) States() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, statesDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
