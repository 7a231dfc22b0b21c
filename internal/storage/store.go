package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gbsim/internal/analysis"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Potential       string             `json:"potential"`
	Orientation     string             `json:"orientation"`
	Timestamp       time.Time          `json:"timestamp"`
	Params          map[string]float64 `json:"params"`
	Strict          bool               `json:"strict"`
	Dipole          bool               `json:"dipole"`
	RMin            float64            `json:"r_min"`
	RMax            float64            `json:"r_max"`
	Steps           int                `json:"steps"`
	WellDistance    float64            `json:"well_distance,omitempty"`
	WellDepth       float64            `json:"well_depth,omitempty"`
	ContactDistance float64            `json:"contact_distance,omitempty"`
}

// Save writes the profile under a new run id. ID, Timestamp and the
// profile summaries in meta are filled in here.
func (s *Store) Save(meta RunMetadata, prof *analysis.Profile) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%s_%d", meta.Potential, meta.Orientation, meta.Timestamp.UnixNano())
	meta.Steps = len(prof.Samples)
	if well, ok := prof.Minimum(); ok {
		meta.WellDistance = well.Distance
		meta.WellDepth = well.Energy
	}
	if contact, ok := prof.ContactDistance(); ok {
		meta.ContactDistance = contact
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, meta, prof); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return meta.ID, nil
}

func writeRun(runDir string, meta RunMetadata, prof *analysis.Profile) error {
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "profile.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"distance", "energy"}); err != nil {
		return err
	}
	for _, sample := range prof.Samples {
		row := []string{
			strconv.FormatFloat(sample.Distance, 'g', -1, 64),
			strconv.FormatFloat(sample.Energy, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return csvFile.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadProfile reads the samples back. strconv parses the NaN and Inf
// spellings written by Save, so degenerate samples survive the round trip.
func (s *Store) LoadProfile(runID string) (*analysis.Profile, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "profile.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	prof := &analysis.Profile{}
	if len(records) < 2 {
		return prof, nil
	}

	prof.Samples = make([]analysis.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("%s: line %d: expected 2 fields, got %d", runID, i+2, len(record))
		}
		d, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", runID, i+2, err)
		}
		u, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", runID, i+2, err)
		}
		prof.Samples = append(prof.Samples, analysis.Sample{Distance: d, Energy: u})
	}

	return prof, nil
}
