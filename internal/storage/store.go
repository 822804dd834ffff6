package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const metadataFile = "metadata.json"

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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Kind        string             `json:"kind"`
	Timestamp   time.Time          `json:"timestamp"`
	GridSize    int                `json:"grid_size"`
	Lens        string             `json:"lens"`
	Integrator  string             `json:"integrator,omitempty"`
	Frames      int                `json:"frames"`
	Complete    bool               `json:"complete"`
	Observables map[string]float64 `json:"observables,omitempty"`
	Tables      []string           `json:"tables"`
}

// Table is a named block of numeric rows saved as <name>.csv.
type Table struct {
	Name   string      `json:"name"`
	Header []string    `json:"header"`
	Rows   [][]float64 `json:"rows"`
}

// Save writes the metadata and each table under a fresh run directory
// and returns the run ID.
func (s *Store) Save(meta RunMetadata, tables ...Table) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Scenario, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Tables = make([]string, 0, len(tables))
	for _, t := range tables {
		meta.Tables = append(meta.Tables, t.Name)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for _, t := range tables {
		if err := writeTable(filepath.Join(runDir, t.Name+".csv"), t); err != nil {
			return "", fmt.Errorf("write %s: %w", t.Name, err)
		}
	}

	return meta.ID, nil
}

func writeTable(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTable(runID, name string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name+".csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s of run %s is empty", name, runID)
	}

	t := &Table{Name: name, Header: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d column %d: %w", name, i+1, j, err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Column returns the named column, or nil if the header lacks it.
func (t *Table) Column(name string) []float64 {
	for c, h := range t.Header {
		if h != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			out[i] = row[c]
		}
		return out
	}
	return nil
}

type exportData struct {
	Meta   RunMetadata `json:"meta"`
	Tables []Table     `json:"tables"`
}

// ExportJSON writes the metadata and tables as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, tables ...Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{Meta: meta, Tables: tables})
}
