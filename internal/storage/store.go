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

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/metrics"
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
	ID        string             `json:"id"`
	Variant   string             `json:"variant"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	HostHz    float64            `json:"host_hz"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Cols      int                `json:"cols"`
	Rows      int                `json:"rows"`
	Options   config.Options     `json:"options"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is what a recording hands to Save.
type Run struct {
	Options  config.Options
	HostHz   float64
	Duration float64
	Cols     int
	Rows     int
	Samples  []metrics.Sample
	Metrics  map[string]float64
}

var statsHeader = []string{"frame", "time", "mean", "max", "lit", "cells", "cost_us"}

func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Options.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Variant:   run.Options.Variant,
		Timestamp: now,
		Seed:      run.Options.Seed,
		HostHz:    run.HostHz,
		Duration:  run.Duration,
		Frames:    len(run.Samples),
		Cols:      run.Cols,
		Rows:      run.Rows,
		Options:   run.Options,
		Metrics:   run.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	if err := WriteJSON(metaFile, meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "stats.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(statsHeader); err != nil {
		return "", err
	}
	for _, sm := range run.Samples {
		row := []string{
			strconv.FormatUint(sm.Frame, 10),
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.FormatFloat(sm.Mean, 'f', 6, 64),
			strconv.FormatFloat(sm.Max, 'f', 6, 64),
			strconv.Itoa(sm.Lit),
			strconv.Itoa(sm.Cells),
			strconv.FormatInt(sm.Cost.Microseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteJSON writes v indented.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

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

// LoadSamples reads stats.csv back, skipping malformed rows.
func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(statsHeader) {
			continue
		}
		frame, err1 := strconv.ParseUint(rec[0], 10, 64)
		t, err2 := strconv.ParseFloat(rec[1], 64)
		mean, err3 := strconv.ParseFloat(rec[2], 64)
		peak, err4 := strconv.ParseFloat(rec[3], 64)
		lit, err5 := strconv.Atoi(rec[4])
		cells, err6 := strconv.Atoi(rec[5])
		cost, err7 := strconv.ParseInt(rec[6], 10, 64)
		if err := firstErr(err1, err2, err3, err4, err5, err6, err7); err != nil {
			continue
		}
		samples = append(samples, metrics.Sample{
			Frame: frame,
			Time:  t,
			Mean:  mean,
			Max:   peak,
			Lit:   lit,
			Cells: cells,
			Cost:  time.Duration(cost) * time.Microsecond,
		})
	}

	return samples, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
