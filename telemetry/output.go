package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
)

// SeriesRow is one accepted snapshot flattened for CSV export.
type SeriesRow struct {
	Generation       int     `csv:"generation"`
	BacteriaFitness  float64 `csv:"bacteria_fitness_avg"`
	PhagocyteFitness float64 `csv:"phagocyte_fitness_avg"`
	Bacteria         int     `csv:"bacteria"`
	Phagocytes       int     `csv:"phagocytes"`
	Captures         int     `csv:"captures"`
	Reproductions    int     `csv:"reproductions"`
}

// PollRow is one task's round-trip stats flattened for CSV export.
type PollRow struct {
	Task     string `csv:"task"`
	Total    int    `csv:"total"`
	Failures int    `csv:"failures"`
	MeanUS   int64  `csv:"mean_us"`
	StdDevUS int64  `csv:"stddev_us"`
	P50US    int64  `csv:"p50_us"`
	P90US    int64  `csv:"p90_us"`
}

// ToCSV converts PollStats to a flat CSV-friendly struct.
func (s PollStats) ToCSV() PollRow {
	return PollRow{
		Task:     s.Task,
		Total:    s.Total,
		Failures: s.Failures,
		MeanUS:   s.Mean.Microseconds(),
		StdDevUS: s.StdDev.Microseconds(),
		P50US:    s.P50.Microseconds(),
		P90US:    s.P90.Microseconds(),
	}
}

// Exporter handles structured observation output with CSV logging.
// A nil Exporter is valid and writes nothing.
type Exporter struct {
	mu         sync.Mutex
	dir        string
	seriesFile *os.File
	pollFile   *os.File

	// Track if headers have been written
	seriesHeaderWritten bool
	pollHeaderWritten   bool
}

// NewExporter creates an exporter and initializes the output directory.
// Returns nil if dir is empty (export disabled).
func NewExporter(dir string) (*Exporter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	e := &Exporter{dir: dir}

	seriesPath := filepath.Join(dir, "series.csv")
	f, err := os.Create(seriesPath)
	if err != nil {
		return nil, fmt.Errorf("creating series.csv: %w", err)
	}
	e.seriesFile = f

	pollPath := filepath.Join(dir, "poll.csv")
	f, err = os.Create(pollPath)
	if err != nil {
		e.seriesFile.Close()
		return nil, fmt.Errorf("creating poll.csv: %w", err)
	}
	e.pollFile = f

	return e, nil
}

// WriteSeries writes one chart series row to series.csv.
func (e *Exporter) WriteSeries(row SeriesRow) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	records := []SeriesRow{row}

	if !e.seriesHeaderWritten {
		if err := gocsv.Marshal(records, e.seriesFile); err != nil {
			return fmt.Errorf("writing series: %w", err)
		}
		e.seriesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, e.seriesFile); err != nil {
			return fmt.Errorf("writing series: %w", err)
		}
	}

	return nil
}

// WritePollStats writes one round-trip stats row per task to poll.csv.
func (e *Exporter) WritePollStats(stats []PollStats) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	records := make([]PollRow, 0, len(stats))
	for _, s := range stats {
		records = append(records, s.ToCSV())
	}

	if !e.pollHeaderWritten {
		if err := gocsv.Marshal(records, e.pollFile); err != nil {
			return fmt.Errorf("writing poll stats: %w", err)
		}
		e.pollHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, e.pollFile); err != nil {
			return fmt.Errorf("writing poll stats: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (e *Exporter) Dir() string {
	if e == nil {
		return ""
	}
	return e.dir
}

// Close flushes and closes all output files.
func (e *Exporter) Close() error {
	if e == nil {
		return nil
	}

	var firstErr error

	if e.seriesFile != nil {
		if err := e.seriesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if e.pollFile != nil {
		if err := e.pollFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
