package telemetry

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/d20/config"
)

// OutputManager writes session output into one directory: rounds.csv,
// perf.csv, the effective config, and screenshots.
type OutputManager struct {
	dir        string
	roundsFile *os.File
	perfFile   *os.File

	roundsHeader bool
	perfHeader   bool
	screenshots  int
}

// NewOutputManager creates dir and opens the CSV files.
// It returns nil when dir is empty; every method is a no-op on nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	rounds, err := os.Create(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating rounds.csv: %w", err)
	}
	perf, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		rounds.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}

	return &OutputManager{dir: dir, roundsFile: rounds, perfFile: perf}, nil
}

// WriteConfig snapshots the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteRound appends one record to rounds.csv.
func (om *OutputManager) WriteRound(r RoundStats) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.roundsFile, []RoundStats{r}, &om.roundsHeader); err != nil {
		return fmt.Errorf("writing round: %w", err)
	}
	return nil
}

// WritePerf appends one record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	if err := writeRow(om.perfFile, []PerfStatsCSV{stats.ToCSV(frame)}, &om.perfHeader); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeRow emits the CSV header only on the first write to a file.
func writeRow(f *os.File, records any, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, f)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// WriteScreenshot encodes img as a numbered WebP file and returns its path.
func (om *OutputManager) WriteScreenshot(img image.Image) (string, error) {
	if om == nil {
		return "", nil
	}
	om.screenshots++
	path := filepath.Join(om.dir, fmt.Sprintf("screenshot_%03d.webp", om.screenshots))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing screenshot: %w", err)
	}
	return path, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes the CSV files, reporting the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.roundsFile, om.perfFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
