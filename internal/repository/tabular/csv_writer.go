package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"patrolBandit/business/experiment"
	"patrolBandit/pkg/logger"
)

// CSVWriter writes distance_<M>.csv, and observability_<M>.csv when the
// sweep kept diagnostics, into Dir.
type CSVWriter struct {
	Dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{Dir: dir}
}

func (w *CSVWriter) WriteSize(ctx context.Context, res experiment.SizeResult) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(w.Dir, fmt.Sprintf("distance_%d.csv", res.Arms))
	if err := writeTable(path, res.DistanceTable()); err != nil {
		return err
	}
	logger.Info("distance table written", "path", path)

	if t, ok := res.ObservabilityTable(); ok {
		path := filepath.Join(w.Dir, fmt.Sprintf("observability_%d.csv", res.Arms))
		if err := writeTable(path, t); err != nil {
			return err
		}
		logger.Info("observability table written", "path", path)
	}
	return nil
}

func writeTable(path string, t experiment.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
