package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nysecli/internal/config"
	"nysecli/internal/exporter"
	"nysecli/internal/sector"
)

// Output is one file written during a run
type Output struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
}

// RunSummary is written as run_summary.json at the end of a command
type RunSummary struct {
	Command    string         `json:"command"`
	RunID      string         `json:"run_id"`
	Version    string         `json:"version"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Outputs    []Output       `json:"outputs"`
	Counts     map[string]int `json:"counts,omitempty"`
}

// OutputRecorder observes every file written, for metrics
type OutputRecorder func(ctx context.Context, kind string)

// Reporter writes tables, workbooks and charts and keeps track of them
type Reporter struct {
	writer   *exporter.CSVWriter
	cfg      config.ReportConfig
	logger   *slog.Logger
	recorder OutputRecorder

	mu      sync.Mutex
	summary RunSummary
}

// NewReporter creates a reporter writing into the output directory of paths
func NewReporter(paths *config.Paths, cfg config.ReportConfig, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		writer: exporter.NewCSVWriter(paths).WithLogger(logger),
		cfg:    cfg,
		logger: logger,
	}
}

// SetRecorder installs a callback invoked after every successful write
func (r *Reporter) SetRecorder(rec OutputRecorder) {
	r.recorder = rec
}

// Begin starts the run summary
func (r *Reporter) Begin(command, runID, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = RunSummary{
		Command:   command,
		RunID:     runID,
		Version:   version,
		StartedAt: time.Now().UTC(),
		Counts:    make(map[string]int),
	}
}

// Count records a named counter in the run summary
func (r *Reporter) Count(name string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summary.Counts == nil {
		r.summary.Counts = make(map[string]int)
	}
	r.summary.Counts[name] = n
}

// Outputs returns the files written so far
func (r *Reporter) Outputs() []Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Output(nil), r.summary.Outputs...)
}

// Config returns the report configuration
func (r *Reporter) Config() config.ReportConfig { return r.cfg }

// WriteTable writes t as a CSV file in the output directory
func (r *Reporter) WriteTable(ctx context.Context, name string, t Table) error {
	path, err := r.writer.WriteCSV(name, exporter.WriteOptions{
		Headers:   t.Headers,
		Records:   t.Rows,
		BOMPrefix: r.cfg.BOMPrefix,
	})
	if err != nil {
		return err
	}
	r.record(ctx, Output{Name: name, Path: path, Kind: "csv", Rows: len(t.Rows)})
	return nil
}

// WriteSectorWorkbook writes both sector tables into one workbook
func (r *Reporter) WriteSectorWorkbook(ctx context.Context, name string, summaries []sector.Summary) error {
	sheets := []exporter.Sheet{
		toSheet("Sector Averages", SectorTable(summaries)),
		toSheet("Sector Detail", SectorDetailTable(summaries)),
	}
	path, err := r.writer.WriteWorkbook(name, sheets)
	if err != nil {
		return err
	}
	r.record(ctx, Output{Name: name, Path: path, Kind: "xlsx", Rows: len(summaries)})
	return nil
}

// RecordChart adds a rendered chart to the summary
func (r *Reporter) RecordChart(ctx context.Context, name, path string) {
	r.record(ctx, Output{Name: name, Path: path, Kind: "png"})
}

// RecordFile adds a file written by another sink to the summary
func (r *Reporter) RecordFile(ctx context.Context, name, path, kind string, rows int) {
	r.record(ctx, Output{Name: name, Path: path, Kind: kind, Rows: rows})
}

// Finish writes the run summary and returns it
func (r *Reporter) Finish(ctx context.Context) (*RunSummary, error) {
	r.mu.Lock()
	r.summary.FinishedAt = time.Now().UTC()
	summary := r.summary
	summary.Outputs = append([]Output(nil), r.summary.Outputs...)
	r.mu.Unlock()

	if _, err := r.writer.WriteJSON(config.RunSummaryFileName, summary); err != nil {
		return nil, fmt.Errorf("write run summary: %w", err)
	}
	r.logger.InfoContext(ctx, "Run summary written",
		slog.String("command", summary.Command),
		slog.Int("outputs", len(summary.Outputs)))
	return &summary, nil
}

func (r *Reporter) record(ctx context.Context, out Output) {
	r.mu.Lock()
	r.summary.Outputs = append(r.summary.Outputs, out)
	r.mu.Unlock()

	if r.recorder != nil {
		r.recorder(ctx, out.Kind)
	}
	r.logger.InfoContext(ctx, "Output written",
		slog.String("name", out.Name),
		slog.String("kind", out.Kind),
		slog.Int("rows", out.Rows))
}

// toSheet converts a string table, writing numeric-looking cells as numbers
func toSheet(name string, t Table) exporter.Sheet {
	s := exporter.Sheet{Name: name, Headers: t.Headers}
	for _, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cellValue(cell)
		}
		s.Rows = append(s.Rows, values)
	}
	return s
}
