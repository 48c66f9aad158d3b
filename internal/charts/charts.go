package charts

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"nysecli/internal/config"
	"nysecli/internal/forecast"
)

// ErrNoData is returned when a chart has no defined value to draw
var ErrNoData = errors.New("no data to plot")

// Chart file names
const (
	MedianNetMarginChart  = "median_net_margin_by_sector.png"
	DebtToEquityBoxChart  = "debt_to_equity_by_sector.png"
	PEBoxChart            = "pe_ratio_by_sector.png"
	ROEvsNetMarginChart   = "roe_vs_net_margin.png"
	PBvsPEChart           = "pb_vs_pe.png"
	DebtToEquityHistChart = "debt_to_equity_hist.png"
	InterestCoverageChart = "interest_coverage_hist.png"
	RevenueForecastChart  = "revenue_forecast.png"
	AnomalyScatterChart   = "anomalies_3d.png"
)

var (
	normalColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	anomalyColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	linearColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	arColor      = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Renderer writes charts into the charts directory
type Renderer struct {
	dir    string
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates a renderer for the charts directory of paths
func NewRenderer(paths *config.Paths, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		dir:    paths.ChartsDir,
		width:  10 * vg.Inch,
		height: 6 * vg.Inch,
		logger: logger,
	}
}

// Path returns the full path of a chart file
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.dir, name)
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("create charts directory: %w", err)
	}
	path := r.Path(name)
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", name, err)
	}
	r.logger.Debug("Chart written", slog.String("path", path))
	return path, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// finite drops NaN and infinite values
func finite(values []float64) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(groups map[string][]float64) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bar draws one bar per category, in the order given
func (r *Renderer) Bar(name, title, yLabel string, categories []string, values []float64) (string, error) {
	if len(categories) == 0 || len(categories) != len(values) {
		return "", ErrNoData
	}
	p := newPlot(title, "", yLabel)
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = normalColor
	p.Add(bars)
	p.NominalX(categories...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return r.save(p, name)
}

// Box draws one box per group, groups ordered by name. Empty groups are
// left out.
func (r *Renderer) Box(name, title, yLabel string, groups map[string][]float64) (string, error) {
	p := newPlot(title, "", yLabel)
	var labels []string
	for _, key := range sortedKeys(groups) {
		values := finite(groups[key])
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(labels)), values)
		if err != nil {
			return "", fmt.Errorf("box plot %s: %w", key, err)
		}
		box.FillColor = normalColor
		p.Add(box)
		labels = append(labels, key)
	}
	if len(labels) == 0 {
		return "", ErrNoData
	}
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return r.save(p, name)
}

// Scatter draws the given points
func (r *Renderer) Scatter(name, title, xLabel, yLabel string, pts plotter.XYs) (string, error) {
	if len(pts) == 0 {
		return "", ErrNoData
	}
	p := newPlot(title, xLabel, yLabel)
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Color = normalColor
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(s)
	return r.save(p, name)
}

// Histogram draws the distribution of values over bins buckets
func (r *Renderer) Histogram(name, title, xLabel string, values []float64, bins int) (string, error) {
	v := finite(values)
	if len(v) == 0 {
		return "", ErrNoData
	}
	p := newPlot(title, xLabel, "Count")
	h, err := plotter.NewHist(v, bins)
	if err != nil {
		return "", fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = normalColor
	p.Add(h)
	return r.save(p, name)
}

// Forecast draws the revenue history and both model forecasts
func (r *Renderer) Forecast(name string, fc *forecast.RevenueForecast) (string, error) {
	if fc == nil || len(fc.History) == 0 {
		return "", ErrNoData
	}
	p := newPlot(fc.Ticker+" revenue forecast", "Year", "Total Revenue")

	history := make(plotter.XYs, len(fc.History))
	for i, pt := range fc.History {
		history[i].X = decimalYear(pt.Period.Year(), int(pt.Period.Month()))
		history[i].Y = pt.Value
	}
	line, err := plotter.NewLine(history)
	if err != nil {
		return "", fmt.Errorf("history line: %w", err)
	}
	line.LineStyle.Color = normalColor
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("History", line)

	if err := addForecastLine(p, "Linear trend", fc, fc.Linear, linearColor); err != nil {
		return "", err
	}
	if fc.AR != nil {
		if err := addForecastLine(p, "Differenced AR", fc, fc.AR, arColor); err != nil {
			return "", err
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return r.save(p, name)
}

// addForecastLine joins the last observation to the forecast values
func addForecastLine(p *plot.Plot, label string, fc *forecast.RevenueForecast, values []float64, c color.Color) error {
	last := fc.History[len(fc.History)-1]
	pts := plotter.XYs{{X: decimalYear(last.Period.Year(), int(last.Period.Month())), Y: last.Value}}
	for i, d := range fc.Dates {
		if i >= len(values) {
			break
		}
		pts = append(pts, plotter.XY{X: decimalYear(d.Year(), int(d.Month())), Y: values[i]})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s line: %w", label, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func decimalYear(year, month int) float64 {
	return float64(year) + float64(month-1)/12
}
