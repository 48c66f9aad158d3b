package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Point3 is one observation in feature space
type Point3 struct {
	X, Y, Z   float64
	Anomalous bool
}

// Isometric projects a 3-D point to the plane, with the x and y axes drawn
// 30 degrees below the horizontal
func Isometric(x, y, z float64) (px, py float64) {
	cos30 := math.Cos(math.Pi / 6)
	sin30 := math.Sin(math.Pi / 6)
	return (x - y) * cos30, z + (x+y)*sin30
}

// normalize rescales each axis to [0, 1] so features of different
// magnitude share one projection
func normalize(points []Point3) []Point3 {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		for i, v := range [3]float64{p.X, p.Y, p.Z} {
			lo[i] = math.Min(lo[i], v)
			hi[i] = math.Max(hi[i], v)
		}
	}
	scale := func(v float64, i int) float64 {
		if hi[i] == lo[i] {
			return 0.5
		}
		return (v - lo[i]) / (hi[i] - lo[i])
	}
	out := make([]Point3, len(points))
	for j, p := range points {
		out[j] = Point3{X: scale(p.X, 0), Y: scale(p.Y, 1), Z: scale(p.Z, 2), Anomalous: p.Anomalous}
	}
	return out
}

// Scatter3D draws normal and anomalous points of a three feature space
// through an isometric projection, with the unit cube axes for reference
func (r *Renderer) Scatter3D(name, title string, axes [3]string, points []Point3) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}
	p := newPlot(title, "", "")
	p.HideAxes()

	for i, end := range [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		x, y := Isometric(end[0], end[1], end[2])
		axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: x, Y: y}})
		if err != nil {
			return "", fmt.Errorf("axis line: %w", err)
		}
		axis.LineStyle.Color = plotter.DefaultLineStyle.Color
		p.Add(axis)

		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: x, Y: y}},
			Labels: []string{axes[i]},
		})
		if err != nil {
			return "", fmt.Errorf("axis label: %w", err)
		}
		p.Add(label)
	}

	var normal, anomalous plotter.XYs
	for _, pt := range normalize(points) {
		x, y := Isometric(pt.X, pt.Y, pt.Z)
		if pt.Anomalous {
			anomalous = append(anomalous, plotter.XY{X: x, Y: y})
		} else {
			normal = append(normal, plotter.XY{X: x, Y: y})
		}
	}

	for _, group := range []struct {
		label string
		pts   plotter.XYs
		glyph draw.GlyphStyle
	}{
		{"Normal", normal, draw.GlyphStyle{Color: normalColor, Shape: draw.CircleGlyph{}, Radius: vg.Points(2.5)}},
		{"Anomalous", anomalous, draw.GlyphStyle{Color: anomalyColor, Shape: draw.CrossGlyph{}, Radius: vg.Points(4)}},
	} {
		if len(group.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(group.pts)
		if err != nil {
			return "", fmt.Errorf("scatter: %w", err)
		}
		s.GlyphStyle = group.glyph
		p.Add(s)
		p.Legend.Add(group.label, s)
	}
	return r.save(p, name)
}
