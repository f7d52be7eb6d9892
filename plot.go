package cfl

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BoundPoint is one sample of the bound trajectory.
type BoundPoint struct {
	Iteration int
	Lower     float64
	Upper     float64
}

// BoundRecorder is a Middleware that samples the best bounds after every
// iteration, for convergence inspection and charting.
type BoundRecorder struct {
	points []BoundPoint
}

func NewBoundRecorder() *BoundRecorder {
	return &BoundRecorder{}
}

func (r *BoundRecorder) NodeCreated(*searchNode)              {}
func (r *BoundRecorder) Decision(*searchNode, searchDecision) {}

func (r *BoundRecorder) Bounds(iteration int, lower, upper float64) {
	r.points = append(r.points, BoundPoint{Iteration: iteration, Lower: lower, Upper: upper})
}

// Points returns the recorded trajectory in iteration order.
func (r *BoundRecorder) Points() []BoundPoint {
	return append([]BoundPoint(nil), r.points...)
}

// RenderChart writes an HTML line chart of the recorded upper and lower
// bounds per iteration. Infinite samples (no incumbent yet) are skipped.
func (r *BoundRecorder) RenderChart(w io.Writer) error {
	if len(r.points) == 0 {
		return fmt.Errorf("no bound samples recorded")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Branch-and-bound convergence",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "iteration",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "cost",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	xs := make([]string, len(r.points))
	lower := make([]opts.LineData, len(r.points))
	upper := make([]opts.LineData, len(r.points))
	for i, p := range r.points {
		xs[i] = fmt.Sprintf("%d", p.Iteration)
		lower[i] = opts.LineData{Value: finiteOrNil(p.Lower)}
		upper[i] = opts.LineData{Value: finiteOrNil(p.Upper)}
	}

	line.SetXAxis(xs).
		AddSeries("lower bound", lower).
		AddSeries("upper bound", upper)

	return line.Render(w)
}

// WriteChart renders the convergence chart to a file.
func (r *BoundRecorder) WriteChart(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.RenderChart(f)
}

func finiteOrNil(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}
