// Package viz renders PNG charts of a finished run with gonum/plot.
package viz

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/inference-sim/bankqueue/sim"
)

// Chart file names.
const (
	MetricsSummaryFile    = "metrics_summary.png"
	WaitingTimeFile       = "waiting_time_distribution.png"
	QueueLengthFile       = "queue_length_over_time.png"
	SystemTimePerCustFile = "system_time_per_customer.png"
)

const (
	histogramBins = 30
	chartWidth    = 8 * vg.Inch
	chartHeight   = 4 * vg.Inch
)

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
)

// Chart is one rendered file.
type Chart struct {
	Name string
	Path string
}

// Render writes every chart for m into dir and returns them in a fixed order.
func Render(dir string, m *sim.Metrics) ([]Chart, error) {
	builders := []struct {
		name  string
		file  string
		build func(*sim.Metrics) (*plot.Plot, error)
	}{
		{"Metrics summary", MetricsSummaryFile, metricsSummaryPlot},
		{"Waiting time distribution", WaitingTimeFile, waitingTimePlot},
		{"Queue length over time", QueueLengthFile, queueLengthPlot},
		{"System time per customer", SystemTimePerCustFile, systemTimePlot},
	}
	charts := make([]Chart, 0, len(builders))
	for _, b := range builders {
		p, err := b.build(m)
		if err != nil {
			return charts, fmt.Errorf("building %s chart: %w", b.file, err)
		}
		path := filepath.Join(dir, b.file)
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return charts, fmt.Errorf("saving %s: %w", b.file, err)
		}
		logrus.Debugf("Rendered %s", path)
		charts = append(charts, Chart{Name: b.name, Path: path})
	}
	return charts, nil
}

func metricsSummaryPlot(m *sim.Metrics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Key Simulation Metrics"
	p.Y.Label.Text = "Value"

	values := plotter.Values{
		finite(m.AverageWaitingTime),
		finite(m.AverageSystemTime),
		finite(m.ServerUtilization) * 100,
		float64(m.MaxQueueLength),
	}
	bars, err := plotter.NewBarChart(values, vg.Points(50))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	p.Add(bars)
	p.NominalX("Avg wait (min)", "Avg in system (min)", "Utilization (%)", "Max queue")
	return p, nil
}

func waitingTimePlot(m *sim.Metrics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Customer Waiting Times"
	p.X.Label.Text = "Waiting time (minutes)"
	p.Y.Label.Text = "Customers"

	waits := make(plotter.Values, len(m.Records))
	for i, r := range m.Records {
		waits[i] = r.WaitingTime
	}
	if len(waits) == 0 {
		return p, nil
	}
	lo, hi := plotter.Range(waits)
	if lo == hi {
		// Every customer waited the same time; one bar says it all.
		bars, err := plotter.NewBarChart(plotter.Values{float64(len(waits))}, vg.Points(50))
		if err != nil {
			return nil, err
		}
		bars.Color = barColor
		p.Add(bars)
		p.NominalX(fmt.Sprintf("%g", lo))
		return p, nil
	}
	h, err := plotter.NewHist(waits, histogramBins)
	if err != nil {
		return nil, err
	}
	h.FillColor = barColor
	p.Add(h)
	return p, nil
}

func queueLengthPlot(m *sim.Metrics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Queue Length Over Time"
	p.X.Label.Text = "Time (minutes)"
	p.Y.Label.Text = "Customers waiting"

	points := sim.QueueLengthTimeline(m.Records)
	xys := make(plotter.XYs, 0, len(points)+1)
	for _, pt := range points {
		xys = append(xys, plotter.XY{X: pt.Time, Y: float64(pt.Length)})
	}
	if end := m.SimEndedTime; end > xys[len(xys)-1].X {
		xys = append(xys, plotter.XY{X: end, Y: xys[len(xys)-1].Y})
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.StepStyle = plotter.PostStep
	line.Color = barColor
	p.Add(line)
	return p, nil
}

func systemTimePlot(m *sim.Metrics) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Time in System per Customer"
	p.X.Label.Text = "Customer ID"
	p.Y.Label.Text = "Time in system (minutes)"
	if len(m.Records) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(m.Records))
	for i, r := range m.Records {
		xys[i] = plotter.XY{X: float64(r.ID), Y: r.SystemTime}
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = barColor
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	avg := finite(m.AverageSystemTime)
	mean, err := plotter.NewLine(plotter.XYs{
		{X: xys[0].X, Y: avg},
		{X: xys[len(xys)-1].X, Y: avg},
	})
	if err != nil {
		return nil, err
	}
	mean.Color = lineColor
	mean.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(mean)
	p.Legend.Add(fmt.Sprintf("Average: %.2f", avg), mean)
	return p, nil
}

// finite maps NaN and ±Inf to 0; plotters reject them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
