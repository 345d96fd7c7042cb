package trackers

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MarginChart tracks per-iteration margins and saves them as an HTML
// line chart showing the convergence of the learning run.
type MarginChart struct {
	margins  []float64
	filename string
	title    string
}

// NewMarginChart creates and returns a new *MarginChart Tracker that
// renders to the HTML file filename.
func NewMarginChart(filename, title string) *MarginChart {
	return &MarginChart{filename: filename, title: title}
}

// Track records the margin of an iteration.
func (m *MarginChart) Track(iteration int, margin float64) {
	m.margins = append(m.margins, margin)
}

// Save renders the tracked margins as a line chart and writes it to
// disk.
func (m *MarginChart) Save() error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: m.title,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "margin",
		}),
	)

	iterations := make([]string, len(m.margins))
	items := make([]opts.LineData, len(m.margins))
	for i, margin := range m.margins {
		iterations[i] = fmt.Sprintf("%d", i)
		items[i] = opts.LineData{Value: margin}
	}
	line.SetXAxis(iterations)
	line.AddSeries("max-margin score", items)

	page := components.NewPage()
	page.AddCharts(line)

	file, err := os.Create(m.filename)
	if err != nil {
		return fmt.Errorf("save: could not create %v: %v", m.filename, err)
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return fmt.Errorf("save: could not render chart: %v", err)
	}
	return nil
}
