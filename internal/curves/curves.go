// Package curves generates level progression curves and renders them
// as interactive HTML line charts.
package curves

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MaxLevel is the top of the progression ladder.
const MaxLevel = 99

// XPForLevel returns the experience required to reach a level. Growth
// is a smooth cubic up to level 20, then a scaled cubic to 99.
func XPForLevel(level int) int {
	if level < 20 {
		ratio := float64(level) / 20
		return int(10000 * ratio * ratio * ratio)
	}
	delta := float64(level - 20)
	return int(10000 + 2.008*delta*delta*delta)
}

// HPForLevel returns the hit points at a level. A quadratic base curve
// is lifted by a cubic term calibrated so level 99 lands on 99,999.
func HPForLevel(level int) int {
	lift := (99999 - baseHP(MaxLevel)) * math.Pow(float64(level)/MaxLevel, 3)
	return int(baseHP(level) + lift)
}

func baseHP(level int) float64 {
	l := float64(level)
	return 0.05*l*l + 5*l + 40
}

// XPCurve returns the XP values for levels 1 through 99.
func XPCurve() []int {
	return curve(XPForLevel)
}

// HPCurve returns the HP values for levels 1 through 99.
func HPCurve() []int {
	return curve(HPForLevel)
}

func curve(f func(int) int) []int {
	values := make([]int, 0, MaxLevel)
	for level := 1; level <= MaxLevel; level++ {
		values = append(values, f(level))
	}
	return values
}

// ChartConfig holds configuration for curve charts.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
	Smooth   bool
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Smooth: true,
	}
}

// RenderCurveChart writes an HTML line chart of one or more named
// curves over levels 1 to 99.
func RenderCurveChart(series map[string][]int, config ChartConfig, outputPath string) error {
	if len(series) == 0 {
		return fmt.Errorf("no curve series provided")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	xLabels := make([]string, MaxLevel)
	for i := range xLabels {
		xLabels[i] = fmt.Sprintf("%d", i+1)
	}
	line.SetXAxis(xLabels)

	for name, values := range series {
		yData := make([]opts.LineData, len(values))
		for i, v := range values {
			yData[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, yData).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(config.Smooth),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
			)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
