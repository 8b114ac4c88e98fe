// Package charts renders analysis reports as standalone HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Config holds configuration for charts.
type Config struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
	Colors   []string
}

// DefaultConfig returns default chart configuration.
func DefaultConfig() Config {
	return Config{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666"},
	}
}

// series is one named bar series over the shared x axis.
type series struct {
	name   string
	values []float64
}

func newBar(cfg Config, labels []string, all ...series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  cfg.Width,
			Height: cfg.Height,
			Theme:  cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    cfg.Title,
			Subtitle: cfg.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(len(all) > 1),
		}),
		charts.WithColorsOpts(opts.Colors(cfg.Colors)),
	)

	bar.SetXAxis(labels)
	for _, s := range all {
		data := make([]opts.BarData, len(s.values))
		for i, v := range s.values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.name, data)
	}
	bar.SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

// RenderCurve writes the average curve with per-bucket minimum and maximum.
func RenderCurve(w io.Writer, r *analysis.CurveReport, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = "Mana curve"
	}
	if cfg.Subtitle == "" {
		cfg.Subtitle = fmt.Sprintf("%d decks, average mana value %.2f", r.DeckCount, r.AvgManaValue)
	}

	labels := make([]string, len(r.Buckets))
	avg := series{name: "Average"}
	lo := series{name: "Min"}
	hi := series{name: "Max"}
	for i, b := range r.Buckets {
		labels[i] = analysis.BucketLabel(i)
		avg.values = append(avg.values, b.Avg)
		lo.values = append(lo.values, float64(b.Min))
		hi.values = append(hi.values, float64(b.Max))
	}

	if err := newBar(cfg, labels, avg, lo, hi).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderCategories writes the average slots per category.
func RenderCategories(w io.Writer, r *analysis.CategoryReport, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = "Category distribution"
	}
	if cfg.Subtitle == "" {
		cfg.Subtitle = fmt.Sprintf("%d decks", r.DeckCount)
	}

	labels := make([]string, 0, len(r.Stats))
	avg := series{name: "Average slots"}
	for _, s := range r.Stats {
		labels = append(labels, string(s.Category))
		avg.values = append(avg.values, s.Slots.Avg)
	}

	if err := newBar(cfg, labels, avg).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteFile creates path and renders into it.
func WriteFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close chart file: %w", cerr)
		}
	}()
	return render(f)
}
