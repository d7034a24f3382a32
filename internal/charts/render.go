// Package charts renders chart specs to SVG or PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"autosales-dashboard/internal/models"
)

const (
	Width  = 640
	Height = 400
)

var ErrNoData = errors.New("chart has no data")

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Render writes spec as an image. Specs without points return ErrNoData.
func Render(w io.Writer, spec models.ChartSpec, format Format) error {
	if len(spec.Points) == 0 {
		return ErrNoData
	}

	var err error
	switch spec.Kind {
	case models.ChartLine:
		err = renderLine(w, spec, format.provider())
	case models.ChartBar:
		err = renderBar(w, spec, format.provider())
	case models.ChartPie:
		err = renderPie(w, spec, format.provider())
	default:
		return fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s chart %q: %w", spec.Kind, spec.Title, err)
	}
	return nil
}

// SVG renders spec to an inline SVG document.
func SVG(spec models.ChartSpec) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, spec, FormatSVG); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderLine(w io.Writer, spec models.ChartSpec, provider chart.RendererProvider) error {
	xs := make([]float64, len(spec.Points))
	ys := make([]float64, len(spec.Points))
	ticks := make([]chart.Tick, len(spec.Points))
	for i, p := range spec.Points {
		xs[i] = float64(i)
		ys[i] = p.Value
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}

	// go-chart takes the x range from the ticks and rejects a zero delta, so
	// a single group is drawn as a flat segment centred on its tick.
	if len(xs) == 1 {
		xs = []float64{-0.5, 0.5}
		ys = []float64{ys[0], ys[0]}
		ticks = []chart.Tick{{Value: -0.5}, ticks[0], {Value: 0.5}}
	}

	graph := chart.Chart{
		Title:      spec.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XField, Ticks: ticks},
		YAxis:      chart.YAxis{Name: spec.YField, Range: valueRange(spec.Points)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    spec.YField,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}
	return graph.Render(provider, w)
}

func renderBar(w io.Writer, spec models.ChartSpec, provider chart.RendererProvider) error {
	bars := make([]chart.Value, len(spec.Points))
	for i, p := range spec.Points {
		bars[i] = chart.Value{Label: p.Label, Value: p.Value}
	}

	spacing := 16
	barWidth := (Width-96)/len(bars) - spacing
	barWidth = max(8, min(barWidth, 80))

	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      chart.YAxis{Name: spec.YField, Range: valueRange(spec.Points)},
		Bars:       bars,
	}
	return graph.Render(provider, w)
}

func renderPie(w io.Writer, spec models.ChartSpec, provider chart.RendererProvider) error {
	values := make([]chart.Value, 0, len(spec.Points))
	for _, p := range spec.Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: p.Label, Value: p.Value})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Title:  spec.Title,
		Width:  Width,
		Height: Height,
		Values: values,
	}
	return graph.Render(provider, w)
}

// valueRange spans zero and the data with some headroom so flat or
// single-point series still have a non-zero delta.
func valueRange(points []models.ChartPoint) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + pad}
}
