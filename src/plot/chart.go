package plot

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight   = 512
	barWidth      = 12
	barSpacing    = 4
	maxBarLabels  = 10
	scatterWidth  = 800
	scatterHeight = 600
)

// pointStyle 只画点不画线
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func rendererFor(format Format) (chart.RendererProvider, error) {
	switch format {
	case PNG:
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("%w for charts: %s", ErrUnsupportedFormat, format)
	}
}

// Histogram 将区间计数渲染为柱状图
func Histogram(title string, bins []Bin, format Format) ([]byte, error) {
	if len(bins) == 0 {
		return nil, ErrNoData
	}
	rp, err := rendererFor(format)
	if err != nil {
		return nil, err
	}

	// 区间过多时只标注部分刻度
	every := (len(bins) + maxBarLabels - 1) / maxBarLabels
	maxCount := 1.0
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		label := ""
		if i%every == 0 {
			label = formatEdge(b.Lo)
		}
		bars[i] = chart.Value{Value: float64(b.Count), Label: label}
		maxCount = math.Max(maxCount, float64(b.Count))
	}

	width := len(bins)*(barWidth+barSpacing) + 160
	if width < 600 {
		width = 600
	}

	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(rp, &buf); err != nil {
		return nil, fmt.Errorf("render histogram: %w", err)
	}
	return buf.Bytes(), nil
}

// Scatter 渲染两个变量的散点图
func Scatter(title, xName, yName string, xs, ys []float64, format Format) ([]byte, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, ErrNoData
	}
	rp, err := rendererFor(format)
	if err != nil {
		return nil, err
	}

	ch := chart.Chart{
		Title:      title,
		Width:      scatterWidth,
		Height:     scatterHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: xName, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: yName, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("%s vs %s", yName, xName),
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(chart.ColorBlue),
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(rp, &buf); err != nil {
		return nil, fmt.Errorf("render scatter: %w", err)
	}
	return buf.Bytes(), nil
}

// paddedRange 留出 5% 边距, 单一取值时扩展为 ±1, go-chart 不接受零宽度坐标轴
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
