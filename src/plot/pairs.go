package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pairsDiagonalBins = 10
	pairsTileSize     = 1.6 * vg.Inch
	pairsMinSize      = 4 * vg.Inch
	pairsMaxSize      = 30 * vg.Inch
)

// PairsMatrix 渲染散点矩阵: 对角线为直方图, 其余为两两散点图.
// columns[i] 中的 NaN 表示缺失值, 绘制散点时整行跳过.
func PairsMatrix(names []string, columns [][]float64, format Format) ([]byte, error) {
	n := len(names)
	if n == 0 || len(columns) != n {
		return nil, ErrNoData
	}

	plots := make([][]*gplot.Plot, n)
	for r := 0; r < n; r++ {
		plots[r] = make([]*gplot.Plot, n)
		for c := 0; c < n; c++ {
			p := gplot.New()
			if r == n-1 {
				p.X.Label.Text = names[c]
			}
			if c == 0 {
				p.Y.Label.Text = names[r]
			}

			if r == c {
				if h := diagonalHistogram(columns[c]); h != nil {
					p.Add(h)
				}
			} else if xys := pairedXYs(columns[c], columns[r]); len(xys) > 0 {
				s, err := plotter.NewScatter(xys)
				if err != nil {
					return nil, fmt.Errorf("scatter %s/%s: %w", names[c], names[r], err)
				}
				s.GlyphStyle.Radius = vg.Points(1.5)
				s.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 96}
				p.Add(s)
			}
			plots[r][c] = p
		}
	}

	side := vg.Length(n) * pairsTileSize
	if side < pairsMinSize {
		side = pairsMinSize
	}
	if side > pairsMaxSize {
		side = pairsMaxSize
	}

	img := vgimg.New(side, side)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	canvases := gplot.Align(plots, tiles, dc)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	var w io.WriterTo
	switch format {
	case PNG:
		w = vgimg.PngCanvas{Canvas: img}
	case JPEG:
		w = vgimg.JpegCanvas{Canvas: img}
	case TIFF:
		w = vgimg.TiffCanvas{Canvas: img}
	default:
		return nil, fmt.Errorf("%w for pairs matrix: %s", ErrUnsupportedFormat, format)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode pairs matrix: %w", err)
	}
	return buf.Bytes(), nil
}

func diagonalHistogram(values []float64) *plotter.Histogram {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	bins, err := Bins(present, pairsDiagonalBins)
	if err != nil {
		return nil
	}

	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: float64(b.Count)}
	}
	return &plotter.Histogram{
		Bins:      hb,
		Width:     bins[0].Hi - bins[0].Lo,
		FillColor: color.Gray{Y: 160},
		LineStyle: plotter.DefaultLineStyle,
	}
}

func pairedXYs(xs, ys []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return xys
}
