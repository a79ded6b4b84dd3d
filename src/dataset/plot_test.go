package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"EdaToolkit/src/storage"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type recordingViewer struct {
	titles []string
	images [][]byte
	err    error
}

func (v *recordingViewer) Show(title string, image []byte) error {
	v.titles = append(v.titles, title)
	v.images = append(v.images, image)
	return v.err
}

const numbersCSV = "x,y,label,ratio\n1,10,Yes,0.5\n2,20,No,1.5\n3,25,Yes,2\n4,40,No,2.5\n"

func TestPlotScatterStatus(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same column", "x", "x", StatusFailed},
		{"integer columns", "x", "y", StatusOK},
		{"non numeric text", "x", "label", StatusFailed},
		{"float column", "ratio", "y", StatusOK},
		{"absent column", "x", "height", StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := newContainer(t, numbersCSV)
			opts := ScatterOptions{}
			if got := dc.PlotScatter(tt.a, tt.b, tt.name, opts); got != tt.want {
				t.Errorf("PlotScatter(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPlotScatterSameColumnAlwaysFails(t *testing.T) {
	var buf bytes.Buffer
	viewer := &recordingViewer{}
	dc := newContainer(t, numbersCSV, WithLogger(storage.NewWriterLogger(&buf)), WithViewer(viewer))
	for _, col := range dc.ColumnNames() {
		if got := dc.PlotScatter(col, col, "t", DefaultScatterOptions()); got != StatusFailed {
			t.Errorf("PlotScatter(%q, %q) = %d", col, col, got)
		}
	}
	if len(viewer.titles) != 0 {
		t.Error("nothing should be shown")
	}
	if !strings.Contains(buf.String(), "Same variables") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestPlotScatterMissingValue(t *testing.T) {
	dc := newContainer(t, scenarioCSV)
	if got := dc.PlotScatter("age", "outcome", "age vs outcome", ScatterOptions{}); got != StatusFailed {
		t.Errorf("missing value should fail, got %d", got)
	}

	if err := dc.FilterRowsByValue(Rules{"sex": One[any]("M")}); err != nil {
		t.Fatal(err)
	}
	if got := dc.PlotScatter("age", "outcome", "age vs outcome", ScatterOptions{}); got != StatusOK {
		t.Errorf("after cleaning got %d, want 0", got)
	}
}

func TestPlotScatterEmptyTable(t *testing.T) {
	dc := newContainer(t, "x,y\n1,2\n")
	if err := dc.FilterRowsByValue(Rules{"x": One[any](1)}); err != nil {
		t.Fatal(err)
	}
	if got := dc.PlotScatter("x", "y", "empty", ScatterOptions{}); got != StatusFailed {
		t.Errorf("empty table got %d", got)
	}
}

func TestPlotScatterSaveAndShow(t *testing.T) {
	viewer := &recordingViewer{}
	dc := newContainer(t, numbersCSV, WithViewer(viewer))
	path := filepath.Join(t.TempDir(), "plots", "scatter.svg")

	got := dc.PlotScatter("x", "y", "x vs y", ScatterOptions{Show: true, Save: true, Path: path})
	if got != StatusOK {
		t.Fatalf("status = %d", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("saved file is not an SVG")
	}
	if len(viewer.titles) != 1 || viewer.titles[0] != "x vs y" || !bytes.HasPrefix(viewer.images[0], pngMagic) {
		t.Errorf("viewer got %v", viewer.titles)
	}

	// 保存失败返回 1
	if got := dc.PlotScatter("x", "y", "bad", ScatterOptions{Save: true, Path: "scatter.bmp"}); got != StatusFailed {
		t.Errorf("unsupported format status = %d", got)
	}
	// 显示失败返回 1
	viewer.err = errors.New("no display")
	if got := dc.PlotScatter("x", "y", "x vs y", ScatterOptions{Show: true}); got != StatusFailed {
		t.Errorf("viewer failure status = %d", got)
	}
}

func TestPlotHistogram(t *testing.T) {
	viewer := &recordingViewer{}
	dc := newContainer(t, scenarioCSV, WithViewer(viewer))
	path := filepath.Join(t.TempDir(), "hist.png")

	opts := DefaultHistogramOptions()
	opts.Save = true
	opts.Path = path
	if err := dc.PlotHistogram("outcome", opts); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("saved histogram is not a PNG")
	}
	if len(viewer.titles) != 1 || viewer.titles[0] != "outcome" {
		t.Errorf("viewer got %v", viewer.titles)
	}
}

func TestPlotHistogramErrors(t *testing.T) {
	dc := newContainer(t, numbersCSV)
	if err := dc.PlotHistogram("height", DefaultHistogramOptions()); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("absent column err = %v", err)
	}
	if err := dc.PlotHistogram("label", DefaultHistogramOptions()); !errors.Is(err, ErrNonNumericColumn) {
		t.Errorf("text column err = %v", err)
	}
	if err := dc.PlotHistogram("x", HistogramOptions{Bins: 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero bins err = %v", err)
	}
}

func TestPlotHistogramWithoutViewer(t *testing.T) {
	var buf bytes.Buffer
	dc := newContainer(t, numbersCSV, WithLogger(storage.NewWriterLogger(&buf)))
	if err := dc.PlotHistogram("x", DefaultHistogramOptions()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No viewer configured") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestPlotPairwiseMatrix(t *testing.T) {
	dc := newContainer(t, numbersCSV)
	path := filepath.Join(t.TempDir(), "pairs.png")
	if err := dc.PlotPairwiseMatrix(PairsOptions{Save: true, Path: path}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("pairs matrix is not a PNG")
	}

	text := newContainer(t, "a,b\nx,y\n")
	if err := text.PlotPairwiseMatrix(DefaultPairsOptions()); !errors.Is(err, ErrNonNumericColumn) {
		t.Errorf("no numeric columns err = %v", err)
	}
}

func TestIsIntegerParseable(t *testing.T) {
	dc := newContainer(t, "i,f,s,b\n1,1.5,7,true\n?,?, 8 ,false\n")
	df := dc.GetDF()
	tests := []struct {
		col  string
		row  int
		want bool
	}{
		{"i", 0, true},
		{"i", 1, false},
		{"f", 0, true},
		{"f", 1, false},
		{"b", 0, true},
	}
	for _, tt := range tests {
		if got := isIntegerParseable(df.Col(tt.col).Elem(tt.row)); got != tt.want {
			t.Errorf("%s[%d] = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
	if !allIntegers(df.Col("b")) {
		t.Error("bool column should pass")
	}
}
