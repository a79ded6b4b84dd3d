package dataset

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDescribe(t *testing.T) {
	dc := newContainer(t, "a,b,name\n1,10,x\n2,?,y\n3,30,z\n4,40,w\n")
	d := dc.Describe()

	if len(d) != 2 {
		t.Fatalf("got %d summaries, want 2 (string column excluded)", len(d))
	}
	if _, ok := d.Column("name"); ok {
		t.Error("string column must not be described")
	}

	a, ok := d.Column("a")
	if !ok {
		t.Fatal("column a missing")
	}
	want := ColumnSummary{Name: "a", Count: 4, Mean: 2.5, Std: math.Sqrt(5.0 / 3.0), Min: 1, Q25: 1.75, Q50: 2.5, Q75: 3.25, Max: 4}
	got := a
	if got.Count != want.Count || !approx(got.Mean, want.Mean) || !approx(got.Std, want.Std) ||
		got.Min != want.Min || !approx(got.Q25, want.Q25) || !approx(got.Q50, want.Q50) ||
		!approx(got.Q75, want.Q75) || got.Max != want.Max {
		t.Errorf("a = %+v, want %+v", got, want)
	}

	// 缺失值不参与统计
	b, _ := d.Column("b")
	if b.Count != 3 || !approx(b.Mean, 80.0/3.0) || b.Min != 10 || b.Max != 40 || !approx(b.Q50, 30) {
		t.Errorf("b = %+v", b)
	}
}

func TestDescribeEdgeCases(t *testing.T) {
	dc := newContainer(t, "one,none\n7,?\n")
	d := dc.Describe()

	one, ok := d.Column("one")
	if !ok {
		t.Fatal("column one missing")
	}
	if one.Count != 1 || one.Mean != 7 || one.Q25 != 7 || one.Max != 7 {
		t.Errorf("one = %+v", one)
	}
	if !math.IsNaN(one.Std) {
		t.Errorf("std of a single value = %v, want NaN", one.Std)
	}

	// 全部缺失的列按字符串处理, 不出现在统计中
	if _, ok := d.Column("none"); ok {
		t.Error("all-missing column should not be numeric")
	}

	empty := summarize("x", nil)
	if empty.Count != 0 || !math.IsNaN(empty.Mean) || !math.IsNaN(empty.Max) {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestDescriptionFrame(t *testing.T) {
	dc := newContainer(t, scenarioCSV)
	frame := dc.Describe().Frame()

	if rows, cols := frame.Dims(); rows != 8 || cols != 3 {
		t.Fatalf("frame dims = (%d, %d), want (8, 3)", rows, cols)
	}
	labels := frame.Col("stat").Records()
	if labels[0] != "count" || labels[4] != "25%" || labels[7] != "max" {
		t.Errorf("labels = %v", labels)
	}
	if count := frame.Col("outcome").Elem(0).Float(); count != 2 {
		t.Errorf("outcome count = %v, want 2", count)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := map[float64]float64{0: 1, 0.25: 2, 0.5: 3, 0.75: 4, 1: 5, 0.1: 1.4}
	for p, want := range tests {
		if got := quantile(sorted, p); !approx(got, want) {
			t.Errorf("quantile(%v) = %v, want %v", p, got, want)
		}
	}
}
