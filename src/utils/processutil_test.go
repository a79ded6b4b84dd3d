package utils

import (
	"reflect"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func testFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{25, 40}, series.Int, "age"),
		series.New([]string{"F", "M"}, series.String, "sex"),
		series.New([]float64{1.5, 2.5}, series.Float, "score"),
	)
}

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") {
		t.Error("b should be found")
	}
	if Contains([]int{1, 2}, 3) {
		t.Error("3 should not be found")
	}
}

func TestHasColumn(t *testing.T) {
	df := testFrame()
	if !HasColumn(df, "sex") || HasColumn(df, "height") {
		t.Error("HasColumn mismatch")
	}
}

func TestNumericColumns(t *testing.T) {
	got := NumericColumns(testFrame())
	want := []string{"age", "score"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMissingColumns(t *testing.T) {
	got := MissingColumns(testFrame(), "age", "height", "height", "weight")
	want := []string{"height", "weight"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDimensionString(t *testing.T) {
	if got := DimensionString(testFrame()); got != "(2, 3)" {
		t.Errorf("got %s", got)
	}
}
