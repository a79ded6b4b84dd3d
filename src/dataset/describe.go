package dataset

import (
	"math"
	"sort"

	"EdaToolkit/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// 描述统计各行的标签
var describeLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// ColumnSummary 单个数值列的统计量, 只统计非缺失值.
// Count 为 0 时其余字段均为 NaN.
type ColumnSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

func (s ColumnSummary) values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// Description 按列顺序排列的统计摘要
type Description []ColumnSummary

// Column 按列名查找
func (d Description) Column(name string) (ColumnSummary, bool) {
	for _, s := range d {
		if s.Name == name {
			return s, true
		}
	}
	return ColumnSummary{}, false
}

// Frame 转换为 DataFrame: 第一列为统计量名称, 之后每个数值列一列
func (d Description) Frame() dataframe.DataFrame {
	columns := []series.Series{series.New(describeLabels, series.String, "stat")}
	for _, s := range d {
		columns = append(columns, series.New(s.values(), series.Float, s.Name))
	}
	return dataframe.New(columns...)
}

func (d Description) String() string {
	return d.Frame().String()
}

// Describe 计算每个数值列的 count/mean/std/min/25%/50%/75%/max
func (dc *DataContainer) Describe() Description {
	var d Description
	for _, name := range utils.NumericColumns(dc.df) {
		d = append(d, summarize(name, presentValues(dc.df.Col(name))))
	}
	return d
}

func summarize(name string, values []float64) ColumnSummary {
	s := ColumnSummary{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// 样本标准差, 单个值时为 NaN
	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		s.Std = math.NaN()
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile 在相邻顺序统计量之间线性插值, sorted 必须非空且有序
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
