package plot

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Bin 直方图的一个区间 [Lo, Hi), 最后一个区间包含 Hi
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Bins 在观测值范围内划分 n 个等宽区间并计数.
// 所有值相同时范围扩展为 [v-0.5, v+0.5].
func Bins(values []float64, n int) ([]Bin, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bin count must be positive, got %d", n)
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	x := make([]float64, len(values))
	copy(x, values)
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	// 按 lo*(1-t)+hi*t 插值, hi-lo 超出 float64 范围时也不会溢出
	dividers := make([]float64, n+1)
	dividers[0], dividers[n] = lo, hi
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		dividers[i] = math.Min(math.Max(lo*(1-t)+hi*t, dividers[i-1]), hi)
	}

	// stat.Histogram 的最后一个分隔点是开区间, 最大值需要落在最后一个区间内
	upper := dividers[n]
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(make([]float64, n), dividers, x, nil)
	dividers[n] = upper

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	return bins, nil
}
