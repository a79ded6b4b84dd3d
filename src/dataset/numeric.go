package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// isIntegerParseable NA 不可解析; 浮点值只要有限即可
func isIntegerParseable(el series.Element) bool {
	if el.IsNA() {
		return false
	}
	switch el.Type() {
	case series.Int, series.Bool:
		return true
	case series.Float:
		f := el.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		_, err := strconv.Atoi(strings.TrimSpace(el.String()))
		return err == nil
	}
}

// allIntegers 列中每个值都可以解析为整数
func allIntegers(s series.Series) bool {
	for i := 0; i < s.Len(); i++ {
		if !isIntegerParseable(s.Elem(i)) {
			return false
		}
	}
	return true
}

// presentValues 数值列的非缺失值
func presentValues(s series.Series) []float64 {
	values := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		if f := el.Float(); !math.IsNaN(f) {
			values = append(values, f)
		}
	}
	return values
}

// numericValues 将列解析为有限浮点数, 忽略缺失值.
// 任一非缺失值无法解析时 ok 为 false.
func numericValues(s series.Series) (values []float64, ok bool) {
	values = make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		var f float64
		switch el.Type() {
		case series.Int, series.Float, series.Bool:
			f = el.Float()
		default:
			v, err := strconv.ParseFloat(strings.TrimSpace(el.String()), 64)
			if err != nil {
				return nil, false
			}
			f = v
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		values = append(values, f)
	}
	return values, true
}

// columnFloats 按行返回浮点值, 缺失值为 NaN
func columnFloats(s series.Series) []float64 {
	values := make([]float64, s.Len())
	for i := range values {
		el := s.Elem(i)
		if el.IsNA() {
			values[i] = math.NaN()
			continue
		}
		values[i] = el.Float()
	}
	return values
}
