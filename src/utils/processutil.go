package utils

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNumeric 判断列是否为数值类型(Int/Float)
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

// NumericColumns 按原顺序返回数值列的列名
func NumericColumns(df dataframe.DataFrame) []string {
	var names []string
	for _, name := range df.Names() {
		if IsNumeric(df.Col(name)) {
			names = append(names, name)
		}
	}
	return names
}

// MissingColumns 返回 names 中 DataFrame 不存在的列
func MissingColumns(df dataframe.DataFrame, names ...string) []string {
	var missing []string
	for _, name := range names {
		if !HasColumn(df, name) && !Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// DimensionString 以 (行, 列) 格式输出维度
func DimensionString(df dataframe.DataFrame) string {
	rows, cols := df.Dims()
	return fmt.Sprintf("(%d, %d)", rows, cols)
}
