package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// OneOrMany 单个值或一组值.
// JSON 中既可以写标量也可以写数组: {"phase": [1, 5]} 或 {"sex": "M"}.
type OneOrMany[T any] struct {
	values []T
}

// One 单个值
func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{values: []T{v}}
}

// Many 一组值
func Many[T any](vs ...T) OneOrMany[T] {
	return OneOrMany[T]{values: append([]T(nil), vs...)}
}

// Values 返回全部值
func (o OneOrMany[T]) Values() []T {
	return o.values
}

// Len 值的个数
func (o OneOrMany[T]) Len() int {
	return len(o.values)
}

// UnmarshalJSON 实现json.Unmarshaler接口
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var vs []T
		if err := json.Unmarshal(trimmed, &vs); err != nil {
			return err
		}
		o.values = vs
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	o.values = []T{v}
	return nil
}

// MarshalJSON 实现json.Marshaler接口, 单个值写为标量
func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if len(o.values) == 1 {
		return json.Marshal(o.values[0])
	}
	if o.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.values)
}

func (o OneOrMany[T]) String() string {
	if len(o.values) == 1 {
		return fmt.Sprint(o.values[0])
	}
	return fmt.Sprint(o.values)
}

// Rules 清洗规则: 列名 -> 需要剔除的值
type Rules map[string]OneOrMany[any]

// Columns 按名称排序返回规则涉及的列
func (r Rules) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
