package dataset

import "errors"

// 错误分类, 使用 errors.Is 判断
var (
	// ErrLoad 文件无法读取或解析
	ErrLoad = errors.New("load error")
	// ErrInvalidArgument 清洗规则或绘图参数不合法
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrColumnNotFound 引用了不存在的列
	ErrColumnNotFound = errors.New("column not found")
	// ErrNonNumericColumn 列中存在无法解析为数值的值
	ErrNonNumericColumn = errors.New("non-numeric column")
)
