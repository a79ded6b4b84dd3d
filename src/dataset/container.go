// Package dataset 封装 gota DataFrame, 提供探索性分析常用的清洗、统计与绘图工具.
package dataset

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"EdaToolkit/src/datasource/file"
	"EdaToolkit/src/plot"
	"EdaToolkit/src/storage"
	"EdaToolkit/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DataContainer 持有一个从文件加载的表
type DataContainer struct {
	filepath string
	naValues []string
	df       dataframe.DataFrame
	logger   *storage.Logger
	viewer   plot.Viewer
}

type options struct {
	naValues []string
	clean    Rules
	encoding string
	sheet    string
	logger   *storage.Logger
	viewer   plot.Viewer
}

// Option 构造参数
type Option func(*options)

// WithNaValues 设置缺失值标记, 默认 {"?", "", "unknown"}
func WithNaValues(values ...string) Option {
	return func(o *options) { o.naValues = append([]string{}, values...) }
}

// WithCleaning 加载后立即按规则剔除行
func WithCleaning(rules Rules) Option {
	return func(o *options) { o.clean = rules }
}

// WithEncoding CSV 文件编码(utf-8 / gbk / gb18030)
func WithEncoding(encoding string) Option {
	return func(o *options) { o.encoding = encoding }
}

// WithSheet xlsx 文件的工作表名
func WithSheet(sheet string) Option {
	return func(o *options) { o.sheet = sheet }
}

// WithLogger 诊断信息输出
func WithLogger(logger *storage.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithViewer 交互式显示图片
func WithViewer(viewer plot.Viewer) Option {
	return func(o *options) { o.viewer = viewer }
}

// New 加载 filePath, 命中缺失值标记的单元格记为 NA.
// 提供清洗规则时在加载后立即调用 FilterRowsByValue.
func New(filePath string, opts ...Option) (*DataContainer, error) {
	o := options{naValues: file.DefaultNaValues}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = storage.Discard()
	}

	df, err := file.ReadDataFrame(filePath, file.ReadOptions{
		NaValues:  o.naValues,
		Encoding:  o.encoding,
		SheetName: o.sheet,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	dc := &DataContainer{
		filepath: filePath,
		naValues: o.naValues,
		df:       df,
		logger:   o.logger,
		viewer:   o.viewer,
	}

	if len(o.clean) > 0 {
		dc.logger.Info("Asked to clean the dataframe.")
		dc.logger.Info(fmt.Sprintf("Dimension before cleaning is %s.", utils.DimensionString(dc.df)))
		if err := dc.FilterRowsByValue(o.clean); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func (dc *DataContainer) String() string {
	return fmt.Sprintf("Dataframe originated using csv file %s.", dc.filepath)
}

// FilePath 源文件路径
func (dc *DataContainer) FilePath() string {
	return dc.filepath
}

// NaValues 缺失值标记
func (dc *DataContainer) NaValues() []string {
	return append([]string(nil), dc.naValues...)
}

// GetDF 获取当前DataFrame
func (dc *DataContainer) GetDF() dataframe.DataFrame {
	return dc.df
}

// FilterRowsByValue 剔除任一规则命中的行, 剩余行保持原顺序.
// 规则引用不存在的列时返回 ErrColumnNotFound, 此时不做任何修改.
func (dc *DataContainer) FilterRowsByValue(rules Rules) error {
	cols := rules.Columns()
	if missing := utils.MissingColumns(dc.df, cols...); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, strings.Join(missing, ", "))
	}
	for _, col := range cols {
		if rules[col].Len() == 0 {
			return fmt.Errorf("%w: no values to exclude for column %q", ErrInvalidArgument, col)
		}
	}
	if dc.df.Nrow() == 0 {
		return nil
	}

	df := dc.df
	for _, col := range cols {
		values := rules[col].Values()
		df = df.Filter(dataframe.F{
			Colname:    col,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !matchesAny(el, values)
			},
		})
		if df.Err != nil {
			return fmt.Errorf("filter column %q: %w", col, df.Err)
		}
	}
	dc.df = df
	return nil
}

// DeleteColumns 删除一列或多列, 任一列不存在时返回 ErrColumnNotFound 且不做修改.
// gota 不支持没有列的表, 删除全部列时返回 ErrInvalidArgument.
func (dc *DataContainer) DeleteColumns(names OneOrMany[string]) error {
	if names.Len() == 0 {
		return fmt.Errorf("%w: no columns to delete", ErrInvalidArgument)
	}

	if missing := utils.MissingColumns(dc.df, names.Values()...); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, strings.Join(missing, ", "))
	}
	var drop []string
	for _, name := range names.Values() {
		if !utils.Contains(drop, name) {
			drop = append(drop, name)
		}
	}
	// gota 不支持没有列的 DataFrame
	if len(drop) == dc.df.Ncol() {
		return fmt.Errorf("%w: cannot delete every column", ErrInvalidArgument)
	}

	df := dc.df.Drop(drop)
	if df.Err != nil {
		return fmt.Errorf("delete columns: %w", df.Err)
	}
	dc.df = df
	return nil
}

// Shape 返回 (行数, 列数)
func (dc *DataContainer) Shape() (int, int) {
	return dc.df.Dims()
}

// ColumnNames 按顺序返回列名
func (dc *DataContainer) ColumnNames() []string {
	return dc.df.Names()
}

// ColumnIndex 以 series 形式返回列名, 顺序与 ColumnNames 相同
func (dc *DataContainer) ColumnIndex() series.Series {
	return series.New(dc.df.Names(), series.String, "columns")
}

// GeneralDescription 输出来源、统计描述与维度
func (dc *DataContainer) GeneralDescription(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\nData description:\n%s\nDimension:\n%s\n",
		dc, dc.Describe(), utils.DimensionString(dc.df))
	return err
}

func (dc *DataContainer) column(name string) (series.Series, error) {
	if !utils.HasColumn(dc.df, name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return dc.df.Col(name), nil
}

// matchesAny NA 不等于任何值
func matchesAny(el series.Element, values []any) bool {
	if el.IsNA() {
		return false
	}
	for _, v := range values {
		if matchesValue(el, v) {
			return true
		}
	}
	return false
}

func matchesValue(el series.Element, v any) bool {
	switch want := v.(type) {
	case nil:
		return false
	case string:
		switch el.Type() {
		case series.Int, series.Float:
			f, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
			return err == nil && el.Float() == f
		default:
			return el.String() == want
		}
	case bool:
		b, err := el.Bool()
		return err == nil && b == want
	default:
		f, ok := toFloat(want)
		if !ok {
			return el.String() == fmt.Sprint(want)
		}
		got := el.Float()
		return !math.IsNaN(got) && got == f
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
