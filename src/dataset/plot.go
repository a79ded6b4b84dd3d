package dataset

import (
	"fmt"

	"EdaToolkit/src/plot"
	"EdaToolkit/src/utils"
)

// PlotScatter 的返回状态
const (
	StatusOK     = 0
	StatusFailed = 1
)

// HistogramOptions 直方图参数
type HistogramOptions struct {
	Bins int
	Show bool
	Save bool
	Path string
}

// DefaultHistogramOptions 50 个分箱, 显示但不保存
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{Bins: 50, Show: true, Path: "hist_test.png"}
}

// ScatterOptions 散点图参数
type ScatterOptions struct {
	Show bool
	Save bool
	Path string
}

// DefaultScatterOptions 显示但不保存
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{Show: true, Path: "scatter_test.png"}
}

// PairsOptions 散点矩阵参数
type PairsOptions struct {
	Show bool
	Save bool
	Path string
}

// DefaultPairsOptions 显示但不保存
func DefaultPairsOptions() PairsOptions {
	return PairsOptions{Show: true, Path: "pairs_test.png"}
}

// PlotHistogram 绘制单列的等宽直方图, 忽略缺失值
func (dc *DataContainer) PlotHistogram(column string, opts HistogramOptions) error {
	if opts.Bins <= 0 {
		return fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidArgument, opts.Bins)
	}
	s, err := dc.column(column)
	if err != nil {
		return err
	}
	values, ok := numericValues(s)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNonNumericColumn, column)
	}

	bins, err := plot.Bins(values, opts.Bins)
	if err != nil {
		return fmt.Errorf("histogram of %q: %w", column, err)
	}
	return dc.output(column, opts.Show, opts.Save, opts.Path, func(f plot.Format) ([]byte, error) {
		return plot.Histogram(column, bins, f)
	})
}

// PlotScatter 绘制两列散点图, 成功返回 StatusOK.
// 两列相同、列不存在、存在无法解析为整数的值或绘图失败时返回 StatusFailed, 原因写入日志.
func (dc *DataContainer) PlotScatter(columnA, columnB, title string, opts ScatterOptions) int {
	if columnA == columnB {
		dc.logger.Warning("Same variables")
		return StatusFailed
	}

	for _, name := range []string{columnA, columnB} {
		s, err := dc.column(name)
		if err != nil {
			dc.logger.Warning(err.Error())
			return StatusFailed
		}
		if !allIntegers(s) {
			dc.logger.Warning(fmt.Sprintf("%s has not all numbers", name))
			return StatusFailed
		}
		dc.logger.Info(fmt.Sprintf("%s has numbers", name))
	}

	if dc.df.Nrow() == 0 {
		dc.logger.Warning("No rows to plot")
		return StatusFailed
	}

	xs := columnFloats(dc.df.Col(columnA))
	ys := columnFloats(dc.df.Col(columnB))
	dc.logger.Info(fmt.Sprintf("Plotting graphs with x=%s and y=%s", columnA, columnB))
	err := dc.output(title, opts.Show, opts.Save, opts.Path, func(f plot.Format) ([]byte, error) {
		return plot.Scatter(title, columnA, columnB, xs, ys, f)
	})
	if err != nil {
		dc.logger.Error(fmt.Sprintf("scatter %s/%s: %v", columnA, columnB, err))
		return StatusFailed
	}
	return StatusOK
}

// PlotPairwiseMatrix 对所有数值列绘制散点矩阵, 对角线为直方图
func (dc *DataContainer) PlotPairwiseMatrix(opts PairsOptions) error {
	names := utils.NumericColumns(dc.df)
	if len(names) == 0 {
		return fmt.Errorf("%w: no numeric columns for pairs matrix", ErrNonNumericColumn)
	}

	columns := make([][]float64, len(names))
	for i, name := range names {
		columns[i] = columnFloats(dc.df.Col(name))
	}
	return dc.output("pairs", opts.Show, opts.Save, opts.Path, func(f plot.Format) ([]byte, error) {
		return plot.PairsMatrix(names, columns, f)
	})
}

// output 按需保存到文件并交给 Viewer 显示
func (dc *DataContainer) output(title string, show, save bool, path string, render func(plot.Format) ([]byte, error)) error {
	if save {
		format, err := plot.FormatFromPath(path)
		if err != nil {
			return err
		}
		data, err := render(format)
		if err != nil {
			return err
		}
		if err := plot.Save(path, data); err != nil {
			return err
		}
		dc.logger.Info(fmt.Sprintf("Saved %s to %s", title, path))
	}

	if !show {
		return nil
	}
	if dc.viewer == nil {
		dc.logger.Warning(fmt.Sprintf("No viewer configured, %s not shown", title))
		return nil
	}
	data, err := render(plot.PNG)
	if err != nil {
		return err
	}
	return dc.viewer.Show(title, data)
}
