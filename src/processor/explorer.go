// Package processor 按配置执行一次完整的数据探索: 加载、清洗、统计、绘图与导出.
package processor

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"EdaToolkit/src/config"
	"EdaToolkit/src/dataset"
	"EdaToolkit/src/plot"
	"EdaToolkit/src/storage"

	"github.com/google/uuid"
)

// Result 一次探索的结果
type Result struct {
	RunID       string
	Started     time.Time
	Elapsed     time.Duration
	Rows        int
	Cols        int
	Columns     []string
	Description dataset.Description
	Images      []string       // 已保存的图片
	Scatters    map[string]int // "x/y" -> PlotScatter 返回值
	Exports     []string
	Failures    []string // 不影响本次运行的错误
}

// OK 没有任何非致命错误
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// Explorer 按 DataConfig 生成报告
type Explorer struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	viewer plot.Viewer
}

// NewExplorer viewer 可以为 nil, 此时图片只保存不显示
func NewExplorer(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, viewer plot.Viewer) *Explorer {
	if logger == nil {
		logger = storage.Discard()
	}
	return &Explorer{cfg: cfg, dcfg: dcfg, logger: logger, viewer: viewer}
}

// Run 执行一次探索. 加载或删除列失败时返回错误, 绘图与导出失败记录在 Result.Failures 中.
func (e *Explorer) Run() (*Result, error) {
	res := &Result{
		RunID:    uuid.NewString(),
		Started:  time.Now(),
		Scatters: make(map[string]int),
	}
	filePath := e.dcfg.GetFilePath()
	e.logger.Info(fmt.Sprintf("[%s] 开始数据探索: %s", res.RunID, filePath))

	dc, err := dataset.New(filePath, e.datasetOptions()...)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", res.RunID, err)
	}
	if e.dcfg.DropColumns.Len() > 0 {
		if err := dc.DeleteColumns(e.dcfg.DropColumns); err != nil {
			return nil, fmt.Errorf("run %s: %w", res.RunID, err)
		}
	}

	res.Rows, res.Cols = dc.Shape()
	res.Columns = dc.ColumnNames()
	res.Description = dc.Describe()

	var desc bytes.Buffer
	if err := dc.GeneralDescription(&desc); err == nil {
		e.logger.Info(desc.String())
	}

	e.histograms(dc, res)
	e.scatters(dc, res)
	if e.dcfg.Pairs {
		path := e.cfg.OutputPath("pairs.png")
		err := dc.PlotPairwiseMatrix(dataset.PairsOptions{Show: e.cfg.Show, Save: true, Path: path})
		e.record(res, path, "pairs matrix", err)
	}
	e.exports(dc, res)

	res.Elapsed = time.Since(res.Started)
	e.logger.Info(fmt.Sprintf("[%s] 数据处理时间：%v, 图片 %d 张, 失败 %d 项",
		res.RunID, res.Elapsed, len(res.Images), len(res.Failures)))
	return res, nil
}

func (e *Explorer) datasetOptions() []dataset.Option {
	opts := []dataset.Option{
		dataset.WithLogger(e.logger),
		dataset.WithEncoding(e.dcfg.Encoding),
		dataset.WithSheet(e.dcfg.SheetName),
	}
	if e.dcfg.NaValues != nil {
		opts = append(opts, dataset.WithNaValues(e.dcfg.NaValues...))
	}
	if rules := e.dcfg.GetCleanRules(); len(rules) > 0 {
		opts = append(opts, dataset.WithCleaning(rules))
	}
	if e.viewer != nil && e.cfg.Show {
		opts = append(opts, dataset.WithViewer(e.viewer))
	}
	return opts
}

func (e *Explorer) histograms(dc *dataset.DataContainer, res *Result) {
	for _, h := range e.dcfg.Histograms {
		opts := dataset.DefaultHistogramOptions()
		if h.Bins > 0 {
			opts.Bins = h.Bins
		}
		opts.Show = e.cfg.Show
		opts.Save = true
		opts.Path = e.cfg.OutputPath("hist_" + fileSafe(h.Column) + ".png")
		e.record(res, opts.Path, "histogram of "+h.Column, dc.PlotHistogram(h.Column, opts))
	}
}

// scatters 返回 1 的组合记为失败, 继续绘制其余组合
func (e *Explorer) scatters(dc *dataset.DataContainer, res *Result) {
	for _, s := range e.dcfg.Scatters {
		title := s.Title
		if title == "" {
			title = s.X + " vs " + s.Y
		}
		path := e.cfg.OutputPath("scatter_" + fileSafe(s.X) + "_" + fileSafe(s.Y) + ".png")
		status := dc.PlotScatter(s.X, s.Y, title, dataset.ScatterOptions{Show: e.cfg.Show, Save: true, Path: path})
		res.Scatters[s.X+"/"+s.Y] = status

		var err error
		if status != dataset.StatusOK {
			err = fmt.Errorf("status %d", status)
		}
		e.record(res, path, "scatter "+title, err)
	}
}

func (e *Explorer) exports(dc *dataset.DataContainer, res *Result) {
	if name := e.dcfg.Exports.Excel; name != "" {
		path := e.cfg.OutputPath(name)
		if err := dc.SaveToExcel(path); err != nil {
			e.fail(res, "excel export", err)
		} else {
			res.Exports = append(res.Exports, path)
		}
	}
	if name := e.dcfg.Exports.Parquet; name != "" {
		path := e.cfg.OutputPath(name)
		if err := dc.SaveToParquet(path); err != nil {
			e.fail(res, "parquet export", err)
		} else {
			res.Exports = append(res.Exports, path)
		}
	}
}

func (e *Explorer) record(res *Result, path, what string, err error) {
	if err != nil {
		e.fail(res, what, err)
		return
	}
	res.Images = append(res.Images, path)
}

func (e *Explorer) fail(res *Result, what string, err error) {
	msg := fmt.Sprintf("%s: %v", what, err)
	res.Failures = append(res.Failures, msg)
	e.logger.Warning(fmt.Sprintf("[%s] %s", res.RunID, msg))
}

// fileSafe 将列名转换为可用作文件名的形式
func fileSafe(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if s == "" {
		return "column"
	}
	return s
}
