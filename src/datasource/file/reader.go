// reader.go
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultNaValues 默认识别为缺失值的标记
var DefaultNaValues = []string{"?", "", "unknown"}

// ErrEmptyFile 文件没有表头行
var ErrEmptyFile = errors.New("file has no header row")

// ReadOptions 读取配置
type ReadOptions struct {
	NaValues  []string // 缺失值标记, nil 时使用 DefaultNaValues
	Encoding  string   // CSV 编码: utf-8(默认) / gbk / gb18030
	SheetName string   // xlsx 工作表名, 为空时取第一个
	HeaderRow int      // xlsx 表头所在行(从0开始)
}

func (o ReadOptions) naValues() []string {
	if o.NaValues == nil {
		return DefaultNaValues
	}
	return o.NaValues
}

// ReadDataFrame 根据扩展名选择 CSV 或 XLSX 读取方式
func ReadDataFrame(filePath string, opts ReadOptions) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSXToDataFrame(filePath, opts)
	default:
		return ReadCSVToDataFrame(filePath, opts)
	}
}

// ReadCSVToDataFrame 读取带表头的逗号分隔文件, 命中缺失值标记的单元格记为 NA
func ReadCSVToDataFrame(filePath string, opts ReadOptions) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r, err := decodeReader(f, opts.Encoding)
	if err != nil {
		return dataframe.New(), err
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to parse csv file %s: %w", filePath, err)
	}
	df, err := recordsToDataFrame(records, opts.naValues())
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to parse csv file %s: %w", filePath, err)
	}
	return df, nil
}

// decodeReader 按配置的编码转码为 UTF-8
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		// 去掉可能存在的 BOM
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "gbk":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	case "gb18030":
		return transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// ReadXLSXToDataFrame 读取 xlsx 工作表
func ReadXLSXToDataFrame(filePath string, opts ReadOptions) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to open xlsx file: %w", err)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("xlsx file %s has no sheets", filePath)
	}
	sheet := xlFile.Sheets[0]
	if opts.SheetName != "" {
		s, ok := xlFile.Sheet[opts.SheetName]
		if !ok {
			return dataframe.New(), fmt.Errorf("sheet %q not found in %s", opts.SheetName, filePath)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	records, err := sheetRecords(sheet, opts.HeaderRow)
	if err != nil {
		return dataframe.New(), err
	}
	return recordsToDataFrame(records, opts.naValues())
}

// sheetRecords 将xlsx.Sheet转换为二维字符串, 短行补齐为空字符串
func sheetRecords(sheet *xlsx.Sheet, headerRow int) ([][]string, error) {
	if headerRow < 0 || headerRow >= len(sheet.Rows) || sheet.Rows[headerRow] == nil {
		return nil, ErrEmptyFile
	}

	// 获取列名
	var headers []string
	for _, cell := range sheet.Rows[headerRow].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}
	// 去掉表头末尾的空列
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, ErrEmptyFile
	}

	records := make([][]string, 0, len(sheet.Rows)-headerRow)
	records = append(records, headers)

	// 填充数据(从表头下一行开始)
	for _, row := range sheet.Rows[headerRow+1:] {
		record := make([]string, len(headers))
		if row != nil {
			for i, cell := range row.Cells {
				if i < len(headers) { // 确保不超出列数范围
					record[i] = cell.Value
				}
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// recordsToDataFrame 首行为表头; 只有表头时返回 0 行的表, 每列为空字符串列
func recordsToDataFrame(records [][]string, naValues []string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.New(), ErrEmptyFile
	}
	if len(records) == 1 {
		columns := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			columns[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(columns...)
		return df, df.Err
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return dataframe.New(), df.Err
	}
	return df, nil
}

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return nil
	}
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}
