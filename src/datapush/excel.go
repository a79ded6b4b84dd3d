package datapush

import (
	"fmt"
	"path/filepath"

	"EdaToolkit/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet 导出使用的工作表
const DefaultSheet = "Sheet1"

// SaveToExcel 将 DataFrame 写入 xlsx 文件, 首行为列名, 缺失值写为空单元格
func SaveToExcel(df dataframe.DataFrame, filePath string) error {
	if df.Err != nil {
		return fmt.Errorf("invalid dataframe: %w", df.Err)
	}
	if err := file.EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(DefaultSheet, cell, name); err != nil {
			return fmt.Errorf("写入列名失败: %w", err)
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < col.Len(); rowIdx++ {
			el := col.Elem(rowIdx)
			if el.IsNA() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(DefaultSheet, cell, cellValue(el)); err != nil {
				return fmt.Errorf("写入单元格 %s 失败: %w", cell, err)
			}
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func cellValue(el series.Element) any {
	switch el.Type() {
	case series.Int:
		if v, err := el.Int(); err == nil {
			return v
		}
	case series.Float:
		return el.Float()
	case series.Bool:
		if v, err := el.Bool(); err == nil {
			return v
		}
	}
	return el.String()
}
