package dataset

import (
	"fmt"

	"EdaToolkit/src/datapush"
)

// SaveToExcel 将当前表写入 Excel, 缺失值写为空单元格
func (dc *DataContainer) SaveToExcel(path string) error {
	if err := datapush.SaveToExcel(dc.df, path); err != nil {
		return err
	}
	dc.logger.Info(fmt.Sprintf("处理后的数据已保存到: %s", path))
	return nil
}

// SaveToParquet 将当前表写入 Parquet 文件
func (dc *DataContainer) SaveToParquet(path string) error {
	if err := datapush.SaveToParquet(dc.df, path); err != nil {
		return err
	}
	dc.logger.Info(fmt.Sprintf("处理后的数据已保存到: %s", path))
	return nil
}
