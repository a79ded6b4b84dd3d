package datapush

import (
	"fmt"
	"os"
	"path/filepath"

	"EdaToolkit/src/datasource/file"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ToArrowTable 将 DataFrame 转为 Arrow 表, 缺失值为 null.
// 调用方负责 Release.
func ToArrowTable(df dataframe.DataFrame, mem memory.Allocator) (arrow.Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid dataframe: %w", df.Err)
	}

	names := df.Names()
	fields := make([]arrow.Field, len(names))
	columns := make([]arrow.Column, len(names))
	for i, name := range names {
		col := df.Col(name)
		field := arrow.Field{Name: name, Type: arrowType(col.Type()), Nullable: true}
		fields[i] = field

		arr, err := buildArray(mem, field.Type, col)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
		arr.Release()
		columns[i] = *arrow.NewColumn(field, chunked)
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	table := array.NewTable(schema, columns, int64(df.Nrow()))
	for i := range columns {
		columns[i].Release()
	}
	return table, nil
}

// SaveToParquet 以 Snappy 压缩写出 Parquet 文件
func SaveToParquet(df dataframe.DataFrame, filePath string) error {
	table, err := ToArrowTable(df, memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer table.Release()

	if err := file.EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer out.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), out, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func arrowType(t series.Type) arrow.DataType {
	switch t {
	case series.Int:
		return arrow.PrimitiveTypes.Int64
	case series.Float:
		return arrow.PrimitiveTypes.Float64
	case series.Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func buildArray(mem memory.Allocator, dt arrow.DataType, col series.Series) (arrow.Array, error) {
	builder := array.NewBuilder(mem, dt)
	defer builder.Release()

	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		if el.IsNA() {
			builder.AppendNull()
			continue
		}
		switch b := builder.(type) {
		case *array.Int64Builder:
			v, err := el.Int()
			if err != nil {
				return nil, err
			}
			b.Append(int64(v))
		case *array.Float64Builder:
			b.Append(el.Float())
		case *array.BooleanBuilder:
			v, err := el.Bool()
			if err != nil {
				return nil, err
			}
			b.Append(v)
		case *array.StringBuilder:
			b.Append(el.String())
		}
	}
	return builder.NewArray(), nil
}
