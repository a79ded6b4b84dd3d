package plot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format 输出图片格式
type Format int

const (
	PNG Format = iota
	SVG
	JPEG
	TIFF
)

// ErrNoData 没有可绘制的数值
var ErrNoData = errors.New("no data to plot")

// ErrUnsupportedFormat 渲染器不支持的输出格式
var ErrUnsupportedFormat = errors.New("unsupported image format")

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case SVG:
		return "svg"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath 根据扩展名确定图片格式
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Save 将渲染结果写入文件, 必要时创建父目录
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Viewer 交互式显示渲染好的 PNG 图片
type Viewer interface {
	Show(title string, image []byte) error
}
