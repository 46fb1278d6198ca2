package renderer

import (
	"image/color"

	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/layout"
)

// TextStyle 描述一次文字绘制所需的字体与颜色。
type TextStyle struct {
	FontFamily  string
	FontSizePx  float64
	Color       color.RGBA
	StrokeWidth float64 // 仅 StrokeText 使用；<=0 表示不描边
}

// Surface 是固定尺寸的绘制表面，例如光栅画布。
// 文字以 (x, y) 为中心绘制：水平居中，y 为 em 框的垂直中心。
type Surface interface {
	Size() (width, height float64)
	Clear()
	StrokeText(text string, x, y float64, style TextStyle)
	FillText(text string, x, y float64, style TextStyle)
}

// Render 清空表面并按 cfg 绘制居中的多行文本，每行先描边后填充。
// surface 为 nil 时什么也不做。
func Render(surface Surface, cfg config.RenderConfig) {
	if surface == nil {
		return
	}
	surface.Clear()

	width, height := surface.Size()
	block := layout.Center(cfg.Text, width, height, cfg.FontSizePx, cfg.LineHeight)

	stroke := TextStyle{
		FontFamily:  cfg.FontFamily,
		FontSizePx:  cfg.FontSizePx,
		Color:       cfg.StrokeColor,
		StrokeWidth: cfg.StrokeWidthPx,
	}
	fill := TextStyle{
		FontFamily: cfg.FontFamily,
		FontSizePx: cfg.FontSizePx,
		Color:      cfg.FontColor,
	}
	for _, line := range block.Lines {
		if line.Content == "" {
			continue
		}
		surface.StrokeText(line.Content, line.X, line.Y, stroke)
		surface.FillText(line.Content, line.X, line.Y, fill)
	}
}
