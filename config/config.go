// Package config 保存预览所需的文本内容与排版参数。
package config

import "image/color"

// 绘制表面的默认尺寸（像素）。
const (
	SurfaceWidth  = 800
	SurfaceHeight = 300
)

// DefaultFontFamily 与 fonts 包内置的第一个字体族同名。
const DefaultFontFamily = "Go"

// RenderConfig 是生成一次渲染所需的全部内容与样式参数。
// 没有身份与历史，每次编辑都会原地覆盖。
type RenderConfig struct {
	Text          string     `json:"text"` // 可包含换行
	FontSizePx    float64    `json:"fontSizePx"`
	FontColor     color.RGBA `json:"fontColor"`
	StrokeColor   color.RGBA `json:"strokeColor"`
	StrokeWidthPx float64    `json:"strokeWidthPx"`
	LineHeight    float64    `json:"lineHeight"` // 行高倍数，行距 = FontSizePx * LineHeight
	FontFamily    string     `json:"fontFamily"`
}

// Default 返回初始配置：60px 黑字白描边，1.5 倍行高。
func Default() RenderConfig {
	return RenderConfig{
		Text:          "Lipi",
		FontSizePx:    60,
		FontColor:     color.RGBA{A: 0xff},
		StrokeColor:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		StrokeWidthPx: 2,
		LineHeight:    1.5,
		FontFamily:    DefaultFontFamily,
	}
}

// LineAdvance 返回相邻两行之间的垂直距离（像素）。
func (c RenderConfig) LineAdvance() float64 {
	return c.FontSizePx * c.LineHeight
}
