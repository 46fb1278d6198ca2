package canvasrenderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/lipi/fonts"
	"github.com/ByLCY/lipi/layout"
	"github.com/ByLCY/lipi/logging"
	"github.com/ByLCY/lipi/renderer"
)

// strokeSamples 是描边时每一圈的采样方向数。
const strokeSamples = 16

// Surface draws text via github.com/tdewolff/canvas.
// One surface unit equals one pixel; the origin is the top-left corner.
type Surface struct {
	width, height float64
	fonts         *fonts.Registry

	c   *canvas.Canvas
	ctx *canvas.Context
}

var _ renderer.Surface = (*Surface)(nil)

// NewSurface creates a width×height pixel surface resolving families from registry.
func NewSurface(width, height int, registry *fonts.Registry) *Surface {
	s := &Surface{
		width:  float64(width),
		height: float64(height),
		fonts:  registry,
	}
	s.Clear()
	return s
}

// Size 返回表面尺寸（像素）。
func (s *Surface) Size() (float64, float64) {
	if s == nil {
		return 0, 0
	}
	return s.width, s.height
}

// Clear 丢弃全部已绘制内容，表面恢复为透明。
func (s *Surface) Clear() {
	if s == nil {
		return
	}
	s.c = canvas.New(s.width, s.height)
	s.ctx = canvas.NewContext(s.c)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
}

// FillText 以 (x, y) 为中心绘制一行文字。
func (s *Surface) FillText(text string, x, y float64, style renderer.TextStyle) {
	if !s.available() || text == "" {
		return
	}
	face := s.face(style.FontFamily, style.FontSizePx, style.Color)
	if face == nil {
		return
	}
	s.drawLine(face, text, x, y)
}

// StrokeText 绘制宽度为 style.StrokeWidth 的文字轮廓。
// 轮廓由描边色的字形在半径 ≤ StrokeWidth/2 的若干同心圆上平移叠印而成，
// 随后的 FillText 会覆盖字形内部。
func (s *Surface) StrokeText(text string, x, y float64, style renderer.TextStyle) {
	if !s.available() || text == "" || style.StrokeWidth <= 0 {
		return
	}
	face := s.face(style.FontFamily, style.FontSizePx, style.Color)
	if face == nil {
		return
	}
	radius := style.StrokeWidth / 2
	rings := int(math.Ceil(radius))
	for ring := 1; ring <= rings; ring++ {
		r := radius * float64(ring) / float64(rings)
		for i := 0; i < strokeSamples; i++ {
			angle := 2 * math.Pi * float64(i) / strokeSamples
			s.drawLine(face, text, x+r*math.Cos(angle), y+r*math.Sin(angle))
		}
	}
}

func (s *Surface) available() bool {
	return s != nil && s.ctx != nil
}

// drawLine 把 em 框中心 y 换算为基线后绘制居中的文本行。
func (s *Surface) drawLine(face *canvas.FontFace, text string, x, y float64) {
	metrics := face.Metrics()
	baseline := y + (metrics.Ascent-metrics.Descent)/2
	s.ctx.DrawText(x, baseline, canvas.NewTextLine(face, text, canvas.Center))
}

func (s *Surface) face(family string, sizePx float64, col color.RGBA) *canvas.FontFace {
	if s.fonts == nil || sizePx <= 0 {
		return nil
	}
	fam, ok := s.fonts.Family(family)
	if fam == nil {
		return nil
	}
	if !ok {
		logging.Logger().Warn("字体族不可用，使用回退字体", "family", family)
	}
	// 字号从 px 转为 pt 以创建字体面
	return fam.Face(layout.PxToPt(sizePx), col, canvas.FontRegular, canvas.FontNormal)
}

// Image 将当前内容栅格化为 RGBA 图像，透明背景。
func (s *Surface) Image() *image.RGBA {
	if !s.available() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return rasterizer.Draw(s.c, canvas.DPMM(layout.DotsPerMM), canvas.DefaultColorSpace)
}

// WritePNG 以 PNG 格式输出当前内容。
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.Image()); err != nil {
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return nil
}

// WritePDF 以单页 PDF 输出当前内容（矢量）。
func (s *Surface) WritePDF(w io.Writer) error {
	if !s.available() {
		return fmt.Errorf("绘制表面不可用")
	}
	writer := pdf.New(w, s.width, s.height, nil)
	s.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// WriteFile 按扩展名（.png / .pdf）写出当前内容。
func (s *Surface) WriteFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var write func(io.Writer) error
	switch ext {
	case ".png", "":
		write = s.WritePNG
	case ".pdf":
		write = s.WritePDF
	default:
		return fmt.Errorf("不支持的输出格式 %s", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件 %s 失败: %w", path, err)
	}
	buf := bufio.NewWriter(file)
	if err := write(buf); err != nil {
		file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("写入输出文件 %s 失败: %w", path, err)
	}
	return file.Close()
}
