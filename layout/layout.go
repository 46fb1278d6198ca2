package layout

import "strings"

// 该文件定义多行文本的居中布局，渲染器与调试 JSON 共用。

// Line 表示一行文本及其锚点（像素）。
// X 为水平中心，Y 为该行 em 框的垂直中心。
type Line struct {
	Index   int     `json:"index"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Block 是整段文本在绘制表面上的布局结果。
type Block struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Start   float64 `json:"start"`   // 第一行的 Y
	Advance float64 `json:"advance"` // 行距 = fontSize * lineHeight
	Lines   []Line  `json:"lines"`
}

// SplitLines 按换行符拆分文本，不做任何折行。
// \r\n 与单独的 \r 都视为换行；空文本得到一个空行。
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Center 计算 N 行文本在 width×height 表面上的居中位置：
//
//	start = height/2 - (N-1)*advance/2
//	y(i)  = start + i*advance
//
// 过长的行不折行也不缩放，超出表面的部分由表面裁剪。
func Center(text string, width, height, fontSize, lineHeight float64) Block {
	contents := SplitLines(text)
	advance := fontSize * lineHeight
	start := height/2 - float64(len(contents)-1)*advance/2

	lines := make([]Line, len(contents))
	for i, content := range contents {
		lines[i] = Line{
			Index:   i,
			Content: content,
			X:       width / 2,
			Y:       start + float64(i)*advance,
		}
	}
	return Block{
		Width:   width,
		Height:  height,
		Start:   start,
		Advance: advance,
		Lines:   lines,
	}
}
