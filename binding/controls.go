// Package binding 把表单控件（滑块、取色器、字体选择器）绑定到配置状态。
package binding

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strings"

	"github.com/tdewolff/canvas"
)

// Slider 模拟 range 输入：超出范围的值被夹紧，并吸附到最近的步进值。
type Slider struct {
	Name string
	Min  float64
	Max  float64
	Step float64
}

// 与原始表单一致的滑块约束。
var (
	FontSize    = Slider{Name: "size", Min: 20, Max: 150, Step: 1}
	LineHeight  = Slider{Name: "line-height", Min: 1, Max: 3, Step: 0.1}
	StrokeWidth = Slider{Name: "stroke-width", Min: 0, Max: 10, Step: 1}
)

// Coerce 返回滑块实际会取到的值。NaN 视为最小值。
func (s Slider) Coerce(v float64) float64 {
	if math.IsNaN(v) || v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 0 {
		steps := math.Round((v - s.Min) / s.Step)
		v = s.Min + steps*s.Step
		// 消除 0.1 步进带来的浮点尾数
		v = math.Round(v*1e9) / 1e9
		if v > s.Max {
			v -= s.Step
		}
	}
	return v
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})$`)

// ParseColor 模拟取色器：只接受 #rrggbb 或 #rgb，结果总是不透明的。
func ParseColor(value string) (color.RGBA, error) {
	value = strings.TrimSpace(value)
	if !hexColorPattern.MatchString(value) {
		return color.RGBA{}, fmt.Errorf("颜色 %q 无效，应为 #rrggbb", value)
	}
	if len(value) == 4 {
		value = "#" + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2) + strings.Repeat(value[3:4], 2)
	}
	return canvas.Hex(value), nil
}

// FormatColor 以取色器使用的小写 #rrggbb 形式输出颜色。
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FontChoices 是字体选择器的可选项来源，例如 *fonts.Registry。
type FontChoices interface {
	Names() []string
	Has(name string) bool
}

// SelectFont 模拟下拉选择：name 必须是可选项之一。
func SelectFont(choices FontChoices, name string) (string, error) {
	name = strings.TrimSpace(name)
	if choices == nil || !choices.Has(name) {
		var options []string
		if choices != nil {
			options = choices.Names()
		}
		return "", fmt.Errorf("字体 %q 不在可选列表中: %s", name, strings.Join(options, ", "))
	}
	return name, nil
}
