package binding

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/dsl"
)

// Action 是命令执行后需要宿主处理的动作。
type Action int

const (
	ActionNone Action = iota
	ActionRender
	ActionShow
	ActionFonts
	ActionQuit
)

// Binder 把命令映射为对配置状态的修改，修改前先经过控件约束。
type Binder struct {
	Store *config.Store
	Fonts FontChoices
}

// Apply 执行一条命令。编辑类命令修改 Store 并返回 ActionNone。
func (b *Binder) Apply(cmd *dsl.Command) (Action, error) {
	if cmd == nil {
		return ActionNone, nil
	}
	switch strings.ToLower(cmd.Name) {
	case "text":
		b.Store.SetText(textArg(cmd))
	case "size", "font-size":
		v, err := cmd.Float(0)
		if err != nil {
			return ActionNone, err
		}
		b.Store.SetFontSize(FontSize.Coerce(v))
	case "line-height":
		v, err := cmd.Float(0)
		if err != nil {
			return ActionNone, err
		}
		b.Store.SetLineHeight(LineHeight.Coerce(v))
	case "stroke-width":
		v, err := cmd.Float(0)
		if err != nil {
			return ActionNone, err
		}
		b.Store.SetStrokeWidth(StrokeWidth.Coerce(v))
	case "color", "font-color":
		c, err := colorArg(cmd)
		if err != nil {
			return ActionNone, err
		}
		b.Store.SetFontColor(c)
	case "stroke", "stroke-color":
		c, err := colorArg(cmd)
		if err != nil {
			return ActionNone, err
		}
		b.Store.SetStrokeColor(c)
	case "font", "font-family":
		name, err := SelectFont(b.Fonts, cmd.Words())
		if err != nil {
			return ActionNone, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		b.Store.SetFontFamily(name)
	case "reset":
		b.Store.Reset()
	case "render":
		return ActionRender, nil
	case "show":
		return ActionShow, nil
	case "fonts":
		return ActionFonts, nil
	case "quit", "exit":
		return ActionQuit, nil
	default:
		return ActionNone, fmt.Errorf("%s: 未知命令 %s", cmd.Pos, cmd.Name)
	}
	return ActionNone, nil
}

// ApplyScript 依次执行脚本中的命令，非编辑类动作交给 handle 处理。
// 遇到 ActionQuit 时停止并返回 true。
func (b *Binder) ApplyScript(script *dsl.Script, handle func(Action) error) (quit bool, err error) {
	if script == nil {
		return false, nil
	}
	for _, cmd := range script.Commands {
		action, err := b.Apply(cmd)
		if err != nil {
			return false, err
		}
		if action == ActionQuit {
			return true, nil
		}
		if action != ActionNone && handle != nil {
			if err := handle(action); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

func textArg(cmd *dsl.Command) string {
	if len(cmd.Args) == 1 {
		return cmd.Args[0].Value
	}
	return cmd.Words()
}

func colorArg(cmd *dsl.Command) (c color.RGBA, err error) {
	value, err := cmd.Text(0)
	if err != nil {
		return c, err
	}
	c, err = ParseColor(value)
	if err != nil {
		return c, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return c, nil
}

// Describe 以命令脚本的形式输出配置，可以原样再次执行。
func Describe(cfg config.RenderConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "text %s\n", strconv.Quote(cfg.Text))
	fmt.Fprintf(&b, "size %g\n", cfg.FontSizePx)
	fmt.Fprintf(&b, "line-height %g\n", cfg.LineHeight)
	fmt.Fprintf(&b, "color %s\n", FormatColor(cfg.FontColor))
	fmt.Fprintf(&b, "stroke %s\n", FormatColor(cfg.StrokeColor))
	fmt.Fprintf(&b, "stroke-width %g\n", cfg.StrokeWidthPx)
	fmt.Fprintf(&b, "font %s\n", strconv.Quote(cfg.FontFamily))
	return b.String()
}
