package renderer_test

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/renderer"
)

type op struct {
	Kind  string
	Text  string
	X, Y  float64
	Style renderer.TextStyle
}

// recordingSurface 记录所有绘制调用，仅用于测试。
type recordingSurface struct {
	w, h float64
	ops  []op
}

func (s *recordingSurface) Size() (float64, float64) { return s.w, s.h }

func (s *recordingSurface) Clear() { s.ops = append(s.ops, op{Kind: "clear"}) }

func (s *recordingSurface) StrokeText(text string, x, y float64, style renderer.TextStyle) {
	s.ops = append(s.ops, op{Kind: "stroke", Text: text, X: x, Y: y, Style: style})
}

func (s *recordingSurface) FillText(text string, x, y float64, style renderer.TextStyle) {
	s.ops = append(s.ops, op{Kind: "fill", Text: text, X: x, Y: y, Style: style})
}

func newSurface() *recordingSurface { return &recordingSurface{w: 800, h: 300} }

func twoLineConfig() config.RenderConfig {
	cfg := config.Default()
	cfg.Text = "A\nB"
	cfg.FontSizePx = 60
	cfg.LineHeight = 1.5
	return cfg
}

func TestRenderTwoLines(t *testing.T) {
	s := newSurface()
	cfg := twoLineConfig()
	renderer.Render(s, cfg)

	stroke := renderer.TextStyle{FontFamily: cfg.FontFamily, FontSizePx: 60, Color: cfg.StrokeColor, StrokeWidth: cfg.StrokeWidthPx}
	fill := renderer.TextStyle{FontFamily: cfg.FontFamily, FontSizePx: 60, Color: cfg.FontColor}
	want := []op{
		{Kind: "clear"},
		{Kind: "stroke", Text: "A", X: 400, Y: 105, Style: stroke},
		{Kind: "fill", Text: "A", X: 400, Y: 105, Style: fill},
		{Kind: "stroke", Text: "B", X: 400, Y: 195, Style: stroke},
		{Kind: "fill", Text: "B", X: 400, Y: 195, Style: fill},
	}
	if diff := cmp.Diff(want, s.ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

// 每一行的描边都必须先于填充。
func TestStrokeBeneathFill(t *testing.T) {
	s := newSurface()
	cfg := config.Default()
	cfg.Text = "one\ntwo\n\nfour"
	cfg.StrokeWidthPx = 0
	renderer.Render(s, cfg)

	pending := map[string]bool{}
	for _, o := range s.ops {
		switch o.Kind {
		case "stroke":
			pending[o.Text] = true
		case "fill":
			if !pending[o.Text] {
				t.Fatalf("line %q filled before stroked", o.Text)
			}
			delete(pending, o.Text)
		}
	}
	if len(pending) != 0 {
		t.Fatalf("stroked lines never filled: %v", pending)
	}
}

func TestRenderClearsFirst(t *testing.T) {
	s := newSurface()
	renderer.Render(s, twoLineConfig())
	renderer.Render(s, twoLineConfig())
	if s.ops[0].Kind != "clear" || s.ops[5].Kind != "clear" {
		t.Fatalf("each render must start with clear: %+v", s.ops)
	}
}

func TestRenderEmptyTextOnlyClears(t *testing.T) {
	s := newSurface()
	cfg := config.Default()
	cfg.Text = ""
	renderer.Render(s, cfg)
	if diff := cmp.Diff([]op{{Kind: "clear"}}, s.ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestFontColorDoesNotMoveGlyphs(t *testing.T) {
	a, b := newSurface(), newSurface()
	cfg := twoLineConfig()
	renderer.Render(a, cfg)
	cfg.FontColor = color.RGBA{R: 0xff, G: 0x80, A: 0xff}
	renderer.Render(b, cfg)

	if len(a.ops) != len(b.ops) {
		t.Fatalf("op count differs: %d vs %d", len(a.ops), len(b.ops))
	}
	for i := range a.ops {
		if a.ops[i].X != b.ops[i].X || a.ops[i].Y != b.ops[i].Y || a.ops[i].Text != b.ops[i].Text {
			t.Fatalf("op %d moved: %+v vs %+v", i, a.ops[i], b.ops[i])
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a, b := newSurface(), newSurface()
	renderer.Render(a, twoLineConfig())
	renderer.Render(b, twoLineConfig())
	if diff := cmp.Diff(a.ops, b.ops); diff != "" {
		t.Fatalf("renders differ (-a +b):\n%s", diff)
	}
}

func TestRenderNilSurface(t *testing.T) {
	renderer.Render(nil, config.Default())
}
