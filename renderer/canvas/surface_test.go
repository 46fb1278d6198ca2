package canvasrenderer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/fonts"
	"github.com/ByLCY/lipi/renderer"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	reg := fonts.NewRegistry()
	if err := reg.Load(context.Background()); err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return NewSurface(config.SurfaceWidth, config.SurfaceHeight, reg)
}

func render(t *testing.T, s *Surface, cfg config.RenderConfig) *image.RGBA {
	t.Helper()
	renderer.Render(s, cfg)
	return s.Image()
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestImageSize(t *testing.T) {
	img := newTestSurface(t).Image()
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 300 {
		t.Fatalf("image size = %v, want 800x300", b)
	}
}

func TestEmptyTextClearsSurface(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	if countOpaque(render(t, s, cfg)) == 0 {
		t.Fatalf("default text should draw glyphs")
	}
	cfg.Text = ""
	if n := countOpaque(render(t, s, cfg)); n != 0 {
		t.Fatalf("empty text left %d painted pixels", n)
	}
}

func TestRedrawIsPixelIdentical(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	cfg.Text = "Hello\nWorld"
	first := render(t, s, cfg)
	second := render(t, s, cfg)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatalf("redraw with unchanged config differs")
	}
}

// 只修改填充色时，覆盖范围（alpha）保持不变。
func TestFontColorKeepsGlyphPositions(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	cfg.Text = "Ag\nQy"
	cfg.StrokeWidthPx = 0
	a := render(t, s, cfg)

	cfg.FontColor = color.RGBA{R: 0xc0, G: 0x20, B: 0x60, A: 0xff}
	b := render(t, s, cfg)

	for i := 3; i < len(a.Pix); i += 4 {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("alpha differs at byte %d: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

// 描边位于填充之下：填充完全覆盖的像素必须是填充色。
func TestStrokeBeneathFill(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	cfg.Text = "HOLA"
	cfg.FontSizePx = 120
	cfg.FontColor = color.RGBA{B: 0xff, A: 0xff}
	cfg.StrokeColor = color.RGBA{R: 0xff, A: 0xff}

	cfg.StrokeWidthPx = 0
	fillOnly := render(t, s, cfg)
	fillOnlyPainted := countOpaque(fillOnly)

	cfg.StrokeWidthPx = 8
	both := render(t, s, cfg)
	if countOpaque(both) <= fillOnlyPainted {
		t.Fatalf("stroke should enlarge painted area")
	}

	checked := 0
	for i := 0; i < len(fillOnly.Pix); i += 4 {
		if fillOnly.Pix[i+3] != 0xff {
			continue
		}
		checked++
		if got := both.Pix[i : i+4]; got[0] != 0 || got[1] != 0 || got[2] != 0xff || got[3] != 0xff {
			t.Fatalf("pixel %d covered by fill has color %v, want pure fill", i/4, got)
		}
	}
	if checked == 0 {
		t.Fatalf("no fully covered fill pixels found")
	}
}

func TestGlyphsAreVerticallyCentered(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	cfg.Text = "HHHH"
	cfg.StrokeWidthPx = 0
	img := render(t, s, cfg)

	top, bottom := -1, -1
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.RGBAAt(x, y).A != 0 {
				if top < 0 {
					top = y
				}
				bottom = y
				break
			}
		}
	}
	if top < 0 {
		t.Fatalf("nothing drawn")
	}
	// 大写字母的墨迹中心应当在表面中线附近
	if mid := (top + bottom) / 2; mid < 120 || mid > 180 {
		t.Fatalf("ink spans rows %d..%d, not near the vertical center", top, bottom)
	}
}

func TestMissingFamilyFallsBack(t *testing.T) {
	s := newTestSurface(t)
	cfg := config.Default()
	cfg.FontFamily = "Noto Sans Malayalam"
	if countOpaque(render(t, s, cfg)) == 0 {
		t.Fatalf("fallback family should still draw glyphs")
	}
}

func TestNilSurfaceIsNoop(t *testing.T) {
	var s *Surface
	renderer.Render(s, config.Default())
	s.Clear()
	s.FillText("x", 1, 1, renderer.TextStyle{FontSizePx: 10})
	if w, h := s.Size(); w != 0 || h != 0 {
		t.Fatalf("nil surface size = %gx%g", w, h)
	}
}

func TestWriteFile(t *testing.T) {
	s := newTestSurface(t)
	renderer.Render(s, config.Default())
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "preview.png")
	if err := s.WriteFile(pngPath); err != nil {
		t.Fatalf("write png: %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("png signature missing")
	}

	pdfPath := filepath.Join(dir, "preview.pdf")
	if err := s.WriteFile(pdfPath); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	data, err = os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("pdf header missing")
	}

	if err := s.WriteFile(filepath.Join(dir, "preview.gif")); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
