package raster

import (
	"errors"
	"image/color"
	"testing"

	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/surface"
)

func newSurface(t *testing.T, opts ...Option) *Surface {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestFillRectScaled(t *testing.T) {
	s := newSurface(t)
	if err := s.Resize(20, 20, 10, 10); err != nil {
		t.Fatal(err)
	}
	s.SetScale(2)
	s.FillRect(1, 1, 2, 2, color.NRGBA{R: 255, A: 255})

	if got := s.Image().RGBAAt(2, 2); got.R != 255 || got.A != 255 {
		t.Errorf("inside pixel = %v", got)
	}
	if got := s.Image().RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel outside rect painted: %v", got)
	}
	if got := s.Image().RGBAAt(1, 1); got.A != 0 {
		t.Errorf("pixel before rect painted: %v", got)
	}

	s.Clear()
	if got := s.Image().RGBAAt(2, 2); got.A != 0 {
		t.Errorf("clear left %v", got)
	}
}

func TestFillRectBlendsAlpha(t *testing.T) {
	s := newSurface(t)
	s.Resize(4, 4, 4, 4)
	s.FillRect(0, 0, 4, 4, color.NRGBA{A: 128})
	if a := s.Image().RGBAAt(0, 0).A; a < 127 || a > 129 {
		t.Errorf("alpha = %d, want ~128", a)
	}
}

func TestDrawGlyph(t *testing.T) {
	s := newSurface(t)
	s.Resize(24, 40, 12, 20)
	s.SetScale(2)
	s.SetGlyphSize(20)
	s.DrawGlyph(0, 0, '@', color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	lit := 0
	for _, v := range s.Image().Pix {
		if v != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("glyph left no pixels")
	}
}

func TestDrawGlyphWithoutSize(t *testing.T) {
	s := newSurface(t)
	s.Resize(8, 8, 8, 8)
	s.DrawGlyph(0, 0, '@', color.NRGBA{A: 255})
	for _, v := range s.Image().Pix {
		if v != 0 {
			t.Fatal("glyph drawn with no font size")
		}
	}
}

func TestResizeLimit(t *testing.T) {
	s := newSurface(t, WithMaxPixels(100))
	if err := s.Resize(11, 10, 11, 10); err == nil {
		t.Error("expected limit error")
	}
	m := surface.NewManager(s)
	_, err := m.Resize(surface.Size{Width: 600, Height: 600, DPR: 1}, surface.GlyphFootprint(10), surface.Dims{})
	if !errors.Is(err, surface.ErrUnavailable) {
		t.Errorf("manager err = %v, want ErrUnavailable", err)
	}
}

func TestDisplayedScalesDown(t *testing.T) {
	s := newSurface(t)
	m := surface.NewManager(s)
	if _, err := m.Resize(surface.Size{Width: 30, Height: 20, DPR: 2}, surface.SquareFootprint(4, 6), surface.Dims{}); err != nil {
		t.Fatal(err)
	}
	m.Grid().Fill(0.3)
	m.Draw(palette.Fills{Base: color.NRGBA{R: 255, A: 255}})

	if b := s.Image().Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Errorf("backing = %v, want 60x40", b)
	}
	if b := s.Displayed().Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("displayed = %v, want 30x20", b)
	}
	snap := s.Snapshot()
	s.Clear()
	if snap.RGBAAt(1, 1).A == 0 {
		t.Error("snapshot should survive clear")
	}
}

func TestStraightUndoesPremultiply(t *testing.T) {
	s := newSurface(t)
	if err := s.Resize(2, 1, 2, 1); err != nil {
		t.Fatal(err)
	}
	s.SetScale(1)
	s.FillRect(0, 0, 1, 1, color.NRGBA{R: 255, G: 128, A: 128})
	s.FillRect(1, 0, 1, 1, color.NRGBA{B: 200, A: 255})

	if p := s.Image().RGBAAt(0, 0); p.R >= 255 {
		t.Fatalf("backing store not premultiplied: %v", p)
	}
	px := Straight(nil, s.Image())
	if len(px) != 2 {
		t.Fatalf("len = %d, want 2", len(px))
	}
	if p := px[0]; p.R < 254 || p.G < 126 || p.G > 130 || p.A != 128 {
		t.Errorf("translucent pixel = %v, want ~{255 128 0 128}", p)
	}
	if p := px[1]; p != (color.RGBA{B: 200, A: 255}) {
		t.Errorf("opaque pixel = %v", p)
	}

	reused := Straight(px[:0], s.Image())
	if &reused[0] != &px[0] {
		t.Error("dst with enough capacity was not reused")
	}
}
