package export

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/grid"
	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/surface"
)

func TestGridToSVG(t *testing.T) {
	g := grid.Allocate(3, 2)
	g.Set(0, 0, 255)
	g.Set(2, 1, 1)
	geom := surface.Compute(surface.Size{Width: 18, Height: 20, DPR: 1}, surface.GlyphFootprint(10), surface.Dims{})

	svg := GridToSVG(g, geom, palette.Glyphs{Accent: palette.DefaultAccent}, "#000")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if n := strings.Count(svg, "<text"); n != 1 {
		t.Errorf("text elements = %d, want 1", n)
	}
	if !strings.Contains(svg, "&amp;") && !strings.Contains(svg, "@") {
		t.Errorf("hottest glyph missing: %s", svg)
	}

	g.Fill(0.2)
	fills := GridToSVG(g, surface.Compute(surface.Size{Width: 30, Height: 20, DPR: 1}, surface.SquareFootprint(4, 6), surface.Dims{}),
		palette.Fills{Base: color.NRGBA{A: 255}}, "")
	if n := strings.Count(fills, "<rect"); n != 6 {
		t.Errorf("rects = %d, want 6", n)
	}
	if !strings.Contains(fills, `width="4.0"`) {
		t.Error("fill rect should be inset by the gap")
	}

	if GridToSVG(nil, geom, palette.Glyphs{}, "") != "" {
		t.Error("nil grid should give empty output")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "red") != "" {
		t.Error("single point should give empty output")
	}
	svg := SeriesToSVG([]float64{1, 2, 2, 5}, 300, 100, "#e63b2e")
	if strings.Count(svg, " L") != 3 {
		t.Errorf("path segments wrong: %s", svg)
	}
}

func TestGIFRecorder(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.Set(1, 1, color.RGBA{R: 255, A: 255})
	rec := NewGIFRecorder(func() image.Image { return src }, 4, 3)

	for range 5 {
		rec.OnFrame(engine.Frame{})
	}
	if rec.Len() != 3 {
		t.Fatalf("frames = %d, want capped at 3", rec.Len())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := rec.Write(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Delay[0] != 4 {
		t.Errorf("decoded %d frames, delay %v", len(anim.Image), anim.Delay)
	}
}

func TestFlattenUsesBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	flat := Flatten(img)
	if got := flat.RGBAAt(0, 0); got.R != Background.R || got.A != 255 {
		t.Errorf("background pixel = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WritePNG(path, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}
}
