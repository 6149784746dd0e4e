// Package raster implements surface.Surface on an in-memory RGBA image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/gridfx/internal/surface"
)

// DefaultMaxPixels bounds the backing store; larger requests fail the
// surface the same way an unavailable context would.
const DefaultMaxPixels = 64 << 20

type Surface struct {
	img       *image.RGBA
	scale     float64
	displayW  float64
	displayH  float64
	maxPixels int

	font     *opentype.Font
	glyphPx  float64
	face     font.Face
	faceSize float64
	ascent   float64
}

type Option func(*Surface)

func WithMaxPixels(n int) Option {
	return func(s *Surface) { s.maxPixels = n }
}

// New parses the bundled Go Mono face and returns an empty surface.
func New(opts ...Option) (*Surface, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", surface.ErrUnavailable, err)
	}
	s := &Surface{
		img:       image.NewRGBA(image.Rect(0, 0, 0, 0)),
		scale:     1,
		maxPixels: DefaultMaxPixels,
		font:      f,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Surface) Resize(bw, bh int, dw, dh float64) error {
	if bw < 0 || bh < 0 || (s.maxPixels > 0 && bw*bh > s.maxPixels) {
		return fmt.Errorf("backing store %dx%d exceeds limit", bw, bh)
	}
	s.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
	s.displayW, s.displayH = dw, dh
	return nil
}

func (s *Surface) SetScale(dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.scale = dpr
}

func (s *Surface) SetGlyphSize(px float64) { s.glyphPx = px }

func (s *Surface) Clear() {
	clear(s.img.Pix)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	r := image.Rect(
		int(math.Round(x*s.scale)), int(math.Round(y*s.scale)),
		int(math.Round((x+w)*s.scale)), int(math.Round((y+h)*s.scale)),
	)
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *Surface) DrawGlyph(x, y float64, r rune, c color.NRGBA) {
	face := s.currentFace()
	if face == nil {
		return
	}
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * s.scale * 64),
			Y: fixed.Int26_6((y*s.scale + s.ascent) * 64),
		},
	}
	d.DrawString(string(r))
}

// currentFace rebuilds the face when the device font size changed.
func (s *Surface) currentFace() font.Face {
	size := s.glyphPx * s.scale
	if size <= 0 {
		return nil
	}
	if s.face != nil && s.faceSize == size {
		return s.face
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	if s.face != nil {
		_ = s.face.Close()
	}
	s.face, s.faceSize = face, size
	s.ascent = float64(face.Metrics().Ascent) / 64
	return face
}

// Image is the backing store in device pixels.
func (s *Surface) Image() *image.RGBA { return s.img }

// Displayed scales the backing store down to the displayed size.
func (s *Surface) Displayed() image.Image {
	w, h := int(math.Ceil(s.displayW)), int(math.Ceil(s.displayH))
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	if s.img.Bounds().Dx() == w && s.img.Bounds().Dy() == h {
		return s.img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)
	return dst
}

// Snapshot copies the backing store.
func (s *Surface) Snapshot() *image.RGBA {
	dst := image.NewRGBA(s.img.Bounds())
	draw.Copy(dst, image.Point{}, s.img, s.img.Bounds(), draw.Src, nil)
	return dst
}

// Straight repacks img into dst with straight (non-premultiplied) alpha,
// the layout GPU textures blended with plain alpha expect. dst is grown as
// needed and returned.
func Straight(dst []color.RGBA, img *image.RGBA) []color.RGBA {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
			dst[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
			i++
		}
	}
	return dst
}
