package export

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/san-kum/gridfx/internal/engine"
)

// Background is composited under frames for formats without alpha.
var Background = color.NRGBA{R: 10, G: 10, B: 10, A: 255}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// GIFRecorder captures the drawn surface after each observed frame.
type GIFRecorder struct {
	mu        sync.Mutex
	source    func() image.Image
	delay     int
	maxFrames int
	frames    []*image.Paletted
	delays    []int
}

// NewGIFRecorder records from source with delay in hundredths of a second
// and stops capturing after maxFrames (0 is unlimited).
func NewGIFRecorder(source func() image.Image, delay, maxFrames int) *GIFRecorder {
	return &GIFRecorder{source: source, delay: max(1, delay), maxFrames: maxFrames}
}

func (r *GIFRecorder) OnFrame(engine.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxFrames > 0 && len(r.frames) >= r.maxFrames {
		return
	}
	r.frames = append(r.frames, Paletted(r.source()))
	r.delays = append(r.delays, r.delay)
}

func (r *GIFRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *GIFRecorder) Write(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	anim := gif.GIF{LoopCount: 0, Image: r.frames, Delay: r.delays}
	return gif.EncodeAll(f, &anim)
}

// Flatten composites img over Background.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Paletted flattens img and dithers it onto the Plan 9 palette.
func Paletted(img image.Image) *image.Paletted {
	flat := Flatten(img)
	dst := image.NewPaletted(flat.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), flat, image.Point{})
	return dst
}
