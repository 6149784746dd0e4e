package gui

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/raster"
)

// canvas mirrors the raster backing store in a GPU texture.
type canvas struct {
	tex    rl.Texture2D
	loaded bool
	pixels []color.RGBA
}

func (c *canvas) upload(img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if !c.loaded || int(c.tex.Width) != w || int(c.tex.Height) != h {
		c.unload()
		blank := rl.GenImageColor(w, h, rl.Blank)
		c.tex = rl.LoadTextureFromImage(blank)
		rl.UnloadImage(blank)
		rl.SetTextureFilter(c.tex, rl.FilterBilinear)
		c.loaded = true
	}
	c.pixels = raster.Straight(c.pixels, img)
	rl.UpdateTexture(c.tex, c.pixels)
}

// draw scales the backing texture onto the display area.
func (c *canvas) draw(geom surface.Geometry) {
	if !c.loaded || geom.Empty() {
		return
	}
	src := rl.NewRectangle(0, 0, float32(c.tex.Width), float32(c.tex.Height))
	dst := rl.NewRectangle(0, 0, float32(geom.DisplayWidth), float32(geom.DisplayHeight))
	rl.DrawTexturePro(c.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (c *canvas) unload() {
	if c.loaded {
		rl.UnloadTexture(c.tex)
		c.loaded = false
	}
}
