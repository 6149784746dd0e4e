package palette

import (
	"image/color"
	"math"
)

// Band boundaries of the heat gradient.
const (
	bandEmber  = 0.05
	bandAccent = 0.2
	bandOrange = 0.45
	bandWhite  = 0.75
)

var (
	// DefaultAccent is the ember core hue.
	DefaultAccent = color.NRGBA{R: 230, G: 59, B: 46, A: 255}

	// WhiteHot is the gradient endpoint at t = 1.
	WhiteHot = color.NRGBA{R: 255, G: 255, B: 230, A: 255}

	emberBase = [3]float64{40, 8, 4}
	orange    = [3]float64{255, 140, 30}
)

// HeatToColor maps a normalised heat t in [0, 1] through transparent, dark
// ember, accent, bright orange and white-hot bands.
func HeatToColor(t float64, accent color.NRGBA) color.NRGBA {
	r, g, b, a := gradient(t, accent)
	return rgba(r, g, b, a)
}

// gradient is the unrounded form of HeatToColor.
func gradient(t float64, accent color.NRGBA) (r, g, b, alpha float64) {
	ac := [3]float64{float64(accent.R), float64(accent.G), float64(accent.B)}

	switch {
	case t < bandEmber:
		return 0, 0, 0, 0
	case t < bandAccent:
		a := (t - bandEmber) / (bandAccent - bandEmber)
		return emberBase[0] * a, emberBase[1] * a, emberBase[2] * a, a * 0.6
	case t < bandOrange:
		a := (t - bandAccent) / (bandOrange - bandAccent)
		return emberBase[0] + (ac[0]-emberBase[0])*a,
			emberBase[1] + (ac[1]-emberBase[1])*a,
			emberBase[2] + (ac[2]-emberBase[2])*a,
			0.6 + a*0.3
	case t < bandWhite:
		a := (t - bandOrange) / (bandWhite - bandOrange)
		return ac[0] + (orange[0]-ac[0])*a*0.6,
			ac[1] + (orange[1]-ac[1])*a,
			ac[2] + (orange[2]-ac[2])*a,
			0.9 + a*0.1
	}

	a := math.Min(1, (t-bandWhite)/(1-bandWhite))
	return 255, orange[1] + 115*a, orange[2] + 200*a, 1
}

// rgba rounds channels to the nearest integer and alpha to two decimals.
func rgba(r, g, b, alpha float64) color.NRGBA {
	alpha = math.Round(alpha*100) / 100
	return color.NRGBA{
		R: channel(r),
		G: channel(g),
		B: channel(b),
		A: channel(alpha * 255),
	}
}

func channel(v float64) uint8 {
	v = math.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
