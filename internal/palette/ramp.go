package palette

import "unicode/utf8"

// Ramp orders glyphs by visual density, sparse to dense.
const Ramp = " .`-':_,^=;><+!rc*/z?sLTv)J7(|Fi{C}fI31tlu[neoZ5Yxjya]2ESwqkP6h9d4VpOGbUAKXHm8RD#$Bg0MNWQ%&@"

var rampRunes = []rune(Ramp)

// Glyph picks the ramp entry for a normalised intensity t in [0, 1].
func Glyph(t float64) rune {
	if t <= 0 {
		return rampRunes[0]
	}
	if t >= 1 {
		return rampRunes[len(rampRunes)-1]
	}
	return rampRunes[int(t*float64(len(rampRunes)-1))]
}

// RampLen is the number of glyphs in Ramp.
func RampLen() int { return utf8.RuneCountInString(Ramp) }
