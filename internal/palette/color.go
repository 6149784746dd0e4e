package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Neutral is used whenever a color string cannot be resolved.
var Neutral = color.NRGBA{A: 255}

var ErrBadColor = errors.New("palette: unrecognised color")

// Parse resolves CSS-style color strings: named colors, #rgb, #rrggbb,
// rgb(r, g, b) and rgba(r, g, b, a).
func Parse(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return Neutral, ErrBadColor
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case strings.HasPrefix(s, "rgb"):
		return parseFunctional(s)
	}
	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func parseFunctional(s string) (color.NRGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	name := strings.TrimSpace(s[:open])
	parts := strings.Split(s[open+1:end], ",")
	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(parts) != want {
		return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Neutral, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		ch[i] = v
	}
	return color.NRGBA{
		R: channel(ch[0]),
		G: channel(ch[1]),
		B: channel(ch[2]),
		A: channel(ch[3] * 255),
	}, nil
}

// DefaultCacheSize bounds a Cache built with a non-positive capacity.
const DefaultCacheSize = 64

// Cache is a bounded LRU of resolved color strings. It is safe for
// concurrent use; callers own it explicitly.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, cacheEntry]
	misses  int
}

type cacheEntry struct {
	color color.NRGBA
	err   error
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		panic(err)
	}
	return &Cache{entries: entries}
}

// Resolve returns the parsed color for s, or Neutral with the parse error.
// Failures are cached too, so a bad string is only parsed once.
func (c *Cache) Resolve(s string) (color.NRGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries.Get(s); ok {
		return e.color, e.err
	}

	c.misses++
	col, err := Parse(s)
	c.entries.Add(s, cacheEntry{color: col, err: err})
	return col, err
}

func (c *Cache) Len() int { return c.entries.Len() }

// Misses counts the lookups that had to parse.
func (c *Cache) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}
