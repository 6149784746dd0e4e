package grid

// Grid is a dense row-major buffer of cell values. Index(x, y) = y*Width + x.
type Grid struct {
	width, height int
	cells         []float32
}

// Allocate returns a zeroed grid. Non-positive dimensions yield an empty grid.
func Allocate(cols, rows int) *Grid {
	if cols <= 0 || rows <= 0 {
		return &Grid{}
	}
	return &Grid{
		width:  cols,
		height: rows,
		cells:  make([]float32, cols*rows),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Len() int    { return len(g.cells) }
func (g *Grid) Empty() bool { return len(g.cells) == 0 }

// Cells exposes the backing slice for bulk passes.
func (g *Grid) Cells() []float32 { return g.cells }

func (g *Grid) Index(x, y int) int { return y*g.width + x }

// Get reads the cell nearest to (x, y); coordinates outside the grid are
// clamped to the edge. Reading an empty grid returns 0.
func (g *Grid) Get(x, y int) float32 {
	if g.Empty() {
		return 0
	}
	return g.cells[g.Index(clamp(x, g.width), clamp(y, g.height))]
}

// Set writes (x, y). Out-of-range writes are dropped.
func (g *Grid) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[g.Index(x, y)] = v
}

// Fill assigns every cell.
func (g *Grid) Fill(v float32) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]float32, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Snapshot copies the cells into dst, growing it when needed, and returns it.
func (g *Grid) Snapshot(dst []float32) []float32 {
	if cap(dst) < len(g.cells) {
		dst = make([]float32, len(g.cells))
	}
	dst = dst[:len(g.cells)]
	copy(dst, g.cells)
	return dst
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
