package terrain

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// TerrainFunc receives one coordinate of a walk. ok is false when (x, y)
// lies outside the stored terrain; t is then Empty but does not come from
// the map.
type TerrainFunc func(x, y int, t TerrainType, ok bool)

// Cell is a walked cell. Present is false for coordinates outside the stored
// terrain.
type Cell struct {
	Type    TerrainType `json:"type"`
	Present bool        `json:"present"`
}

func (m *Map) cell(x, y int) (TerrainType, bool) {
	if !m.InBounds(x, y) {
		return Empty, false
	}
	return m.terrain[y*m.width+x], true
}

// Walk visits every coordinate of the quadrant with top-left (x, y) and the
// given size, row by row. The quadrant is not clamped to the map, so every
// requested coordinate is visited once. fn must not modify m.
func (m *Map) Walk(x, y, width, height int, fn TerrainFunc) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			t, ok := m.cell(col, row)
			fn(col, row, t, ok)
		}
	}
}

// Cells returns the same traversal as Walk as a sequence. Each range over the
// sequence walks the quadrant again.
func (m *Map) Cells(x, y, width, height int) iter.Seq2[Coordinate, Cell] {
	return func(yield func(Coordinate, Cell) bool) {
		for row := y; row < y+height; row++ {
			for col := x; col < x+width; col++ {
				t, ok := m.cell(col, row)
				if !yield(Coordinate{X: col, Y: row}, Cell{Type: t, Present: ok}) {
					return
				}
			}
		}
	}
}

// WalkSurrounding visits the cells around (x, y), skipping (x, y) itself.
// Unlike Walk it stays inside the current bounds.
func (m *Map) WalkSurrounding(x, y int, fn TerrainFunc) {
	for row, maxRow := max(0, y-1), min(m.height-1, y+1); row <= maxRow; row++ {
		for col, maxCol := max(0, x-1), min(m.width-1, x+1); col <= maxCol; col++ {
			if col == x && row == y {
				continue
			}
			t, ok := m.cell(col, row)
			fn(col, row, t, ok)
		}
	}
}

// Printer writes walked terrain keys to a writer, one line per row.
// Missing cells print as EmptyKey. After the first write error Printer stops
// writing and Err reports it.
type Printer struct {
	w       io.Writer
	lastRow int
	started bool
	buf     [1]byte
	err     error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Visit is a TerrainFunc.
func (p *Printer) Visit(x, y int, t TerrainType, ok bool) {
	if p.err != nil {
		return
	}
	if !p.started {
		p.started = true
		p.lastRow = y
	} else if y > p.lastRow {
		p.lastRow = y
		if p.write('\n') {
			return
		}
	}
	key := EmptyKey
	if ok {
		key = t.Key()
	}
	p.write(key)
}

func (p *Printer) write(b byte) (failed bool) {
	p.buf[0] = b
	if _, err := p.w.Write(p.buf[:]); err != nil {
		p.err = fmt.Errorf("%w: %v", ErrRender, err)
		return true
	}
	return false
}

// Err returns the first write error, wrapped in ErrRender.
func (p *Printer) Err() error {
	return p.err
}

// RenderTo writes a quadrant of the map to w.
func (m *Map) RenderTo(w io.Writer, x, y, width, height int) error {
	p := NewPrinter(w)
	m.Walk(x, y, width, height, p.Visit)
	return p.Err()
}

// RenderQuadrant renders a quadrant of the map as text.
func (m *Map) RenderQuadrant(x, y, width, height int) string {
	var sb strings.Builder
	if width > 0 && height > 0 {
		sb.Grow((width + 1) * height)
	}
	// strings.Builder never fails to write
	_ = m.RenderTo(&sb, x, y, width, height)
	return sb.String()
}

// Render renders the whole map as text.
func (m *Map) Render() string {
	return m.RenderQuadrant(0, 0, m.width, m.height)
}
