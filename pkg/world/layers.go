package world

import "github.com/OCharnyshevich/blockworld/pkg/catalog"

// Layers assigns a default block to absolute y-layers. New chunks are
// pre-filled from it before any explicit writes.
type Layers struct {
	blocks [Height]catalog.Block
	set    [Height]bool
}

// NewLayers returns an empty layer template.
func NewLayers() *Layers {
	return &Layers{}
}

// SetLayer assigns b to layer y. Out of range layers are ignored.
func (l *Layers) SetLayer(y int, b catalog.Block) {
	if !validY(y) {
		return
	}
	l.blocks[y] = b
	l.set[y] = true
}

// SetLayers assigns b to every layer from y1 to y2 inclusive. Nothing is
// assigned unless both bounds are in range.
func (l *Layers) SetLayers(y1, y2 int, b catalog.Block) {
	if !validY(y1) || !validY(y2) {
		return
	}
	for y := y1; y <= y2; y++ {
		l.SetLayer(y, b)
	}
}

// Layer returns the block assigned to layer y.
func (l *Layers) Layer(y int) (catalog.Block, bool) {
	if l == nil || !validY(y) || !l.set[y] {
		return catalog.Block{}, false
	}
	return l.blocks[y], true
}

// Empty reports whether no layer is assigned.
func (l *Layers) Empty() bool {
	if l == nil {
		return true
	}
	for _, ok := range l.set {
		if ok {
			return false
		}
	}
	return true
}

// fill writes the template into a fresh chunk.
func (l *Layers) fill(c *Chunk) {
	if l.Empty() {
		return
	}
	for y := 0; y < Height; y++ {
		b, ok := l.Layer(y)
		if !ok || b.IsAir() {
			continue
		}
		for z := 0; z < SectionSize; z++ {
			for x := 0; x < SectionSize; x++ {
				c.SetBlock(x, y, z, b)
			}
		}
	}
}
