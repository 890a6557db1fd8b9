package gen

import (
	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
)

// FlatGenerator repeats one layer template in every column.
type FlatGenerator struct {
	column []catalog.Block
	biome  Biome
}

// NewFlatGenerator creates a FlatGenerator from layers. Unset layers are air.
func NewFlatGenerator(layers *world.Layers) *FlatGenerator {
	g := &FlatGenerator{biome: Plains}
	top := -1
	for y := 0; y < world.MaxColumn; y++ {
		if b, ok := layers.Layer(y); ok && !b.IsAir() {
			top = y
		}
	}
	g.column = make([]catalog.Block, top+1)
	for y := range g.column {
		if b, ok := layers.Layer(y); ok {
			g.column[y] = b
		} else {
			g.column[y] = catalog.Air
		}
	}
	return g
}

// DefaultFlatLayers returns the classic superflat template: bedrock, two
// stone layers, dirt and grass.
func DefaultFlatLayers(cat *catalog.Catalog) *world.Layers {
	if cat == nil {
		cat = catalog.Default()
	}
	l := world.NewLayers()
	for y, name := range []string{"bedrock", "stone", "stone", "dirt", "grass"} {
		if b, ok := cat.Block(name, 0); ok {
			l.SetLayer(y, b)
		}
	}
	return l
}

func (g *FlatGenerator) Generate(_ world.ChunkPos) *ChunkData {
	c := &ChunkData{}
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			for y, b := range g.column {
				c.Set(x, y, z, b)
			}
			c.SetBiome(x, z, g.biome)
		}
	}
	return c
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return len(g.column) - 1
}
