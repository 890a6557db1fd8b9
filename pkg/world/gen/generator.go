// Package gen produces terrain columns and feeds them to a world.
package gen

import (
	"context"
	"fmt"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
)

const sectionVolume = world.SectionSize * world.SectionSize * world.SectionSize

// ChunkData holds the generated blocks of one chunk column before they are
// written to a world. Coordinates are chunk-local.
type ChunkData struct {
	sections [world.SectionsPerChunk]*[sectionVolume]catalog.Block
	biomes   [world.SectionSize * world.SectionSize]Biome
}

// Generator produces chunk columns deterministically from a seed.
type Generator interface {
	Generate(pos world.ChunkPos) *ChunkData
	// HeightAt returns the y of the terrain surface at an absolute column,
	// or -1 when the column is empty.
	HeightAt(x, z int) int
}

// Set stores b at chunk-local (x, y, z). Out of range positions are ignored.
func (c *ChunkData) Set(x, y, z int, b catalog.Block) {
	if !inChunk(x, y, z) {
		return
	}
	s := c.sections[y/world.SectionSize]
	if s == nil {
		if b.IsAir() {
			return
		}
		s = new([sectionVolume]catalog.Block)
		c.sections[y/world.SectionSize] = s
	}
	s[(y%world.SectionSize)*256+z*16+x] = b
}

// At returns the block at chunk-local (x, y, z).
func (c *ChunkData) At(x, y, z int) catalog.Block {
	if !inChunk(x, y, z) {
		return catalog.Air
	}
	s := c.sections[y/world.SectionSize]
	if s == nil {
		return catalog.Air
	}
	return s[(y%world.SectionSize)*256+z*16+x]
}

// SetBiome records the biome of column (x, z).
func (c *ChunkData) SetBiome(x, z int, b Biome) {
	c.biomes[z*16+x] = b
}

// Biome returns the biome of column (x, z).
func (c *ChunkData) Biome(x, z int) Biome {
	return c.biomes[z*16+x]
}

// Column returns column (x, z) from y=0 up to its topmost non-air block,
// capped at world.MaxColumn entries. An empty column returns nil.
func (c *ChunkData) Column(x, z int) []catalog.Block {
	top := -1
	for y := world.MaxColumn - 1; y >= 0; y-- {
		if !c.At(x, y, z).IsAir() {
			top = y
			break
		}
	}
	if top < 0 {
		return nil
	}
	col := make([]catalog.Block, top+1)
	for y := range col {
		col[y] = c.At(x, y, z)
	}
	return col
}

// ColumnWriter accepts whole block columns at absolute coordinates.
// *world.World implements it.
type ColumnWriter interface {
	SetColumn(x, z int, blocks []catalog.Block) error
}

// Apply writes every non-empty column of c into w at chunk position pos.
func Apply(w ColumnWriter, pos world.ChunkPos, c *ChunkData) error {
	for z := 0; z < world.SectionSize; z++ {
		for x := 0; x < world.SectionSize; x++ {
			col := c.Column(x, z)
			if col == nil {
				continue
			}
			if err := w.SetColumn(pos.X*world.SectionSize+x, pos.Z*world.SectionSize+z, col); err != nil {
				return fmt.Errorf("apply chunk %d,%d: %w", pos.X, pos.Z, err)
			}
		}
	}
	return nil
}

// Area is an inclusive rectangle of absolute block columns.
type Area struct {
	MinX, MinZ, MaxX, MaxZ int
}

// Chunks returns the chunk positions overlapping a, row by row.
func (a Area) Chunks() []world.ChunkPos {
	if a.MaxX < a.MinX || a.MaxZ < a.MinZ {
		return nil
	}
	lo := world.ChunkOf(a.MinX, a.MinZ)
	hi := world.ChunkOf(a.MaxX, a.MaxZ)
	out := make([]world.ChunkPos, 0, (hi.X-lo.X+1)*(hi.Z-lo.Z+1))
	for cz := lo.Z; cz <= hi.Z; cz++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			out = append(out, world.ChunkPos{X: cx, Z: cz})
		}
	}
	return out
}

// Build generates every chunk overlapping area and writes it to w. It
// returns the number of chunks written. The context is checked between
// chunks.
func Build(ctx context.Context, w ColumnWriter, g Generator, area Area) (int, error) {
	n := 0
	for _, pos := range area.Chunks() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := Apply(w, pos, g.Generate(pos)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func inChunk(x, y, z int) bool {
	return x >= 0 && x < world.SectionSize && z >= 0 && z < world.SectionSize && y >= 0 && y < world.Height
}
