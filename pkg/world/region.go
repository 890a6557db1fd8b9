package world

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

// BlobReader returns the stored chunk blob at a region slot.
type BlobReader interface {
	Read(cx, cz int) ([]byte, bool, error)
}

// BlobWriter stores a chunk blob at a region slot.
type BlobWriter interface {
	Write(cx, cz int, data []byte) error
}

// Region is a 32×32 grid of chunks. Block coordinates passed to its methods
// are region-local, x and z in [0,512).
type Region struct {
	pos    RegionPos
	chunks [ChunksPerRegion * ChunksPerRegion]*Chunk
	layers *Layers
	// dirty marks a region that was never written or gained a chunk;
	// voxel and height changes are tracked by the chunks.
	dirty bool
}

// NewRegion creates an empty region. New chunks are pre-filled from layers.
func NewRegion(pos RegionPos, layers *Layers) *Region {
	return &Region{pos: pos, layers: layers, dirty: true}
}

// Pos returns the region coordinates.
func (r *Region) Pos() RegionPos {
	return r.pos
}

// Dirty reports whether the region changed since it was last read or
// written, including changes made through Chunk and Section.
func (r *Region) Dirty() bool {
	if r.dirty {
		return true
	}
	for _, c := range r.chunks {
		if c != nil && c.Dirty() {
			return true
		}
	}
	return false
}

// Chunk returns the chunk at slot (cx, cz), or nil.
func (r *Region) Chunk(cx, cz int) *Chunk {
	return r.chunks[cz*ChunksPerRegion+cx]
}

// ChunkCount returns the number of chunks holding blocks.
func (r *Region) ChunkCount() int {
	n := 0
	for _, c := range r.chunks {
		if c != nil && c.HasBlocks() {
			n++
		}
	}
	return n
}

func (r *Region) chunkAt(x, z int, create bool) *Chunk {
	cx, cz := x/SectionSize, z/SectionSize
	i := cz*ChunksPerRegion + cx
	c := r.chunks[i]
	if c == nil && create {
		c = NewChunk(r.pos.Chunk(cx, cz), r.layers)
		r.chunks[i] = c
		r.dirty = true
	}
	return c
}

// SetBlock stores b at region-local (x, y, z). Out of range heights are ignored.
func (r *Region) SetBlock(x, y, z int, b catalog.Block) {
	if !validY(y) {
		return
	}
	// Air on an absent chunk changes nothing unless layers would fill it.
	c := r.chunkAt(x, z, !b.IsAir() || !r.layers.Empty())
	if c == nil {
		return
	}
	c.SetBlock(x%SectionSize, y, z%SectionSize, b)
}

// Block returns the id and data value at region-local (x, y, z).
func (r *Region) Block(x, y, z int) (id, data uint8) {
	c := r.chunkAt(x, z, false)
	if c == nil {
		return 0, 0
	}
	return c.Block(x%SectionSize, y, z%SectionSize)
}

// SetColumn writes a whole column starting at y=0; see Chunk.SetColumn.
func (r *Region) SetColumn(x, z int, blocks []catalog.Block) {
	if len(blocks) == 0 || len(blocks) > MaxColumn {
		return
	}
	r.chunkAt(x, z, true).SetColumn(x%SectionSize, z%SectionSize, blocks)
}

// HighestBlock returns one past the highest opaque voxel of column (x, z).
func (r *Region) HighestBlock(x, z int) int {
	c := r.chunkAt(x, z, false)
	if c == nil {
		return 0
	}
	return c.HighestBlock(x%SectionSize, z%SectionSize)
}

// SkyLight returns the sky light at region-local (x, y, z).
func (r *Region) SkyLight(x, y, z int) uint8 {
	c := r.chunkAt(x, z, false)
	if c == nil {
		if y < 0 {
			return 0
		}
		return MaxLight
	}
	return c.SkyLight(x%SectionSize, y, z%SectionSize)
}

// AddSkyLight recomputes sky light for column (x, z).
func (r *Region) AddSkyLight(x, z int) {
	c := r.chunkAt(x, z, false)
	if c == nil {
		return
	}
	c.AddSkyLight(x%SectionSize, z%SectionSize)
}

// AddSkyLightAll recomputes sky light for every column of every chunk.
func (r *Region) AddSkyLightAll() {
	for _, c := range r.chunks {
		if c != nil {
			c.AddSkyLightAll()
		}
	}
}

// RecomputeHeightMap fills every unset height map entry of every chunk.
func (r *Region) RecomputeHeightMap() {
	for _, c := range r.chunks {
		if c != nil {
			c.RecomputeHeightMap()
		}
	}
}

// Equal compares two regions chunk by chunk. Chunks without blocks compare
// equal to absent ones.
func (r *Region) Equal(o *Region) bool {
	if r.pos != o.pos {
		return false
	}
	for i := range r.chunks {
		a, b := r.chunks[i], o.chunks[i]
		aEmpty := a == nil || !a.HasBlocks()
		bEmpty := b == nil || !b.HasBlocks()
		if aEmpty || bEmpty {
			if aEmpty != bEmpty {
				return false
			}
			continue
		}
		if !a.Equal(b) {
			return false
		}
	}
	return true
}

// WriteTo encodes every chunk holding blocks and stores it in w under its
// slot. Chunks are encoded on up to workers goroutines and written in slot
// order. It returns the number of chunks written.
func (r *Region) WriteTo(w BlobWriter, workers int, lastUpdate int64) (int, error) {
	present := make([]*Chunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if c != nil && c.HasBlocks() {
			c.RecomputeHeightMap()
			present = append(present, c)
		}
	}

	encoded := make([][]byte, len(present))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range present {
		g.Go(func() error {
			data, err := anvil.EncodeChunk(c.Record(lastUpdate))
			if err != nil {
				return err
			}
			encoded[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("region %d,%d: %w", r.pos.X, r.pos.Z, err)
	}

	for i, c := range present {
		cx, cz := c.pos.Local()
		if err := w.Write(cx, cz, encoded[i]); err != nil {
			return i, fmt.Errorf("region %d,%d: %w", r.pos.X, r.pos.Z, err)
		}
	}
	r.dirty = false
	for _, c := range r.chunks {
		if c != nil {
			c.markClean()
		}
	}
	return len(present), nil
}

// ReadRegion rebuilds region pos from the blobs in src. Transparency is
// derived through cat.
func ReadRegion(pos RegionPos, src BlobReader, cat *catalog.Catalog, layers *Layers) (*Region, error) {
	r := &Region{pos: pos, layers: layers}
	for cz := 0; cz < ChunksPerRegion; cz++ {
		for cx := 0; cx < ChunksPerRegion; cx++ {
			data, ok, err := src.Read(cx, cz)
			if err != nil {
				return nil, fmt.Errorf("region %d,%d: %w", pos.X, pos.Z, err)
			}
			if !ok {
				continue
			}

			rec, err := anvil.DecodeChunk(data)
			if err != nil {
				return nil, fmt.Errorf("region %d,%d slot %d,%d: %w", pos.X, pos.Z, cx, cz, err)
			}
			c := ChunkFromRecord(rec, cat)
			if lx, lz := c.pos.Local(); c.pos.Region() != pos || lx != cx || lz != cz {
				return nil, fmt.Errorf("region %d,%d slot %d,%d holds chunk %d,%d: %w",
					pos.X, pos.Z, cx, cz, c.pos.X, c.pos.Z, anvil.ErrMalformedChunk)
			}
			r.chunks[cz*ChunksPerRegion+cx] = c
		}
	}
	return r, nil
}
