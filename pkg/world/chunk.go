package world

import (
	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

// MaxColumn is the longest column accepted by SetColumn.
const MaxColumn = Height - 1

// Chunk is a 16×16 column of up to 16 sections.
type Chunk struct {
	pos      ChunkPos
	sections [SectionsPerChunk]*Section
	// heightMap holds one past the highest opaque voxel per column, indexed
	// z*16+x. Zero means not computed yet.
	heightMap [SectionSize * SectionSize]int32
	// dirty covers the height map and section creation; sections track
	// their own voxel changes.
	dirty bool
}

// NewChunk creates a chunk at absolute position pos, pre-filled from layers.
// A pre-filled chunk has its height map and sky light computed.
func NewChunk(pos ChunkPos, layers *Layers) *Chunk {
	c := &Chunk{pos: pos, dirty: true}
	if !layers.Empty() {
		layers.fill(c)
		c.RecomputeHeightMap()
		c.AddSkyLightAll()
	}
	return c
}

// Pos returns the absolute chunk position.
func (c *Chunk) Pos() ChunkPos {
	return c.pos
}

// Section returns section i, or nil when it has never been written.
func (c *Chunk) Section(i int) *Section {
	if i < 0 || i >= SectionsPerChunk {
		return nil
	}
	return c.sections[i]
}

// SetBlock stores b at chunk-local (x, z) and world height y. Out of range
// heights are ignored. A change invalidates the column's height map entry.
func (c *Chunk) SetBlock(x, y, z int, b catalog.Block) {
	if !validY(y) {
		return
	}
	s := c.sections[y/SectionSize]
	if s == nil {
		if b.IsAir() {
			return
		}
		s = newSection()
		c.sections[y/SectionSize] = s
		c.dirty = true
	}
	if s.set(x, y%SectionSize, z, b) {
		c.heightMap[columnIndex(x, z)] = 0
	}
}

// Block returns the id and data value at chunk-local (x, z) and height y.
func (c *Chunk) Block(x, y, z int) (id, data uint8) {
	if !validY(y) {
		return 0, 0
	}
	s := c.sections[y/SectionSize]
	if s == nil {
		return 0, 0
	}
	return s.Block(x, y%SectionSize, z)
}

// SetColumn writes blocks[i] at height i of column (x, z) and recomputes
// that column's height and sky light. Empty columns and columns longer than
// MaxColumn are ignored.
func (c *Chunk) SetColumn(x, z int, blocks []catalog.Block) {
	if len(blocks) == 0 || len(blocks) > MaxColumn {
		return
	}
	for y, b := range blocks {
		c.SetBlock(x, y, z, b)
	}
	c.RecomputeColumn(x, z)
	c.AddSkyLight(x, z)
}

// HighestBlock returns one past the highest opaque voxel of column (x, z),
// or 0 for a column with none.
func (c *Chunk) HighestBlock(x, z int) int {
	if c.heightMap[columnIndex(x, z)] == 0 {
		c.RecomputeColumn(x, z)
	}
	return int(c.heightMap[columnIndex(x, z)])
}

// RecomputeColumn fills the height map entry of column (x, z) if it is
// still unset. The first section from the top with an opaque voxel wins.
func (c *Chunk) RecomputeColumn(x, z int) {
	i := columnIndex(x, z)
	if c.heightMap[i] != 0 {
		return
	}
	for sy := SectionsPerChunk - 1; sy >= 0; sy-- {
		s := c.sections[sy]
		if s == nil {
			continue
		}
		if h := s.HighestOpaque(x, z); h != -1 {
			c.heightMap[i] = int32(sy*SectionSize + h + 1)
			c.dirty = true
			return
		}
	}
}

// RecomputeHeightMap fills every unset height map entry.
func (c *Chunk) RecomputeHeightMap() {
	for z := 0; z < SectionSize; z++ {
		for x := 0; x < SectionSize; x++ {
			c.RecomputeColumn(x, z)
		}
	}
}

// AddSkyLight floods sky light down column (x, z) from the top of the
// world. Opaque voxels stop the flood, diffusing voxels attenuate it, and
// the flood ends once the level reaches zero; everything below is dark.
// Absent sections are skipped. Only voxels whose level changes are written.
func (c *Chunk) AddSkyLight(x, z int) {
	light := MaxLight
	for sy := SectionsPerChunk - 1; sy >= 0; sy-- {
		s := c.sections[sy]
		if s == nil {
			continue
		}
		for y := SectionSize - 1; y >= 0; y-- {
			if light > 0 {
				att := s.Transparency(x, y, z).Attenuation()
				if att < 0 {
					light = 0
				} else {
					light = max(light-att, 0)
				}
			}
			s.SetSkyLight(x, y, z, uint8(light))
		}
	}
}

// AddSkyLightAll runs AddSkyLight for every column.
func (c *Chunk) AddSkyLightAll() {
	for z := 0; z < SectionSize; z++ {
		for x := 0; x < SectionSize; x++ {
			c.AddSkyLight(x, z)
		}
	}
}

// SkyLight returns the sky light at chunk-local (x, z) and height y. Voxels
// above the world or in absent sections are fully lit.
func (c *Chunk) SkyLight(x, y, z int) uint8 {
	if y < 0 {
		return 0
	}
	if y >= Height {
		return MaxLight
	}
	s := c.sections[y/SectionSize]
	if s == nil {
		return MaxLight
	}
	return s.SkyLight(x, y%SectionSize, z)
}

// Dirty reports whether the chunk changed since it was loaded or written.
func (c *Chunk) Dirty() bool {
	if c.dirty {
		return true
	}
	for _, s := range c.sections {
		if s != nil && s.dirty {
			return true
		}
	}
	return false
}

func (c *Chunk) markClean() {
	c.dirty = false
	for _, s := range c.sections {
		if s != nil {
			s.dirty = false
		}
	}
}

// HasBlocks reports whether the chunk holds at least one non-air voxel.
func (c *Chunk) HasBlocks() bool {
	for _, s := range c.sections {
		if s != nil && s.blockCount > 0 {
			return true
		}
	}
	return false
}

// Equal compares position, height map and sections. Sections without
// blocks are not persisted and compare equal to absent ones.
func (c *Chunk) Equal(o *Chunk) bool {
	if c.pos != o.pos || c.heightMap != o.heightMap {
		return false
	}
	for i := range c.sections {
		a, b := c.sections[i], o.sections[i]
		aEmpty := a == nil || a.blockCount == 0
		bEmpty := b == nil || b.blockCount == 0
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

// Record converts the chunk to its stored form.
func (c *Chunk) Record(lastUpdate int64) *anvil.ChunkRecord {
	rec := &anvil.ChunkRecord{
		XPos:             int32(c.pos.X),
		ZPos:             int32(c.pos.Z),
		Sections:         make([]anvil.SectionRecord, 0, SectionsPerChunk),
		HeightMap:        append([]int32(nil), c.heightMap[:]...),
		LastUpdate:       lastUpdate,
		V:                1,
		LightPopulated:   1,
		TerrainPopulated: 1,
	}
	for i, s := range c.sections {
		if s != nil && s.blockCount > 0 {
			rec.Sections = append(rec.Sections, s.record(i))
		}
	}
	return rec
}

// ChunkFromRecord rebuilds a chunk from its stored form. The record must
// already be validated.
func ChunkFromRecord(rec *anvil.ChunkRecord, cat *catalog.Catalog) *Chunk {
	c := &Chunk{pos: ChunkPos{X: int(rec.XPos), Z: int(rec.ZPos)}}
	for i := range rec.Sections {
		sr := &rec.Sections[i]
		c.sections[sr.Y] = sectionFromRecord(sr, cat)
	}
	copy(c.heightMap[:], rec.HeightMap)
	return c
}
