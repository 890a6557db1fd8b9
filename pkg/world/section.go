package world

import (
	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

const sectionVolume = SectionSize * SectionSize * SectionSize

// Section is a 16×16×16 cube of voxels.
// Index = y*256 + z*16 + x.
type Section struct {
	blocks       [sectionVolume]uint8
	data         nibbles
	skyLight     nibbles
	transparency [sectionVolume]catalog.Transparency
	blockCount   int
	// dirty is set by every change and cleared once the section is written.
	dirty bool
}

func newSection() *Section {
	s := &Section{}
	for i := range s.transparency {
		s.transparency[i] = catalog.Transparent
	}
	return s
}

func sectionIndex(x, y, z int) int {
	return y*SectionSize*SectionSize + z*SectionSize + x
}

// SetBlock stores b at (x, y, z). Writing air clears the voxel.
func (s *Section) SetBlock(x, y, z int, b catalog.Block) {
	s.set(x, y, z, b)
}

// set stores b and reports whether the voxel changed.
func (s *Section) set(x, y, z int, b catalog.Block) bool {
	i := sectionIndex(x, y, z)
	if b.IsAir() {
		if s.blocks[i] == 0 && s.data.get(i) == 0 {
			return false
		}
		if s.blocks[i] != 0 {
			s.blockCount--
		}
		s.dirty = true
		s.blocks[i] = 0
		s.data.set(i, 0)
		s.transparency[i] = catalog.Transparent
		return true
	}

	if s.blocks[i] == b.ID && s.data.get(i) == b.Data&0xF && s.transparency[i] == b.Transparency {
		return false
	}
	if s.blocks[i] == 0 {
		s.blockCount++
	}
	s.dirty = true
	s.blocks[i] = b.ID
	s.data.set(i, b.Data)
	s.transparency[i] = b.Transparency
	return true
}

// Block returns the id and data value at (x, y, z).
func (s *Section) Block(x, y, z int) (id, data uint8) {
	i := sectionIndex(x, y, z)
	return s.blocks[i], s.data.get(i)
}

// Transparency returns the transparency class of the voxel at (x, y, z).
func (s *Section) Transparency(x, y, z int) catalog.Transparency {
	return s.transparency[sectionIndex(x, y, z)]
}

// SkyLight returns the sky light level at (x, y, z).
func (s *Section) SkyLight(x, y, z int) uint8 {
	return s.skyLight.get(sectionIndex(x, y, z))
}

// SetSkyLight sets the sky light level at (x, y, z).
func (s *Section) SetSkyLight(x, y, z int, level uint8) {
	i := sectionIndex(x, y, z)
	if s.skyLight.get(i) == level&0xF {
		return
	}
	s.skyLight.set(i, level)
	s.dirty = true
}

// BlockCount returns the number of non-air voxels.
func (s *Section) BlockCount() int {
	return s.blockCount
}

// HighestOpaque returns the highest y in column (x, z) holding a block that
// is not fully transparent, or -1.
func (s *Section) HighestOpaque(x, z int) int {
	for y := SectionSize - 1; y >= 0; y-- {
		i := sectionIndex(x, y, z)
		if s.blocks[i] != 0 && s.transparency[i] != catalog.Transparent {
			return y
		}
	}
	return -1
}

// Dirty reports whether the section changed since it was loaded or written.
func (s *Section) Dirty() bool {
	return s.dirty
}

// Equal reports whether s and o hold the same voxels and light.
func (s *Section) Equal(o *Section) bool {
	return s.blocks == o.blocks &&
		s.data == o.data &&
		s.skyLight == o.skyLight &&
		s.transparency == o.transparency &&
		s.blockCount == o.blockCount
}

func (s *Section) record(y int) anvil.SectionRecord {
	return anvil.SectionRecord{
		Y:          int8(y),
		Blocks:     append([]byte(nil), s.blocks[:]...),
		Data:       append([]byte(nil), s.data[:]...),
		SkyLight:   append([]byte(nil), s.skyLight[:]...),
		BlockLight: make([]byte, len(s.skyLight)),
	}
}

// sectionFromRecord rebuilds a section. Block count and transparency are
// derived from the ids, never read from storage.
func sectionFromRecord(rec *anvil.SectionRecord, cat *catalog.Catalog) *Section {
	s := &Section{}
	copy(s.blocks[:], rec.Blocks)
	copy(s.data[:], rec.Data)
	copy(s.skyLight[:], rec.SkyLight)
	for i, id := range s.blocks {
		s.transparency[i] = cat.Transparency(id)
		if id != 0 {
			s.blockCount++
		}
	}
	return s
}
