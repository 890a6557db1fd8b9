package world

import "github.com/OCharnyshevich/blockworld/pkg/catalog"

// RegionLookup returns a resident region, or nil. It must not load regions.
type RegionLookup func(RegionPos) *Region

var neighbours = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// SpreadSkyLight lets light leak sideways from every voxel lit at exactly
// level into fully transparent neighbours darker than level-1. Neighbours
// in other regions are reached through lookup when it is not nil. Chunks
// and sections are never created; absent sections already count as lit.
func (r *Region) SpreadSkyLight(level int, lookup RegionLookup) {
	if level < 2 || level > MaxLight {
		return
	}
	target := uint8(level - 1)

	for ci, c := range r.chunks {
		if c == nil {
			continue
		}
		baseX := (ci % ChunksPerRegion) * SectionSize
		baseZ := (ci / ChunksPerRegion) * SectionSize

		for sy, s := range c.sections {
			if s == nil {
				continue
			}
			for i := 0; i < sectionVolume; i++ {
				if s.skyLight.get(i) != uint8(level) {
					continue
				}
				x := baseX + i%SectionSize
				z := baseZ + (i/SectionSize)%SectionSize
				y := sy*SectionSize + i/(SectionSize*SectionSize)
				for _, d := range neighbours {
					r.raiseLight(x+d[0], y+d[1], z+d[2], target, lookup)
				}
			}
		}
	}
}

// raiseLight raises the light at region-local (x, y, z) to level when the
// voxel is fully transparent and darker. x and z may lie one block outside
// the region.
func (r *Region) raiseLight(x, y, z int, level uint8, lookup RegionLookup) {
	if !validY(y) {
		return
	}

	dst := r
	if x < 0 || x >= RegionSize || z < 0 || z >= RegionSize {
		if lookup == nil {
			return
		}
		dst = lookup(RegionPos{X: r.pos.X + floorDiv(x, RegionSize), Z: r.pos.Z + floorDiv(z, RegionSize)})
		if dst == nil {
			return
		}
		x, z = floorMod(x, RegionSize), floorMod(z, RegionSize)
	}

	c := dst.chunkAt(x, z, false)
	if c == nil {
		return
	}
	s := c.sections[y/SectionSize]
	if s == nil {
		return
	}
	lx, ly, lz := x%SectionSize, y%SectionSize, z%SectionSize
	if s.Transparency(lx, ly, lz) != catalog.Transparent || s.SkyLight(lx, ly, lz) >= level {
		return
	}
	s.SetSkyLight(lx, ly, lz, level)
}
