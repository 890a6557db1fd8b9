package world

const (
	// Height is the number of block layers in the world.
	Height = 256
	// SectionSize is the edge length of a section cube.
	SectionSize = 16
	// SectionsPerChunk is the number of stacked sections in a chunk.
	SectionsPerChunk = Height / SectionSize
	// ChunksPerRegion is the edge length of a region in chunks.
	ChunksPerRegion = 32
	// RegionSize is the edge length of a region in blocks.
	RegionSize = ChunksPerRegion * SectionSize

	// MaxLight is the sky light level of open sky.
	MaxLight = 15
)

// RegionPos identifies a region by its region coordinates.
type RegionPos struct{ X, Z int }

// ChunkPos identifies a chunk by its absolute chunk coordinates.
type ChunkPos struct{ X, Z int }

// RegionOf returns the region containing the block column (x, z).
func RegionOf(x, z int) RegionPos {
	return RegionPos{X: floorDiv(x, RegionSize), Z: floorDiv(z, RegionSize)}
}

// ChunkOf returns the chunk containing the block column (x, z).
func ChunkOf(x, z int) ChunkPos {
	return ChunkPos{X: floorDiv(x, SectionSize), Z: floorDiv(z, SectionSize)}
}

// Chunk returns the absolute position of the chunk at region-local slot (cx, cz).
func (p RegionPos) Chunk(cx, cz int) ChunkPos {
	return ChunkPos{X: p.X*ChunksPerRegion + cx, Z: p.Z*ChunksPerRegion + cz}
}

// Local returns the slot of the chunk inside its region.
func (p ChunkPos) Local() (cx, cz int) {
	return floorMod(p.X, ChunksPerRegion), floorMod(p.Z, ChunksPerRegion)
}

// Region returns the region that owns the chunk.
func (p ChunkPos) Region() RegionPos {
	return RegionPos{X: floorDiv(p.X, ChunksPerRegion), Z: floorDiv(p.Z, ChunksPerRegion)}
}

// regionLocal converts an absolute block coordinate to its offset inside the region.
func regionLocal(v int) int {
	return floorMod(v, RegionSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func validY(y int) bool {
	return y >= 0 && y < Height
}

// columnIndex is the z-major, x-minor index of a column inside a chunk.
func columnIndex(x, z int) int {
	return z*SectionSize + x
}
