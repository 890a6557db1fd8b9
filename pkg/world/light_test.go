package world

import (
	"testing"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
)

func spreadAll(r *Region, lookup RegionLookup) {
	for level := MaxLight; level > 1; level-- {
		r.SpreadSkyLight(level, lookup)
	}
}

func TestSpreadSkyLightUnderOverhang(t *testing.T) {
	r := NewRegion(RegionPos{}, nil)
	// Stone floor at y=0 over the whole chunk, roof at y=5 over x in [0,8).
	for z := 0; z < SectionSize; z++ {
		for x := 0; x < SectionSize; x++ {
			r.SetBlock(x, 0, z, stone)
			if x < 8 {
				r.SetBlock(x, 5, z, stone)
			}
		}
	}
	r.RecomputeHeightMap()
	r.AddSkyLightAll()

	if got := r.SkyLight(7, 1, 4); got != 0 {
		t.Fatalf("expected dark under the roof before spreading, got %d", got)
	}

	spreadAll(r, nil)

	for x := 7; x >= 0; x-- {
		want := uint8(15 - (8 - x))
		for _, z := range []int{0, 9} {
			if got := r.SkyLight(x, 1, z); got != want {
				t.Errorf("x=%d z=%d: expected %d, got %d", x, z, want, got)
			}
		}
	}
	if got := r.SkyLight(3, 0, 0); got != 0 {
		t.Errorf("expected opaque floor to stay dark, got %d", got)
	}
}

func TestSpreadSkyLightSkipsOpaque(t *testing.T) {
	r := NewRegion(RegionPos{}, nil)
	r.SetBlock(1, 20, 1, stone)
	r.SetBlock(1, 21, 1, stone)
	r.SetBlock(2, 20, 1, leaves)
	r.AddSkyLightAll()
	spreadAll(r, nil)

	c := r.Chunk(0, 0)
	if got := c.Section(1).SkyLight(1, 4, 1); got != 0 {
		t.Fatalf("expected stone to stay dark, got %d", got)
	}
	if got := c.Section(1).Transparency(2, 4, 1); got != catalog.Diffusing {
		t.Fatalf("unexpected leaves transparency %d", got)
	}
}

func TestSpreadSkyLightAcrossResidentRegion(t *testing.T) {
	west := NewRegion(RegionPos{X: -1}, nil)
	east := NewRegion(RegionPos{X: 0}, nil)

	// A covered pocket in east at x=0 next to an open column in west at x=511.
	east.SetBlock(0, 0, 0, stone)
	east.SetBlock(0, 2, 0, stone)
	west.SetBlock(RegionSize-1, 0, 0, stone)
	for _, r := range []*Region{west, east} {
		r.RecomputeHeightMap()
		r.AddSkyLightAll()
	}
	if got := east.SkyLight(0, 1, 0); got != 0 {
		t.Fatalf("expected dark pocket, got %d", got)
	}

	lookup := func(pos RegionPos) *Region {
		if pos == east.Pos() {
			return east
		}
		return nil
	}
	spreadAll(west, lookup)

	if got := east.SkyLight(0, 1, 0); got != 14 {
		t.Fatalf("expected light to leak into the neighbour region, got %d", got)
	}
}

func TestSpreadSkyLightNeverCreatesChunks(t *testing.T) {
	r := NewRegion(RegionPos{}, nil)
	r.SetBlock(15, 0, 15, stone)
	r.AddSkyLightAll()
	spreadAll(r, func(RegionPos) *Region { return nil })

	if r.Chunk(1, 0) != nil || r.Chunk(0, 1) != nil {
		t.Fatal("expected no chunks to be created")
	}
	for i := 1; i < SectionsPerChunk; i++ {
		if r.Chunk(0, 0).Section(i) != nil {
			t.Fatalf("expected no section %d to be created", i)
		}
	}
}
