package world

import "testing"

func TestRegionOf(t *testing.T) {
	tests := []struct {
		x, z int
		want RegionPos
	}{
		{0, 0, RegionPos{0, 0}},
		{511, 511, RegionPos{0, 0}},
		{512, -1, RegionPos{1, -1}},
		{-512, -513, RegionPos{-1, -2}},
		{-1024, 1023, RegionPos{-2, 1}},
		{327981, 253118, RegionPos{640, 494}},
	}
	for _, tt := range tests {
		if got := RegionOf(tt.x, tt.z); got != tt.want {
			t.Errorf("RegionOf(%d, %d) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestRegionLocal(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {511, 511}, {512, 0}, {-1, 511}, {-512, 0}, {-513, 511},
	}
	for _, tt := range tests {
		if got := regionLocal(tt.in); got != tt.want {
			t.Errorf("regionLocal(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestChunkPosRoundTrip(t *testing.T) {
	for _, rp := range []RegionPos{{0, 0}, {-1, 3}, {7, -9}} {
		for _, slot := range [][2]int{{0, 0}, {31, 0}, {5, 31}} {
			cp := rp.Chunk(slot[0], slot[1])
			if cp.Region() != rp {
				t.Errorf("chunk %v: region %v, want %v", cp, cp.Region(), rp)
			}
			if cx, cz := cp.Local(); cx != slot[0] || cz != slot[1] {
				t.Errorf("chunk %v: slot (%d,%d), want %v", cp, cx, cz, slot)
			}
		}
	}
}

func TestChunkOf(t *testing.T) {
	tests := []struct {
		x, z int
		want ChunkPos
	}{
		{0, 0, ChunkPos{0, 0}},
		{15, 16, ChunkPos{0, 1}},
		{-1, -16, ChunkPos{-1, -1}},
		{-17, 327981, ChunkPos{-2, 20498}},
	}
	for _, tt := range tests {
		if got := ChunkOf(tt.x, tt.z); got != tt.want {
			t.Errorf("ChunkOf(%d, %d) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}
