package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

func newTestWorld(t *testing.T, dir string, capacity int) *World {
	t.Helper()
	opts := testOptions(t)
	opts.CacheCapacity = capacity
	w, err := Open(dir, opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return w
}

func TestWorldHeightMap(t *testing.T) {
	w := newTestWorld(t, t.TempDir(), 30)
	const x, z = 327981, 253118

	for _, n := range [][2]int{{x, z + 1}, {x, z - 1}, {x - 1, z}, {x + 1, z}} {
		if err := w.SetColumn(n[0], n[1], column(stone, 200)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i < 255; i++ {
		if err := w.SetColumn(x, z, column(stone, i)); err != nil {
			t.Fatal(err)
		}
		got, err := w.HighestBlock(x, z)
		if err != nil {
			t.Fatal(err)
		}
		if got != i {
			t.Fatalf("expected height %d, got %d", i, got)
		}
	}
}

func TestWorldIgnoresOutOfRange(t *testing.T) {
	w := newTestWorld(t, t.TempDir(), 30)
	if err := w.SetBlock(0, -1, 0, stone); err != nil {
		t.Fatal(err)
	}
	if err := w.SetBlock(0, Height, 0, stone); err != nil {
		t.Fatal(err)
	}
	if err := w.SetColumn(0, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := w.SetColumn(0, 0, column(stone, 256)); err != nil {
		t.Fatal(err)
	}
	if w.Regions().Len() != 0 {
		t.Fatalf("expected no regions, got %d", w.Regions().Len())
	}
}

func TestWorldNegativeCoordinates(t *testing.T) {
	w := newTestWorld(t, t.TempDir(), 30)
	if err := w.SetBlock(-512, 64, -1, planks); err != nil {
		t.Fatal(err)
	}
	if w.Regions().Peek(RegionPos{X: -1, Z: -1}) == nil {
		t.Fatal("expected block in region (-1,-1)")
	}
	id, data, err := w.Block(-512, 64, -1)
	if err != nil {
		t.Fatal(err)
	}
	if id != planks.ID || data != planks.Data {
		t.Fatalf("expected planks, got %d:%d", id, data)
	}
	if id, _, _ := w.Block(-511, 64, -1); id != 0 {
		t.Fatalf("expected air next to it, got %d", id)
	}
}

func TestWorldSkyLight(t *testing.T) {
	w := newTestWorld(t, t.TempDir(), 30)
	if err := w.SetBlock(10, 70, 10, stone); err != nil {
		t.Fatal(err)
	}
	if err := w.SetBlock(10, 65, 10, glass); err != nil {
		t.Fatal(err)
	}
	if err := w.CalculateSkyLight(10, 10); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		y    int
		want uint8
	}{
		{300, 15}, {71, 15}, {70, 0}, {65, 0}, {-1, 0},
	}
	for _, tt := range tests {
		got, err := w.SkyLight(10, tt.y, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("y=%d: expected %d, got %d", tt.y, tt.want, got)
		}
	}

	if got, _ := w.SkyLight(5000, 10, 5000); got != MaxLight {
		t.Errorf("expected unwritten space to be lit, got %d", got)
	}
}

func TestWorldSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorld(t, dir, 1)

	for _, p := range [][2]int{{0, 0}, {600, 0}, {-5, -700}} {
		if err := w.SetColumn(p[0], p[1], column(dirt, 64)); err != nil {
			t.Fatal(err)
		}
		if err := w.SetBlock(p[0], 70, p[1], leaves); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := w.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if stats.Regions != 3 || stats.Chunks != 3 {
		t.Fatalf("expected 3 regions and 3 chunks, got %+v", stats)
	}
	for _, name := range []string{anvil.FileName(0, 0), anvil.FileName(1, 0), anvil.FileName(-1, -2)} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing region file %s: %v", name, err)
		}
	}

	reopened := newTestWorld(t, dir, 30)
	for _, p := range [][2]int{{0, 0}, {600, 0}, {-5, -700}} {
		h, err := reopened.HighestBlock(p[0], p[1])
		if err != nil {
			t.Fatal(err)
		}
		if h != 71 {
			t.Fatalf("%v: expected height 71, got %d", p, h)
		}
		light, err := reopened.SkyLight(p[0], 69, p[1])
		if err != nil {
			t.Fatal(err)
		}
		if light != 12 {
			t.Fatalf("%v: expected light 12 under leaves, got %d", p, light)
		}
	}
}

func TestWorldSaveWithSpreadLight(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t)
	opts.SpreadLight = true
	w, err := Open(dir, opts)
	if err != nil {
		t.Fatal(err)
	}

	// Roof over a pocket next to an open column.
	for x := 0; x < 3; x++ {
		if err := w.SetBlock(x, 0, 0, stone); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.SetBlock(0, 2, 0, stone); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := w.SkyLight(0, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 14 {
		t.Fatalf("expected light to spread under the roof, got %d", got)
	}
}

func TestWorldLayers(t *testing.T) {
	layers := NewLayers()
	layers.SetLayer(0, testBlock("bedrock", 0))
	layers.SetLayers(1, 3, dirt)
	layers.SetLayer(4, grass)

	opts := testOptions(t)
	opts.Layers = layers
	w, err := Open(t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.SetBlock(100, 10, 100, catalog.Air); err != nil {
		t.Fatal(err)
	}
	h, err := w.HighestBlock(101, 98)
	if err != nil {
		t.Fatal(err)
	}
	if h != 5 {
		t.Fatalf("expected layered ground at height 5, got %d", h)
	}
}
