package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
)

func block(t *testing.T, name string, data uint8) catalog.Block {
	t.Helper()
	b, ok := catalog.Default().Block(name, data)
	if !ok {
		t.Fatalf("unknown block %q", name)
	}
	return b
}

// columnRecorder collects SetColumn calls.
type columnRecorder struct {
	columns map[[2]int][]catalog.Block
	err     error
}

func (r *columnRecorder) SetColumn(x, z int, blocks []catalog.Block) error {
	if r.err != nil {
		return r.err
	}
	if r.columns == nil {
		r.columns = make(map[[2]int][]catalog.Block)
	}
	r.columns[[2]int{x, z}] = blocks
	return nil
}

func TestChunkDataColumn(t *testing.T) {
	stone := block(t, "stone", 0)
	c := &ChunkData{}

	if col := c.Column(3, 4); col != nil {
		t.Fatalf("empty column = %v, want nil", col)
	}

	c.Set(3, 0, 4, stone)
	c.Set(3, 40, 4, stone)
	col := c.Column(3, 4)
	if len(col) != 41 {
		t.Fatalf("len = %d, want 41", len(col))
	}
	if col[0] != stone || col[40] != stone || !col[20].IsAir() {
		t.Errorf("column contents wrong: %v %v %v", col[0], col[20], col[40])
	}
}

func TestChunkDataColumnCapped(t *testing.T) {
	stone := block(t, "stone", 0)
	c := &ChunkData{}
	c.Set(0, 255, 0, stone)
	c.Set(0, 10, 0, stone)

	if got := len(c.Column(0, 0)); got != 11 {
		t.Errorf("len = %d, want 11 (block at 255 is past MaxColumn)", got)
	}
}

func TestChunkDataOutOfRange(t *testing.T) {
	stone := block(t, "stone", 0)
	c := &ChunkData{}
	c.Set(16, 0, 0, stone)
	c.Set(0, -1, 0, stone)
	c.Set(0, 256, 0, stone)
	for _, s := range c.sections {
		if s != nil {
			t.Fatal("out of range write created a section")
		}
	}
	if !c.At(0, 300, 0).IsAir() {
		t.Error("At above the world should be air")
	}
}

func TestApply(t *testing.T) {
	g := NewFlatGenerator(DefaultFlatLayers(nil))
	pos := world.ChunkPos{X: -1, Z: 2}

	var rec columnRecorder
	if err := Apply(&rec, pos, g.Generate(pos)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(rec.columns) != 256 {
		t.Fatalf("wrote %d columns, want 256", len(rec.columns))
	}
	col, ok := rec.columns[[2]int{-16, 32}]
	if !ok || len(col) != 5 {
		t.Fatalf("column at chunk origin = %v", col)
	}
	if _, ok := rec.columns[[2]int{-1, 47}]; !ok {
		t.Error("missing column at chunk far corner")
	}
}

func TestApplyError(t *testing.T) {
	g := NewFlatGenerator(DefaultFlatLayers(nil))
	rec := columnRecorder{err: errors.New("disk full")}

	if err := Apply(&rec, world.ChunkPos{}, g.Generate(world.ChunkPos{})); !errors.Is(err, rec.err) {
		t.Fatalf("Apply error = %v, want wrapped %v", err, rec.err)
	}
}

func TestAreaChunks(t *testing.T) {
	a := Area{MinX: -1, MinZ: 0, MaxX: 16, MaxZ: 15}
	got := a.Chunks()
	want := []world.ChunkPos{{X: -1, Z: 0}, {X: 0, Z: 0}, {X: 1, Z: 0}}
	if len(got) != len(want) {
		t.Fatalf("Chunks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Chunks[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := (Area{MinX: 10, MaxX: 0}).Chunks(); len(got) != 0 {
		t.Errorf("inverted area = %v, want none", got)
	}
}

func TestBuildIntoWorld(t *testing.T) {
	w, err := world.Open(t.TempDir(), world.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	g := NewFlatGenerator(DefaultFlatLayers(nil))
	n, err := Build(context.Background(), w, g, Area{MinX: 0, MinZ: 0, MaxX: 31, MaxZ: 15})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n != 2 {
		t.Errorf("built %d chunks, want 2", n)
	}

	h, err := w.HighestBlock(20, 7)
	if err != nil {
		t.Fatalf("HighestBlock: %v", err)
	}
	if h != 5 {
		t.Errorf("HighestBlock = %d, want 5", h)
	}
	id, _, err := w.Block(20, 4, 7)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if id != block(t, "grass", 0).ID {
		t.Errorf("top block id = %d, want grass", id)
	}
	if l, _ := w.SkyLight(20, 5, 7); l != world.MaxLight {
		t.Errorf("sky light above grass = %d, want %d", l, world.MaxLight)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var rec columnRecorder
	n, err := Build(ctx, &rec, NewFlatGenerator(DefaultFlatLayers(nil)), Area{MaxX: 100, MaxZ: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n != 0 || len(rec.columns) != 0 {
		t.Errorf("wrote %d chunks after cancel", n)
	}
}
