package world

import (
	"testing"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
)

var (
	stone  = testBlock("stone", 0)
	dirt   = testBlock("dirt", 0)
	grass  = testBlock("grass", 0)
	glass  = testBlock("glass", 0)
	leaves = testBlock("leaves", 0)
	water  = testBlock("water", 0)
	planks = testBlock("planks", 2)
)

func testBlock(name string, data uint8) catalog.Block {
	b, ok := catalog.Default().Block(name, data)
	if !ok {
		panic("unknown test block " + name)
	}
	return b
}

func column(b catalog.Block, n int) []catalog.Block {
	blocks := make([]catalog.Block, n)
	for i := range blocks {
		blocks[i] = b
	}
	return blocks
}

// memStore is an in-memory blob store keyed by region slot.
type memStore map[[2]int][]byte

func (m memStore) Read(cx, cz int) ([]byte, bool, error) {
	data, ok := m[[2]int{cx, cz}]
	return data, ok, nil
}

func (m memStore) Write(cx, cz int, data []byte) error {
	m[[2]int{cx, cz}] = data
	return nil
}

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.Workers = 4
	return opts
}
