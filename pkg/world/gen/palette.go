package gen

import (
	"fmt"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
)

// Log and leaves data values per wood type.
const (
	woodOak    uint8 = 0
	woodSpruce uint8 = 1
	woodBirch  uint8 = 2
)

// palette is the set of blocks the terrain generator places, resolved
// from a catalog by name.
type palette struct {
	stone, grass, dirt, bedrock catalog.Block
	water, sand, gravel         catalog.Block
	sandstone                   catalog.Block
	tallGrass, flower           catalog.Block
	cactus, deadBush            catalog.Block
	logs, leaves                [3]catalog.Block
}

func newPalette(cat *catalog.Catalog) (*palette, error) {
	var missing []string
	get := func(name string, data uint8) catalog.Block {
		b, ok := cat.Block(name, data)
		if !ok {
			missing = append(missing, name)
		}
		return b
	}

	p := &palette{
		stone:     get("stone", 0),
		grass:     get("grass", 0),
		dirt:      get("dirt", 0),
		bedrock:   get("bedrock", 0),
		water:     get("water", 0),
		sand:      get("sand", 0),
		gravel:    get("gravel", 0),
		sandstone: get("sandstone", 0),
		tallGrass: get("tallgrass", 1),
		flower:    get("red_flower", 0),
		cactus:    get("cactus", 0),
		deadBush:  get("deadbush", 0),
	}
	for _, w := range []uint8{woodOak, woodSpruce, woodBirch} {
		p.logs[w] = get("log", w)
		p.leaves[w] = get("leaves", w)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("catalog lacks terrain blocks %v", missing)
	}
	return p, nil
}
