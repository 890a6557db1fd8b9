package gen

import (
	"math/rand/v2"

	"github.com/OCharnyshevich/blockworld/pkg/world"
)

// species describes the shape of one tree kind.
type species struct {
	wood    uint8
	trunk   int // minimum trunk height
	spread  int // trunk height varies by up to spread-1
	conical bool
}

var (
	oak    = species{wood: woodOak, trunk: 4, spread: 3}
	birch  = species{wood: woodBirch, trunk: 5, spread: 2}
	spruce = species{wood: woodSpruce, trunk: 6, spread: 4, conical: true}
)

func speciesFor(b Biome, rng *rand.Rand) species {
	switch b {
	case Taiga, SnowyTaiga:
		return spruce
	case Forest, DarkForest:
		if rng.IntN(3) == 0 {
			return birch
		}
	}
	return oak
}

// plantTrees grows the biome's share of trees on grass above sea level.
// Canopies are clipped at the chunk border.
func (g *DefaultGenerator) plantTrees(c *ChunkData, heights *[16][16]int, rng *rand.Rand) {
	n := profileOf(c.Biome(8, 8)).trees
	for range n {
		x, z := rng.IntN(16), rng.IntN(16)
		y := heights[z][x]
		if y <= seaLevel || y >= 250 || c.At(x, y, z) != g.blocks.grass {
			continue
		}
		g.growTree(c, x, y+1, z, speciesFor(c.Biome(x, z), rng), rng)
	}
}

func (g *DefaultGenerator) growTree(c *ChunkData, x, base, z int, sp species, rng *rand.Rand) {
	h := sp.trunk + rng.IntN(sp.spread)
	if base+h+2 >= world.MaxColumn {
		return
	}
	log, leaves := g.blocks.logs[sp.wood], g.blocks.leaves[sp.wood]
	for y := base; y < base+h; y++ {
		c.Set(x, y, z, log)
	}

	leaf := func(lx, y, lz int) {
		if c.At(lx, y, lz).IsAir() {
			c.Set(lx, y, lz, leaves)
		}
	}

	if sp.conical {
		for dy := 1; dy < h; dy++ {
			r := min((h-dy)/2, 3)
			if r == 0 || (r >= 2 && dy%2 == 0) {
				continue
			}
			for dz := -r; dz <= r; dz++ {
				for dx := -r; dx <= r; dx++ {
					leaf(x+dx, base+dy, z+dz)
				}
			}
		}
		leaf(x, base+h, z)
		return
	}

	top := base + h - 2
	for dy := 0; dy < 4; dy++ {
		r := 2
		if dy >= 2 {
			r = 1
		}
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if r == 2 && abs(dx) == 2 && abs(dz) == 2 && rng.IntN(2) == 0 {
					continue
				}
				leaf(x+dx, top+dy, z+dz)
			}
		}
	}
}

// plantVegetation scatters tall grass, flowers, cacti and dead bushes.
func (g *DefaultGenerator) plantVegetation(c *ChunkData, heights *[16][16]int, rng *rand.Rand) {
	p := g.blocks
	for range 20 {
		x, z := rng.IntN(16), rng.IntN(16)
		y := heights[z][x]
		if y <= seaLevel || y >= 250 {
			continue
		}
		top := c.At(x, y, z)
		if !c.At(x, y+1, z).IsAir() {
			continue
		}

		switch c.Biome(x, z) {
		case Desert:
			if top != p.sand {
				continue
			}
			if rng.IntN(8) == 0 {
				h := 1 + rng.IntN(3)
				for dy := 1; dy <= h; dy++ {
					c.Set(x, y+dy, z, p.cactus)
				}
			} else if rng.IntN(4) == 0 {
				c.Set(x, y+1, z, p.deadBush)
			}
		case Plains, Forest, DarkForest, Savanna, Jungle:
			if top != p.grass {
				continue
			}
			if rng.IntN(3) == 0 {
				c.Set(x, y+1, z, p.tallGrass)
			} else if rng.IntN(8) == 0 {
				c.Set(x, y+1, z, p.flower)
			}
		case Taiga, SnowyTaiga, Tundra:
			if top == p.grass && rng.IntN(6) == 0 {
				c.Set(x, y+1, z, p.tallGrass)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
