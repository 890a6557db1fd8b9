package gen

import (
	"math/rand/v2"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
)

// DefaultGenerator produces rolling terrain with biomes, surface strata,
// water up to sea level, trees and ground vegetation.
type DefaultGenerator struct {
	seed    int64
	blocks  *palette
	terrain *Simplex
	detail  *Simplex
	temp    *Simplex
	rain    *Simplex
}

// NewDefaultGenerator creates a DefaultGenerator. A nil catalog means
// catalog.Default().
func NewDefaultGenerator(seed int64, cat *catalog.Catalog) (*DefaultGenerator, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	p, err := newPalette(cat)
	if err != nil {
		return nil, err
	}
	return &DefaultGenerator{
		seed:    seed,
		blocks:  p,
		terrain: NewSimplex(seed),
		detail:  NewSimplex(seed + 1),
		temp:    NewSimplex(seed + 100),
		rain:    NewSimplex(seed + 200),
	}, nil
}

func (g *DefaultGenerator) Generate(pos world.ChunkPos) *ChunkData {
	c := &ChunkData{}
	var heights [16][16]int
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			bx, bz := pos.X*16+x, pos.Z*16+z
			b := g.BiomeAt(bx, bz)
			c.SetBiome(x, z, b)
			h := g.height(bx, bz, b)
			heights[z][x] = h
			g.fillColumn(c, x, z, bx, bz, h, b)
		}
	}

	rng := rand.New(rand.NewPCG(uint64(g.seed), uint64(pos.X)<<32^uint64(uint32(pos.Z))))
	g.plantTrees(c, &heights, rng)
	g.plantVegetation(c, &heights, rng)
	return c
}

func (g *DefaultGenerator) HeightAt(x, z int) int {
	return g.height(x, z, g.BiomeAt(x, z))
}

// BiomeAt returns the biome of the absolute column (x, z). Low ground
// becomes ocean or beach; elsewhere temperature and rainfall decide.
func (g *DefaultGenerator) BiomeAt(x, z int) Biome {
	ground := seaLevel + g.terrain.Fractal(float64(x)/128, float64(z)/128, 6, 0.5)*8
	switch {
	case ground < seaLevel-8:
		return Ocean
	case ground < seaLevel-2:
		return Beach
	}

	tx, tz := float64(x)/512, float64(z)/512
	temp := g.temp.Fractal(tx, tz, 4, 0.5)*0.8 + 0.75
	rain := g.rain.Fractal(tx+100, tz+100, 4, 0.5)*0.5 + 0.5
	return climate[band(temp, 0.3, 0.7, 1.2)][band(rain, 0.3, 0.6)]
}

// height returns the y of the topmost terrain block, in [1, 250].
func (g *DefaultGenerator) height(x, z int, b Biome) int {
	p := profileOf(b)
	base := g.terrain.Fractal(float64(x)/128, float64(z)/128, 6, 0.5)
	detail := g.detail.Fractal(float64(x)/32, float64(z)/32, 3, 0.5)
	return min(max(int(p.base+base*p.amplitude+detail*4), 1), 250)
}

func (g *DefaultGenerator) fillColumn(c *ChunkData, x, z, bx, bz, height int, b Biome) {
	p := g.blocks
	c.Set(x, 0, z, p.bedrock)
	for y := 1; y <= 3; y++ {
		if g.detail.At(float64(bx)*0.5+float64(y)*3.5, float64(bz)*0.5) > 0 {
			c.Set(x, y, z, p.bedrock)
		} else {
			c.Set(x, y, z, p.stone)
		}
	}
	for y := 4; y <= height; y++ {
		c.Set(x, y, z, p.stone)
	}
	for i, s := range p.strata(b, height) {
		y := height - i
		if y <= 3 {
			break
		}
		c.Set(x, y, z, s)
	}
	for y := height + 1; y <= seaLevel; y++ {
		c.Set(x, y, z, p.water)
	}
}
