package gen

import "github.com/OCharnyshevich/blockworld/pkg/catalog"

// Biome is a 1.8 biome id.
type Biome uint8

const (
	Ocean      Biome = 0
	Plains     Biome = 1
	Desert     Biome = 2
	Mountains  Biome = 3
	Forest     Biome = 4
	Taiga      Biome = 5
	Tundra     Biome = 12
	Beach      Biome = 16
	Jungle     Biome = 21
	DarkForest Biome = 29
	SnowyTaiga Biome = 30
	Savanna    Biome = 35
)

const seaLevel = 62

// climate maps a temperature band (rows, cold to hot) and a rainfall band
// (columns, dry to wet) to a biome.
var climate = [4][3]Biome{
	{Tundra, SnowyTaiga, Taiga},
	{Plains, Forest, DarkForest},
	{Savanna, Plains, Jungle},
	{Desert, Desert, Jungle},
}

func band(v float64, edges ...float64) int {
	for i, e := range edges {
		if v < e {
			return i
		}
	}
	return len(edges)
}

// profile holds the per-biome terrain shape and decoration density.
type profile struct {
	amplitude float64
	base      float64
	trees     int
}

func profileOf(b Biome) profile {
	switch b {
	case Ocean:
		return profile{8, 40, 0}
	case Beach:
		return profile{3, seaLevel, 0}
	case Desert:
		return profile{10, seaLevel + 2, 0}
	case Plains, Savanna:
		return profile{12, seaLevel, 1}
	case Tundra:
		return profile{10, seaLevel, 4}
	case SnowyTaiga:
		return profile{18, seaLevel + 4, 4}
	case Taiga:
		return profile{18, seaLevel + 4, 6}
	case Forest:
		return profile{16, seaLevel + 2, 8}
	case DarkForest:
		return profile{16, seaLevel + 2, 10}
	case Jungle:
		return profile{18, seaLevel + 4, 12}
	case Mountains:
		return profile{40, seaLevel + 10, 2}
	default:
		return profile{14, seaLevel, 2}
	}
}

// strata returns the surface blocks of a column whose top solid block is at
// height, listed from the top down.
func (p *palette) strata(b Biome, height int) []catalog.Block {
	switch {
	case b == Desert:
		return []catalog.Block{p.sand, p.sand, p.sand, p.sand, p.sandstone, p.sandstone}
	case b == Beach:
		return []catalog.Block{p.sand, p.sand, p.sand, p.sand, p.sandstone}
	case b == Ocean:
		return []catalog.Block{p.gravel, p.gravel, p.gravel, p.dirt, p.dirt}
	case b == Mountains && height > 100:
		return []catalog.Block{p.stone, p.stone, p.stone, p.stone}
	case height > seaLevel:
		return []catalog.Block{p.grass, p.dirt, p.dirt, p.dirt}
	default:
		return []catalog.Block{p.dirt, p.dirt, p.dirt, p.dirt}
	}
}
