package catalog

import "fmt"

// Transparency classifies how a block lets sky light through.
type Transparency uint8

const (
	// Opaque blocks stop sky light completely.
	Opaque Transparency = 0
	// Transparent blocks let sky light through unchanged.
	Transparent Transparency = 1
	// Diffusing blocks (leaves, water, ice, cobweb) let sky light through
	// at a cost of Transparency+1 levels.
	Diffusing Transparency = 2
)

// Attenuation returns how many light levels are lost when sky light passes
// through a block of this class. Opaque blocks return -1.
func (t Transparency) Attenuation() int {
	switch {
	case t == Opaque:
		return -1
	case t == Transparent:
		return 0
	default:
		return int(t) + 1
	}
}

// Material is one entry of the block table.
type Material struct {
	ID           uint8        `yaml:"id"`
	Name         string       `yaml:"name"`
	Transparency Transparency `yaml:"transparency"`
}

// Block returns the variant of m carrying the given 4-bit data value.
func (m Material) Block(data uint8) Block {
	return Block{ID: m.ID, Data: data & 0xF, Transparency: m.Transparency}
}

// Block is a placeable block variant.
type Block struct {
	ID           uint8
	Data         uint8
	Transparency Transparency
}

// Air is the empty block.
var Air = Block{Transparency: Transparent}

// IsAir reports whether b clears the voxel it is written to.
func (b Block) IsAir() bool {
	return b.ID == 0
}

// Catalog maps block ids and names to materials.
type Catalog struct {
	byID   [256]*Material
	byName map[string]*Material
	all    []Material
}

// New builds a catalog from a material list. Ids and names must be unique.
func New(materials []Material) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]*Material, len(materials)),
		all:    make([]Material, len(materials)),
	}
	copy(c.all, materials)

	for i := range c.all {
		m := &c.all[i]
		if c.byID[m.ID] != nil {
			return nil, fmt.Errorf("duplicate block id %d (%s, %s)", m.ID, c.byID[m.ID].Name, m.Name)
		}
		if _, ok := c.byName[m.Name]; ok {
			return nil, fmt.Errorf("duplicate block name %q", m.Name)
		}
		c.byID[m.ID] = m
		c.byName[m.Name] = m
	}
	return c, nil
}

// ByID returns the material with the given id.
func (c *Catalog) ByID(id uint8) (Material, bool) {
	m := c.byID[id]
	if m == nil {
		return Material{}, false
	}
	return *m, true
}

// ByName returns the material with the given name.
func (c *Catalog) ByName(name string) (Material, bool) {
	m, ok := c.byName[name]
	if !ok {
		return Material{}, false
	}
	return *m, true
}

// All returns every material in table order.
func (c *Catalog) All() []Material {
	out := make([]Material, len(c.all))
	copy(out, c.all)
	return out
}

// Transparency returns the transparency class of a block id.
// Air is always transparent; ids missing from the table are opaque.
func (c *Catalog) Transparency(id uint8) Transparency {
	if id == 0 {
		return Transparent
	}
	if m := c.byID[id]; m != nil {
		return m.Transparency
	}
	return Opaque
}

// Block looks up a material by name and returns its variant with the given data value.
func (c *Catalog) Block(name string, data uint8) (Block, bool) {
	m, ok := c.ByName(name)
	if !ok {
		return Block{}, false
	}
	return m.Block(data), true
}
