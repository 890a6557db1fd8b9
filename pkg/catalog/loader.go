package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed materials.yaml
var materialsYAML []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(materialsYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded material table: %v", err))
	}
	return c
})

// Default returns the built-in 1.8 block table.
func Default() *Catalog {
	return defaultCatalog()
}

type materialFile struct {
	Materials []Material `yaml:"materials"`
}

// Parse reads a YAML material table.
func Parse(data []byte) (*Catalog, error) {
	var f materialFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse material table: %w", err)
	}
	if len(f.Materials) == 0 {
		return nil, fmt.Errorf("parse material table: no materials")
	}
	return New(f.Materials)
}

// mdBlock is one entry of a minecraft-data blocks.json file.
type mdBlock struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Transparent bool   `json:"transparent"`
	FilterLight int    `json:"filterLight"`
}

// ParseMinecraftData reads a minecraft-data blocks.json table. Entries whose
// id does not fit in a byte are skipped.
func ParseMinecraftData(data []byte) (*Catalog, error) {
	var blocks []mdBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parse blocks.json: %w", err)
	}

	materials := make([]Material, 0, len(blocks))
	for _, b := range blocks {
		if b.ID < 0 || b.ID > 255 {
			continue
		}
		t := Opaque
		switch {
		case b.ID == 0:
			t = Transparent
		case b.Transparent && b.FilterLight > 0:
			t = Diffusing
		case b.Transparent:
			t = Transparent
		}
		materials = append(materials, Material{ID: uint8(b.ID), Name: b.Name, Transparency: t})
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("parse blocks.json: no usable blocks")
	}
	return New(materials)
}

// LoadFile reads a catalog from disk. A directory or a .json file is read as
// minecraft-data (a directory must contain blocks.json); anything else is
// read as a YAML material table.
func LoadFile(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "blocks.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseMinecraftData(data)
	}
	return Parse(data)
}
