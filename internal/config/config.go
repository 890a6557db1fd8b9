package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
	"github.com/OCharnyshevich/blockworld/pkg/world/level"
)

// Config holds the world builder configuration.
type Config struct {
	WorldsDir     string  `yaml:"worlds_dir"`
	LevelName     string  `yaml:"level_name"`
	Update        bool    `yaml:"update"` // write into an existing level instead of a numbered sibling
	CacheCapacity int     `yaml:"cache_capacity"`
	Compression   string  `yaml:"compression"` // "zlib", "gzip" or "none"
	Workers       int     `yaml:"workers"`     // 0 = GOMAXPROCS
	SpreadLight   bool    `yaml:"spread_light"`
	Generator     string  `yaml:"generator"` // "default" or "flat"
	Seed          int64   `yaml:"seed"`
	Area          Area    `yaml:"area"`
	Layers        []Layer `yaml:"layers"`
	Catalog       string  `yaml:"catalog"` // empty = built-in table
	GameType      string  `yaml:"game_type"`
	Spawn         Spawn   `yaml:"spawn"`
}

// Area is the inclusive block rectangle to generate.
type Area struct {
	MinX int `yaml:"min_x"`
	MinZ int `yaml:"min_z"`
	MaxX int `yaml:"max_x"`
	MaxZ int `yaml:"max_z"`
}

// Layer assigns a material to the layers From..To inclusive.
type Layer struct {
	From     int    `yaml:"from"`
	To       int    `yaml:"to"`
	Material string `yaml:"material"`
	Data     uint8  `yaml:"data"`
}

// Spawn is the level spawn point.
type Spawn struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		WorldsDir:     "worlds",
		LevelName:     "world",
		CacheCapacity: world.DefaultCacheCapacity,
		Compression:   "zlib",
		Generator:     "default",
		Area:          Area{MinX: -256, MinZ: -256, MaxX: 255, MaxZ: 255},
		GameType:      "creative",
		Spawn:         Spawn{Y: 80},
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// DefaultConfig values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
// Layers and spawn have no flags and always come from the file.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["worlds"] {
		cfg.WorldsDir = fromFile.WorldsDir
	}
	if !explicitFlags["name"] {
		cfg.LevelName = fromFile.LevelName
	}
	if !explicitFlags["update"] {
		cfg.Update = fromFile.Update
	}
	if !explicitFlags["cache"] {
		cfg.CacheCapacity = fromFile.CacheCapacity
	}
	if !explicitFlags["compression"] {
		cfg.Compression = fromFile.Compression
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["spread-light"] {
		cfg.SpreadLight = fromFile.SpreadLight
	}
	if !explicitFlags["generator"] {
		cfg.Generator = fromFile.Generator
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["min-x"] {
		cfg.Area.MinX = fromFile.Area.MinX
	}
	if !explicitFlags["min-z"] {
		cfg.Area.MinZ = fromFile.Area.MinZ
	}
	if !explicitFlags["max-x"] {
		cfg.Area.MaxX = fromFile.Area.MaxX
	}
	if !explicitFlags["max-z"] {
		cfg.Area.MaxZ = fromFile.Area.MaxZ
	}
	if !explicitFlags["catalog"] {
		cfg.Catalog = fromFile.Catalog
	}
	if !explicitFlags["game-type"] {
		cfg.GameType = fromFile.GameType
	}
	cfg.Layers = fromFile.Layers
	cfg.Spawn = fromFile.Spawn
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.LevelName == "" {
		errs = append(errs, errors.New("level name is empty"))
	}
	if c.CacheCapacity < 1 {
		errs = append(errs, fmt.Errorf("cache capacity %d < 1", c.CacheCapacity))
	}
	if _, err := anvil.ParseCompression(c.Compression); err != nil {
		errs = append(errs, err)
	}
	if c.Generator != "default" && c.Generator != "flat" {
		errs = append(errs, fmt.Errorf("unknown generator %q", c.Generator))
	}
	if c.Area.MinX > c.Area.MaxX || c.Area.MinZ > c.Area.MaxZ {
		errs = append(errs, fmt.Errorf("empty area %+v", c.Area))
	}
	if _, err := level.ParseGameType(c.GameType); err != nil {
		errs = append(errs, err)
	}
	for i, l := range c.Layers {
		if l.From < 0 || l.To >= world.Height || l.From > l.To {
			errs = append(errs, fmt.Errorf("layer %d: range %d..%d outside 0..%d", i, l.From, l.To, world.Height-1))
		}
	}
	return errors.Join(errs...)
}

// BuildLayers resolves the configured layers against cat. It returns nil
// when no layers are configured.
func (c *Config) BuildLayers(cat *catalog.Catalog) (*world.Layers, error) {
	if len(c.Layers) == 0 {
		return nil, nil
	}
	layers := world.NewLayers()
	for _, l := range c.Layers {
		b, ok := cat.Block(l.Material, l.Data)
		if !ok {
			return nil, fmt.Errorf("layer %d..%d: unknown material %q", l.From, l.To, l.Material)
		}
		layers.SetLayers(l.From, l.To, b)
	}
	return layers, nil
}
