package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OCharnyshevich/blockworld/internal/config"
	"github.com/OCharnyshevich/blockworld/internal/storage"
	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
	"github.com/OCharnyshevich/blockworld/pkg/world/gen"
	"github.com/OCharnyshevich/blockworld/pkg/world/level"
)

func main() {
	cfg := config.DefaultConfig()

	var configPath, logLevel string
	flag.StringVar(&configPath, "config", "", "YAML config file; explicit flags override it")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.WorldsDir, "worlds", cfg.WorldsDir, "directory holding level directories")
	flag.StringVar(&cfg.LevelName, "name", cfg.LevelName, "level name")
	flag.BoolVar(&cfg.Update, "update", cfg.Update, "write into an existing level instead of a numbered copy")
	flag.IntVar(&cfg.CacheCapacity, "cache", cfg.CacheCapacity, "regions kept in memory")
	flag.StringVar(&cfg.Compression, "compression", cfg.Compression, "chunk compression (zlib, gzip, none)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "chunk encoding goroutines per region (0 = GOMAXPROCS)")
	flag.BoolVar(&cfg.SpreadLight, "spread-light", cfg.SpreadLight, "spread sky light sideways on save")
	flag.StringVar(&cfg.Generator, "generator", cfg.Generator, "terrain generator (default, flat)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.Area.MinX, "min-x", cfg.Area.MinX, "westmost block column")
	flag.IntVar(&cfg.Area.MinZ, "min-z", cfg.Area.MinZ, "northmost block column")
	flag.IntVar(&cfg.Area.MaxX, "max-x", cfg.Area.MaxX, "eastmost block column")
	flag.IntVar(&cfg.Area.MaxZ, "max-z", cfg.Area.MaxZ, "southmost block column")
	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "material table (YAML, blocks.json or a minecraft-data dir)")
	flag.StringVar(&cfg.GameType, "game-type", cfg.GameType, "game type written to level.dat")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	if configPath != "" {
		fromFile, err := config.Load(configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
		log.Info("loaded config from file", "path", configPath)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worldgen failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	cat := catalog.Default()
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.Catalog); err != nil {
			return err
		}
		log.Info("loaded catalog", "path", cfg.Catalog, "materials", len(cat.All()))
	}

	layers, err := cfg.BuildLayers(cat)
	if err != nil {
		return err
	}

	var g gen.Generator
	switch cfg.Generator {
	case "flat":
		if layers == nil {
			layers = gen.DefaultFlatLayers(cat)
		}
		g = gen.NewFlatGenerator(layers)
	default:
		if g, err = gen.NewDefaultGenerator(cfg.Seed, cat); err != nil {
			return err
		}
	}

	compression, _ := anvil.ParseCompression(cfg.Compression)
	gameType, _ := level.ParseGameType(cfg.GameType)

	store, err := storage.New(cfg.WorldsDir, log)
	if err != nil {
		return err
	}
	dir, err := store.LevelDir(cfg.LevelName, cfg.Update)
	if err != nil {
		return err
	}

	w, err := world.Open(storage.RegionDir(dir), world.Options{
		CacheCapacity: cfg.CacheCapacity,
		Compression:   compression,
		Workers:       cfg.Workers,
		Layers:        layers,
		Catalog:       cat,
		SpreadLight:   cfg.SpreadLight,
		Log:           log,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	area := gen.Area{MinX: cfg.Area.MinX, MinZ: cfg.Area.MinZ, MaxX: cfg.Area.MaxX, MaxZ: cfg.Area.MaxZ}
	n, err := gen.Build(ctx, w, g, area)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Info("generated terrain", "chunks", n, "generator", cfg.Generator, "elapsed", time.Since(start))

	stats, err := w.Save()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Info("saved world", "regions", stats.Regions, "chunks", stats.Chunks, "elapsed", time.Since(start))

	now := time.Now()
	l := &level.Level{
		Name:          cfg.LevelName,
		GeneratorName: cfg.Generator,
		AllowCommands: true,
		MapFeatures:   cfg.Generator != "flat",
		RandomSeed:    cfg.Seed,
		SpawnX:        cfg.Spawn.X,
		SpawnY:        cfg.Spawn.Y,
		SpawnZ:        cfg.Spawn.Z,
		GameType:      gameType,
	}
	if cfg.Generator == "flat" {
		l.GeneratorOptions = level.FlatOptions(layers)
	}
	if _, err := store.WriteLevel(dir, l, now); err != nil {
		return err
	}
	return store.WriteSessionLock(dir, now)
}
