package world

import (
	"log/slog"
	"runtime"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

// DefaultCacheCapacity is the number of regions kept in memory by default.
const DefaultCacheCapacity = 30

// Options configures a World and its region cache.
type Options struct {
	// CacheCapacity is the maximum number of resident regions.
	// Defaults to DefaultCacheCapacity.
	CacheCapacity int

	// Compression is the blob compression used when writing region files.
	// Defaults to zlib.
	Compression anvil.Compression

	// Workers bounds the number of goroutines encoding chunks while a
	// region is written. Defaults to GOMAXPROCS.
	Workers int

	// Layers pre-fills every new chunk. May be nil.
	Layers *Layers

	// Catalog derives transparency for loaded blocks.
	// Defaults to catalog.Default().
	Catalog *catalog.Catalog

	// SpreadLight enables the horizontal sky light pass on save.
	SpreadLight bool

	// Log is the Logger to use for debug messages and save progress.
	// If nil, defaults to slog.Default().
	Log *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		CacheCapacity: DefaultCacheCapacity,
		Compression:   anvil.CompressionZlib,
		Workers:       runtime.GOMAXPROCS(0),
		Catalog:       catalog.Default(),
		Log:           slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CacheCapacity <= 0 {
		o.CacheCapacity = def.CacheCapacity
	}
	if o.Compression == 0 {
		o.Compression = def.Compression
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Catalog == nil {
		o.Catalog = def.Catalog
	}
	if o.Log == nil {
		o.Log = def.Log
	}
	return o
}
