package world

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
)

// World addresses blocks by absolute coordinates and pages regions in and
// out of memory through a RegionCache. A World has a single writer.
type World struct {
	regions *RegionCache
	opts    Options
	log     *slog.Logger
}

// SaveStats summarises a Save.
type SaveStats struct {
	Regions int
	Chunks  int
}

// Open creates a World over the region directory dir, creating the
// directory if needed. Existing region files are loaded on demand.
func Open(dir string, opts Options) (*World, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create region dir: %w", err)
	}
	opts = opts.withDefaults()
	return &World{
		regions: NewRegionCache(dir, opts),
		opts:    opts,
		log:     opts.Log,
	}, nil
}

// Regions returns the region cache.
func (w *World) Regions() *RegionCache {
	return w.regions
}

func (w *World) region(x, z int, create bool) (*Region, error) {
	pos := RegionOf(x, z)
	r, ok, err := w.regions.Get(pos)
	if err != nil {
		return nil, err
	}
	if ok || !create {
		return r, nil
	}

	r = NewRegion(pos, w.opts.Layers)
	if err := w.regions.Put(pos, r); err != nil {
		return nil, err
	}
	return r, nil
}

// SetBlock stores b at (x, y, z). Heights outside [0,256) are ignored.
func (w *World) SetBlock(x, y, z int, b catalog.Block) error {
	if !validY(y) {
		return nil
	}
	r, err := w.region(x, z, true)
	if err != nil {
		return err
	}
	r.SetBlock(regionLocal(x), y, regionLocal(z), b)
	return nil
}

// SetColumn writes blocks[i] at height i of column (x, z) and recomputes
// the column's height and sky light. Empty columns and columns longer than
// MaxColumn are ignored.
func (w *World) SetColumn(x, z int, blocks []catalog.Block) error {
	if len(blocks) == 0 || len(blocks) > MaxColumn {
		return nil
	}
	r, err := w.region(x, z, true)
	if err != nil {
		return err
	}
	r.SetColumn(regionLocal(x), regionLocal(z), blocks)
	return nil
}

// Block returns the id and data value at (x, y, z).
func (w *World) Block(x, y, z int) (id, data uint8, err error) {
	r, err := w.region(x, z, false)
	if err != nil || r == nil {
		return 0, 0, err
	}
	id, data = r.Block(regionLocal(x), y, regionLocal(z))
	return id, data, nil
}

// HighestBlock returns one past the highest opaque voxel of column (x, z),
// or 0 when the column holds none.
func (w *World) HighestBlock(x, z int) (int, error) {
	r, err := w.region(x, z, false)
	if err != nil || r == nil {
		return 0, err
	}
	return r.HighestBlock(regionLocal(x), regionLocal(z)), nil
}

// SkyLight returns the sky light at (x, y, z). Unwritten space is fully lit
// and everything below the world is dark.
func (w *World) SkyLight(x, y, z int) (uint8, error) {
	if y < 0 {
		return 0, nil
	}
	r, err := w.region(x, z, false)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return MaxLight, nil
	}
	return r.SkyLight(regionLocal(x), y, regionLocal(z)), nil
}

// CalculateSkyLight recomputes the sky light of column (x, z).
func (w *World) CalculateSkyLight(x, z int) error {
	r, err := w.region(x, z, false)
	if err != nil || r == nil {
		return err
	}
	r.AddSkyLight(regionLocal(x), regionLocal(z))
	return nil
}

// Save recomputes height maps and sky light for every region, resident or
// on disk, and writes each one back. With SpreadLight set, light also leaks
// sideways into resident neighbours.
func (w *World) Save() (SaveStats, error) {
	var stats SaveStats

	keys, err := w.regions.Keys()
	if err != nil {
		return stats, err
	}
	w.log.Info("saving regions", "count", len(keys))

	for _, pos := range keys {
		r, ok, err := w.regions.Get(pos)
		if err != nil {
			return stats, err
		}
		if !ok {
			continue
		}

		r.RecomputeHeightMap()
		r.AddSkyLightAll()
		if w.opts.SpreadLight {
			for level := MaxLight; level > 1; level-- {
				r.SpreadSkyLight(level, w.regions.Peek)
			}
		}

		n, err := w.regions.Write(r)
		if err != nil {
			return stats, err
		}
		stats.Regions++
		stats.Chunks += n
		w.log.Info("region written", "x", pos.X, "z", pos.Z, "chunks", n)
	}

	if _, err := w.regions.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Flush writes every resident region that changed since it was last written.
func (w *World) Flush() error {
	_, err := w.regions.Flush()
	return err
}
