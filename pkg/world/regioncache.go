package world

import (
	"cmp"
	"container/list"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/OCharnyshevich/blockworld/pkg/world/anvil"
)

// RegionCache is a bounded LRU cache of regions backed by a directory of
// region files. Evicted regions are written back before they are dropped.
// A RegionCache is not safe for concurrent use.
type RegionCache struct {
	dir     string
	opts    Options
	entries map[RegionPos]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	pos    RegionPos
	region *Region
}

// NewRegionCache creates a cache over the region files in dir.
func NewRegionCache(dir string, opts Options) *RegionCache {
	return &RegionCache{
		dir:     dir,
		opts:    opts.withDefaults(),
		entries: make(map[RegionPos]*list.Element, opts.CacheCapacity+1),
		lru:     list.New(),
	}
}

// Dir returns the region directory.
func (c *RegionCache) Dir() string {
	return c.dir
}

// Len returns the number of resident regions.
func (c *RegionCache) Len() int {
	return c.lru.Len()
}

// Path returns the file backing region pos.
func (c *RegionCache) Path(pos RegionPos) string {
	return filepath.Join(c.dir, anvil.FileName(pos.X, pos.Z))
}

// Get returns region pos, loading it from disk when it is not resident.
// A region that is neither resident nor on disk is reported as absent.
// Loading may evict another region and write it back.
func (c *RegionCache) Get(pos RegionPos) (*Region, bool, error) {
	if elem, ok := c.entries[pos]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).region, true, nil
	}

	r, ok, err := c.load(pos)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := c.insert(pos, r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Peek returns region pos if it is resident, without loading it or
// touching the LRU order.
func (c *RegionCache) Peek(pos RegionPos) *Region {
	if elem, ok := c.entries[pos]; ok {
		return elem.Value.(*cacheEntry).region
	}
	return nil
}

// Put makes r the resident region for pos. It does not write r, but the
// insert may evict another region and write that one back.
func (c *RegionCache) Put(pos RegionPos, r *Region) error {
	if r.Pos() != pos {
		return fmt.Errorf("put region %d,%d under key %d,%d", r.pos.X, r.pos.Z, pos.X, pos.Z)
	}
	if elem, ok := c.entries[pos]; ok {
		elem.Value.(*cacheEntry).region = r
		c.lru.MoveToFront(elem)
		return nil
	}
	return c.insert(pos, r)
}

func (c *RegionCache) insert(pos RegionPos, r *Region) error {
	c.entries[pos] = c.lru.PushFront(&cacheEntry{pos: pos, region: r})

	for c.lru.Len() > c.opts.CacheCapacity {
		oldest := c.lru.Back()
		entry := oldest.Value.(*cacheEntry)
		if entry.region.Dirty() {
			if _, err := c.write(entry.region); err != nil {
				return fmt.Errorf("evict region %d,%d: %w", entry.pos.X, entry.pos.Z, err)
			}
		}
		c.lru.Remove(oldest)
		delete(c.entries, entry.pos)
		c.opts.Log.Debug("region evicted", "x", entry.pos.X, "z", entry.pos.Z)
	}
	return nil
}

func (c *RegionCache) load(pos RegionPos) (*Region, bool, error) {
	store, ok, err := anvil.OpenStore(c.Path(pos))
	if err != nil || !ok {
		return nil, false, err
	}
	defer store.Close()

	r, err := ReadRegion(pos, store, c.opts.Catalog, c.opts.Layers)
	if err != nil {
		return nil, false, err
	}
	c.opts.Log.Debug("region loaded", "x", pos.X, "z", pos.Z, "chunks", r.ChunkCount())
	return r, true, nil
}

// write persists r to its region file and returns the number of chunks written.
func (c *RegionCache) write(r *Region) (int, error) {
	store, err := anvil.CreateStore(c.Path(r.pos), c.opts.Compression)
	if err != nil {
		return 0, err
	}
	n, err := r.WriteTo(store, c.opts.Workers, time.Now().UnixMilli())
	if err != nil {
		store.Abort()
		return 0, err
	}
	if err := store.Close(); err != nil {
		return 0, err
	}
	c.opts.Log.Debug("region written", "x", r.pos.X, "z", r.pos.Z, "chunks", n)
	return n, nil
}

// Write persists region r immediately, whether or not it changed.
func (c *RegionCache) Write(r *Region) (int, error) {
	return c.write(r)
}

// Keys returns every region that exists, resident or on disk, sorted by x then z.
func (c *RegionCache) Keys() ([]RegionPos, error) {
	seen := make(map[RegionPos]struct{}, len(c.entries))
	for pos := range c.entries {
		seen[pos] = struct{}{}
	}

	files, err := os.ReadDir(c.dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("scan region dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if x, z, ok := anvil.ParseFileName(f.Name()); ok {
			seen[RegionPos{X: x, Z: z}] = struct{}{}
		}
	}

	keys := make([]RegionPos, 0, len(seen))
	for pos := range seen {
		keys = append(keys, pos)
	}
	slices.SortFunc(keys, func(a, b RegionPos) int {
		if n := cmp.Compare(a.X, b.X); n != 0 {
			return n
		}
		return cmp.Compare(a.Z, b.Z)
	})
	return keys, nil
}

// ForEach calls fn for every region in Keys, loading regions as needed.
// Adding or removing regions from fn gives unspecified but safe results.
func (c *RegionCache) ForEach(fn func(*Region) error) error {
	keys, err := c.Keys()
	if err != nil {
		return err
	}
	for _, pos := range keys {
		r, ok, err := c.Get(pos)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes every resident region that changed since it was last read
// or written. It returns the number of regions written.
func (c *RegionCache) Flush() (int, error) {
	n := 0
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*cacheEntry)
		if !entry.region.Dirty() {
			continue
		}
		if _, err := c.write(entry.region); err != nil {
			return n, fmt.Errorf("flush region %d,%d: %w", entry.pos.X, entry.pos.Z, err)
		}
		n++
	}
	return n, nil
}
