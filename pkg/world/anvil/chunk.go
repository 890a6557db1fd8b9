package anvil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Tnze/go-mc/nbt"
)

// ErrMalformedChunk reports a stored chunk that does not match the chunk schema.
var ErrMalformedChunk = errors.New("malformed chunk")

const (
	blockBytes  = 4096
	nibbleBytes = 2048
	columns     = 256
	maxSection  = 15
)

// SectionRecord is one 16×16×16 section as stored on disk.
type SectionRecord struct {
	Y          int8   `nbt:"Y"`
	Blocks     []byte `nbt:"Blocks"`
	Data       []byte `nbt:"Data"`
	SkyLight   []byte `nbt:"SkyLight"`
	BlockLight []byte `nbt:"BlockLight"`
}

// ChunkRecord is the 1.8 chunk schema. XPos and ZPos are absolute chunk
// coordinates; HeightMap is indexed z*16+x.
type ChunkRecord struct {
	XPos             int32           `nbt:"xPos"`
	ZPos             int32           `nbt:"zPos"`
	Sections         []SectionRecord `nbt:"Sections"`
	HeightMap        []int32         `nbt:"HeightMap"`
	LastUpdate       int64           `nbt:"LastUpdate"`
	V                int8            `nbt:"V"`
	LightPopulated   int8            `nbt:"LightPopulated"`
	TerrainPopulated int8            `nbt:"TerrainPopulated"`
}

// storedChunk is the encoded form of a ChunkRecord. Entity lists are always
// written empty so 1.8 loaders find the full compound.
type storedChunk struct {
	ChunkRecord
	Entities     []struct{} `nbt:"Entities"`
	TileEntities []struct{} `nbt:"TileEntities"`
}

type chunkRoot struct {
	Level storedChunk `nbt:"Level"`
}

// decodedChunk mirrors ChunkRecord with pointers for the fields a record
// cannot do without, so their absence can be told apart from zero values.
type decodedChunk struct {
	XPos             *int32           `nbt:"xPos"`
	ZPos             *int32           `nbt:"zPos"`
	Sections         *[]SectionRecord `nbt:"Sections"`
	HeightMap        *[]int32         `nbt:"HeightMap"`
	LastUpdate       int64            `nbt:"LastUpdate"`
	V                int8             `nbt:"V"`
	LightPopulated   int8             `nbt:"LightPopulated"`
	TerrainPopulated int8             `nbt:"TerrainPopulated"`
}

type decodedRoot struct {
	Level *decodedChunk `nbt:"Level"`
}

// EncodeChunk encodes rec as an uncompressed NBT document.
func EncodeChunk(rec *ChunkRecord) ([]byte, error) {
	root := chunkRoot{Level: storedChunk{
		ChunkRecord:  *rec,
		Entities:     []struct{}{},
		TileEntities: []struct{}{},
	}}
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(root, ""); err != nil {
		return nil, fmt.Errorf("encode chunk (%d,%d): %w", rec.XPos, rec.ZPos, err)
	}
	return buf.Bytes(), nil
}

// DecodeChunk decodes and validates an uncompressed NBT chunk document.
func DecodeChunk(data []byte) (*ChunkRecord, error) {
	var root decodedRoot
	if _, err := nbt.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode chunk: %v: %w", err, ErrMalformedChunk)
	}
	rec, err := root.record()
	if err != nil {
		return nil, err
	}
	if err := rec.validate(); err != nil {
		return nil, fmt.Errorf("chunk (%d,%d): %w", rec.XPos, rec.ZPos, err)
	}
	return rec, nil
}

func (root *decodedRoot) record() (*ChunkRecord, error) {
	d := root.Level
	if d == nil {
		return nil, fmt.Errorf("missing Level: %w", ErrMalformedChunk)
	}
	var missing []string
	if d.XPos == nil {
		missing = append(missing, "xPos")
	}
	if d.ZPos == nil {
		missing = append(missing, "zPos")
	}
	if d.Sections == nil {
		missing = append(missing, "Sections")
	}
	if d.HeightMap == nil {
		missing = append(missing, "HeightMap")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing %v: %w", missing, ErrMalformedChunk)
	}
	return &ChunkRecord{
		XPos:             *d.XPos,
		ZPos:             *d.ZPos,
		Sections:         *d.Sections,
		HeightMap:        *d.HeightMap,
		LastUpdate:       d.LastUpdate,
		V:                d.V,
		LightPopulated:   d.LightPopulated,
		TerrainPopulated: d.TerrainPopulated,
	}, nil
}

func (rec *ChunkRecord) validate() error {
	if len(rec.HeightMap) != columns {
		return fmt.Errorf("height map has %d entries: %w", len(rec.HeightMap), ErrMalformedChunk)
	}

	var seen [maxSection + 1]bool
	for i := range rec.Sections {
		s := &rec.Sections[i]
		if s.Y < 0 || s.Y > maxSection {
			return fmt.Errorf("section Y %d out of range: %w", s.Y, ErrMalformedChunk)
		}
		if seen[s.Y] {
			return fmt.Errorf("duplicate section %d: %w", s.Y, ErrMalformedChunk)
		}
		seen[s.Y] = true

		switch {
		case len(s.Blocks) != blockBytes:
			return fmt.Errorf("section %d: Blocks has %d bytes: %w", s.Y, len(s.Blocks), ErrMalformedChunk)
		case len(s.Data) != nibbleBytes:
			return fmt.Errorf("section %d: Data has %d bytes: %w", s.Y, len(s.Data), ErrMalformedChunk)
		case len(s.SkyLight) != nibbleBytes:
			return fmt.Errorf("section %d: SkyLight has %d bytes: %w", s.Y, len(s.SkyLight), ErrMalformedChunk)
		case len(s.BlockLight) != nibbleBytes:
			return fmt.Errorf("section %d: BlockLight has %d bytes: %w", s.Y, len(s.BlockLight), ErrMalformedChunk)
		}
	}
	return nil
}
