// Package level writes the world bootstrap files: level.dat and session.lock.
package level

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"

	"github.com/OCharnyshevich/blockworld/pkg/world"
)

// Version is the level format version of 1.8 worlds.
const Version = 19133

// GameType is the default game mode of a world.
type GameType int32

const (
	Survival  GameType = 0
	Creative  GameType = 1
	Adventure GameType = 2
	Spectator GameType = 3
)

// ParseGameType maps a config name to a game type.
func ParseGameType(name string) (GameType, error) {
	switch strings.ToLower(name) {
	case "survival":
		return Survival, nil
	case "", "creative":
		return Creative, nil
	case "adventure":
		return Adventure, nil
	case "spectator":
		return Spectator, nil
	}
	return 0, fmt.Errorf("unknown game type %q", name)
}

func (g GameType) String() string {
	switch g {
	case Survival:
		return "survival"
	case Creative:
		return "creative"
	case Adventure:
		return "adventure"
	case Spectator:
		return "spectator"
	}
	return "gametype(" + strconv.Itoa(int(g)) + ")"
}

// Level holds the world settings stored in level.dat.
type Level struct {
	Name             string
	GeneratorName    string
	GeneratorOptions string
	AllowCommands    bool
	MapFeatures      bool
	RandomSeed       int64
	SpawnX           int
	SpawnY           int
	SpawnZ           int
	GameType         GameType
}

type levelData struct {
	AllowCommands    int8   `nbt:"allowCommands"`
	GameType         int32  `nbt:"GameType"`
	GeneratorName    string `nbt:"generatorName"`
	GeneratorOptions string `nbt:"generatorOptions"`
	LastPlayed       int64  `nbt:"LastPlayed"`
	LevelName        string `nbt:"LevelName"`
	MapFeatures      int8   `nbt:"MapFeatures"`
	RandomSeed       int64  `nbt:"RandomSeed"`
	SpawnX           int32  `nbt:"SpawnX"`
	SpawnY           int32  `nbt:"SpawnY"`
	SpawnZ           int32  `nbt:"SpawnZ"`
	Version          int32  `nbt:"version"`
}

type levelRoot struct {
	Data levelData `nbt:"Data"`
}

func flag(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

// WriteTo writes l as gzip-compressed NBT.
func (l *Level) WriteTo(w io.Writer, lastPlayed time.Time) error {
	root := levelRoot{Data: levelData{
		AllowCommands:    flag(l.AllowCommands),
		GameType:         int32(l.GameType),
		GeneratorName:    l.GeneratorName,
		GeneratorOptions: l.GeneratorOptions,
		LastPlayed:       lastPlayed.UnixMilli(),
		LevelName:        l.Name,
		MapFeatures:      flag(l.MapFeatures),
		RandomSeed:       l.RandomSeed,
		SpawnX:           int32(l.SpawnX),
		SpawnY:           int32(l.SpawnY),
		SpawnZ:           int32(l.SpawnZ),
		Version:          Version,
	}}

	zw := gzip.NewWriter(w)
	if err := nbt.NewEncoder(zw).Encode(root, ""); err != nil {
		return fmt.Errorf("encode level: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close level gzip: %w", err)
	}
	return nil
}

// Read decodes a level.dat stream.
func Read(r io.Reader) (*Level, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open level gzip: %w", err)
	}
	defer zr.Close()

	var root levelRoot
	if _, err := nbt.NewDecoder(zr).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	d := root.Data
	return &Level{
		Name:             d.LevelName,
		GeneratorName:    d.GeneratorName,
		GeneratorOptions: d.GeneratorOptions,
		AllowCommands:    d.AllowCommands != 0,
		MapFeatures:      d.MapFeatures != 0,
		RandomSeed:       d.RandomSeed,
		SpawnX:           int(d.SpawnX),
		SpawnY:           int(d.SpawnY),
		SpawnZ:           int(d.SpawnZ),
		GameType:         GameType(d.GameType),
	}, nil
}

// WriteSessionLock writes the session.lock payload: now in milliseconds as
// a big-endian int64.
func WriteSessionLock(w io.Writer, now time.Time) error {
	if err := binary.Write(w, binary.BigEndian, now.UnixMilli()); err != nil {
		return fmt.Errorf("write session lock: %w", err)
	}
	return nil
}

// FlatOptions builds the superflat generator string ("3;" followed by
// bottom-up layer runs such as "7,2*3,2") from a layer template. Trailing
// air is dropped. It returns "" when no layer is set.
func FlatOptions(layers *world.Layers) string {
	if layers.Empty() {
		return ""
	}

	var ids [world.Height]uint8
	top := 0
	for y := 0; y < world.Height; y++ {
		if b, ok := layers.Layer(y); ok && !b.IsAir() {
			ids[y] = b.ID
			top = y + 1
		}
	}

	var parts []string
	for y := 0; y < top; {
		id := ids[y]
		n := 1
		for y+n < top && ids[y+n] == id {
			n++
		}
		if n == 1 {
			parts = append(parts, strconv.Itoa(int(id)))
		} else {
			parts = append(parts, strconv.Itoa(n)+"*"+strconv.Itoa(int(id)))
		}
		y += n
	}
	return "3;" + strings.Join(parts, ",")
}
