package storage

import (
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCharnyshevich/blockworld/pkg/world/level"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "worlds"), slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestLevelDirNumbersSiblings(t *testing.T) {
	s := newStorage(t)

	first, err := s.LevelDir("demo", false)
	if err != nil {
		t.Fatalf("LevelDir: %v", err)
	}
	if first != filepath.Join(s.Dir(), "demo") {
		t.Errorf("first = %s", first)
	}
	if _, err := os.Stat(RegionDir(first)); err != nil {
		t.Errorf("region dir not created: %v", err)
	}

	second, err := s.LevelDir("demo", false)
	if err != nil {
		t.Fatalf("LevelDir: %v", err)
	}
	if second != filepath.Join(s.Dir(), "demo1") {
		t.Errorf("second = %s, want demo1", second)
	}

	third, _ := s.LevelDir("demo", false)
	if third != filepath.Join(s.Dir(), "demo2") {
		t.Errorf("third = %s, want demo2", third)
	}
}

func TestLevelDirUpdateReuses(t *testing.T) {
	s := newStorage(t)
	first, _ := s.LevelDir("demo", false)

	again, err := s.LevelDir("demo", true)
	if err != nil {
		t.Fatalf("LevelDir: %v", err)
	}
	if again != first {
		t.Errorf("update returned %s, want %s", again, first)
	}
}

func TestWriteLevelOnlyOnce(t *testing.T) {
	s := newStorage(t)
	dir, _ := s.LevelDir("demo", false)
	now := time.UnixMilli(1_700_000_000_000)

	l := &level.Level{Name: "demo", GeneratorName: "flat", GeneratorOptions: "3;7,2*3,2", RandomSeed: 9}
	written, err := s.WriteLevel(dir, l, now)
	if err != nil || !written {
		t.Fatalf("WriteLevel = %v, %v", written, err)
	}

	l2 := &level.Level{Name: "other"}
	written, err = s.WriteLevel(dir, l2, now)
	if err != nil || written {
		t.Fatalf("second WriteLevel = %v, %v; want false, nil", written, err)
	}

	got, err := s.ReadLevel(dir)
	if err != nil {
		t.Fatalf("ReadLevel: %v", err)
	}
	if got.Name != "demo" || got.GeneratorOptions != "3;7,2*3,2" || got.RandomSeed != 9 {
		t.Errorf("level = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "level.dat.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestWriteSessionLock(t *testing.T) {
	s := newStorage(t)
	dir, _ := s.LevelDir("demo", false)
	now := time.UnixMilli(1_234_567_890_123)

	if err := s.WriteSessionLock(dir, now); err != nil {
		t.Fatalf("WriteSessionLock: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "session.lock"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 8 || int64(binary.BigEndian.Uint64(data)) != now.UnixMilli() {
		t.Errorf("session.lock = %x", data)
	}
}
