package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/OCharnyshevich/blockworld/pkg/world/level"
)

const (
	levelFile = "level.dat"
	lockFile  = "session.lock"
	regionDir = "region"
)

// Storage lays out level directories under a worlds directory.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating it as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the worlds directory.
func (s *Storage) Dir() string {
	return s.dir
}

// LevelDir returns the directory for the level called name and creates it
// with its region subdirectory. Unless update is set, an existing level is
// left alone and the first free numbered sibling (name1, name2, ...) is
// used instead.
func (s *Storage) LevelDir(name string, update bool) (string, error) {
	path := filepath.Join(s.dir, name)
	if !update {
		for i := 1; exists(path); i++ {
			path = filepath.Join(s.dir, name+strconv.Itoa(i))
		}
	}
	if err := os.MkdirAll(RegionDir(path), 0o755); err != nil {
		return "", fmt.Errorf("create level directory: %w", err)
	}
	s.log.Info("using level directory", "path", path, "update", update)
	return path, nil
}

// RegionDir returns the region file directory of a level.
func RegionDir(levelDir string) string {
	return filepath.Join(levelDir, regionDir)
}

// WriteSessionLock stamps the level's session.lock with now.
func (s *Storage) WriteSessionLock(levelDir string, now time.Time) error {
	return s.atomicWrite(filepath.Join(levelDir, lockFile), func(w io.Writer) error {
		return level.WriteSessionLock(w, now)
	})
}

// WriteLevel writes level.dat unless the level already has one. It
// reports whether the file was written.
func (s *Storage) WriteLevel(levelDir string, l *level.Level, now time.Time) (bool, error) {
	path := filepath.Join(levelDir, levelFile)
	if exists(path) {
		s.log.Debug("level.dat exists, keeping it", "path", path)
		return false, nil
	}
	err := s.atomicWrite(path, func(w io.Writer) error {
		return l.WriteTo(w, now)
	})
	if err != nil {
		return false, err
	}
	s.log.Info("wrote level.dat", "path", path, "generator", l.GeneratorName)
	return true, nil
}

// ReadLevel reads a level's level.dat.
func (s *Storage) ReadLevel(levelDir string) (*level.Level, error) {
	f, err := os.Open(filepath.Join(levelDir, levelFile))
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()
	return level.Read(f)
}

// atomicWrite renders a file in memory and writes it using a temp file + rename.
func (s *Storage) atomicWrite(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
