package anvil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/Tnze/go-mc/save/region"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression is the blob compression scheme, stored as the first byte of
// every sector payload.
type Compression byte

const (
	CompressionGzip Compression = 1
	CompressionZlib Compression = 2
	CompressionNone Compression = 3
)

// ParseCompression maps a config name to a compression scheme.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "zlib":
		return CompressionZlib, nil
	case "gzip":
		return CompressionGzip, nil
	case "none":
		return CompressionNone, nil
	}
	return 0, fmt.Errorf("unknown compression %q", name)
}

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionNone:
		return "none"
	}
	return "compression(" + strconv.Itoa(int(c)) + ")"
}

var fileNameRe = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// FileName returns the region file name for region (rx, rz).
func FileName(rx, rz int) string {
	return fmt.Sprintf("r.%d.%d.mca", rx, rz)
}

// ParseFileName extracts the region coordinates from a region file name.
func ParseFileName(name string) (rx, rz int, ok bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(m[1])
	z, errZ := strconv.Atoi(m[2])
	if errX != nil || errZ != nil {
		return 0, 0, false
	}
	return x, z, true
}

// Store is a region file viewed as a blob store keyed by the chunk slot
// (x, z) in [0,32)².
type Store struct {
	path        string
	tmp         string
	r           *region.Region
	compression Compression
}

// OpenStore opens an existing region file for reading. A missing file is
// reported as (nil, false, nil).
func OpenStore(path string) (*Store, bool, error) {
	r, err := region.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open region file %s: %w", filepath.Base(path), err)
	}
	return &Store{path: path, r: r, compression: CompressionZlib}, true, nil
}

// CreateStore starts a fresh region file at path. Blobs are written to a
// temporary file that replaces path when the store is closed.
func CreateStore(path string, c Compression) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create region dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale temp region file: %w", err)
	}
	r, err := region.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("create temp region file: %w", err)
	}
	return &Store{path: path, tmp: tmp, r: r, compression: c}, nil
}

// Read returns the decompressed blob at slot (x, z).
func (s *Store) Read(x, z int) ([]byte, bool, error) {
	if !s.r.ExistSector(x, z) {
		return nil, false, nil
	}
	data, err := s.r.ReadSector(x, z)
	if err != nil {
		return nil, false, fmt.Errorf("read sector (%d,%d): %w", x, z, err)
	}
	if len(data) == 0 {
		return nil, false, fmt.Errorf("sector (%d,%d): %w", x, z, ErrMalformedChunk)
	}

	out, err := decompress(Compression(data[0]), data[1:])
	if err != nil {
		return nil, false, fmt.Errorf("decompress sector (%d,%d): %w", x, z, err)
	}
	return out, true, nil
}

// Write compresses data and stores it at slot (x, z).
func (s *Store) Write(x, z int, data []byte) error {
	payload, err := compress(s.compression, data)
	if err != nil {
		return fmt.Errorf("compress chunk (%d,%d): %w", x, z, err)
	}
	if err := s.r.WriteSector(x, z, payload); err != nil {
		return fmt.Errorf("write sector (%d,%d): %w", x, z, err)
	}
	return nil
}

// Close releases the file. For a store from CreateStore this also moves the
// finished file into place.
func (s *Store) Close() error {
	if s.tmp != "" {
		if err := s.r.PadToFullSector(); err != nil {
			s.Abort()
			return fmt.Errorf("pad region file: %w", err)
		}
	}
	if err := s.r.Close(); err != nil {
		if s.tmp != "" {
			os.Remove(s.tmp)
		}
		return fmt.Errorf("close region file: %w", err)
	}
	if s.tmp == "" {
		return nil
	}
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}

// Abort discards a store from CreateStore without replacing the target file.
func (s *Store) Abort() {
	s.r.Close()
	if s.tmp != "" {
		os.Remove(s.tmp)
	}
}

func compress(c Compression, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(c))

	var w io.WriteCloser
	switch c {
	case CompressionNone:
		buf.Write(data)
		return buf.Bytes(), nil
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZlib:
		zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("create zlib writer: %w", err)
		}
		w = zw
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(c Compression, data []byte) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case CompressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("compression %d: %w", c, ErrMalformedChunk)
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedChunk)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedChunk)
	}
	return out, nil
}
