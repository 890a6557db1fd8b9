package anvil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	tests := []struct{ x, z int }{{0, 0}, {-1, 5}, {640, -641}}
	for _, tt := range tests {
		name := FileName(tt.x, tt.z)
		x, z, ok := ParseFileName(name)
		if !ok || x != tt.x || z != tt.z {
			t.Errorf("ParseFileName(%q) = %d, %d, %v", name, x, z, ok)
		}
	}

	for _, bad := range []string{"r.1.mca", "r.a.b.mca", "r.1.2.mca.tmp", "level.dat", "r.1.2.mcr"} {
		if _, _, ok := ParseFileName(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{"": CompressionZlib, "zlib": CompressionZlib, "gzip": CompressionGzip, "none": CompressionNone} {
		got, err := ParseCompression(name)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseCompression("brotli"); err == nil {
		t.Error("expected error for unknown compression")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionZlib, CompressionGzip, CompressionNone} {
		t.Run(c.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "region", FileName(-1, 2))
			payload := bytes.Repeat([]byte("voxel"), 3000)

			s, err := CreateStore(path, c)
			if err != nil {
				t.Fatalf("CreateStore failed: %v", err)
			}
			if err := s.Write(3, 31, payload); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("expected temp file to be gone, got %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("region file missing: %v", err)
			}
			if info.Size()%4096 != 0 {
				t.Errorf("region file size %d is not sector aligned", info.Size())
			}

			r, ok, err := OpenStore(path)
			if err != nil || !ok {
				t.Fatalf("OpenStore = %v, %v", ok, err)
			}
			defer r.Close()

			got, ok, err := r.Read(3, 31)
			if err != nil || !ok {
				t.Fatalf("Read = %v, %v", ok, err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("payload mismatch: got %d bytes, want %d", len(got), len(payload))
			}

			if _, ok, err := r.Read(0, 0); ok || err != nil {
				t.Fatalf("expected empty slot, got %v, %v", ok, err)
			}
		})
	}
}

func TestOpenStoreMissing(t *testing.T) {
	s, ok, err := OpenStore(filepath.Join(t.TempDir(), FileName(0, 0)))
	if s != nil || ok || err != nil {
		t.Fatalf("expected (nil, false, nil), got (%v, %v, %v)", s, ok, err)
	}
}

func TestCreateStoreReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName(0, 0))

	first, err := CreateStore(path, CompressionZlib)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Write(1, 1, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := CreateStore(path, CompressionZlib)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Write(2, 2, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := second.Close(); err != nil {
		t.Fatal(err)
	}

	r, ok, err := OpenStore(path)
	if err != nil || !ok {
		t.Fatalf("OpenStore = %v, %v", ok, err)
	}
	defer r.Close()
	if _, ok, _ := r.Read(1, 1); ok {
		t.Error("expected old slot to be gone")
	}
	if got, ok, _ := r.Read(2, 2); !ok || string(got) != "new" {
		t.Errorf("expected new slot, got %q, %v", got, ok)
	}
}
