package mask

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

func TestWriteAllProducesAllExpectedFiles(t *testing.T) {
	g := buildTestGrid(t)
	ex := Build(g, 3, 1, 0, time.Unix(0, 0))
	dir := t.TempDir()

	if err := WriteAll(ex, dir); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{
		"heightmap.u16", "levelMask.u8", "roadMask.u8",
		"cliffMask.u8", "playableMask.u8", "waterMask.u8", "metadata.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestWriteAllHeightmapIsLittleEndianU16(t *testing.T) {
	g, err := grid.New(2, 1)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	g.SetHeightAt(0, 0, 0)
	g.SetHeightAt(1, 0, 10)
	ex := Build(g, 1, 1, 0, time.Unix(0, 0))
	dir := t.TempDir()

	if err := WriteAll(ex, dir); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "heightmap.u16"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(raw) != len(ex.Heightmap16)*2 {
		t.Fatalf("expected %d bytes, got %d", len(ex.Heightmap16)*2, len(raw))
	}
	for i, want := range ex.Heightmap16 {
		got := binary.LittleEndian.Uint16(raw[i*2:])
		if got != want {
			t.Errorf("sample %d: want %d, got %d", i, want, got)
		}
	}
}

func TestWriteMetadataJSONIsReadable(t *testing.T) {
	g := buildTestGrid(t)
	ex := Build(g, 3, 1, 0, time.Unix(0, 0))
	path := filepath.Join(t.TempDir(), "metadata.json")

	if err := WriteMetadataJSON(ex, path); err != nil {
		t.Fatalf("WriteMetadataJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty metadata.json")
	}
}
