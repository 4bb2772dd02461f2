package mask

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// WriteAll writes every export product to dir: heightmap.u16 (little
// endian), levelMask.u8, roadMask.u8, cliffMask.u8, playableMask.u8,
// waterMask.u8, and metadata.json.
func WriteAll(ex *Export, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	heightBuf := make([]byte, len(ex.Heightmap16)*2)
	for i, v := range ex.Heightmap16 {
		binary.LittleEndian.PutUint16(heightBuf[i*2:], v)
	}
	if err := os.WriteFile(filepath.Join(dir, "heightmap.u16"), heightBuf, 0o644); err != nil {
		return err
	}

	planes := map[string][]uint8{
		"levelMask.u8":    ex.LevelMask,
		"roadMask.u8":     ex.RoadMask,
		"cliffMask.u8":    ex.CliffMask,
		"playableMask.u8": ex.PlayableMask,
		"waterMask.u8":    ex.WaterMask,
	}
	for name, plane := range planes {
		if err := os.WriteFile(filepath.Join(dir, name), plane, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return WriteMetadataJSON(ex, filepath.Join(dir, "metadata.json"))
}
