package mask

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// WritePreviewPNG renders the level mask as a grayscale PNG, downscaled to
// fit within maxDim on its longest side via nearest-neighbour resampling.
// This is a cosmetic inspection aid, not an engine import product — the
// canonical export is the raw levelMask buffer from Build.
func WritePreviewPNG(ex *Export, maxDim int, path string) error {
	src := image.NewGray(image.Rect(0, 0, ex.Metadata.Cols, ex.Metadata.Rows))
	for y := 0; y < ex.Metadata.Rows; y++ {
		for x := 0; x < ex.Metadata.Cols; x++ {
			v := ex.LevelMask[y*ex.Metadata.Cols+x]
			src.SetGray(x, y, color.Gray{Y: v})
		}
	}

	dst := src.SubImage(src.Bounds()).(*image.Gray)
	if ex.Metadata.Cols > maxDim || ex.Metadata.Rows > maxDim {
		scale := float64(maxDim) / float64(maxInt(ex.Metadata.Cols, ex.Metadata.Rows))
		dw := int(float64(ex.Metadata.Cols) * scale)
		dh := int(float64(ex.Metadata.Rows) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		scaled := image.NewGray(image.Rect(0, 0, dw, dh))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
		dst = scaled
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	return png.Encode(w, dst)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// WriteMetadataJSON writes ex.Metadata as indented JSON to path.
func WriteMetadataJSON(ex *Export, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	data, err := json.MarshalIndent(ex.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
