package imageutil

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SavePNG encodes img as PNG at destination, writing to a temporary file
// first so a failed encode never leaves a partial output. It returns the
// size of the written file.
func SavePNG(img image.Image, destination string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return 0, err
	}

	tmp := destination + ".tmp"
	defer os.Remove(tmp)

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	if err := imaging.Encode(out, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return 0, fmt.Errorf("encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, destination); err != nil {
		return 0, err
	}

	info, err := os.Stat(destination)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
