package imageutil

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Decoders beyond what imaging registers itself.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ImageInfo struct {
	Image  *image.NRGBA
	Format string
}

// Load decodes the image at path into a fresh NRGBA buffer anchored at
// the origin. The buffer is never shared with the decoder's output.
func Load(path string) (*ImageInfo, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	format, err := imaging.FormatFromFilename(path)
	name := format.String()
	if err != nil {
		name = "unknown"
	}
	return &ImageInfo{
		Image:  imaging.Clone(src),
		Format: name,
	}, nil
}

// Size returns width and height of the buffer.
func (info *ImageInfo) Size() [2]int {
	b := info.Image.Bounds()
	return [2]int{b.Dx(), b.Dy()}
}
