package imageutil

import (
	"image"
	"image/color"
	"math"

	"github.com/yegorkir/lightmask/internal/lighting"
)

const (
	// fullDarkAlpha is the overlay alpha of a cell with zero luminance.
	fullDarkAlpha float32 = 256.0 * 0.8
	// litThreshold and above counts as fully lit.
	litThreshold float32 = 0.9
	// epsilon32 is the float32 machine epsilon.
	epsilon32 float32 = 1.0 / (1 << 23)
)

// Stats summarizes one ApplyLighting pass.
type Stats struct {
	Cells  int // cells darkened
	Lit    int // present samples left untouched
	Absent int // samples with no value
	Pixels int // pixels blended
}

// OverlayAlpha converts a luminance sample to the alpha of the black
// overlay. It reports false when the cell should be left untouched.
func OverlayAlpha(lum float32) (uint8, bool) {
	if lum >= litThreshold {
		return 0, false
	}
	alpha := fullDarkAlpha - float32(fullDarkAlpha*lum)
	if alpha <= epsilon32 {
		return 0, false
	}
	return uint8(math.Round(float64(alpha))), true
}

// CellRect returns the pixel rectangle owned by cell (x, y) of a grid
// gridWidth columns wide whose column x holds colHeight samples. Row 0 is
// the bottom of the image. The rectangle never reaches the last pixel
// row or column of bounds.
func CellRect(bounds image.Rectangle, gridWidth, colHeight, x, y int) image.Rectangle {
	if gridWidth <= 0 || colHeight <= 0 {
		return image.Rectangle{}
	}
	width, height := bounds.Dx(), bounds.Dy()
	cellW := width / gridWidth
	cellH := height / colHeight

	startX := x * cellW
	startY := height - (y+1)*cellH

	// Built directly: image.Rect would swap inverted ends into a non-empty rect.
	r := image.Rectangle{
		Min: image.Pt(startX, startY),
		Max: image.Pt(min(startX+cellW, width-1), min(startY+cellH, height-1)),
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Add(bounds.Min)
}

// ApplyLighting darkens img in place according to grid. The grid is
// validated first, so an out-of-range sample leaves img unmodified.
func ApplyLighting(img *image.NRGBA, grid lighting.Grid) (Stats, error) {
	var stats Stats
	if err := grid.Validate(); err != nil {
		return stats, err
	}

	width := grid.Width()
	for x, col := range grid {
		height := len(col)
		for y, s := range col {
			if !s.Present {
				stats.Absent++
				continue
			}
			alpha, ok := OverlayAlpha(s.Value)
			if !ok {
				stats.Lit++
				continue
			}
			r := CellRect(img.Rect, width, height, x, y)
			blendRect(img, r, color.NRGBA{A: alpha})
			stats.Cells++
			stats.Pixels += r.Dx() * r.Dy()
		}
	}
	return stats, nil
}

func blendRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			out := Blend(color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}, c)
			px[0], px[1], px[2], px[3] = out.R, out.G, out.B, out.A
		}
	}
}
