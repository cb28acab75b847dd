package font

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
)

// ParseTrueType parses a TrueType font and returns a face of size points at 72 DPI, one
// point per pixel, ready for [Encode].
func ParseTrueType(ttf []byte, size float64) (xfont.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	}), nil
}
