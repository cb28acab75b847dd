package font

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/glcd/pixel"
)

// Encoder errors.
var (
	ErrRange  = errors.New("font: character range does not fit in a byte")
	ErrHeight = errors.New("font: glyph height must be between 1 and 255 pixels")
	ErrWidth  = errors.New("font: glyph width must be at most 255 pixels")
)

// Options control how a face is encoded.
type Options struct {
	// First is the first character to encode.
	First byte

	// Count is the number of characters to encode (default: 0x60).
	Count int

	// Fixed produces a fixed width font.
	Fixed bool

	// FixedWidth overrides the glyph width of fixed width fonts. The widest glyph
	// advance is used if it is 0.
	FixedWidth int
}

// DefaultOptions encode the printable ASCII range as a variable width font.
var DefaultOptions = Options{
	First: 0x20,
	Count: 0x60,
}

// Encode rasterizes the glyphs of face into the GLCD font format. Pixels are set where
// the glyph coverage is at least half.
func Encode(face xfont.Face, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = new(Options)
		*opts = DefaultOptions
	}
	count := opts.Count
	if count == 0 {
		count = DefaultOptions.Count
	}
	if count < 0 || count > 0xff || int(opts.First)+count > 0x100 {
		return nil, ErrRange
	}

	var (
		metrics = face.Metrics()
		ascent  = metrics.Ascent.Ceil()
		height  = (metrics.Ascent + metrics.Descent).Ceil()
		widths  = make([]int, count)
		widest  int
	)
	if height <= 0 || height > 0xff {
		return nil, ErrHeight
	}
	for i := range widths {
		if advance, ok := face.GlyphAdvance(rune(int(opts.First) + i)); ok {
			widths[i] = advance.Ceil()
		}
		widest = max(widest, widths[i])
	}
	if opts.Fixed {
		if opts.FixedWidth > 0 {
			widest = opts.FixedWidth
		}
		for i := range widths {
			widths[i] = widest
		}
	}
	if widest > 0xff {
		return nil, ErrWidth
	}

	var bitmap []byte
	for i, width := range widths {
		img := pixel.NewMonoVerticalLSBImage(width, height)
		d := &xfont.Drawer{
			Dst:  img,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(rune(int(opts.First) + i)))

		if rows := height % 8; !opts.Fixed && rows != 0 {
			tail := img.Pix[(img.Pages()-1)*width:]
			for j := range tail {
				tail[j] <<= 8 - rows
			}
		}
		bitmap = append(bitmap, img.Pix...)
	}

	header := make([]byte, HeaderSize)
	header[offsetHeight] = byte(height)
	header[offsetFirstChar] = opts.First
	header[offsetCharCount] = byte(count)
	if opts.Fixed {
		header[offsetFixedWidth] = byte(widest)
		return append(header, bitmap...), nil
	}

	size := HeaderSize + count + len(bitmap)
	binary.BigEndian.PutUint16(header[offsetLength:], uint16(min(size, 0xffff)))
	out := make([]byte, 0, size)
	out = append(out, header...)
	for _, width := range widths {
		out = append(out, byte(width))
	}
	return append(out, bitmap...), nil
}

// MustEncode is like [Encode] but panics on error.
func MustEncode(face xfont.Face, opts *Options) []byte {
	data, err := Encode(face, opts)
	if err != nil {
		panic(fmt.Sprintf("font: encode: %v", err))
	}
	return data
}
