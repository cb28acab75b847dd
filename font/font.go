// Package font decodes and encodes GLCD bitmap fonts.
//
// A font is a byte stream starting with a 6 byte header:
//
//	0-1  length      glyph data length, 0 for fixed width fonts
//	2    fixedWidth  glyph width of fixed width fonts
//	3    height      glyph height in pixels
//	4    firstChar   first character code in the font
//	5    charCount   number of characters in the font
//
// Variable width fonts follow the header with a table of charCount glyph widths. The
// glyph bitmaps follow: each byte holds 8 vertically stacked pixels (bit 0 on top), and
// each glyph is stored one page row at a time, width bytes per row.
//
// Variable width fonts store the bits of a glyph's last, partially used page row at the
// high end of the byte. [Font.Slice] shifts them back down.
package font

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Header field offsets.
const (
	offsetLength     = 0
	offsetFixedWidth = 2
	offsetHeight     = 3
	offsetFirstChar  = 4
	offsetCharCount  = 5

	// HeaderSize is the size of the font header in bytes.
	HeaderSize = 6
)

// Errors
var (
	ErrShort = errors.New("font: data too short")
)

// Font is a decoded GLCD font. Glyph bitmaps are read on demand from the underlying
// source; a Font is immutable and may be shared between displays.
type Font struct {
	r          io.ReaderAt
	fixed      bool
	fixedWidth int
	height     int
	firstChar  byte
	charCount  int
	widths     []byte
}

// New decodes the font header (and width table) from r.
func New(r io.ReaderAt) (*Font, error) {
	var header [HeaderSize]byte
	if err := readFull(r, header[:], 0); err != nil {
		return nil, err
	}

	f := &Font{
		r:          r,
		fixed:      header[offsetLength] == 0 && header[offsetLength+1] == 0,
		fixedWidth: int(header[offsetFixedWidth]),
		height:     int(header[offsetHeight]),
		firstChar:  header[offsetFirstChar],
		charCount:  int(header[offsetCharCount]),
	}
	if !f.fixed {
		f.widths = make([]byte, f.charCount)
		if err := readFull(r, f.widths, HeaderSize); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Load decodes a font held in memory.
func Load(data []byte) (*Font, error) {
	return New(bytes.NewReader(data))
}

func readFull(r io.ReaderAt, p []byte, off int64) error {
	if _, err := r.ReadAt(p, off); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrShort
		}
		return fmt.Errorf("font: %w", err)
	}
	return nil
}

func (f *Font) String() string {
	kind := "variable"
	if f.fixed {
		kind = "fixed"
	}
	return fmt.Sprintf("%s width font, %dpx high, %d chars from %#02x", kind, f.height, f.charCount, f.firstChar)
}

// IsFixed reports whether all glyphs share the same width.
func (f *Font) IsFixed() bool { return f.fixed }

// FixedWidth is the glyph width of fixed width fonts.
func (f *Font) FixedWidth() int { return f.fixedWidth }

// Height is the glyph height in pixels.
func (f *Font) Height() int { return f.height }

// FirstChar is the first character in the font.
func (f *Font) FirstChar() byte { return f.firstChar }

// CharCount is the number of characters in the font.
func (f *Font) CharCount() int { return f.charCount }

// Contains reports whether the font has a glyph for c.
func (f *Font) Contains(c byte) bool {
	return c >= f.firstChar && int(c) < int(f.firstChar)+f.charCount
}

// Glyph describes where and how a character is stored.
type Glyph struct {
	// Char is the character code.
	Char byte

	// Width in pixels, excluding the gap column.
	Width int

	// Height in pixels, excluding the gap row.
	Height int

	// Offset of the first bitmap byte in the font data.
	Offset int64

	// BytesPerColumn is the number of page rows the glyph spans.
	BytesPerColumn int

	// TailShift is set for variable width fonts, which store the bits of the last
	// partial page row at the top of the byte.
	TailShift bool
}

// Glyph locates the glyph for c. The boolean is false if c is not in the font, which
// distinguishes absent characters from zero width glyphs.
func (f *Font) Glyph(c byte) (Glyph, bool) {
	if !f.Contains(c) {
		return Glyph{}, false
	}

	var (
		ord   = int(c - f.firstChar)
		pages = (f.height + 7) / 8
		g     = Glyph{
			Char:           c,
			Height:         f.height,
			BytesPerColumn: pages,
			TailShift:      !f.fixed,
		}
	)
	if f.fixed {
		g.Width = f.fixedWidth
		g.Offset = int64(ord*pages*f.fixedWidth + HeaderSize)
	} else {
		var index int
		for _, w := range f.widths[:ord] {
			index += int(w)
		}
		g.Width = int(f.widths[ord])
		g.Offset = int64(index*pages + f.charCount + HeaderSize)
	}
	return g, true
}

// Slice returns the 8 pixel rows of the glyph column at page row page. Rows below the
// glyph height read as 0.
func (f *Font) Slice(g Glyph, page, column int) (byte, error) {
	rows := g.Height - page*8
	if rows <= 0 || page < 0 || column < 0 || column >= g.Width {
		return 0, nil
	}

	var b [1]byte
	if err := readFull(f.r, b[:], g.Offset+int64(page*g.Width+column)); err != nil {
		return 0, err
	}

	data := b[0]
	if rows < 8 {
		if g.TailShift {
			data >>= 8 - rows
		}
		data &= 0xff >> (8 - rows)
	}
	return data, nil
}

// CharWidth is the width of c including the gap column, or 0 if c is not in the font.
func (f *Font) CharWidth(c byte) int {
	switch {
	case !f.Contains(c):
		return 0
	case f.fixed:
		return f.fixedWidth + 1
	default:
		return int(f.widths[c-f.firstChar]) + 1
	}
}

// StringWidth is the sum of the character widths of s.
func (f *Font) StringWidth(s string) (width int) {
	for i := 0; i < len(s); i++ {
		width += f.CharWidth(s[i])
	}
	return
}
