package glcd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BeatGlow/glcd/font"
)

// SelectFont selects the font used for text, drawn in color c.
func (d *Driver) SelectFont(f *font.Font, c Color) {
	d.font = f
	d.fontColor = c
}

// Font is the selected font, if any.
func (d *Driver) Font() *font.Font {
	return d.font
}

// PutChar draws c at the cursor, followed by a one pixel gap column and a gap row, and
// advances the cursor by the glyph width plus one. Control characters are ignored.
func (d *Driver) PutChar(c byte) error {
	if d.font == nil {
		return ErrNoFont
	}
	if c < 0x20 {
		return nil
	}
	g, ok := d.font.Glyph(c)
	if !ok {
		return ErrInvalidChar
	}
	return d.drawGlyph(g)
}

func (d *Driver) drawGlyph(g font.Glyph) error {
	var (
		x, y = d.cursor.x, d.cursor.y
		rows = g.Height + 1 // glyph and gap row
		gap  = d.fontColor.Invert().Byte()
	)
	if y&7 == 0 && g.Height > 0 && g.Height&7 == 0 {
		// Page aligned glyph, don't touch the page below for the gap row only.
		rows = g.Height
	}

	for p := 0; p < rows && x < d.width; {
		var (
			top    = y + p
			offset = top & 7
			n      = min(rows-p, 8-offset)
			mask   = byte(0xff) >> (8 - n) << offset
		)
		ok, err := d.moveTo(x, top-offset)
		if err != nil {
			return err
		} else if !ok {
			break
		}

		for column := 0; column < g.Width; column++ {
			data, err := d.glyphRows(g, column, p, n)
			if err != nil {
				return err
			}
			if err = d.spliceData(data<<offset, mask); err != nil {
				return err
			}
		}
		if err = d.spliceData(gap, mask); err != nil {
			return err
		}
		p += n
	}

	return d.place(x+g.Width+1, y)
}

// glyphRows returns n rows of a glyph column starting at row, in the font color.
func (d *Driver) glyphRows(g font.Glyph, column, row, n int) (byte, error) {
	page, shift := row/8, row&7
	data, err := d.font.Slice(g, page, column)
	if err != nil {
		return 0, err
	}
	data >>= shift
	if shift+n > 8 {
		next, err := d.font.Slice(g, page+1, column)
		if err != nil {
			return 0, err
		}
		data |= next << (8 - shift)
	}
	if !d.fontColor.On {
		data = ^data
	}
	return data & (byte(0xff) >> (8 - n)), nil
}

// spliceData writes the masked bits of data into the page byte under the cursor. The
// page byte is only read if the mask leaves bits to preserve.
func (d *Driver) spliceData(data, mask byte) error {
	if mask != 0xff {
		old, err := d.readData()
		if err != nil {
			return err
		}
		data = old&^mask | data&mask
	}
	return d.writeData(data)
}

// Puts draws s at the cursor. A newline moves the cursor to the start column of the
// string, one glyph height down. Characters missing from the font are skipped.
func (d *Driver) Puts(s string) error {
	_, err := d.puts(s)
	return err
}

// Write draws p at the cursor, see [Driver.Puts].
func (d *Driver) Write(p []byte) (int, error) {
	return d.puts(string(p))
}

func (d *Driver) puts(s string) (int, error) {
	if d.font == nil {
		return 0, ErrNoFont
	}

	x := d.cursor.x
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if err := d.MoveTo(x, d.cursor.y+d.font.Height()); err != nil {
				return i, err
			}
			continue
		}
		if err := d.PutChar(s[i]); err != nil && !errors.Is(err, ErrInvalidChar) {
			return i, err
		}
	}
	return len(s), nil
}

// PrintNumber draws n in decimal.
func (d *Driver) PrintNumber(n int64) error {
	return d.Puts(strconv.FormatInt(n, 10))
}

// PrintHexNumber draws n in upper case hexadecimal, without leading zeros.
func (d *Driver) PrintHexNumber(n uint16) error {
	return d.Puts(strings.ToUpper(strconv.FormatUint(uint64(n), 16)))
}

// PrintRealNumber draws n in decimal with up to six fraction digits. Fraction digits are
// truncated, and trailing zeros are not drawn.
func (d *Driver) PrintRealNumber(n float64) error {
	return d.Puts(formatReal(n))
}

func formatReal(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) >= math.MaxInt64 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}

	var sign string
	if n < 0 {
		sign, n = "-", -n
	}
	whole := int64(n)
	frac := int64((n - float64(whole)) * 1e6)

	digits := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	if digits == "" {
		digits = "0"
	}
	return sign + strconv.FormatInt(whole, 10) + "." + digits
}

// CharWidth is the width of c in the selected font, including the gap column. It is 0
// if no font is selected or c is not in the font.
func (d *Driver) CharWidth(c byte) int {
	if d.font == nil {
		return 0
	}
	return d.font.CharWidth(c)
}

// StringWidth is the width of s in the selected font.
func (d *Driver) StringWidth(s string) int {
	if d.font == nil {
		return 0
	}
	return d.font.StringWidth(s)
}

// CursorTo moves the cursor to a text cell, measured in fixed width glyphs plus gaps.
func (d *Driver) CursorTo(column, row int) error {
	if d.font == nil {
		return ErrNoFont
	}
	return d.MoveTo(column*(d.font.FixedWidth()+1), row*(d.font.Height()+1))
}
