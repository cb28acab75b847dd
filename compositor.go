package glcd

import (
	"image"

	"github.com/BeatGlow/glcd/draw"
	"github.com/BeatGlow/glcd/pixel"
)

// SetDot sets the pixel at (x, y) to c. Pixels outside the display are ignored.
func (d *Driver) SetDot(x, y int, c Color) error {
	if !d.contains(x, y) {
		return nil
	}
	if _, err := d.moveTo(x, y&^7); err != nil {
		return err
	}

	data, err := d.readData()
	if err != nil {
		return err
	}
	if bit := byte(1) << (y & 7); c.On {
		data |= bit
	} else {
		data &^= bit
	}
	return d.writeData(data)
}

// FillRect fills the rectangle spanning x..x+w and y..y+h (inclusive) with c.
func (d *Driver) FillRect(x, y, w, h int, c Color) error {
	if w < 0 || h < 0 || !d.contains(x, y) {
		return nil
	}
	return spanPages(y, h, func(py int, mask byte) error {
		if ok, err := d.moveTo(x, py); !ok || err != nil {
			return err
		}
		for i := 0; i <= w; i++ {
			if mask == 0xff {
				if err := d.writeData(c.Byte()); err != nil {
					return err
				}
				continue
			}
			data, err := d.readData()
			if err != nil {
				return err
			}
			if c.On {
				data |= mask
			} else {
				data &^= mask
			}
			if err = d.writeData(data); err != nil {
				return err
			}
		}
		return nil
	})
}

// InvertRect inverts the pixels of the rectangle spanning x..x+w and y..y+h (inclusive).
func (d *Driver) InvertRect(x, y, w, h int) error {
	if w < 0 || h < 0 || !d.contains(x, y) {
		return nil
	}
	return spanPages(y, h, func(py int, mask byte) error {
		if ok, err := d.moveTo(x, py); !ok || err != nil {
			return err
		}
		for i := 0; i <= w; i++ {
			data, err := d.readData()
			if err != nil {
				return err
			}
			if err = d.writeData(data ^ mask); err != nil {
				return err
			}
		}
		return nil
	})
}

// spanPages splits the rows y..y+h into page rows, calling fn with the top row of each
// page and the mask of the rows covered in it.
func spanPages(y, h int, fn func(py int, mask byte) error) error {
	var (
		height = h + 1
		offset = y & 7
		mask   = byte(0xff)
		done   int
	)
	y -= offset
	if height < 8-offset {
		mask >>= 8 - height
		done = height
	} else {
		done = 8 - offset
	}
	if err := fn(y, mask<<offset); err != nil {
		return err
	}

	for ; done+8 <= height; done += 8 {
		y += 8
		if err := fn(y, 0xff); err != nil {
			return err
		}
	}

	if done < height {
		return fn(y+8, ^(byte(0xff) << (height - done)))
	}
	return nil
}

// Inverted reports whether the display is in inverted mode.
func (d *Driver) Inverted() bool {
	return d.inverted
}

// SetInverted switches inverted mode, inverting the current screen contents if the mode
// changes. In inverted mode all pixels are stored complemented.
func (d *Driver) SetInverted(inverted bool) error {
	if d.inverted == inverted {
		return nil
	}
	if err := d.InvertRect(0, 0, d.width-1, d.height-1); err != nil {
		return err
	}
	d.inverted = inverted
	return nil
}

// ClearPage fills the page row with c.
func (d *Driver) ClearPage(page int, c Color) error {
	if ok, err := d.moveTo(0, page*8); !ok || err != nil {
		return err
	}
	for x := 0; x < d.width; x++ {
		if err := d.writeData(c.Byte()); err != nil {
			return err
		}
	}
	return nil
}

// ClearScreen fills the display with c.
func (d *Driver) ClearScreen(c Color) error {
	for page := 0; page < d.height/8; page++ {
		if err := d.ClearPage(page, c); err != nil {
			return err
		}
	}
	return nil
}

// DrawBitmap draws a GLCD bitmap with its top left corner at (x, y). The bitmap starts
// with a width and a height byte, followed by the page bytes one page row at a time.
// Set bits are drawn as c, cleared bits as the opposite color.
func (d *Driver) DrawBitmap(bitmap []byte, x, y int, c Color) error {
	if len(bitmap) < 2 {
		return ErrBitmap
	}
	var (
		width  = int(bitmap[0])
		height = int(bitmap[1])
		pages  = (height + 7) / 8
	)
	if len(bitmap) < 2+pages*width {
		return ErrBitmap
	}
	return d.drawPages(bitmap[2:], width, height, x, y, c)
}

// DrawImage draws img with its top left corner at (x, y). Light pixels are drawn as c,
// dark and transparent pixels as the opposite color.
func (d *Driver) DrawImage(img image.Image, x, y int, c Color) error {
	var (
		b = img.Bounds()
		m = pixel.NewMonoVerticalLSBImage(b.Dx(), b.Dy())
	)
	draw.Draw(m, m.Bounds(), img, b.Min, draw.Src)
	return d.drawPages(m.Pix, b.Dx(), b.Dy(), x, y, c)
}

func (d *Driver) drawPages(pix []byte, width, height, x, y int, c Color) error {
	if !d.contains(x, y) || width == 0 {
		return nil
	}

	for row := 0; row*8 < height; row++ {
		var (
			data   = pix[row*width : (row+1)*width]
			rows   = min(8, height-row*8)
			valid  = byte(0xff) >> (8 - rows)
			top    = y + row*8
			offset = top & 7
		)
		if err := d.splicePage(data, x, top-offset, offset, valid<<offset, c); err != nil {
			return err
		}
		if offset == 0 {
			continue
		}
		if mask := valid >> (8 - offset); mask != 0 {
			if err := d.splicePage(data, x, top-offset+8, offset-8, mask, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// splicePage replaces the masked rows of the page row at py with the shifted bitmap bytes.
// A negative shift moves the bits up.
func (d *Driver) splicePage(data []byte, x, py, shift int, mask byte, c Color) error {
	if ok, err := d.moveTo(x, py); !ok || err != nil {
		return err
	}
	for _, b := range data {
		if !c.On {
			b = ^b
		}
		if shift >= 0 {
			b <<= shift
		} else {
			b >>= -shift
		}

		if mask != 0xff {
			old, err := d.readData()
			if err != nil {
				return err
			}
			b = old&^mask | b&mask
		}
		if err := d.writeData(b); err != nil {
			return err
		}
	}
	return nil
}
