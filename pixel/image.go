package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pages.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image.
//
// Each byte holds 8 vertically stacked pixels of one column (a page), bit 0 being the
// top pixel. Pages are stored top to bottom, Stride bytes each. This is the memory layout
// of KS0108 controllers and of GLCD bitmaps.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	pages := ((h + 7) & ^7) / 8 // round up to whole bytes
	return &MonoVerticalLSBImage{
		Buffer: makeBuffer(w, h, w, pages*w),
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	return Mono{
		On: p.Pix[pos]&bit != 0,
	}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	value := monoModel(c).(Mono).Byte()
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Pages is the number of 8-pixel pages spanned by the image.
func (p *MonoVerticalLSBImage) Pages() int {
	if p.Stride == 0 {
		return 0
	}
	return len(p.Pix) / p.Stride
}

// PageAt returns the byte holding the pixels of column x in page.
func (p *MonoVerticalLSBImage) PageAt(x, page int) byte {
	if x < 0 || x >= p.Rect.Dx() || page < 0 || page >= p.Pages() {
		return 0
	}
	return p.Pix[page*p.Stride+x]
}

// SetPageAt replaces the byte holding the pixels of column x in page.
func (p *MonoVerticalLSBImage) SetPageAt(x, page int, b byte) {
	if x < 0 || x >= p.Rect.Dx() || page < 0 || page >= p.Pages() {
		return
	}
	p.Pix[page*p.Stride+x] = b
}

// Bitmap encodes the image as a GLCD bitmap: a width byte, a height byte and the page
// bytes, one page row of width bytes at a time.
func (p *MonoVerticalLSBImage) Bitmap() []byte {
	out := make([]byte, 2, 2+len(p.Pix))
	out[0] = byte(p.Rect.Dx())
	out[1] = byte(p.Rect.Dy())
	return append(out, p.Pix...)
}
