package framebuffer

import (
	"errors"
	"image/color"
	"testing"
)

func TestLinuxFrameBuffer(t *testing.T) {
	tests := []struct {
		Name string
		Info linuxVarScreenInfo
		Red  []byte
	}{
		{"RGB565", linuxVarScreenInfo{
			Xres: 4, Yres: 2, BitsPerPixel: 16,
			Red:   linuxBitField{Offset: 11, Length: 5},
			Green: linuxBitField{Offset: 5, Length: 6},
			Blue:  linuxBitField{Offset: 0, Length: 5},
		}, []byte{0x00, 0xf8}},
		{"XRGB8888", linuxVarScreenInfo{
			Xres: 4, Yres: 2, BitsPerPixel: 32,
			Red:   linuxBitField{Offset: 16, Length: 8},
			Green: linuxBitField{Offset: 8, Length: 8},
			Blue:  linuxBitField{Offset: 0, Length: 8},
		}, []byte{0x00, 0x00, 0xff, 0x00}},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			size := int(test.Info.BitsPerPixel / 8)
			fb, err := newLinuxFrameBuffer(&test.Info, 4*size)
			if err != nil {
				it.Fatal(err)
			}
			fb.pix = make([]byte, 2*4*size)

			fb.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
			i := fb.offset(1, 1)
			for j, v := range test.Red {
				if fb.pix[i+j] != v {
					it.Errorf("expected pixel byte %d to be %#02x, got %#02x", j, v, fb.pix[i+j])
				}
			}

			fb.Set(2, 0, color.White)
			for _, c := range []struct {
				x, y int
				want color.RGBA64
			}{
				{1, 1, color.RGBA64{R: 0xffff, A: 0xffff}},
				{2, 0, color.RGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}},
				{0, 0, color.RGBA64{A: 0xffff}},
			} {
				if v := fb.At(c.x, c.y); v != c.want {
					it.Errorf("expected %v at (%d,%d), got %v", c.want, c.x, c.y, v)
				}
			}
		})
	}
}

func TestLinuxFrameBufferFormat(t *testing.T) {
	if _, err := newLinuxFrameBuffer(&linuxVarScreenInfo{BitsPerPixel: 8}, 0); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}
