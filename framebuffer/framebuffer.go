// Package framebuffer mirrors display contents onto the operating system's native
// framebuffer, for previewing drawings without a panel attached.
//
// This requires framebuffer device support in the operating system. The framebuffer
// can be opened with the [Open] call, and then functions like a regular [draw.Image].
package framebuffer

import (
	"errors"
	"image"
	"image/draw"
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrFormat       = errors.New("framebuffer: unsupported pixel format")
)

// Device is an opened framebuffer.
type Device interface {
	draw.Image

	// Close the framebuffer device.
	Close() error
}

// Mirror draws src at the top left of dst, each source pixel scaled up to a scale x scale
// square. Pixels outside dst are clipped.
func Mirror(dst draw.Image, src image.Image, scale int) {
	if scale < 1 {
		scale = 1
	}
	var (
		sr = src.Bounds()
		dr = dst.Bounds()
	)
	for y := sr.Min.Y; y < sr.Max.Y; y++ {
		for x := sr.Min.X; x < sr.Max.X; x++ {
			var (
				c  = src.At(x, y)
				px = dr.Min.X + (x-sr.Min.X)*scale
				py = dr.Min.Y + (y-sr.Min.Y)*scale
			)
			if px >= dr.Max.X || py >= dr.Max.Y {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					dst.Set(px+dx, py+dy, c)
				}
			}
		}
	}
}
