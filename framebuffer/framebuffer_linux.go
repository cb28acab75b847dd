package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"syscall"

	"github.com/BeatGlow/glcd/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// channel is a color component bit field of a pixel value.
type channel struct {
	offset uint32
	length uint32
}

// encode a 16 bit color component.
func (ch channel) encode(v uint32) uint32 {
	if ch.length == 0 {
		return 0
	}
	return v >> (16 - ch.length) << ch.offset
}

// decode to a 16 bit color component.
func (ch channel) decode(p uint32) uint32 {
	if ch.length == 0 {
		return 0
	}
	limit := uint32(1)<<ch.length - 1
	return (p >> ch.offset & limit) * 0xffff / limit
}

type linuxFrameBuffer struct {
	f      *os.File
	pix    []byte
	rect   image.Rectangle
	stride int
	size   int // bytes per pixel
	red    channel
	green  channel
	blue   channel
	alpha  channel
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fd         = f.Fd()
		info       linuxFrameBufferInfo
		screenInfo linuxVarScreenInfo
	)
	if err = ioctl.Do(fd, ioctl.Command(fbioGetFScreenInfo), &info); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl.Do(fd, ioctl.Command(fbioGetVScreenInfo), &screenInfo); err != nil {
		_ = f.Close()
		return nil, err
	}

	fb, err := newLinuxFrameBuffer(&screenInfo, int(info.LineLength))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	fb.f = f

	// Map pixel buffer.
	if fb.pix, err = syscall.Mmap(int(fd), 0, int(info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}
	return fb, nil
}

func newLinuxFrameBuffer(info *linuxVarScreenInfo, stride int) (*linuxFrameBuffer, error) {
	switch info.BitsPerPixel {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrFormat, info.BitsPerPixel)
	}
	if info.Grayscale != 0 {
		return nil, fmt.Errorf("%w: grayscale", ErrFormat)
	}

	return &linuxFrameBuffer{
		rect:   image.Rect(0, 0, int(info.Xres), int(info.Yres)),
		stride: stride,
		size:   int(info.BitsPerPixel / 8),
		red:    channel{info.Red.Offset, info.Red.Length},
		green:  channel{info.Green.Offset, info.Green.Length},
		blue:   channel{info.Blue.Offset, info.Blue.Length},
		alpha:  channel{info.Alpha.Offset, info.Alpha.Length},
	}, nil
}

func (fb *linuxFrameBuffer) ColorModel() color.Model {
	return color.RGBA64Model
}

func (fb *linuxFrameBuffer) Bounds() image.Rectangle {
	return fb.rect
}

func (fb *linuxFrameBuffer) offset(x, y int) int {
	return y*fb.stride + x*fb.size
}

func (fb *linuxFrameBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(fb.rect) {
		return color.RGBA64{}
	}

	// Pixel values are stored in host byte order, little endian on supported hosts.
	var (
		i = fb.offset(x, y)
		p uint32
	)
	for j := fb.size - 1; j >= 0; j-- {
		p = p<<8 | uint32(fb.pix[i+j])
	}
	c := color.RGBA64{
		R: uint16(fb.red.decode(p)),
		G: uint16(fb.green.decode(p)),
		B: uint16(fb.blue.decode(p)),
		A: 0xffff,
	}
	if fb.alpha.length > 0 {
		c.A = uint16(fb.alpha.decode(p))
	}
	return c
}

func (fb *linuxFrameBuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(fb.rect) {
		return
	}

	r, g, b, a := c.RGBA()
	p := fb.red.encode(r) | fb.green.encode(g) | fb.blue.encode(b) | fb.alpha.encode(a)
	for i, j := fb.offset(x, y), 0; j < fb.size; j++ {
		fb.pix[i+j] = byte(p >> (8 * j))
	}
}

// Close the framebuffer device
func (fb *linuxFrameBuffer) Close() error {
	if err := syscall.Munmap(fb.pix); err != nil {
		return err
	}
	return fb.f.Close()
}

type linuxFrameBufferInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
