// Package glcd drives KS0108 compatible graphic LCDs.
//
// These monochrome panels are built from one or more controller chips tiled
// horizontally, each owning a strip of columns. Controller memory is organized in pages
// of 8 pixel rows; every byte holds one column of a page. The [Driver] translates pixel,
// shape and text drawing into the minimum number of page byte reads and writes on a
// [Bus], without keeping a copy of the display contents.
package glcd

import (
	"errors"
	"os"

	"github.com/BeatGlow/glcd/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("GLCD_DEBUG") != ""
}

// Errors
var (
	ErrConfig      = errors.New("glcd: invalid display configuration")
	ErrNoFont      = errors.New("glcd: no font selected")
	ErrInvalidChar = errors.New("glcd: character not in font")
	ErrBitmap      = errors.New("glcd: bitmap data too short")
	ErrTimeout     = errors.New("glcd: timeout waiting for controller")
	ErrAddress     = errors.New("glcd: address out of range")
)

// Color is the fill polarity of drawing operations.
type Color = pixel.Mono

// Colors.
var (
	On  = pixel.On  // pixel bits set
	Off = pixel.Off // pixel bits cleared
)

// Bus gives byte access to the memory of the display controllers.
//
// Calls block until the controller accepted the transfer.
type Bus interface {
	// SelectPage sets the page address of a controller.
	SelectPage(chip, page int) error

	// SelectColumn sets the column address of a controller.
	SelectColumn(chip, column int) error

	// ReadByte reads the page byte at the current address of a controller. The driver
	// passes the address it expects the controller to be at. The column address is
	// left unchanged.
	ReadByte(chip, column, page int) (byte, error)

	// WriteByte writes the page byte at the current address of a controller, and
	// advances the column address by one.
	WriteByte(chip, column, page int, data byte) error
}

// Controller is a Bus that also provides access to the controller control functions.
type Controller interface {
	Bus

	String() string

	// Close the connection.
	Close() error

	// Reset pulses the reset line, if available.
	Reset() error

	// Show toggles the display of a controller on or off.
	Show(chip int, on bool) error

	// SetStartLine sets the memory row displayed at the top of a controller.
	SetStartLine(chip, line int) error
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels, a multiple of 8.
	Height int

	// ChipWidth is the number of columns driven by each controller.
	ChipWidth int

	// Inverted starts the display with inverted pixels.
	Inverted bool
}

// DefaultConfig is a 128x64 panel with two controllers.
var DefaultConfig = Config{
	Width:     128,
	Height:    64,
	ChipWidth: 64,
}

func (config *Config) validate() error {
	if config.Width == 0 {
		config.Width = DefaultConfig.Width
	}
	if config.Height == 0 {
		config.Height = DefaultConfig.Height
	}
	if config.ChipWidth == 0 {
		config.ChipWidth = DefaultConfig.ChipWidth
	}
	switch {
	case config.Width < 0 || config.Height < 0 || config.ChipWidth < 0:
		return ErrConfig
	case config.Height%8 != 0:
		return ErrConfig
	case config.Width%config.ChipWidth != 0:
		return ErrConfig
	}
	return nil
}

// Chips is the number of controllers.
func (config Config) Chips() int {
	if config.ChipWidth == 0 {
		return 0
	}
	return config.Width / config.ChipWidth
}
