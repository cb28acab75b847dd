package glcd

import (
	"fmt"
	"image"
	"log"

	"github.com/BeatGlow/glcd/font"
)

type cursor struct {
	x, y int
	page int // always y/8 once the cursor has been placed
}

// Driver draws on a display. It tracks the cursor, the inversion state and the selected
// font, and is not safe for concurrent use; use one Driver per display.
type Driver struct {
	bus       Bus
	width     int
	height    int
	chipWidth int
	chips     int
	cursor    cursor
	stale     bool // cursor moved onto a controller by sequential access
	inverted  bool
	font      *font.Font
	fontColor Color
	halted    bool
}

// New returns a driver for the display behind bus, and initializes it.
func New(bus Bus, config *Config) (*Driver, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		bus:       bus,
		width:     config.Width,
		height:    config.Height,
		chipWidth: config.ChipWidth,
		chips:     config.Chips(),
		fontColor: On,
	}
	if err := d.Init(config.Inverted); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) String() string {
	if s, ok := d.bus.(fmt.Stringer); ok {
		return fmt.Sprintf("GLCD %dx%d on %s", d.width, d.height, s)
	}
	return fmt.Sprintf("GLCD %dx%d", d.width, d.height)
}

// Init turns the controllers on, clears the screen and homes the cursor.
func (d *Driver) Init(inverted bool) (err error) {
	if c, ok := d.bus.(Controller); ok {
		if err = c.Reset(); err != nil {
			return
		}
		for chip := 0; chip < d.chips; chip++ {
			if err = c.Show(chip, true); err != nil {
				return
			}
			if err = c.SetStartLine(chip, 0); err != nil {
				return
			}
		}
	}
	if debug {
		log.Printf("glcd: init %dx%d, %d controllers, inverted=%t", d.width, d.height, d.chips, inverted)
	}

	d.cursor = cursor{page: -1}
	d.stale = false
	d.inverted = inverted
	d.halted = false

	fill := Off
	if inverted {
		fill = On
	}
	if err = d.ClearScreen(fill); err != nil {
		return
	}
	return d.MoveTo(0, 0)
}

// Show toggles the display on or off.
func (d *Driver) Show(show bool) error {
	c, ok := d.bus.(Controller)
	if !ok {
		return nil
	}
	for chip := 0; chip < d.chips; chip++ {
		if err := c.Show(chip, show); err != nil {
			return err
		}
	}
	return nil
}

// Close turns the display off and closes the bus, if it is a [Controller].
func (d *Driver) Close() error {
	c, ok := d.bus.(Controller)
	if !ok {
		return nil
	}
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = c.Close()
			return err
		}
		d.halted = true
	}
	return c.Close()
}

// Bounds is the display bounding box (dimensions).
func (d *Driver) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Cursor is the current cursor position. After sequential writes reach the right edge of
// the display, X equals the display width.
func (d *Driver) Cursor() image.Point {
	return image.Pt(d.cursor.x, d.cursor.y)
}

// MoveTo moves the cursor to (x, y). Positions outside the display are ignored.
func (d *Driver) MoveTo(x, y int) error {
	_, err := d.moveTo(x, y)
	return err
}

func (d *Driver) moveTo(x, y int) (bool, error) {
	if !d.contains(x, y) {
		return false, nil
	}

	if err := d.selectPage(y / 8); err != nil {
		return true, err
	}
	d.cursor.x = x
	d.cursor.y = y

	// Column changes are the common case, always select.
	chip, column := d.address(x)
	d.stale = false
	return true, d.bus.SelectColumn(chip, column)
}

// selectPage selects page on all controllers, so sequential access may cross into the
// next controller without selecting the page again.
func (d *Driver) selectPage(page int) error {
	if page == d.cursor.page {
		return nil
	}
	for chip := 0; chip < d.chips; chip++ {
		if err := d.bus.SelectPage(chip, page); err != nil {
			d.cursor.page = -1
			return err
		}
	}
	d.cursor.page = page
	return nil
}

// place updates the cursor without selecting a column; the controller column address
// is expected to be at x already.
func (d *Driver) place(x, y int) error {
	if err := d.selectPage(y / 8); err != nil {
		return err
	}
	d.cursor.x = min(x, d.width)
	d.cursor.y = y
	return nil
}

func (d *Driver) contains(x, y int) bool {
	return x >= 0 && x < d.width && y >= 0 && y < d.height
}

func (d *Driver) address(x int) (chip, column int) {
	return x / d.chipWidth, x % d.chipWidth
}

// sync selects the column on a controller the cursor moved onto by sequential access.
func (d *Driver) sync() error {
	if !d.stale {
		return nil
	}
	chip, column := d.address(d.cursor.x)
	if err := d.bus.SelectColumn(chip, column); err != nil {
		return err
	}
	d.stale = false
	return nil
}

// readData reads the page byte under the cursor.
func (d *Driver) readData() (byte, error) {
	if d.cursor.x >= d.width {
		return 0, nil
	}
	if err := d.sync(); err != nil {
		return 0, err
	}
	chip, column := d.address(d.cursor.x)
	data, err := d.bus.ReadByte(chip, column, d.cursor.page)
	if err != nil {
		return 0, err
	}
	if d.inverted {
		data = ^data
	}
	return data, nil
}

// writeData writes the page byte under the cursor and advances the cursor.
func (d *Driver) writeData(data byte) error {
	if d.cursor.x >= d.width {
		return nil
	}
	if err := d.sync(); err != nil {
		return err
	}
	chip, column := d.address(d.cursor.x)
	if d.inverted {
		data = ^data
	}
	if err := d.bus.WriteByte(chip, column, d.cursor.page, data); err != nil {
		return err
	}
	d.cursor.x++
	d.stale = d.cursor.x%d.chipWidth == 0
	return nil
}
