package glcd

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// KS0108 instructions.
const (
	ks0108DisplayOff = 0x3E
	ks0108DisplayOn  = 0x3F
	ks0108SetAddress = 0x40 // | column
	ks0108SetPage    = 0xB8 // | page
	ks0108StartLine  = 0xC0 // | line
	ks0108StatusBusy = 0x80
	ks0108Columns    = 64
	ks0108Pages      = 8
)

// BusConfig describes the KS0108 controllers behind a [Conn].
type BusConfig struct {
	// Chips is the number of controllers.
	Chips int

	// Timeout bounds the wait for a busy controller, zero waits forever.
	Timeout time.Duration

	// EnableDelay is the setup and hold time around the enable strobe.
	EnableDelay time.Duration
}

// DefaultBusConfig are the default bus configuration values.
var DefaultBusConfig = BusConfig{
	Chips:       2,
	Timeout:     100 * time.Millisecond,
	EnableDelay: time.Microsecond,
}

type ks0108 struct {
	c       Conn
	chips   int
	timeout time.Duration
	delay   time.Duration
}

// KS0108 returns the controllers behind conn.
func KS0108(conn Conn, config *BusConfig) (Controller, error) {
	if config == nil {
		config = new(BusConfig)
		*config = DefaultBusConfig
	}
	if config.Chips == 0 {
		config.Chips = DefaultBusConfig.Chips
	}
	if config.Chips < 0 || config.Timeout < 0 || config.EnableDelay < 0 {
		return nil, ErrConfig
	}

	d := &ks0108{
		c:       conn,
		chips:   config.Chips,
		timeout: config.Timeout,
		delay:   config.EnableDelay,
	}
	if err := conn.Enable(gpio.Low); err != nil {
		return nil, err
	}
	if err := conn.SetMode(gpio.Low, gpio.Low); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ks0108) String() string {
	return fmt.Sprintf("KS0108 x%d on %s", d.chips, d.c)
}

func (d *ks0108) Close() error {
	return d.c.Close()
}

// Reset pulses the reset line and waits for the controllers to come up.
func (d *ks0108) Reset() error {
	if err := d.c.Reset(gpio.Low); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	if err := d.c.Reset(gpio.High); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	return nil
}

func (d *ks0108) Show(chip int, on bool) error {
	if on {
		return d.command(chip, ks0108DisplayOn)
	}
	return d.command(chip, ks0108DisplayOff)
}

func (d *ks0108) SetStartLine(chip, line int) error {
	if line < 0 || line >= ks0108Pages*8 {
		return fmt.Errorf("%w: start line %d", ErrAddress, line)
	}
	return d.command(chip, ks0108StartLine|byte(line))
}

func (d *ks0108) SelectPage(chip, page int) error {
	if page < 0 || page >= ks0108Pages {
		return fmt.Errorf("%w: page %d", ErrAddress, page)
	}
	return d.command(chip, ks0108SetPage|byte(page))
}

func (d *ks0108) SelectColumn(chip, column int) error {
	if column < 0 || column >= ks0108Columns {
		return fmt.Errorf("%w: column %d", ErrAddress, column)
	}
	return d.command(chip, ks0108SetAddress|byte(column))
}

// ReadByte reads the display data at the current address. The first read after setting
// the address returns stale output latch contents, so a dummy read precedes the real
// read. Reading advances the column address, which is restored afterwards.
func (d *ks0108) ReadByte(chip, column, page int) (data byte, err error) {
	for i := 0; i < 2; i++ {
		if err = d.waitReady(chip); err != nil {
			return
		}
		if err = d.c.SetMode(gpio.High, gpio.High); err != nil {
			return
		}
		if err = d.c.Enable(gpio.High); err != nil {
			return
		}
		d.sleep()
		data, err = d.c.Read()
		if e := d.c.Enable(gpio.Low); err == nil {
			err = e
		}
		if err != nil {
			return
		}
	}
	return data, d.SelectColumn(chip, column)
}

func (d *ks0108) WriteByte(chip, column, page int, data byte) error {
	if err := d.waitReady(chip); err != nil {
		return err
	}
	if err := d.c.SetMode(gpio.High, gpio.Low); err != nil {
		return err
	}
	if err := d.c.Write(data); err != nil {
		return err
	}
	return d.strobe()
}

func (d *ks0108) command(chip int, cmd byte) error {
	if err := d.waitReady(chip); err != nil {
		return err
	}
	if err := d.c.SetMode(gpio.Low, gpio.Low); err != nil {
		return err
	}
	if err := d.c.Write(cmd); err != nil {
		return err
	}
	return d.strobe()
}

// waitReady selects the controller and polls its status until it is not busy.
func (d *ks0108) waitReady(chip int) (err error) {
	if chip < 0 || chip >= d.chips {
		return fmt.Errorf("%w: chip %d", ErrAddress, chip)
	}
	if err = d.c.Select(chip); err != nil {
		return
	}
	if err = d.c.SetMode(gpio.Low, gpio.High); err != nil {
		return
	}
	if err = d.c.Enable(gpio.High); err != nil {
		return
	}
	defer func() {
		if e := d.c.Enable(gpio.Low); err == nil {
			err = e
		}
	}()
	d.sleep()

	var deadline time.Time
	if d.timeout > 0 {
		deadline = time.Now().Add(d.timeout)
	}
	for {
		var status byte
		if status, err = d.c.Read(); err != nil {
			return
		}
		if status&ks0108StatusBusy == 0 {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			if debug {
				log.Printf("glcd: KS0108 chip %d busy for %s, status %#02x", chip, d.timeout, status)
			}
			return fmt.Errorf("%w: chip %d status %#02x", ErrTimeout, chip, status)
		}
	}
}

func (d *ks0108) strobe() error {
	d.sleep()
	if err := d.c.Enable(gpio.High); err != nil {
		return err
	}
	d.sleep()
	return d.c.Enable(gpio.Low)
}

func (d *ks0108) sleep() {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
}
