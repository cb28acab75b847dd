package glcd

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/BeatGlow/glcd/conn"
)

// Conn errors.
var (
	ErrPin        = errors.New("glcd: GPIO pin is invalid")
	ErrChipSelect = errors.New("glcd: invalid chip select mapping")
)

// Conn drives the interface lines of KS0108 controllers.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset line to the provided level, if there is one.
	Reset(gpio.Level) error

	// Select sets the chip select lines for the numbered controller.
	Select(chip int) error

	// SetMode sets the data/instruction (DI) and read/write (RW) lines.
	SetMode(di, rw gpio.Level) error

	// Enable sets the enable (E) line.
	Enable(gpio.Level) error

	// Write drives the data lines.
	Write(byte) error

	// Read releases and samples the data lines.
	Read() (byte, error)
}

// DefaultChipSelect raises the first chip select line for the first controller and the
// second line for the second controller.
var DefaultChipSelect = []uint8{0x01, 0x02}

func checkChipSelect(chipSelect []uint8, lines int) error {
	if len(chipSelect) == 0 {
		return fmt.Errorf("%w: no controllers", ErrChipSelect)
	}
	for chip, mask := range chipSelect {
		if mask>>lines != 0 {
			return fmt.Errorf("%w: controller %d uses line mask %#02x, have %d lines", ErrChipSelect, chip, mask, lines)
		}
	}
	return nil
}

// GPIOConfig describes the parallel interface wired to host GPIO pins.
//
// Nil pins are looked up by the names in DefaultGPIOPins; this requires initialized host
// drivers (see periph.io/x/host/v3).
type GPIOConfig struct {
	// Data lines D0 to D7.
	Data [8]gpio.PinIO

	// DI selects data (high) or instruction (low) transfers.
	DI gpio.PinOut

	// RW selects read (high) or write (low) transfers.
	RW gpio.PinOut

	// EN is the enable strobe.
	EN gpio.PinOut

	// Reset pin (optional).
	Reset gpio.PinOut

	// CS are the chip select lines.
	CS []gpio.PinOut

	// ChipSelect maps each controller to the levels of the CS lines, bit n of the mask
	// being the level of CS[n].
	ChipSelect []uint8
}

// GPIOPins are the GPIO pin names of the parallel interface.
type GPIOPins struct {
	Data  [8]string
	DI    string
	RW    string
	EN    string
	Reset string
	CS    []string
}

// DefaultGPIOPins is a Raspberry Pi wiring that leaves the I²C and SPI pins free.
var DefaultGPIOPins = GPIOPins{
	Data:  [8]string{"GPIO4", "GPIO5", "GPIO6", "GPIO12", "GPIO13", "GPIO16", "GPIO17", "GPIO18"},
	DI:    "GPIO19",
	RW:    "GPIO20",
	EN:    "GPIO21",
	Reset: "GPIO22",
	CS:    []string{"GPIO23", "GPIO24"},
}

type gpioConn struct {
	data       [8]gpio.PinIO
	di         gpio.PinOut
	rw         gpio.PinOut
	en         gpio.PinOut
	reset      gpio.PinOut
	cs         []gpio.PinOut
	chipSelect []uint8
	input      bool
}

func lookupPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil || p == gpio.INVALID {
		return nil, fmt.Errorf("%w: %q", ErrPin, name)
	}
	return p, nil
}

// OpenGPIO opens the parallel interface on host GPIO pins.
func OpenGPIO(config *GPIOConfig) (Conn, error) {
	if config == nil {
		config = new(GPIOConfig)
	}

	c := &gpioConn{
		data:       config.Data,
		di:         config.DI,
		rw:         config.RW,
		en:         config.EN,
		reset:      config.Reset,
		cs:         config.CS,
		chipSelect: config.ChipSelect,
	}

	var err error
	for i, p := range c.data {
		if p == nil {
			if c.data[i], err = lookupPin(DefaultGPIOPins.Data[i]); err != nil {
				return nil, err
			}
		}
	}
	for _, line := range []struct {
		pin  *gpio.PinOut
		name string
	}{
		{&c.di, DefaultGPIOPins.DI},
		{&c.rw, DefaultGPIOPins.RW},
		{&c.en, DefaultGPIOPins.EN},
	} {
		if *line.pin == nil {
			if *line.pin, err = lookupPin(line.name); err != nil {
				return nil, err
			}
		}
	}
	if c.reset == nil && DefaultGPIOPins.Reset != "" {
		if c.reset, err = lookupPin(DefaultGPIOPins.Reset); err != nil {
			return nil, err
		}
	}
	if c.cs == nil {
		for _, name := range DefaultGPIOPins.CS {
			p, err := lookupPin(name)
			if err != nil {
				return nil, err
			}
			c.cs = append(c.cs, p)
		}
	}
	if c.chipSelect == nil {
		c.chipSelect = DefaultChipSelect
	}
	if err = checkChipSelect(c.chipSelect, len(c.cs)); err != nil {
		return nil, err
	}

	for _, p := range []gpio.PinOut{c.en, c.di, c.rw} {
		if err = p.Out(gpio.Low); err != nil {
			return nil, err
		}
	}
	if c.reset != nil {
		if err = c.reset.Out(gpio.High); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *gpioConn) String() string {
	return fmt.Sprintf("GPIO D0=%s DI=%s RW=%s EN=%s", c.data[0], c.di, c.rw, c.en)
}

func (c *gpioConn) Close() error {
	return c.en.Out(gpio.Low)
}

func (c *gpioConn) Reset(level gpio.Level) error {
	if c.reset == nil {
		return nil
	}
	return c.reset.Out(level)
}

func (c *gpioConn) Select(chip int) error {
	if chip < 0 || chip >= len(c.chipSelect) {
		return fmt.Errorf("%w: chip %d", ErrAddress, chip)
	}
	mask := c.chipSelect[chip]
	for i, p := range c.cs {
		if err := p.Out(gpio.Level(mask&(1<<i) != 0)); err != nil {
			return err
		}
	}
	return nil
}

func (c *gpioConn) SetMode(di, rw gpio.Level) error {
	if err := c.di.Out(di); err != nil {
		return err
	}
	return c.rw.Out(rw)
}

func (c *gpioConn) Enable(level gpio.Level) error {
	return c.en.Out(level)
}

func (c *gpioConn) Write(data byte) error {
	for i, p := range c.data {
		if err := p.Out(gpio.Level(data&(1<<i) != 0)); err != nil {
			return err
		}
	}
	c.input = false
	return nil
}

func (c *gpioConn) Read() (data byte, err error) {
	if !c.input {
		for _, p := range c.data {
			if err = p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
				return
			}
		}
		c.input = true
	}
	for i, p := range c.data {
		if p.Read() == gpio.High {
			data |= 1 << i
		}
	}
	return
}

// MCP23x17 registers, in the default IOCON.BANK=0 layout.
const (
	mcpIODIRA = 0x00
	mcpIODIRB = 0x01
	mcpGPIOA  = 0x12
	mcpOLATA  = 0x14
	mcpOLATB  = 0x15
)

// Port B lines of the port expander; port A carries the data lines.
const (
	mcpDI    = 1 << 0
	mcpRW    = 1 << 1
	mcpEN    = 1 << 2
	mcpReset = 1 << 5
)

// mcpCS are the port B chip select lines.
var mcpCS = [...]byte{1 << 3, 1 << 4, 1 << 6, 1 << 7}

// registers accesses the registers of a port expander.
type registers interface {
	String() string
	Close() error
	writeReg(reg, value byte) error
	readReg(reg byte) (byte, error)
}

// expanderConn drives the interface lines through an MCP23x17 port expander.
type expanderConn struct {
	registers
	chipSelect []uint8
	latch      byte // port B output latch
	input      bool
}

func newExpanderConn(regs registers, chipSelect []uint8) (*expanderConn, error) {
	if chipSelect == nil {
		chipSelect = DefaultChipSelect
	}
	if err := checkChipSelect(chipSelect, len(mcpCS)); err != nil {
		return nil, err
	}

	c := &expanderConn{
		registers:  regs,
		chipSelect: chipSelect,
		latch:      mcpReset,
	}
	for _, w := range [][2]byte{
		{mcpOLATB, c.latch},
		{mcpIODIRB, 0x00},
		{mcpIODIRA, 0x00},
	} {
		if err := regs.writeReg(w[0], w[1]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *expanderConn) update(latch byte) error {
	if latch == c.latch {
		return nil
	}
	if err := c.writeReg(mcpOLATB, latch); err != nil {
		return err
	}
	c.latch = latch
	return nil
}

func (c *expanderConn) set(bits byte, level gpio.Level) error {
	if level {
		return c.update(c.latch | bits)
	}
	return c.update(c.latch &^ bits)
}

func (c *expanderConn) Reset(level gpio.Level) error {
	return c.set(mcpReset, level)
}

func (c *expanderConn) Select(chip int) error {
	if chip < 0 || chip >= len(c.chipSelect) {
		return fmt.Errorf("%w: chip %d", ErrAddress, chip)
	}
	latch := c.latch
	for i, bit := range mcpCS {
		if c.chipSelect[chip]&(1<<i) != 0 {
			latch |= bit
		} else {
			latch &^= bit
		}
	}
	return c.update(latch)
}

func (c *expanderConn) SetMode(di, rw gpio.Level) error {
	latch := c.latch &^ (mcpDI | mcpRW)
	if di {
		latch |= mcpDI
	}
	if rw {
		latch |= mcpRW
	}
	return c.update(latch)
}

func (c *expanderConn) Enable(level gpio.Level) error {
	return c.set(mcpEN, level)
}

func (c *expanderConn) Write(data byte) error {
	if c.input {
		if err := c.writeReg(mcpIODIRA, 0x00); err != nil {
			return err
		}
		c.input = false
	}
	return c.writeReg(mcpOLATA, data)
}

func (c *expanderConn) Read() (byte, error) {
	if !c.input {
		if err := c.writeReg(mcpIODIRA, 0xff); err != nil {
			return 0, err
		}
		c.input = true
	}
	return c.readReg(mcpGPIOA)
}

// I2CConfig describes an MCP23017 port expander on the I²C bus.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// ChipSelect maps each controller to the levels of the CS lines.
	ChipSelect []uint8
}

var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x20,
}

type i2cRegisters struct {
	*conn.I2C
}

func (r i2cRegisters) writeReg(reg, value byte) error {
	return r.Tx([]byte{reg, value}, nil)
}

func (r i2cRegisters) readReg(reg byte) (byte, error) {
	var value [1]byte
	err := r.Tx([]byte{reg}, value[:])
	return value[0], err
}

// OpenI2C opens the interface lines through an MCP23017 port expander.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	c, err := conn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, err
	}

	ec, err := newExpanderConn(i2cRegisters{c}, config.ChipSelect)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return ec, nil
}

// SPIConfig describes an MCP23S17 port expander on the SPI bus.
type SPIConfig struct {
	Bus     int
	Device  int
	Mode    conn.SPIMode
	SpeedHz uint32

	// Addr is the hardware address (A2..A0) of the expander.
	Addr uint8

	// ChipSelect maps each controller to the levels of the CS lines.
	ChipSelect []uint8
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:     0,
	Device:  0,
	Mode:    conn.SPIMode0,
	SpeedHz: 8_000_000,
}

// ValidSPISpeeds are the SPI bus speeds supported by the MCP23S17.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	10_000_000,
}

type spiRegisters struct {
	*conn.SPI
	opcode byte
}

func (r spiRegisters) writeReg(reg, value byte) error {
	return r.Tx([]byte{r.opcode, reg, value}, nil)
}

func (r spiRegisters) readReg(reg byte) (byte, error) {
	var rx [3]byte
	if err := r.Tx([]byte{r.opcode | 0x01, reg, 0x00}, rx[:]); err != nil {
		return 0, err
	}
	return rx[2], nil
}

// OpenSPI opens the interface lines through an MCP23S17 port expander.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if config.Addr > 7 {
		return nil, fmt.Errorf("glcd: invalid MCP23S17 address %d", config.Addr)
	}

	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("glcd: invalid SPI speed %dHz", config.SpeedHz)
	}

	c, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = c.SetMode(config.Mode); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = c.Close()
		return nil, err
	}

	ec, err := newExpanderConn(spiRegisters{SPI: c, opcode: 0x40 | config.Addr<<1}, config.ChipSelect)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return ec, nil
}
