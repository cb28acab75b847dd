package glcd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type testPins struct {
	data   [8]*gpiotest.Pin
	di     *gpiotest.Pin
	rw     *gpiotest.Pin
	en     *gpiotest.Pin
	reset  *gpiotest.Pin
	cs     [2]*gpiotest.Pin
	config *GPIOConfig
}

func newTestPins() *testPins {
	p := &testPins{
		di:     &gpiotest.Pin{N: "DI"},
		rw:     &gpiotest.Pin{N: "RW"},
		en:     &gpiotest.Pin{N: "EN", L: gpio.High},
		reset:  &gpiotest.Pin{N: "RST"},
		config: new(GPIOConfig),
	}
	for i := range p.data {
		p.data[i] = &gpiotest.Pin{N: fmt.Sprintf("D%d", i)}
		p.config.Data[i] = p.data[i]
	}
	for i := range p.cs {
		p.cs[i] = &gpiotest.Pin{N: fmt.Sprintf("CS%d", i+1)}
		p.config.CS = append(p.config.CS, p.cs[i])
	}
	p.config.DI = p.di
	p.config.RW = p.rw
	p.config.EN = p.en
	p.config.Reset = p.reset
	return p
}

func (p *testPins) dataLevels() (data byte) {
	for i, pin := range p.data {
		if pin.Read() == gpio.High {
			data |= 1 << i
		}
	}
	return
}

func TestGPIOConn(t *testing.T) {
	pins := newTestPins()
	c, err := OpenGPIO(pins.config)
	if err != nil {
		t.Fatal(err)
	}
	if pins.en.Read() != gpio.Low {
		t.Error("expected enable to be low after open")
	}
	if pins.reset.Read() != gpio.High {
		t.Error("expected reset to be released after open")
	}

	if err = c.Write(0xa5); err != nil {
		t.Fatal(err)
	}
	if v := pins.dataLevels(); v != 0xa5 {
		t.Errorf("expected data lines 0xa5, got %#02x", v)
	}

	tests := []struct {
		Chip     int
		CS1, CS2 gpio.Level
	}{
		{0, gpio.High, gpio.Low},
		{1, gpio.Low, gpio.High},
	}
	for _, test := range tests {
		if err = c.Select(test.Chip); err != nil {
			t.Fatal(err)
		}
		if pins.cs[0].Read() != test.CS1 || pins.cs[1].Read() != test.CS2 {
			t.Errorf("expected chip %d to select CS1=%s CS2=%s", test.Chip, test.CS1, test.CS2)
		}
	}
	if err = c.Select(2); !errors.Is(err, ErrAddress) {
		t.Errorf("expected ErrAddress, got %v", err)
	}

	if err = c.SetMode(gpio.High, gpio.Low); err != nil {
		t.Fatal(err)
	}
	if pins.di.Read() != gpio.High || pins.rw.Read() != gpio.Low {
		t.Error("expected DI high and RW low")
	}

	for i, pin := range pins.data {
		pin.L = gpio.Level(0x3c&(1<<i) != 0)
	}
	v, err := c.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x3c {
		t.Errorf("expected to read 0x3c, got %#02x", v)
	}
}

func TestGPIOConnChipSelect(t *testing.T) {
	pins := newTestPins()
	pins.config.ChipSelect = []uint8{0x02, 0x04}
	if _, err := OpenGPIO(pins.config); !errors.Is(err, ErrChipSelect) {
		t.Errorf("expected ErrChipSelect, got %v", err)
	}
}

func TestGPIOConnKS0108(t *testing.T) {
	pins := newTestPins()
	c, err := OpenGPIO(pins.config)
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := KS0108(c, &BusConfig{Chips: 2, Timeout: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	if err = ctrl.SelectColumn(1, 5); err != nil {
		t.Fatal(err)
	}
	if v := pins.dataLevels(); v != ks0108SetAddress|5 {
		t.Errorf("expected set address command %#02x, got %#02x", ks0108SetAddress|5, v)
	}
	if pins.di.Read() != gpio.Low || pins.rw.Read() != gpio.Low || pins.en.Read() != gpio.Low {
		t.Error("expected instruction write with enable low")
	}
	if pins.cs[0].Read() != gpio.Low || pins.cs[1].Read() != gpio.High {
		t.Error("expected second controller selected")
	}

	// D7 reads back high: the controller stays busy.
	pins.data[7].L = gpio.High
	if err = ctrl.SelectPage(0, 1); !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if pins.en.Read() != gpio.Low {
		t.Error("expected enable to be low after timeout")
	}
}

// testRegisters is a port expander register file.
type testRegisters struct {
	regs   [0x16]byte
	writes int
}

func (r *testRegisters) String() string { return "test registers" }

func (r *testRegisters) Close() error { return nil }

func (r *testRegisters) writeReg(reg, value byte) error {
	r.regs[reg] = value
	r.writes++
	return nil
}

func (r *testRegisters) readReg(reg byte) (byte, error) {
	return r.regs[reg], nil
}

func TestExpanderConn(t *testing.T) {
	regs := new(testRegisters)
	regs.regs[mcpIODIRA] = 0xff
	regs.regs[mcpIODIRB] = 0xff
	c, err := newExpanderConn(regs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if regs.regs[mcpIODIRA] != 0x00 || regs.regs[mcpIODIRB] != 0x00 {
		t.Error("expected both ports to be outputs")
	}
	if v := regs.regs[mcpOLATB]; v != mcpReset {
		t.Errorf("expected reset released, got OLATB %#02x", v)
	}

	tests := []struct {
		Name  string
		Do    func() error
		Latch byte
	}{
		{"select 1", func() error { return c.Select(1) }, 0x30},
		{"mode", func() error { return c.SetMode(gpio.High, gpio.High) }, 0x33},
		{"enable", func() error { return c.Enable(gpio.High) }, 0x37},
		{"disable", func() error { return c.Enable(gpio.Low) }, 0x33},
		{"select 0", func() error { return c.Select(0) }, 0x2b},
		{"instruction", func() error { return c.SetMode(gpio.Low, gpio.Low) }, 0x28},
		{"reset", func() error { return c.Reset(gpio.Low) }, 0x08},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if err := test.Do(); err != nil {
				it.Fatal(err)
			}
			if v := regs.regs[mcpOLATB]; v != test.Latch {
				it.Errorf("expected OLATB %#02x, got %#02x", test.Latch, v)
			}
		})
	}

	writes := regs.writes
	if err = c.Reset(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if regs.writes != writes {
		t.Error("expected unchanged lines not to be written")
	}

	if err = c.Write(0x5a); err != nil {
		t.Fatal(err)
	}
	if v := regs.regs[mcpOLATA]; v != 0x5a {
		t.Errorf("expected OLATA 0x5a, got %#02x", v)
	}
	regs.regs[mcpGPIOA] = 0x99
	v, err := c.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x99 {
		t.Errorf("expected to read 0x99, got %#02x", v)
	}
	if regs.regs[mcpIODIRA] != 0xff {
		t.Error("expected port A to be an input while reading")
	}
	if err = c.Write(0x00); err != nil {
		t.Fatal(err)
	}
	if regs.regs[mcpIODIRA] != 0x00 {
		t.Error("expected port A to be an output while writing")
	}
}

func TestExpanderConnChipSelect(t *testing.T) {
	if _, err := newExpanderConn(new(testRegisters), []uint8{0x10}); !errors.Is(err, ErrChipSelect) {
		t.Errorf("expected ErrChipSelect, got %v", err)
	}
	if _, err := newExpanderConn(new(testRegisters), []uint8{}); !errors.Is(err, ErrChipSelect) {
		t.Errorf("expected ErrChipSelect, got %v", err)
	}
}
