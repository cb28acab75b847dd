package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an I²C bus.
type I2C struct {
	bus  i2c.BusCloser
	conn conn.Conn
	addr uint8
}

// OpenI2C opens the device at addr on the numbered I²C bus, or on the first available bus
// if device is negative.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}

	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: uint16(addr)},
		addr: addr,
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.addr)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}

// Tx writes w and then reads into r in a single transaction, with a repeated start
// between the two.
func (c *I2C) Tx(w, r []byte) error {
	if err := c.conn.Tx(w, r); err != nil {
		return fmt.Errorf("conn: I²C transaction with %#02x: %w", c.addr, err)
	}
	return nil
}

func (c *I2C) Read(p []byte) (int, error) {
	return len(p), c.Tx(nil, p)
}

func (c *I2C) Write(p []byte) (int, error) {
	return len(p), c.Tx(p, nil)
}
