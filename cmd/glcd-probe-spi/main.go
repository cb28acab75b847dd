package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/BeatGlow/glcd/conn"
)

// MCP23S17 IODIRA register, all ones after power on.
const iodirA = 0x00

func main() {
	busFlag := flag.Int("bus", 0, "SPI bus")
	deviceFlag := flag.Int("device", 0, "SPI device")
	addrFlag := flag.Uint("addr", 0, "MCP23S17 hardware address")
	flag.Parse()

	c, err := conn.OpenSPI(*busFlag, *deviceFlag)
	if err != nil {
		log.Fatalln("open failed: ", err)
	}
	fmt.Println("connected using", c)

	var rx [3]byte
	if err = c.Tx([]byte{0x41 | byte(*addrFlag&0x07)<<1, iodirA, 0x00}, rx[:]); err != nil {
		log.Fatalln("transfer failed: ", err)
	}
	fmt.Printf("IODIRA=%#02x\n", rx[2])
	if rx[2] != 0xff {
		fmt.Println("unexpected IODIRA value, is the expander connected and freshly reset?")
	}

	if err = c.Close(); err != nil {
		log.Fatalln("close failed: ", err)
	}
}
