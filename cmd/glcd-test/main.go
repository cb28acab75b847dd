package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/glcd"
	"github.com/BeatGlow/glcd/font"
	"github.com/BeatGlow/glcd/framebuffer"
)

func main() {
	widthFlag := flag.Int("width", glcd.DefaultConfig.Width, "Display width")
	heightFlag := flag.Int("height", glcd.DefaultConfig.Height, "Display height")
	chipWidthFlag := flag.Int("chip-width", glcd.DefaultConfig.ChipWidth, "Columns per controller")
	invertFlag := flag.Bool("invert", false, "Start with inverted pixels")
	i2cDeviceFlag := flag.Int("i2c-dev", glcd.DefaultI2CConfig.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(glcd.DefaultI2CConfig.Addr), "I²C port expander address")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	spiAddrFlag := flag.Uint("spi-addr", 0, "SPI port expander hardware address")
	resetPinFlag := flag.String("reset", glcd.DefaultGPIOPins.Reset, "Reset GPIO pin")
	timeoutFlag := flag.Duration("timeout", glcd.DefaultBusConfig.Timeout, "Controller busy timeout")
	ttfFlag := flag.String("ttf", "", "TrueType font file (default: built-in 7x13 font)")
	sizeFlag := flag.Float64("size", 10, "TrueType font size in points")
	pngFlag := flag.String("png", "", "PNG output file for the memory bus")
	fbFlag := flag.String("fb", "", "Framebuffer device mirroring the memory bus, such as /dev/fb0")
	scaleFlag := flag.Int("scale", 4, "Framebuffer mirror scale")
	framesFlag := flag.Int("frames", 0, "Number of animation frames (default: run until interrupted)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <gpio|i2c|spi|memory>\n", os.Args[0])
		os.Exit(1)
	}

	if *chipWidthFlag <= 0 {
		fatal(fmt.Errorf("invalid controller width %d", *chipWidthFlag))
	}

	var (
		config = &glcd.Config{
			Width:     *widthFlag,
			Height:    *heightFlag,
			ChipWidth: *chipWidthFlag,
			Inverted:  *invertFlag,
		}
		conn glcd.Conn
		mem  *glcd.MemoryBus
		bus  glcd.Bus
		err  error
	)
	switch busType := strings.ToLower(flag.Arg(0)); busType {
	case "memory":
		mem = glcd.NewMemoryBus(config.Width, config.Height, config.ChipWidth)
		bus = mem
	case "gpio", "i2c", "spi":
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		switch busType {
		case "gpio":
			gpioConfig := new(glcd.GPIOConfig)
			if *resetPinFlag != glcd.DefaultGPIOPins.Reset {
				if gpioConfig.Reset = gpioreg.ByName(*resetPinFlag); gpioConfig.Reset == nil {
					fatal(fmt.Errorf("invalid reset pin %q", *resetPinFlag))
				}
			}
			conn, err = glcd.OpenGPIO(gpioConfig)
		case "i2c":
			conn, err = glcd.OpenI2C(&glcd.I2CConfig{
				Device: *i2cDeviceFlag,
				Addr:   uint8(*i2cAddrFlag),
			})
		case "spi":
			conn, err = glcd.OpenSPI(&glcd.SPIConfig{
				Bus:     *spiBusFlag,
				Device:  *spiDeviceFlag,
				Addr:    uint8(*spiAddrFlag),
				SpeedHz: glcd.DefaultSPIConfig.SpeedHz,
			})
		}
		if err != nil {
			fatal(err)
		}
		fmt.Printf("using connection: %s\n", conn)
		bus, err = glcd.KS0108(conn, &glcd.BusConfig{
			Chips:       *widthFlag / *chipWidthFlag,
			Timeout:     *timeoutFlag,
			EnableDelay: glcd.DefaultBusConfig.EnableDelay,
		})
	default:
		err = fmt.Errorf("unsupported bus type %q", busType)
	}
	if err != nil {
		fatal(err)
	}

	d, err := glcd.New(bus, config)
	if err != nil {
		fatal(err)
	}
	defer d.Close()
	fmt.Printf("using driver: %s\n", d)

	f := font.Basic()
	if *ttfFlag != "" {
		if f, err = loadFont(*ttfFlag, *sizeFlag); err != nil {
			fatal(err)
		}
	}
	fmt.Printf("using font: %s\n", f)
	d.SelectFont(f, glcd.On)

	if err = demo(d); err != nil {
		fatal(err)
	}

	var fb framebuffer.Device
	if mem != nil {
		if *pngFlag != "" {
			if err = writePNG(*pngFlag, mem); err != nil {
				fatal(err)
			}
			fmt.Printf("wrote %s (%s)\n", *pngFlag, mem.Stats())
		}
		if *fbFlag == "" {
			return
		}
		if fb, err = framebuffer.Open(*fbFlag); err != nil {
			fatal(err)
		}
		defer fb.Close()
		fmt.Printf("mirroring to %s at %s\n", *fbFlag, fb.Bounds())
		framebuffer.Mirror(fb, mem, *scaleFlag)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for frame := 0; *framesFlag == 0 || frame < *framesFlag; frame++ {
		if err = animate(d, frame); err != nil {
			fatal(err)
		}
		if fb != nil {
			framebuffer.Mirror(fb, mem, *scaleFlag)
		}
		<-ticker.C
	}
}

func loadFont(name string, size float64) (*font.Font, error) {
	ttf, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	face, err := font.ParseTrueType(ttf, size)
	if err != nil {
		return nil, err
	}
	data, err := font.Encode(face, nil)
	if err != nil {
		return nil, err
	}
	return font.Load(data)
}

func demo(d *glcd.Driver) (err error) {
	r := d.Bounds()

	// Draw box around edge
	if err = d.DrawRect(0, 0, r.Dx()-1, r.Dy()-1, glcd.On); err != nil {
		return
	}
	if err = d.DrawRoundRect(4, 4, r.Dx()/2-8, r.Dy()/2-8, 5, glcd.On); err != nil {
		return
	}
	if err = d.DrawCircle(r.Dx()*3/4, r.Dy()/4, r.Dy()/4-4, glcd.On); err != nil {
		return
	}
	if err = d.DrawLine(4, r.Dy()-4, r.Dx()/2, r.Dy()/2, glcd.On); err != nil {
		return
	}
	if err = d.MoveTo(8, 8); err != nil {
		return
	}
	return d.Puts("GLCD\nKS0108")
}

func animate(d *glcd.Driver, frame int) (err error) {
	var (
		r = d.Bounds()
		x = r.Dx()/2 + 4
		y = r.Dy() - d.Font().Height() - 4
	)
	if err = d.FillRect(x, y, r.Dx()-x-3, d.Font().Height(), glcd.Off); err != nil {
		return
	}
	if err = d.MoveTo(x, y); err != nil {
		return
	}
	if err = d.PrintNumber(int64(frame)); err != nil {
		return
	}
	if frame%10 == 0 {
		return d.InvertRect(2, 2, r.Dx()-5, r.Dy()/2-2)
	}
	return
}

func writePNG(name string, mem *glcd.MemoryBus) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = png.Encode(f, mem); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
