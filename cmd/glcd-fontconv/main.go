package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/glcd/font"
)

func main() {
	ttfFlag := flag.String("ttf", "", `TrueType font file, "goregular" or "gomono" (default: built-in 7x13 font)`)
	sizeFlag := flag.Float64("size", 8, "TrueType font size in points")
	firstFlag := flag.Uint("first", uint(font.DefaultOptions.First), "First character")
	countFlag := flag.Int("count", font.DefaultOptions.Count, "Number of characters")
	fixedFlag := flag.Bool("fixed", false, "Encode a fixed width font")
	widthFlag := flag.Int("width", 0, "Fixed glyph width (default: widest glyph)")
	outputFlag := flag.String("o", "", "Output file (default: standard output)")
	goFlag := flag.String("go", "", "Write Go source declaring a variable with this name")
	pkgFlag := flag.String("pkg", "main", "Package name of the Go source")
	flag.Parse()

	if *firstFlag > 0xff {
		fatal(fmt.Errorf("invalid first character %#x", *firstFlag))
	}

	face, err := loadFace(*ttfFlag, *sizeFlag)
	if err != nil {
		fatal(err)
	}

	data, err := font.Encode(face, &font.Options{
		First:      byte(*firstFlag),
		Count:      *countFlag,
		Fixed:      *fixedFlag,
		FixedWidth: *widthFlag,
	})
	if err != nil {
		fatal(err)
	}

	f, err := font.Load(data)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "encoded %s, %d bytes\n", f, len(data))

	if *goFlag != "" {
		if data, err = goSource(*pkgFlag, *goFlag, f, data); err != nil {
			fatal(err)
		}
	}

	if *outputFlag == "" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(*outputFlag, data, 0o644)
	}
	if err != nil {
		fatal(err)
	}
}

func loadFace(name string, size float64) (xfont.Face, error) {
	switch name {
	case "":
		return basicfont.Face7x13, nil
	case "goregular":
		return font.ParseTrueType(goregular.TTF, size)
	case "gomono":
		return font.ParseTrueType(gomono.TTF, size)
	}
	ttf, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return font.ParseTrueType(ttf, size)
}

func goSource(pkg, name string, f *font.Font, data []byte) ([]byte, error) {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "// Code generated by glcd-fontconv. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(b, "// %s is a %s.\n", name, f)
	fmt.Fprintf(b, "var %s = []byte{", name)
	for i, v := range data {
		if i%12 == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "%#02x, ", v)
	}
	b.WriteString("\n}\n")
	return format.Source(b.Bytes())
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
