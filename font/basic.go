package font

import (
	"sync"

	"golang.org/x/image/font/basicfont"
)

var (
	basicOnce sync.Once
	basic     *Font
)

// Basic returns a fixed width font covering printable ASCII, rendered from
// [basicfont.Face7x13].
func Basic() *Font {
	basicOnce.Do(func() {
		data := MustEncode(basicfont.Face7x13, &Options{
			First: 0x20,
			Count: 0x5f,
			Fixed: true,
		})
		var err error
		if basic, err = Load(data); err != nil {
			panic(err)
		}
	})
	return basic
}
