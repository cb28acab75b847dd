package draw

import (
	"github.com/BeatGlow/glcd/pixel"
)

// Canvas is a surface shapes can be drawn on.
type Canvas interface {
	// SetDot sets the pixel at (x, y) to color c.
	SetDot(x, y int, c pixel.Mono) error

	// FillRect fills the rectangle spanning (x, y) to (x+w, y+h) inclusive.
	FillRect(x, y, w, h int, c pixel.Mono) error
}

// Line draws a line between (x1,y1) and (x2,y2).
func Line(dst Canvas, x1, y1, x2, y2 int, c pixel.Mono) error {
	steep := absDiff(y1, y2) > absDiff(x1, x2)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	var (
		deltaX = x2 - x1
		deltaY = absDiff(y2, y1)
		e      = deltaX / 2
		y      = y1
		ystep  = -1
	)
	if y1 < y2 {
		ystep = 1
	}

	for x := x1; x <= x2; x++ {
		var err error
		if steep {
			err = dst.SetDot(y, x, c)
		} else {
			err = dst.SetDot(x, y, c)
		}
		if err != nil {
			return err
		}
		e -= deltaY
		if e < 0 {
			y += ystep
			e += deltaX
		}
	}
	return nil
}

// HorizontalLine draws a line between (x,y) and (x+length,y).
func HorizontalLine(dst Canvas, x, y, length int, c pixel.Mono) error {
	return dst.FillRect(x, y, length, 0, c)
}

// VerticalLine draws a line between (x,y) and (x,y+length).
func VerticalLine(dst Canvas, x, y, length int, c pixel.Mono) error {
	return dst.FillRect(x, y, 0, length, c)
}

// Rectangle draws the outline of the rectangle spanning (x,y) to (x+w,y+h).
func Rectangle(dst Canvas, x, y, w, h int, c pixel.Mono) (err error) {
	if err = HorizontalLine(dst, x, y, w, c); err != nil { // top
		return
	}
	if err = HorizontalLine(dst, x, y+h, w, c); err != nil { // bottom
		return
	}
	if err = VerticalLine(dst, x, y, h, c); err != nil { // left
		return
	}
	return VerticalLine(dst, x+w, y, h, c) // right
}

// RoundedRectangle draws a rectangle with radius pixels rounded corners.
func RoundedRectangle(dst Canvas, x, y, w, h, radius int, c pixel.Mono) (err error) {
	var (
		r  = radius
		t  = 3 - 2*r
		x1 = 0
		y1 = r
	)
	for x1 <= y1 {
		points := [8][2]int{
			{x + r - x1, y + r - y1},
			{x + r - y1, y + r - x1},
			{x + w - r + x1, y + r - y1},
			{x + w - r + y1, y + r - x1},
			{x + w - r + x1, y + h - r + y1},
			{x + w - r + y1, y + h - r + x1},
			{x + r - x1, y + h - r + y1},
			{x + r - y1, y + h - r + x1},
		}
		for _, p := range points {
			if err = dst.SetDot(p[0], p[1], c); err != nil {
				return
			}
		}

		if t < 0 {
			t += 4*x1 + 6
		} else {
			t += 4*(x1-y1) + 10
			y1--
		}
		x1++
	}

	if err = HorizontalLine(dst, x+r, y, w-2*r, c); err != nil { // top
		return
	}
	if err = HorizontalLine(dst, x+r, y+h, w-2*r, c); err != nil { // bottom
		return
	}
	if err = VerticalLine(dst, x, y+r, h-2*r, c); err != nil { // left
		return
	}
	return VerticalLine(dst, x+w, y+r, h-2*r, c) // right
}

// Circle draws a circle centered at (x,y).
func Circle(dst Canvas, x, y, radius int, c pixel.Mono) error {
	return RoundedRectangle(dst, x-radius, y-radius, 2*radius, 2*radius, radius, c)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
