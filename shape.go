package glcd

import "github.com/BeatGlow/glcd/draw"

// DrawLine draws a line from (x1, y1) to (x2, y2).
func (d *Driver) DrawLine(x1, y1, x2, y2 int, c Color) error {
	return draw.Line(d, x1, y1, x2, y2, c)
}

// DrawVertLine draws a vertical line of length+1 pixels down from (x, y).
func (d *Driver) DrawVertLine(x, y, length int, c Color) error {
	return draw.VerticalLine(d, x, y, length, c)
}

// DrawHoriLine draws a horizontal line of length+1 pixels right from (x, y).
func (d *Driver) DrawHoriLine(x, y, length int, c Color) error {
	return draw.HorizontalLine(d, x, y, length, c)
}

// DrawRect draws the outline of the rectangle spanning x..x+w and y..y+h.
func (d *Driver) DrawRect(x, y, w, h int, c Color) error {
	return draw.Rectangle(d, x, y, w, h, c)
}

// DrawRoundRect draws the outline of a rectangle with rounded corners.
func (d *Driver) DrawRoundRect(x, y, w, h, radius int, c Color) error {
	return draw.RoundedRectangle(d, x, y, w, h, radius, c)
}

// DrawCircle draws a circle around (x, y).
func (d *Driver) DrawCircle(x, y, radius int, c Color) error {
	return draw.Circle(d, x, y, radius, c)
}

var _ draw.Canvas = (*Driver)(nil)
