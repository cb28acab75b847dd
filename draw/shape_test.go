package draw

import (
	"errors"
	"image"
	"testing"

	"github.com/BeatGlow/glcd/pixel"
)

type testRect struct {
	x, y, w, h int
}

type testCanvas struct {
	dots  []image.Point
	rects []testRect
	fail  error
}

func (c *testCanvas) SetDot(x, y int, _ pixel.Mono) error {
	if c.fail != nil {
		return c.fail
	}
	c.dots = append(c.dots, image.Pt(x, y))
	return nil
}

func (c *testCanvas) FillRect(x, y, w, h int, _ pixel.Mono) error {
	if c.fail != nil {
		return c.fail
	}
	c.rects = append(c.rects, testRect{x, y, w, h})
	return nil
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           []image.Point
	}{
		{"shallow", 0, 0, 4, 2, []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}}},
		{"reversed", 4, 2, 0, 0, []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}}},
		{"steep", 0, 0, 1, 3, []image.Point{{0, 0}, {0, 1}, {1, 2}, {1, 3}}},
		{"rising", 0, 2, 2, 0, []image.Point{{0, 2}, {1, 1}, {2, 0}}},
		{"point", 3, 3, 3, 3, []image.Point{{3, 3}}},
		{"horizontal", 1, 5, 3, 5, []image.Point{{1, 5}, {2, 5}, {3, 5}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			c := new(testCanvas)
			if err := Line(c, test.x1, test.y1, test.x2, test.y2, pixel.On); err != nil {
				it.Fatal(err)
			}
			if len(c.dots) != len(test.want) {
				it.Fatalf("expected %d dots, got %d: %v", len(test.want), len(c.dots), c.dots)
			}
			for i, p := range test.want {
				if c.dots[i] != p {
					it.Errorf("dot %d: expected %s, got %s", i, p, c.dots[i])
				}
			}
		})
	}
}

func TestLineError(t *testing.T) {
	fail := errors.New("test: bus failure")
	c := &testCanvas{fail: fail}
	if err := Line(c, 0, 0, 10, 10, pixel.On); !errors.Is(err, fail) {
		t.Fatalf("expected %v, got %v", fail, err)
	}
}

func TestRectangle(t *testing.T) {
	c := new(testCanvas)
	if err := Rectangle(c, 2, 3, 10, 5, pixel.On); err != nil {
		t.Fatal(err)
	}
	want := []testRect{
		{2, 3, 10, 0},
		{2, 8, 10, 0},
		{2, 3, 0, 5},
		{12, 3, 0, 5},
	}
	if len(c.rects) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(c.rects))
	}
	for i, r := range want {
		if c.rects[i] != r {
			t.Errorf("run %d: expected %+v, got %+v", i, r, c.rects[i])
		}
	}
}

func TestCircle(t *testing.T) {
	c := new(testCanvas)
	if err := Circle(c, 5, 5, 2, pixel.On); err != nil {
		t.Fatal(err)
	}

	want := map[image.Point]bool{
		{5, 3}: true, {3, 5}: true, {7, 5}: true, {5, 7}: true,
		{4, 3}: true, {3, 4}: true, {6, 3}: true, {7, 4}: true,
		{6, 7}: true, {7, 6}: true, {4, 7}: true, {3, 6}: true,
	}
	got := make(map[image.Point]bool)
	for _, p := range c.dots {
		got[p] = true
	}
	if len(c.dots) != 16 {
		t.Errorf("expected 16 dots (two steps of eight), got %d", len(c.dots))
	}
	for p := range want {
		if !got[p] {
			t.Errorf("expected dot at %s", p)
		}
	}
	for p := range got {
		if !want[p] {
			t.Errorf("unexpected dot at %s", p)
		}
	}

	edges := []testRect{
		{5, 3, 0, 0},
		{5, 7, 0, 0},
		{3, 5, 0, 0},
		{7, 5, 0, 0},
	}
	if len(c.rects) != len(edges) {
		t.Fatalf("expected %d edges, got %d", len(edges), len(c.rects))
	}
	for i, r := range edges {
		if c.rects[i] != r {
			t.Errorf("edge %d: expected %+v, got %+v", i, r, c.rects[i])
		}
	}
}

func TestRoundedRectangleEdges(t *testing.T) {
	c := new(testCanvas)
	if err := RoundedRectangle(c, 10, 20, 30, 16, 4, pixel.On); err != nil {
		t.Fatal(err)
	}
	edges := []testRect{
		{14, 20, 22, 0},
		{14, 36, 22, 0},
		{10, 24, 0, 8},
		{40, 24, 0, 8},
	}
	if len(c.rects) != len(edges) {
		t.Fatalf("expected %d edges, got %d", len(edges), len(c.rects))
	}
	for i, r := range edges {
		if c.rects[i] != r {
			t.Errorf("edge %d: expected %+v, got %+v", i, r, c.rects[i])
		}
	}
	for _, p := range c.dots {
		if p.X < 10 || p.X > 40 || p.Y < 20 || p.Y > 36 {
			t.Errorf("corner dot %s outside of rectangle", p)
		}
	}
}
