package glcd

import (
	"fmt"

	"github.com/BeatGlow/glcd/pixel"
)

// MemoryBus is a [Bus] backed by an in-memory image, modelling the address pointers of
// each controller. It is useful for previews and tests; the embedded image holds the
// display contents.
type MemoryBus struct {
	*pixel.MonoVerticalLSBImage

	chipWidth int
	page      []int
	column    []int
	stats     Stats
}

// Stats counts the bus transfers.
type Stats struct {
	Reads         int
	Writes        int
	PageSelects   int
	ColumnSelects int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d reads, %d writes, %d page selects, %d column selects",
		s.Reads, s.Writes, s.PageSelects, s.ColumnSelects)
}

// NewMemoryBus returns a bus for a width x height display made of controllers chipWidth
// columns wide.
func NewMemoryBus(width, height, chipWidth int) *MemoryBus {
	chips := 1
	if chipWidth > 0 {
		chips = (width + chipWidth - 1) / chipWidth
	} else {
		chipWidth = width
	}
	return &MemoryBus{
		MonoVerticalLSBImage: pixel.NewMonoVerticalLSBImage(width, height),
		chipWidth:            chipWidth,
		page:                 make([]int, chips),
		column:               make([]int, chips),
	}
}

func (m *MemoryBus) String() string {
	return fmt.Sprintf("memory %dx%d", m.Rect.Dx(), m.Rect.Dy())
}

// Stats returns the transfer counters.
func (m *MemoryBus) Stats() Stats {
	return m.stats
}

// ResetStats clears the transfer counters.
func (m *MemoryBus) ResetStats() {
	m.stats = Stats{}
}

func (m *MemoryBus) SelectPage(chip, page int) error {
	if chip < 0 || chip >= len(m.page) || page < 0 || page >= m.Pages() {
		return fmt.Errorf("%w: chip %d page %d", ErrAddress, chip, page)
	}
	m.stats.PageSelects++
	m.page[chip] = page
	return nil
}

func (m *MemoryBus) SelectColumn(chip, column int) error {
	if chip < 0 || chip >= len(m.column) || column < 0 || column >= m.chipWidth {
		return fmt.Errorf("%w: chip %d column %d", ErrAddress, chip, column)
	}
	m.stats.ColumnSelects++
	m.column[chip] = column
	return nil
}

// check verifies the driver's idea of the address matches the controller pointers.
func (m *MemoryBus) check(chip, column, page int) (int, error) {
	if chip < 0 || chip >= len(m.page) {
		return 0, fmt.Errorf("%w: chip %d", ErrAddress, chip)
	}
	if m.column[chip] != column || m.page[chip] != page {
		return 0, fmt.Errorf("%w: chip %d at column %d page %d, expected column %d page %d",
			ErrAddress, chip, m.column[chip], m.page[chip], column, page)
	}
	return chip*m.chipWidth + column, nil
}

func (m *MemoryBus) ReadByte(chip, column, page int) (byte, error) {
	x, err := m.check(chip, column, page)
	if err != nil {
		return 0, err
	}
	m.stats.Reads++
	return m.PageAt(x, page), nil
}

func (m *MemoryBus) WriteByte(chip, column, page int, data byte) error {
	x, err := m.check(chip, column, page)
	if err != nil {
		return err
	}
	m.stats.Writes++
	m.SetPageAt(x, page, data)
	m.column[chip] = (column + 1) % m.chipWidth
	return nil
}
