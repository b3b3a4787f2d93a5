package catalog

// Slider tracks the image shown on the product page.
type Slider struct {
	count   int
	current int
}

// NewSlider starts on the first of count images.
func NewSlider(count int) *Slider {
	return &Slider{count: count}
}

// Current returns the index of the shown image.
func (s *Slider) Current() int { return s.current }

// Count returns the number of images.
func (s *Slider) Count() int { return s.count }

// Next moves forward, wrapping to the first image.
func (s *Slider) Next() int {
	if s.count > 0 {
		s.current = (s.current + 1) % s.count
	}
	return s.current
}

// Prev moves back, wrapping to the last image.
func (s *Slider) Prev() int {
	if s.count > 0 {
		s.current = (s.current - 1 + s.count) % s.count
	}
	return s.current
}

// Select jumps to image i. Out of range indexes are ignored.
func (s *Slider) Select(i int) bool {
	if i < 0 || i >= s.count {
		return false
	}
	s.current = i
	return true
}

// HoverIndex returns which of n images a card shows while the pointer is x
// units from the left edge of a card width units wide. The card is split
// into n equal bands. It returns -1 when x lies outside the card; once the
// pointer leaves, the card goes back to image 0.
func HoverIndex(x, width float64, n int) int {
	if n <= 0 || width <= 0 || x < 0 || x >= width {
		return -1
	}
	part := width / float64(n)
	i := int(x / part)
	if i >= n {
		i = n - 1
	}
	return i
}
