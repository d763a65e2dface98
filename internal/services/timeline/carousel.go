package timeline

// Carousel is the index arithmetic of the product image gallery.
type Carousel struct {
	Count int
	Index int
}

// NewCarousel normalizes index into [0, count).
func NewCarousel(count, index int) Carousel {
	c := Carousel{Count: count}
	if count > 0 {
		c.Index = mod(index, count)
	}
	return c
}

func (c Carousel) Next() int {
	if c.Count == 0 {
		return 0
	}
	return (c.Index + 1) % c.Count
}

func (c Carousel) Prev() int {
	if c.Count == 0 {
		return 0
	}
	return (c.Index - 1 + c.Count) % c.Count
}

// HasControls reports whether prev/next buttons are shown.
func (c Carousel) HasControls() bool { return c.Count > 1 }

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
