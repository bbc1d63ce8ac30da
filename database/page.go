package database

// Page selects a 1-based window of a listing.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	if p.Size < 1 {
		return -1
	}
	return p.Size
}
