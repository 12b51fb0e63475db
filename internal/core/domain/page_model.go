package domain

// Page is a window over an ordered listing. Numbers start from 1.
type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := 10
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Offset returns the index of the first item of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Next returns the page following this one.
func (p Page) Next() Page {
	return Page{Number: p.Number + 1, Size: p.Size}
}
