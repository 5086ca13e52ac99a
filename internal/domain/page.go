package domain

const (
	// DefaultPageSize is used when a listing does not specify a range
	DefaultPageSize = 20
	// MaxPageSize caps a single listing
	MaxPageSize = 100
)

// Page is an inclusive offset range of rows, From..To.
type Page struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FirstPage returns rows 0..DefaultPageSize-1.
func FirstPage() Page {
	return Page{From: 0, To: DefaultPageSize - 1}
}

// NormalizePage clamps a requested range to a valid, bounded one.
func NormalizePage(p Page) Page {
	if p.From < 0 {
		p.From = 0
	}
	if p.To < p.From {
		p.To = p.From + DefaultPageSize - 1
	}
	if p.To-p.From+1 > MaxPageSize {
		p.To = p.From + MaxPageSize - 1
	}
	return p
}

// Limit is the number of rows in the range.
func (p Page) Limit() int {
	return p.To - p.From + 1
}

// Offset is the number of rows skipped before the range.
func (p Page) Offset() int {
	return p.From
}
