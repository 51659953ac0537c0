package trips

// DefaultPageSize is the number of raw rows per page.
const DefaultPageSize = 5

// PagerState is the state of a Pager.
type PagerState int

const (
	Ready PagerState = iota
	Exhausted
)

func (s PagerState) String() string {
	if s == Exhausted {
		return "exhausted"
	}
	return "ready"
}

// Page is one batch of raw rows. Number starts at 1; Offset is the index of
// the first row in the paged table.
type Page struct {
	Number int
	Offset int
	Rows   []Trip
}

// Pager walks a table in fixed-size pages. It never re-filters; the cursor
// only moves forward.
type Pager struct {
	table  *Table
	size   int
	cursor int
	pages  int
	state  PagerState
}

// NewPager creates a pager over t. A size below 1 selects DefaultPageSize.
func NewPager(t *Table, size int) *Pager {
	if size < 1 {
		size = DefaultPageSize
	}
	return &Pager{table: t, size: size}
}

// Next returns the next page. It returns false once the table is exhausted
// and on every call after that.
func (p *Pager) Next() (Page, bool) {
	if p.state == Exhausted {
		return Page{}, false
	}
	n := p.table.Len()
	if p.cursor >= n {
		p.state = Exhausted
		return Page{}, false
	}
	end := min(p.cursor+p.size, n)
	rows := make([]Trip, end-p.cursor)
	copy(rows, p.table.Trips[p.cursor:end])

	p.pages++
	page := Page{Number: p.pages, Offset: p.cursor, Rows: rows}
	p.cursor += p.size
	return page, true
}

// State returns the current state.
func (p *Pager) State() PagerState { return p.state }

// Cursor returns the offset of the next page.
func (p *Pager) Cursor() int { return p.cursor }

// Size returns the page size.
func (p *Pager) Size() int { return p.size }

// Remaining returns the number of rows not yet returned.
func (p *Pager) Remaining() int {
	return max(p.table.Len()-p.cursor, 0)
}
