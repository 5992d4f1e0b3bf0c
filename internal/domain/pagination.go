package domain

// DefaultPageSize matches the API's fixed default page size.
const DefaultPageSize = 15

// Page selects one page of a newest-first listing. Page numbers are 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageCount returns the last page number for a total row count; an empty
// listing still has one (empty) page.
func PageCount(total, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// OrderPage is one page of orders plus the paging bookkeeping the API
// envelope needs.
type OrderPage struct {
	Orders []Order
	Total  int
	Number int
	Size   int
}

// LastPage is the highest valid page number for this listing.
func (p OrderPage) LastPage() int { return PageCount(p.Total, p.Size) }

// CustomerPage is one page of customers.
type CustomerPage struct {
	Customers []Customer
	Total     int
	Number    int
	Size      int
}

func (p CustomerPage) LastPage() int { return PageCount(p.Total, p.Size) }

// ProductPage is one page of products.
type ProductPage struct {
	Products []Product
	Total    int
	Number   int
	Size     int
}

func (p ProductPage) LastPage() int { return PageCount(p.Total, p.Size) }
