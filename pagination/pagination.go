// Package pagination splits an ordered result set into fixed-size pages
// addressed by a 1-based page number.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

type Paginator struct {
	Count   int
	PerPage int
}

// New panics on a non-positive perPage; callers pass validated config.
func New(count, perPage int) *Paginator {
	if perPage <= 0 {
		panic("pagination: perPage must be positive")
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages is never below 1: an empty set has one empty page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page resolves a raw "page" query value. Missing or non-integer values
// select the first page, integers outside 1..NumPages select the last,
// including those too large for an int.
func (p *Paginator) Page(raw string) Page {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return p.page(p.NumPages())
		}
		number = 1
	}
	if number < 1 || number > p.NumPages() {
		number = p.NumPages()
	}
	return p.page(number)
}

func (p *Paginator) page(number int) Page {
	numPages := p.NumPages()

	limit := p.PerPage
	if rest := p.Count - (number-1)*p.PerPage; rest < limit {
		limit = max(rest, 0)
	}

	return Page{
		Number:   number,
		NumPages: numPages,
		PerPage:  p.PerPage,
		Count:    p.Count,
		Limit:    limit,
		HasNext:  number < numPages,
		HasPrev:  number > 1,
		NextPage: number + 1,
		PrevPage: number - 1,
	}
}

// Page describes one resolved page. Limit is the number of items on it.
type Page struct {
	Number   int  `json:"number"`
	NumPages int  `json:"num_pages"`
	PerPage  int  `json:"per_page"`
	Count    int  `json:"count"`
	Limit    int  `json:"-"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	NextPage int  `json:"-"`
	PrevPage int  `json:"-"`
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

// StartIndex is the 1-based index of the first item on the page, 0 if empty.
func (pg Page) StartIndex() int {
	if pg.Limit == 0 {
		return 0
	}
	return pg.Offset() + 1
}

func (pg Page) EndIndex() int {
	if pg.Limit == 0 {
		return 0
	}
	return pg.Offset() + pg.Limit
}

// Numbers lists every page number, for templates.
func (pg Page) Numbers() []int {
	nums := make([]int, pg.NumPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
