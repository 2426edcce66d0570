package query

import (
	"errors"
	"fmt"
)

// DefaultPageSize is the number of books shown per catalog page.
const DefaultPageSize = 12

// ErrInvalidPage is returned for a page number below 1 or a non-positive size.
var ErrInvalidPage = errors.New("invalid page")

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Size   int
}

// NewPage returns a validated page.
func NewPage(number, size int) (Page, error) {
	p := Page{Number: number, Size: size}
	return p, p.Validate()
}

// Validate checks the page bounds.
func (p Page) Validate() error {
	if p.Number < 1 {
		return fmt.Errorf("%w: page number %d must be at least 1", ErrInvalidPage, p.Number)
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: page size %d must be positive", ErrInvalidPage, p.Size)
	}
	return nil
}

// Skip is the number of records before the page.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Size) }

// Limit is the maximum number of records in the page.
func (p Page) Limit() int64 { return int64(p.Size) }

// TotalPages returns how many pages are needed for total records.
func (p Page) TotalPages(total int64) int64 {
	if p.Size < 1 || total <= 0 {
		return 0
	}
	return (total + int64(p.Size) - 1) / int64(p.Size)
}
