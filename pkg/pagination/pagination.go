// Package pagination defines the paginator and cursor contracts understood
// by collections, plus simple implementations of both.
package pagination

import (
	"strconv"
	"strings"
)

// Paginator describes offset based pagination of a collection.
type Paginator interface {
	CurrentPage() int
	LastPage() int
	Total() int
	Count() int
	PerPage() int
	// URL returns the link for the given page.
	URL(page int) string
}

// Cursor describes cursor based pagination of a collection. Cursor tokens are
// opaque to the engine.
type Cursor interface {
	Current() any
	Prev() any
	Next() any
	Count() int
}

// PagePlaceholder is replaced by the page number in an OffsetPaginator's URL
// template.
const PagePlaceholder = "{page}"

// OffsetPaginator is a Paginator over a known total. A nil
// *OffsetPaginator behaves like the zero value: a single empty page.
type OffsetPaginator struct {
	// Page is the 1-based current page.
	Page int
	// Size is the number of items per page.
	Size int
	// Items is the total number of items across all pages.
	Items int
	// Returned is the number of items on the current page. When zero it is
	// derived from Page, Size and Items.
	Returned int
	// URLTemplate contains PagePlaceholder, e.g. "/users?page={page}". When
	// it has no placeholder, a page query parameter is appended.
	URLTemplate string
}

func (p *OffsetPaginator) CurrentPage() int {
	if p == nil {
		return 1
	}
	return max(p.Page, 1)
}

func (p *OffsetPaginator) LastPage() int {
	if p == nil || p.Size <= 0 || p.Items <= 0 {
		return 1
	}
	return (p.Items + p.Size - 1) / p.Size
}

func (p *OffsetPaginator) Total() int {
	if p == nil {
		return 0
	}
	return p.Items
}

func (p *OffsetPaginator) Count() int {
	if p == nil {
		return 0
	}
	if p.Returned > 0 {
		return p.Returned
	}
	if p.Size <= 0 {
		return p.Items
	}
	offset := (p.CurrentPage() - 1) * p.Size
	return max(min(p.Size, p.Items-offset), 0)
}

func (p *OffsetPaginator) PerPage() int {
	if p == nil {
		return 0
	}
	return p.Size
}

func (p *OffsetPaginator) URL(page int) string {
	n := strconv.Itoa(page)
	if p == nil {
		return "?page=" + n
	}
	if strings.Contains(p.URLTemplate, PagePlaceholder) {
		return strings.ReplaceAll(p.URLTemplate, PagePlaceholder, n)
	}

	sep := "?"
	if strings.Contains(p.URLTemplate, "?") {
		sep = "&"
	}
	return p.URLTemplate + sep + "page=" + n
}

// CursorPage is a Cursor with fixed values. A nil *CursorPage has no tokens
// and a count of zero.
type CursorPage struct {
	CurrentToken any
	PrevToken    any
	NextToken    any
	Size         int
}

func (c *CursorPage) Current() any {
	if c == nil {
		return nil
	}
	return c.CurrentToken
}

func (c *CursorPage) Prev() any {
	if c == nil {
		return nil
	}
	return c.PrevToken
}

func (c *CursorPage) Next() any {
	if c == nil {
		return nil
	}
	return c.NextToken
}

func (c *CursorPage) Count() int {
	if c == nil {
		return 0
	}
	return c.Size
}
