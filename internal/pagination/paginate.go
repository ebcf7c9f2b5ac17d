package pagination

import (
	"fmt"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
)

// Page represents a single sheet in the document
type Page struct {
	Index  int
	Width  float64 // mm
	Height float64 // mm
	Items  []coupon.Item
}

// Slot is the placement of one coupon on its page, in millimeters from the
// top-left corner of the sheet.
type Slot struct {
	Position    int
	GlobalIndex int
	Row         int
	Column      int
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// Slots maps every coupon of the page to its grid cell, row by row.
func (p *Page) Slots(l layout.Layout) []Slot {
	cols := max(1, l.Columns)
	slots := make([]Slot, len(p.Items))
	for pos := range p.Items {
		row, col := pos/cols, pos%cols
		slots[pos] = Slot{
			Position:    pos,
			GlobalIndex: p.Index*l.ItemsPerPage + pos,
			Row:         row,
			Column:      col,
			X:           l.Margins.Left + float64(col)*l.CellWidthMm,
			Y:           l.Margins.Top + float64(row)*l.CellHeightMm,
			Width:       l.CellWidthMm,
			Height:      l.CellHeightMm,
		}
	}
	return slots
}

// Paginate splits items into consecutive pages of itemsPerPage coupons.
// The last page holds the remainder. No items means no pages.
func Paginate(items []coupon.Item, itemsPerPage int) ([]*Page, error) {
	if itemsPerPage < 1 {
		return nil, fmt.Errorf("%w: items per page must be at least 1, got %d", errs.ErrInvalidArgument, itemsPerPage)
	}

	pages := make([]*Page, 0, PageCount(len(items), itemsPerPage))
	for start := 0; start < len(items); start += itemsPerPage {
		end := min(start+itemsPerPage, len(items))
		pages = append(pages, &Page{
			Index: len(pages),
			Items: items[start:end:end],
		})
	}
	return pages, nil
}

// PageCount returns how many pages n items need at the given capacity.
func PageCount(n, itemsPerPage int) int {
	if n <= 0 || itemsPerPage < 1 {
		return 0
	}
	return (n + itemsPerPage - 1) / itemsPerPage
}

// Paginator breaks coupons into sheets of a computed layout
type Paginator struct {
	Layout layout.Layout
}

// NewPaginator creates a new paginator
func NewPaginator(l layout.Layout) *Paginator {
	return &Paginator{Layout: l}
}

// Paginate creates the pages of the document, each sized to the paper.
func (p *Paginator) Paginate(items []coupon.Item) ([]*Page, error) {
	pages, err := Paginate(items, p.Layout.ItemsPerPage)
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		page.Width = p.Layout.PaperWidthMm
		page.Height = p.Layout.PaperHeightMm
	}
	return pages, nil
}

// CalculatePageCount calculates the number of pages needed
func (p *Paginator) CalculatePageCount(n int) int {
	return PageCount(n, p.Layout.ItemsPerPage)
}
