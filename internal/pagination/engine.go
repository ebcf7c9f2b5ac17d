package pagination

import (
	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/layout"
)

// Engine handles the pagination process
type Engine struct {
	layout *layout.Engine
}

// NewEngine creates a new pagination engine with the default sheet layout
func NewEngine() *Engine {
	return &Engine{layout: layout.NewEngine()}
}

// SetOptions sets the layout options the pages are computed from
func (e *Engine) SetOptions(options layout.Options) {
	e.layout.SetOptions(options)
}

// Paginate computes a fresh layout for the optional cell measurement and
// breaks the coupons into pages of that layout.
func (e *Engine) Paginate(items []coupon.Item, measured *layout.CellSize) (layout.Layout, []*Page, error) {
	l, err := e.layout.Compute(measured)
	if err != nil {
		return layout.Layout{}, nil, err
	}
	pages, err := NewPaginator(l).Paginate(items)
	if err != nil {
		return layout.Layout{}, nil, err
	}
	return l, pages, nil
}
