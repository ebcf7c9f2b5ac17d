// Package html renders the printable HTML preview of coupon pages.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/pagination"
	"github.com/kuponqurban/kupon/internal/res"
	"github.com/kuponqurban/kupon/internal/style"
)

// PageID returns the element id of page i; capture tools select pages by it.
func PageID(i int) string {
	return "page-" + strconv.Itoa(i)
}

// CellSelector matches one rendered coupon.
const CellSelector = ".coupon"

// Options controls the preview document
type Options struct {
	Title string
	Style style.Style
	// Dark switches the area around the sheets to the dark theme.
	Dark bool
	Logo *res.Image
}

type cellView struct {
	Number     int
	Title      string
	Subtitle   string
	FooterText string
	Code       template.URL
}

type pageView struct {
	ID    string
	Cells []cellView
}

type docView struct {
	Title   string
	Dark    bool
	Colored bool
	Dashed  bool
	Palette style.Palette
	Style   style.Style
	Logo    template.URL
	Layout  layout.Layout
	Pages   []pageView
	Probe   bool
}

// Renderer renders preview documents
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a preview renderer
func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("preview").Funcs(template.FuncMap{
		"mm":  func(v float64) template.CSS { return template.CSS(strconv.FormatFloat(v, 'f', 2, 64) + "mm") },
		"px":  func(v float64) template.CSS { return template.CSS(strconv.FormatFloat(v, 'f', 1, 64) + "px") },
		"hex": func(c style.RGB) template.CSS { return template.CSS(c.Hex()) },
	}).Parse(previewTemplate))}
}

// Render writes every page as a sheet sized to the layout's paper.
func (r *Renderer) Render(w io.Writer, pages []*pagination.Page, l layout.Layout, options Options) error {
	view := r.view(l, options)
	for _, p := range pages {
		pv := pageView{ID: PageID(p.Index), Cells: make([]cellView, len(p.Items))}
		for i, it := range p.Items {
			pv.Cells[i] = newCellView(it)
		}
		view.Pages = append(view.Pages, pv)
	}
	return r.execute(w, view)
}

// RenderProbe writes a document holding a single unconstrained coupon, so a
// browser can report the coupon's natural size.
func (r *Renderer) RenderProbe(w io.Writer, item coupon.Item, options Options) error {
	view := r.view(layout.Layout{}, options)
	view.Probe = true
	view.Pages = []pageView{{ID: "probe", Cells: []cellView{newCellView(item)}}}
	return r.execute(w, view)
}

// RenderString is a convenience wrapper returning the document as a string.
func (r *Renderer) RenderString(pages []*pagination.Page, l layout.Layout, options Options) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, pages, l, options); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) view(l layout.Layout, options Options) docView {
	st := options.Style
	if st.TitleFontPx <= 0 {
		st = style.Default()
	}
	v := docView{
		Title:   options.Title,
		Dark:    options.Dark,
		Colored: st.ColorMode == style.Colored,
		Dashed:  st.BorderStyle == style.BorderDashed,
		Palette: st.Card(),
		Style:   st,
		Layout:  l,
	}
	if v.Title == "" {
		v.Title = "Kupon"
	}
	if options.Logo != nil {
		v.Logo = template.URL(options.Logo.DataURL())
	}
	return v
}

func (r *Renderer) execute(w io.Writer, view docView) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("%w: failed to render preview: %w", errs.ErrExport, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: failed to write preview: %w", errs.ErrExport, err)
	}
	return nil
}

func newCellView(it coupon.Item) cellView {
	c := cellView{
		Number:     it.Number,
		Title:      it.Title,
		Subtitle:   it.Subtitle,
		FooterText: it.FooterText,
	}
	if it.HasCode() {
		c.Code = template.URL(res.EncodeDataURL(it.Code.MimeType, it.Code.Data))
	}
	return c
}

// CountPages returns the number of page sheets in a preview document.
func CountPages(r io.Reader) (int, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse preview: %w", err)
	}
	count := 0
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && isPage(n) {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count, nil
}

func isPage(n *xhtml.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "id" && strings.HasPrefix(a.Val, "page-") {
			return true
		}
	}
	return false
}
