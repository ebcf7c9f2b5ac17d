package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"codeberg.org/go-pdf/fpdf"

	"github.com/kuponqurban/kupon/internal/atomicfile"
	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/pagination"
	"github.com/kuponqurban/kupon/internal/res"
	"github.com/kuponqurban/kupon/internal/style"
	"github.com/kuponqurban/kupon/internal/text"
)

// Card geometry in millimeters.
const (
	cardInset      = 1.5
	cardRadius     = 2
	cardBorder     = 0.5
	cardPadding    = 3
	dividerGap     = 1.5
	minNumberBox   = 8
	minCodeSide    = 5
	numberFontMax  = 30
	maxFooterLines = 2
	fontFamily     = "Helvetica"
	ptToMm         = 25.4 / 72
	lineHeightRate = 1.3
)

// Renderer handles rendering coupon pages to PDF
type Renderer struct {
	// Logger receives per-page diagnostics; nil uses slog.Default
	Logger *slog.Logger
	// Debug enables verbose logging
	Debug bool
	// DebugDrawBoxes outlines every grid slot with its size
	DebugDrawBoxes bool
	// Logo, when set, is drawn faintly behind every coupon number
	Logo *res.Image
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	Style style.Style
}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// newDocument creates an fpdf document whose default page matches the layout.
func newDocument(l layout.Layout, options RenderOptions) *fpdf.Fpdf {
	orient := "P"
	wd, ht := l.PaperWidthMm, l.PaperHeightMm
	if wd > ht {
		orient = "L"
		wd, ht = ht, wd
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)
	pdf.SetFont(fontFamily, "", 12)
	return pdf
}

// Render draws one document page per pagination page and writes the
// finished document to w. A PDF cannot have zero pages, so an empty run is
// refused. A code image that cannot be embedded only costs its own coupon
// the code. Nothing is written if drawing fails.
func (r *Renderer) Render(pages []*pagination.Page, l layout.Layout, w io.Writer, options RenderOptions) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages to render", errs.ErrExport)
	}
	if options.Style.TitleFontPx <= 0 {
		options.Style = style.Default()
	}
	pdf := newDocument(l, options)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logoName := ""
	if r.Logo != nil {
		if name, err := r.registerLogo(pdf); err != nil {
			r.logger().Warn("logo skipped", "url", r.Logo.URL, "error", err)
		} else {
			logoName = name
		}
	}

	r.logger().Debug("rendering pages", "pages", len(pages), "per_page", l.ItemsPerPage)
	for _, page := range pages {
		pdf.AddPage()
		for i, slot := range page.Slots(l) {
			if r.DebugDrawBoxes {
				r.drawSlotOutline(pdf, slot)
			}
			r.drawCard(pdf, tr, slot, page, i, options.Style, logoName)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: failed to draw PDF: %w", errs.ErrExport, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: failed to write PDF: %w", errs.ErrExport, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: failed to write PDF: %w", errs.ErrExport, err)
	}
	return nil
}

// RenderToFile renders into a temporary file next to outputPath and renames
// it into place once the document is complete.
func (r *Renderer) RenderToFile(pages []*pagination.Page, l layout.Layout, outputPath string, options RenderOptions) error {
	return writeFileAtomic(outputPath, func(w io.Writer) error {
		return r.Render(pages, l, w, options)
	})
}

func (r *Renderer) registerLogo(pdf *fpdf.Fpdf) (string, error) {
	data, imageType, err := prepareImage(r.Logo)
	if err != nil {
		return "", err
	}
	const name = "logo"
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		return "", err
	}
	return name, nil
}

// drawCard draws one coupon inside its slot
func (r *Renderer) drawCard(pdf *fpdf.Fpdf, tr func(string) string, slot pagination.Slot, page *pagination.Page, pos int, st style.Style, logoName string) {
	item := page.Items[pos]
	p := st.Card()
	codeName := r.registerCode(pdf, item)

	x := slot.X + cardInset
	y := slot.Y + cardInset
	w := slot.Width - 2*cardInset
	h := slot.Height - 2*cardInset
	if w <= 2*cardPadding || h <= 2*cardPadding {
		r.logger().Debug("slot too small for a coupon", "number", item.Number, "width_mm", slot.Width, "height_mm", slot.Height)
		return
	}

	// Card outline
	setFill(pdf, p.Background)
	setDraw(pdf, p.Border)
	pdf.SetLineWidth(cardBorder)
	if st.BorderStyle == style.BorderDashed {
		pdf.SetDashPattern([]float64{2, 1.2}, 0)
	}
	pdf.RoundedRect(x, y, w, h, cardRadius, "1234", "FD")
	pdf.SetDashPattern([]float64{}, 0)

	if st.ColorMode == style.Colored {
		pdf.SetAlpha(0.1, "Normal")
		setFill(pdf, p.Border)
		pdf.Circle(x+w-1, y+1, 2.5, "F")
		pdf.SetAlpha(1, "Normal")
	}

	innerX := x + cardPadding
	innerW := w - 2*cardPadding
	top := y + cardPadding
	bottom := y + h - cardPadding

	// Title and subtitle
	titlePt := st.TitleFontPx * 0.75
	cursor := top
	cursor += r.drawCentered(pdf, tr(item.Title), "B", titlePt, p.Text, innerX, cursor, innerW)
	if item.Subtitle != "" {
		cursor += r.drawCentered(pdf, tr(item.Subtitle), "", st.ContentFontPx*0.75*0.9, p.MutedText, innerX, cursor, innerW)
	}
	cursor += dividerGap
	r.drawDivider(pdf, p, innerX, cursor, innerW)
	cursor += dividerGap

	// Footer from the bottom up
	contentPt := st.ContentFontPx * 0.75
	var footerLines []string
	footerTextH := 0.0
	if item.FooterText != "" {
		pdf.SetFont(fontFamily, "", contentPt)
		footerLines = text.Truncate(text.SplitLines(tr(item.FooterText), innerW, pdf.GetStringWidth), maxFooterLines)
		footerTextH = float64(len(footerLines))*contentPt*lineHeightRate*ptToMm + 1
	}
	codeSide := 0.0
	if codeName != "" {
		codeSide = min(layout.PxToMm(st.CodeDisplayPx, 96), innerW,
			bottom-cursor-minNumberBox-2*dividerGap-footerTextH)
		if codeSide < minCodeSide {
			r.logger().Debug("no room for code image", "number", item.Number, "side_mm", codeSide)
			codeSide = 0
		}
	}
	footerTop := bottom - codeSide - footerTextH
	secondDivider := footerTop - dividerGap

	// Number box
	boxY := cursor
	boxH := secondDivider - dividerGap - boxY
	if boxH > 0 {
		setFill(pdf, p.NumberFill)
		setDraw(pdf, p.NumberEdge)
		pdf.SetLineWidth(0.25)
		pdf.RoundedRect(innerX, boxY, innerW, boxH, 1, "1234", "FD")

		if logoName != "" {
			side := boxH * 0.8
			pdf.SetAlpha(0.15, "Normal")
			pdf.ImageOptions(logoName, innerX+(innerW-side)/2, boxY+(boxH-side)/2, side, side, false,
				fpdf.ImageOptions{}, 0, "")
			pdf.SetAlpha(1, "Normal")
		}

		numberPt := min(numberFontMax, boxH/ptToMm*0.75)
		setText(pdf, p.Number)
		pdf.SetFont(fontFamily, "B", fitFontSize(pdf, strconv.Itoa(item.Number), "B", numberPt, innerW))
		pdf.SetXY(innerX, boxY)
		pdf.CellFormat(innerW, boxH, strconv.Itoa(item.Number), "", 0, "CM", false, 0, "")
	}
	r.drawDivider(pdf, p, innerX, secondDivider, innerW)

	// Footer text and code
	lineY := footerTop
	for _, line := range footerLines {
		lineY += r.drawCentered(pdf, line, "", contentPt, p.Text, innerX, lineY, innerW)
	}
	if codeSide > 0 {
		r.drawCode(pdf, codeName, innerX+(innerW-codeSide)/2, bottom-codeSide, codeSide)
	}

	if r.Debug {
		r.logger().Debug("drew coupon", "page", page.Index, "number", item.Number,
			"x_mm", x, "y_mm", y, "code_mm", codeSide)
	}
}

// drawCentered writes one line of centered text and returns its height.
func (r *Renderer) drawCentered(pdf *fpdf.Fpdf, text, fontStyle string, sizePt float64, c style.RGB, x, y, w float64) float64 {
	size := fitFontSize(pdf, text, fontStyle, sizePt, w)
	lineH := size * lineHeightRate * ptToMm
	pdf.SetFont(fontFamily, fontStyle, size)
	setText(pdf, c)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, lineH, text, "", 0, "CM", false, 0, "")
	return lineH
}

func (r *Renderer) drawDivider(pdf *fpdf.Fpdf, p style.Palette, x, y, w float64) {
	setDraw(pdf, p.Divider)
	pdf.SetLineWidth(0.2)
	pdf.Line(x, y, x+w, y)
}

// registerCode embeds the item's code image and returns its name, or ""
// when the item has no code or the image cannot be embedded.
func (r *Renderer) registerCode(pdf *fpdf.Fpdf, item coupon.Item) string {
	if !item.HasCode() || pdf.Err() {
		return ""
	}
	data, imageType, err := prepareImage(&res.Image{Data: item.Code.Data, MimeType: item.Code.MimeType})
	if err == nil {
		name := "code-" + strconv.Itoa(item.Number)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
		if err = pdf.Error(); err == nil {
			return name
		}
		// A failed registration stores nothing, so the document stays usable.
		pdf.ClearError()
	}
	r.logger().Warn("code image unusable, coupon drawn without it",
		"number", item.Number,
		"error", fmt.Errorf("%w: %s: %w", errs.ErrCodeGeneration, item.Code.MimeType, err))
	return ""
}

func (r *Renderer) drawCode(pdf *fpdf.Fpdf, name string, x, y, side float64) {
	pdf.ImageOptions(name, x, y, side, side, false, fpdf.ImageOptions{}, 0, "")
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, side, side, "D")
}

// drawSlotOutline draws a debug overlay of the grid slot
func (r *Renderer) drawSlotOutline(pdf *fpdf.Fpdf, slot pagination.Slot) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(slot.X, slot.Y, slot.Width, slot.Height, "D")
	pdf.SetFont(fontFamily, "", 6)
	pdf.SetTextColor(150, 150, 150)
	pdf.Text(slot.X+0.5, slot.Y+2, fmt.Sprintf("%.1fx%.1f", slot.Width, slot.Height))
}

// fitFontSize shrinks the font until text fits the width.
func fitFontSize(pdf *fpdf.Fpdf, text, fontStyle string, sizePt, width float64) float64 {
	size := sizePt
	for size > 5 {
		pdf.SetFont(fontFamily, fontStyle, size)
		if pdf.GetStringWidth(text) <= width {
			break
		}
		size -= 0.5
	}
	return size
}

func setFill(pdf *fpdf.Fpdf, c style.RGB) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setDraw(pdf *fpdf.Fpdf, c style.RGB) { pdf.SetDrawColor(c[0], c[1], c[2]) }
func setText(pdf *fpdf.Fpdf, c style.RGB) { pdf.SetTextColor(c[0], c[1], c[2]) }

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// writeFileAtomic writes through a temporary file so a failed export never
// leaves a partial document at path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	err := atomicfile.Write(path, write)
	if err != nil && !errors.Is(err, errs.ErrExport) {
		return fmt.Errorf("%w: %w", errs.ErrExport, err)
	}
	return err
}
