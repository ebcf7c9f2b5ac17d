package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/pagination"
	"github.com/kuponqurban/kupon/internal/qr"
	"github.com/kuponqurban/kupon/internal/res"
	"github.com/kuponqurban/kupon/internal/style"
)

var pageObject = regexp.MustCompile(`/Type /Page[^s]`)

func countPages(doc []byte) int {
	return len(pageObject.FindAll(doc, -1))
}

func paginate(t *testing.T, count int, showCode bool, o layout.Options) (layout.Layout, []*pagination.Page) {
	t.Helper()
	opts := coupon.DefaultOptions()
	opts.Count = count
	opts.ShowCode = showCode
	items, err := coupon.NewGenerator(opts, qr.NewEncoder()).Generate(context.Background())
	require.NoError(t, err)

	e := pagination.NewEngine()
	e.SetOptions(o)
	l, pages, err := e.Paginate(items, nil)
	require.NoError(t, err)
	return l, pages
}

func TestRender(t *testing.T) {
	a4 := layout.NewEngine().Options()

	t.Run("one document page per page", func(t *testing.T) {
		l, pages := paginate(t, 10, true, a4)
		var buf bytes.Buffer
		require.NoError(t, NewRenderer().Render(pages, l, &buf, RenderOptions{Title: "Kupon", Style: style.Default()}))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Equal(t, 2, countPages(buf.Bytes()))
	})

	t.Run("landscape colored dashed", func(t *testing.T) {
		o := a4
		o.Orientation = layout.Landscape
		o.Columns, o.Rows = 4, 2
		l, pages := paginate(t, 9, true, o)

		st := style.Default()
		st.ColorMode = style.Colored
		st.BorderStyle = style.BorderDashed
		r := NewRenderer()
		r.DebugDrawBoxes = true
		var buf bytes.Buffer
		require.NoError(t, r.Render(pages, l, &buf, RenderOptions{Style: st}))
		assert.Equal(t, 2, countPages(buf.Bytes()))
		// 297mm x 210mm in points
		assert.Contains(t, buf.String(), "/MediaBox [0 0 841.89 595.28]")
	})

	t.Run("tiny cells skip the code", func(t *testing.T) {
		o := a4
		o.Columns, o.Rows = 8, 20
		l, pages := paginate(t, 5, true, o)
		var buf bytes.Buffer
		require.NoError(t, NewRenderer().Render(pages, l, &buf, RenderOptions{}))
		assert.Equal(t, 1, countPages(buf.Bytes()))
	})

	t.Run("long footer wraps", func(t *testing.T) {
		l, pages := paginate(t, 2, true, a4)
		pages[0].Items[0].FooterText = "Panitia Qurban Masjid Al-Iman Jalan Merdeka Nomor Sebelas Kelurahan Sukamaju Kecamatan Cibeunying"
		var buf bytes.Buffer
		require.NoError(t, NewRenderer().Render(pages, l, &buf, RenderOptions{}))
		assert.Equal(t, 1, countPages(buf.Bytes()))
	})

	t.Run("no pages is refused", func(t *testing.T) {
		l, pages := paginate(t, 0, false, a4)
		require.Empty(t, pages)
		var buf bytes.Buffer
		err := NewRenderer().Render(pages, l, &buf, RenderOptions{})
		assert.ErrorIs(t, err, errs.ErrExport)
		assert.Zero(t, buf.Len())
	})

	t.Run("broken code image only drops that code", func(t *testing.T) {
		l, pages := paginate(t, 10, true, a4)
		pages[0].Items[1].Code = &coupon.CodeImage{Data: []byte("not a png"), MimeType: "image/png"}
		pages[1].Items[0].Code = &coupon.CodeImage{Data: []byte("junk")}

		var logs bytes.Buffer
		r := NewRenderer()
		r.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		var buf bytes.Buffer
		require.NoError(t, r.Render(pages, l, &buf, RenderOptions{}))
		assert.Equal(t, 2, countPages(buf.Bytes()))
		assert.Equal(t, 2, strings.Count(logs.String(), "code image unusable"))
		assert.Contains(t, logs.String(), "number=2")
		assert.Contains(t, logs.String(), "number=9")
		assert.Contains(t, logs.String(), errs.ErrCodeGeneration.Error())
	})

	t.Run("jpeg code image", func(t *testing.T) {
		l, pages := paginate(t, 3, true, a4)
		pages[0].Items[1].Code = &coupon.CodeImage{Data: jpegImage(t, 50, 50), MimeType: "image/jpeg"}

		var logs bytes.Buffer
		r := NewRenderer()
		r.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		var buf bytes.Buffer
		require.NoError(t, r.Render(pages, l, &buf, RenderOptions{}))
		assert.Equal(t, 1, countPages(buf.Bytes()))
		assert.Contains(t, buf.String(), "/Filter /DCTDecode")
		assert.NotContains(t, logs.String(), "code image unusable")
	})
}

func jpegImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestRender_Logo(t *testing.T) {
	l, pages := paginate(t, 2, false, layout.NewEngine().Options())

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="4" fill="#ff5722"/></svg>`)
	r := NewRenderer()
	r.Logo = &res.Image{URL: "logo.svg", Data: svg, MimeType: "image/svg+xml"}
	var buf bytes.Buffer
	require.NoError(t, r.Render(pages, l, &buf, RenderOptions{}))
	assert.Contains(t, buf.String(), "/Subtype /Image")

	r.Logo = &res.Image{URL: "broken.png", Data: []byte("nope"), MimeType: "image/bmp"}
	buf.Reset()
	require.NoError(t, r.Render(pages, l, &buf, RenderOptions{}), "a bad logo is skipped")
}

func TestRenderToFile(t *testing.T) {
	l, pages := paginate(t, 3, true, layout.NewEngine().Options())
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "kupon.pdf")

	require.NoError(t, NewRenderer().RenderToFile(pages, l, out, RenderOptions{}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	failed := filepath.Join(dir, "nested", "empty.pdf")
	assert.ErrorIs(t, NewRenderer().RenderToFile(nil, l, failed, RenderOptions{}), errs.ErrExport)
	_, err = os.Stat(failed)
	assert.True(t, os.IsNotExist(err))

	blocked := filepath.Join(dir, "nested", "kupon.pdf", "inner.pdf")
	assert.ErrorIs(t, NewRenderer().RenderToFile(pages, l, blocked, RenderOptions{}), errs.ErrExport)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFitRect(t *testing.T) {
	// Wider than the page: full width, centered vertically.
	r := FitRect(2000, 1000, 210, 297)
	assert.InDelta(t, 210, r.W, 1e-9)
	assert.InDelta(t, 105, r.H, 1e-9)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 96, r.Y, 1e-9)

	// Taller than the page: full height, centered horizontally.
	r = FitRect(1000, 2000, 297, 210)
	assert.InDelta(t, 210, r.H, 1e-9)
	assert.InDelta(t, 105, r.W, 1e-9)
	assert.InDelta(t, 96, r.X, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)

	// Same aspect: fills the page exactly.
	r = FitRect(420, 594, 210, 297)
	assert.InDelta(t, 210, r.W, 1e-9)
	assert.InDelta(t, 297, r.H, 1e-9)
}

func pagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssemble(t *testing.T) {
	l, err := layout.Compute(layout.NewEngine().Options(), nil)
	require.NoError(t, err)

	t.Run("one page per image", func(t *testing.T) {
		var buf bytes.Buffer
		images := [][]byte{pagePNG(t, 160, 226), pagePNG(t, 160, 226), pagePNG(t, 300, 100)}
		require.NoError(t, NewAssembler().Assemble(images, l, &buf, RenderOptions{Title: "Kupon"}))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Equal(t, 3, countPages(buf.Bytes()))
	})

	t.Run("bad image", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewAssembler().Assemble([][]byte{pagePNG(t, 10, 10), []byte("garbage")}, l, &buf, RenderOptions{})
		assert.ErrorIs(t, err, errs.ErrExport)
		assert.Zero(t, buf.Len())
	})

	t.Run("to file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "captured.pdf")
		require.NoError(t, NewAssembler().AssembleToFile([][]byte{pagePNG(t, 40, 60)}, l, out, RenderOptions{}))
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, 1, countPages(data))

		failed := filepath.Join(t.TempDir(), "failed.pdf")
		assert.ErrorIs(t, NewAssembler().AssembleToFile([][]byte{[]byte("garbage")}, l, failed, RenderOptions{}), errs.ErrExport)
		_, err = os.Stat(failed)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("nothing to assemble", func(t *testing.T) {
		err := NewAssembler().Assemble(nil, l, &bytes.Buffer{}, RenderOptions{})
		assert.ErrorIs(t, err, errs.ErrExport)
	})
}
