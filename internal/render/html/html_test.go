package html

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/pagination"
	"github.com/kuponqurban/kupon/internal/qr"
	"github.com/kuponqurban/kupon/internal/res"
	"github.com/kuponqurban/kupon/internal/style"
)

func preview(t *testing.T, count int, options Options) string {
	t.Helper()
	opts := coupon.DefaultOptions()
	opts.Count = count
	items, err := coupon.NewGenerator(opts, qr.NewEncoder()).Generate(context.Background())
	require.NoError(t, err)
	l, pages, err := pagination.NewEngine().Paginate(items, nil)
	require.NoError(t, err)
	doc, err := NewRenderer().RenderString(pages, l, options)
	require.NoError(t, err)
	return doc
}

func TestRender(t *testing.T) {
	doc := preview(t, 10, Options{Title: "Kupon Qurban"})

	n, err := CountPages(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Contains(t, doc, `id="page-0"`)
	assert.Contains(t, doc, `id="page-1"`)
	assert.Contains(t, doc, "size: 210.00mm 297.00mm")
	assert.Contains(t, doc, "grid-template-columns: repeat(2, 1fr)")
	assert.Equal(t, 10, strings.Count(doc, `class="coupon"`))
	assert.Equal(t, 10, strings.Count(doc, `src="data:image/png;base64,`))
	assert.Contains(t, doc, "#f5f5f5")
	assert.NotContains(t, doc, `class="corner"`)
}

func TestRender_ThemeAndStyle(t *testing.T) {
	st := style.Default()
	st.ColorMode = style.Colored
	st.BorderStyle = style.BorderDashed
	doc := preview(t, 3, Options{Dark: true, Style: st})

	assert.Contains(t, doc, "#121212")
	assert.Contains(t, doc, "2px dashed #ff5722")
	assert.Contains(t, doc, `class="corner"`)
}

func TestRender_EscapesContent(t *testing.T) {
	items := []coupon.Item{{Number: 1, Title: "<script>alert(1)</script>"}}
	pages, err := pagination.Paginate(items, 1)
	require.NoError(t, err)
	l, err := layout.Compute(layout.NewEngine().Options(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, pages, l, Options{}))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRender_Logo(t *testing.T) {
	logo := &res.Image{Data: []byte("<svg/>"), MimeType: "image/svg+xml"}
	doc := preview(t, 1, Options{Logo: logo})
	assert.Contains(t, doc, `class="logo" src="data:image/svg+xml;base64,`)
}

func TestRenderProbe(t *testing.T) {
	var buf bytes.Buffer
	item := coupon.Item{Number: 42, Title: "KUPON QURBAN", FooterText: "Masjid Al-Iman"}
	require.NoError(t, NewRenderer().RenderProbe(&buf, item, Options{}))
	doc := buf.String()

	n, err := CountPages(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Zero(t, n, "a probe has no sheets")
	assert.Contains(t, doc, `class="probe"`)
	assert.NotContains(t, doc, "@page")
}

func TestCountPages_Empty(t *testing.T) {
	n, err := CountPages(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
