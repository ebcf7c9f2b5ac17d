package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/kuponqurban/kupon/internal/res"
)

// svgRasterPx is the longest side of a rasterized SVG logo.
const svgRasterPx = 512

// prepareImage returns image bytes and the fpdf image type for a resource.
// Formats fpdf cannot embed directly are re-encoded as PNG.
func prepareImage(img *res.Image) ([]byte, string, error) {
	switch img.MimeType {
	case "image/png":
		return img.Data, "PNG", nil
	case "image/jpeg":
		return img.Data, "JPG", nil
	case "image/gif":
		return img.Data, "GIF", nil
	case "image/svg+xml":
		data, err := rasterizeSVG(img.Data, svgRasterPx)
		if err != nil {
			return nil, "", err
		}
		return data, "PNG", nil
	}

	decoded, _, err := image.Decode(img.Reader())
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", img.MimeType, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode image: %w", err)
	}
	return buf.Bytes(), "PNG", nil
}

// rasterizeSVG renders SVG data into a PNG whose longest side is maxPx.
func rasterizeSVG(data []byte, maxPx int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = 1, 1
	}
	scale := float64(maxPx) / math.Max(vw, vh)
	w := max(1, int(math.Round(vw*scale)))
	h := max(1, int(math.Round(vh*scale)))

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to encode rasterized SVG: %w", err)
	}
	return buf.Bytes(), nil
}
