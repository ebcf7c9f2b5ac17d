// Package qr encodes coupon payloads as QR code PNG images.
package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"

	"github.com/kuponqurban/kupon/internal/coupon"
)

// Encoder draws QR codes with skip2/go-qrcode and sizes them with imaging.
type Encoder struct {
	Foreground color.Color
	Background color.Color
}

var _ coupon.Encoder = (*Encoder)(nil)

// NewEncoder creates an encoder drawing black modules on white.
func NewEncoder() *Encoder {
	return &Encoder{Foreground: color.Black, Background: color.White}
}

// Encode renders payload as a square PNG of opts.SizePx pixels, with a quiet
// zone of opts.MarginModules modules around the symbol.
func (e *Encoder) Encode(ctx context.Context, payload string, opts coupon.CodeOptions) (*coupon.CodeImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := e.Image(payload, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR PNG: %w", err)
	}
	return &coupon.CodeImage{
		Payload:  payload,
		Data:     buf.Bytes(),
		MimeType: "image/png",
		SizePx:   img.Bounds().Dx(),
	}, nil
}

// Image renders payload without encoding it to PNG.
func (e *Encoder) Image(payload string, opts coupon.CodeOptions) (image.Image, error) {
	if payload == "" {
		return nil, fmt.Errorf("failed to create QR code: empty payload")
	}
	q, err := qrcode.New(payload, recoveryLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	q.DisableBorder = true
	if e.Foreground != nil {
		q.ForegroundColor = e.Foreground
	}
	if e.Background != nil {
		q.BackgroundColor = e.Background
	}

	modules := len(q.Bitmap())
	margin := max(0, opts.MarginModules)
	size := opts.SizePx
	if size <= 0 {
		size = 100
	}

	// Whole pixels per module keep the symbol crisp; the canvas absorbs
	// the remainder.
	scale := max(1, size/(modules+2*margin))
	symbol := imaging.Resize(q.Image(-1), modules*scale, modules*scale, imaging.NearestNeighbor)

	side := max(size, (modules+2*margin)*scale)
	bg := e.Background
	if bg == nil {
		bg = color.White
	}
	canvas := imaging.New(side, side, bg)
	return imaging.PasteCenter(canvas, symbol), nil
}

func recoveryLevel(l coupon.RecoveryLevel) qrcode.RecoveryLevel {
	switch l {
	case coupon.RecoveryLow:
		return qrcode.Low
	case coupon.RecoveryQuartile:
		return qrcode.High
	case coupon.RecoveryHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
