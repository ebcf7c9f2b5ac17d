// Package style describes how a coupon card looks, independent of the
// output format drawing it.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kuponqurban/kupon/internal/errs"
)

// ColorMode selects between a plain black card and an accented one.
type ColorMode string

const (
	Monochrome ColorMode = "monochrome"
	Colored    ColorMode = "colored"
)

// ParseColorMode accepts "monochrome" and "colored" (also "mono" and "color").
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monochrome", "mono", "":
		return Monochrome, nil
	case "colored", "coloured", "color", "colour":
		return Colored, nil
	}
	return "", fmt.Errorf("%w: unknown color mode %q", errs.ErrInvalidConfiguration, s)
}

// BorderStyle is the stroke of the card outline.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
)

// ParseBorderStyle accepts "solid" and "dashed".
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "":
		return BorderSolid, nil
	case "dashed":
		return BorderDashed, nil
	}
	return "", fmt.Errorf("%w: unknown border style %q", errs.ErrInvalidConfiguration, s)
}

// DefaultAccent is the deep orange used by colored cards.
const DefaultAccent = "#ff5722"

// Style holds the visual settings shared by every card of a run.
type Style struct {
	ColorMode     ColorMode
	BorderStyle   BorderStyle
	Accent        string
	TitleFontPx   float64
	ContentFontPx float64
	// CodeDisplayPx is the on-card size of the code image in CSS pixels.
	CodeDisplayPx float64
}

// Default returns the monochrome card style.
func Default() Style {
	return Style{
		ColorMode:     Monochrome,
		BorderStyle:   BorderSolid,
		Accent:        DefaultAccent,
		TitleFontPx:   14,
		ContentFontPx: 12,
		CodeDisplayPx: 100,
	}
}

// Card returns the colors of a card in this style.
func (s Style) Card() Palette {
	p := Palette{
		Border:     RGB{0, 0, 0},
		Text:       RGB{0, 0, 0},
		MutedText:  RGB{0x66, 0x66, 0x66},
		Number:     RGB{0, 0, 0},
		NumberFill: RGB{0xf8, 0xf8, 0xf8},
		NumberEdge: RGB{0xe0, 0xe0, 0xe0},
		Divider:    RGB{0, 0, 0},
		Background: RGB{0xff, 0xff, 0xff},
	}
	if s.ColorMode == Colored {
		accent := ParseColor(s.Accent, RGB{0xff, 0x57, 0x22})
		p.Border = accent
		p.Number = accent
		p.NumberFill = accent.Tint(0.88)
	}
	return p
}

// Palette is the set of colors used to draw one card.
type Palette struct {
	Border     RGB
	Text       RGB
	MutedText  RGB
	Number     RGB
	NumberFill RGB
	NumberEdge RGB
	Divider    RGB
	Background RGB
}

// RGB is an 8-bit color.
type RGB [3]int

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Tint mixes the color with white; 0 keeps it, 1 gives white.
func (c RGB) Tint(f float64) RGB {
	f = min(1, max(0, f))
	var out RGB
	for i, v := range c {
		out[i] = v + int(float64(255-v)*f+0.5)
	}
	return out
}

// ParseColor parses #rgb, #rrggbb or rgb(r, g, b), returning def when the
// value is not understood.
func ParseColor(value string, def RGB) RGB {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		if r, g, b, ok := parseHexColor(value); ok {
			return RGB{r, g, b}
		}
		return def
	}

	var r, g, b int
	if _, err := fmt.Sscanf(value, "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		return RGB{r, g, b}
	}
	if _, err := fmt.Sscanf(value, "rgb(%d, %d, %d)", &r, &g, &b); err == nil {
		return RGB{r, g, b}
	}
	return def
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
