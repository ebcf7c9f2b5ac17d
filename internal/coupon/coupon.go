// Package coupon builds the ordered coupon records of a generation run.
package coupon

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kuponqurban/kupon/internal/errs"
)

// RecoveryLevel is the error correction level of a code symbol.
type RecoveryLevel string

const (
	RecoveryLow      RecoveryLevel = "L"
	RecoveryMedium   RecoveryLevel = "M"
	RecoveryQuartile RecoveryLevel = "Q"
	RecoveryHigh     RecoveryLevel = "H"
)

// ParseRecoveryLevel accepts L, M, Q or H in any case.
func ParseRecoveryLevel(s string) (RecoveryLevel, error) {
	switch l := RecoveryLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case RecoveryLow, RecoveryMedium, RecoveryQuartile, RecoveryHigh:
		return l, nil
	case "":
		return RecoveryMedium, nil
	}
	return "", fmt.Errorf("%w: unknown code level %q", errs.ErrInvalidConfiguration, s)
}

// CodeOptions controls how a code symbol is drawn.
type CodeOptions struct {
	SizePx        int
	Level         RecoveryLevel
	MarginModules int
}

// CodeImage is an encoded code symbol ready to be placed on a coupon.
type CodeImage struct {
	Payload  string
	Data     []byte
	MimeType string
	SizePx   int
}

// Encoder turns a payload into a code image.
type Encoder interface {
	Encode(ctx context.Context, payload string, opts CodeOptions) (*CodeImage, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, payload string, opts CodeOptions) (*CodeImage, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, payload string, opts CodeOptions) (*CodeImage, error) {
	return f(ctx, payload, opts)
}

// Item is one coupon. Code is nil when the coupon has no code symbol.
type Item struct {
	GlobalIndex int
	Number      int
	Title       string
	Subtitle    string
	FooterText  string
	Code        *CodeImage
}

// HasCode reports whether the coupon carries a scannable code.
func (it Item) HasCode() bool {
	return it.Code != nil && len(it.Code.Data) > 0
}

// Payload returns the text encoded into the code of coupon number n.
func Payload(prefix, separator string, n int) string {
	return prefix + separator + strconv.Itoa(n)
}
