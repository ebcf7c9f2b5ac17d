package coupon

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kuponqurban/kupon/internal/errs"
)

// Options is the content template and numbering scheme of a run.
type Options struct {
	Count          int
	StartingNumber int

	Title      string
	Subtitle   string
	FooterText string

	ShowCode      bool
	CodePrefix    string
	CodeSeparator string
	Code          CodeOptions

	// Concurrency bounds the number of encoder calls in flight.
	Concurrency int
}

// DefaultOptions returns the options of a fresh form.
func DefaultOptions() Options {
	return Options{
		Count:          10,
		StartingNumber: 1,
		Title:          "KUPON QURBAN",
		Subtitle:       "Idul Adha 1446 H",
		FooterText:     "Masjid Al-Iman",
		ShowCode:       true,
		CodePrefix:     "QURBAN",
		CodeSeparator:  "-",
		Code: CodeOptions{
			SizePx:        100,
			Level:         RecoveryMedium,
			MarginModules: 2,
		},
		Concurrency: 8,
	}
}

// Validate checks the options that would otherwise abort a run midway.
func (o Options) Validate() error {
	if o.Count < 0 {
		return fmt.Errorf("%w: negative coupon count %d", errs.ErrInvalidConfiguration, o.Count)
	}
	if o.ShowCode && o.Code.SizePx < 0 {
		return fmt.Errorf("%w: negative code size %d", errs.ErrInvalidConfiguration, o.Code.SizePx)
	}
	return nil
}

// Generator produces the coupons of a run.
type Generator struct {
	options Options
	encoder Encoder
	Logger  *slog.Logger
}

// NewGenerator creates a generator. A nil encoder leaves every coupon
// without a code.
func NewGenerator(options Options, encoder Encoder) *Generator {
	return &Generator{options: options, encoder: encoder}
}

// Options returns the generator options.
func (g *Generator) Options() Options {
	return g.options
}

// Generate returns Count coupons numbered from StartingNumber. A code that
// fails to encode is logged and left out; only configuration errors and
// cancellation fail the run.
func (g *Generator) Generate(ctx context.Context) ([]Item, error) {
	o := g.options
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]Item, o.Count)
	for i := range items {
		items[i] = Item{
			GlobalIndex: i,
			Number:      o.StartingNumber + i,
			Title:       o.Title,
			Subtitle:    o.Subtitle,
			FooterText:  o.FooterText,
		}
	}

	if !o.ShowCode || len(items) == 0 {
		return items, nil
	}
	if g.encoder == nil {
		g.logger().WarnContext(ctx, "no code encoder configured, coupons will have no code",
			"count", len(items))
		return items, nil
	}

	limit := o.Concurrency
	if limit < 1 {
		limit = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i := range items {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			payload := Payload(o.CodePrefix, o.CodeSeparator, items[i].Number)
			img, err := g.encoder.Encode(egCtx, payload, o.Code)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				g.logger().WarnContext(ctx, "code generation failed, coupon left without code",
					"number", items[i].Number,
					"error", fmt.Errorf("%w: %s: %w", errs.ErrCodeGeneration, payload, err))
				return nil
			}
			if img != nil && img.Payload == "" {
				img.Payload = payload
			}
			items[i].Code = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
