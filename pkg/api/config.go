package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/style"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KUPON_"

// LoadOptions reads a YAML configuration file on top of DefaultOptions.
// Keys missing from the file keep their defaults; unknown keys and values of
// the wrong type are configuration errors.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: failed to read config: %w", errs.ErrInvalidConfiguration, err)
	}
	return DecodeOptions(bytes.NewReader(data))
}

// DecodeOptions decodes YAML configuration on top of DefaultOptions.
func DecodeOptions(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Options{}, fmt.Errorf("%w: failed to read config: %w", errs.ErrInvalidConfiguration, err)
	}
	if err := checkIntegers(data); err != nil {
		return Options{}, err
	}

	o := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: failed to decode config: %w", errs.ErrInvalidConfiguration, err)
	}
	return o, nil
}

// checkIntegers rejects non-integer scalars for integer options; the YAML
// decoder would truncate 2.5 to 2.
func checkIntegers(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: failed to decode config: %w", errs.ErrInvalidConfiguration, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}
	ints := integerKeys()
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if ints[key.Value] && val.ShortTag() != "!!int" {
			return fmt.Errorf("%w: line %d: %s must be an integer, got %q",
				errs.ErrInvalidConfiguration, val.Line, key.Value, val.Value)
		}
	}
	return nil
}

func integerKeys() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(Options{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Int {
			keys[strings.Split(f.Tag.Get("yaml"), ",")[0]] = true
		}
	}
	return keys
}

// LoadEnvFiles loads .env style files into the process environment,
// overriding variables already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Overload(p); err != nil {
			return fmt.Errorf("%w: failed to load %s: %w", errs.ErrInvalidConfiguration, p, err)
		}
	}
	return nil
}

// ApplyEnv overrides options from KUPON_* environment variables.
func ApplyEnv(o Options) (Options, error) {
	return applyEnv(o, os.LookupEnv)
}

func applyEnv(o Options, lookup func(string) (string, bool)) (Options, error) {
	var firstErr error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || firstErr != nil {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			firstErr = fmt.Errorf("%w: %s%s must be an integer, got %q", errs.ErrInvalidConfiguration, EnvPrefix, key, v)
			return
		}
		*dst = n
	}
	number := func(key string, dst *float64) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || firstErr != nil {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			firstErr = fmt.Errorf("%w: %s%s must be a number, got %q", errs.ErrInvalidConfiguration, EnvPrefix, key, v)
			return
		}
		*dst = f
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || firstErr != nil {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			firstErr = fmt.Errorf("%w: %s%s must be a boolean, got %q", errs.ErrInvalidConfiguration, EnvPrefix, key, v)
			return
		}
		*dst = b
	}

	integer("COUNT", &o.Count)
	integer("START", &o.StartingNumber)
	str("TITLE", &o.Title)
	str("SUBTITLE", &o.Subtitle)
	str("FOOTER", &o.FooterText)

	boolean("SHOW_CODE", &o.ShowCode)
	str("CODE_PREFIX", &o.CodePrefix)
	str("CODE_SEPARATOR", &o.CodeSeparator)
	integer("CODE_SIZE", &o.CodeSizePx)
	integer("CODE_MARGIN", &o.CodeMarginModules)
	if v, ok := lookup(EnvPrefix + "CODE_LEVEL"); ok {
		o.CodeLevel = coupon.RecoveryLevel(v)
	}

	if v, ok := lookup(EnvPrefix + "PAPER"); ok {
		o.PaperSize = layout.PaperSize(v)
	}
	if v, ok := lookup(EnvPrefix + "ORIENTATION"); ok {
		o.Orientation = layout.Orientation(v)
	}
	// One value for all four margins.
	margin := math.NaN()
	number("MARGIN", &margin)
	if !math.IsNaN(margin) {
		o.MarginTop, o.MarginRight, o.MarginBottom, o.MarginLeft = margin, margin, margin, margin
	}
	integer("COLUMNS", &o.Columns)
	integer("ROWS", &o.Rows)

	if v, ok := lookup(EnvPrefix + "COLOR_MODE"); ok {
		o.ColorMode = style.ColorMode(v)
	}
	if v, ok := lookup(EnvPrefix + "BORDER"); ok {
		o.BorderStyle = style.BorderStyle(v)
	}
	str("LOGO", &o.LogoPath)
	number("DPI", &o.DPI)
	integer("CONCURRENCY", &o.Concurrency)
	boolean("DEBUG", &o.Debug)

	if firstErr != nil {
		return Options{}, firstErr
	}
	return o, nil
}
