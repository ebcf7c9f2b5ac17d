package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kuponqurban/kupon"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/prefs"
)

type flags struct {
	configFile  string
	outputFile  string
	format      string
	count       int
	start       int
	paper       string
	orientation string
	columns     int
	rows        int
	measure     string
	prefsFile   string
	toggleTheme bool
	verbose     bool
}

func main() {
	var f flags
	flag.StringVar(&f.configFile, "config", "", "YAML configuration file")
	flag.StringVar(&f.outputFile, "output", "", "Output file path (default kupon.pdf or kupon.html)")
	flag.StringVar(&f.format, "format", "pdf", "Output format: pdf, html, capture or print")
	flag.IntVar(&f.count, "count", 0, "Number of coupons")
	flag.IntVar(&f.start, "start", 0, "First coupon number")
	flag.StringVar(&f.paper, "paper", "", "Paper size: A4, A5, Letter or Legal")
	flag.StringVar(&f.orientation, "orientation", "", "Page orientation: portrait or landscape")
	flag.IntVar(&f.columns, "columns", 0, "Grid columns")
	flag.IntVar(&f.rows, "rows", 0, "Grid rows")
	flag.StringVar(&f.measure, "measure", "none", "Cell measurement: none, metrics or browser")
	flag.StringVar(&f.prefsFile, "prefs", "", "Preferences file (default under the user config directory)")
	flag.BoolVar(&f.toggleTheme, "toggle-theme", false, "Toggle the saved light/dark preview theme")
	flag.BoolVar(&f.verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, kupon.ErrInvalidConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, logger *slog.Logger) error {
	if err := kupon.LoadEnvFiles(".env"); err != nil {
		return err
	}

	opts := kupon.DefaultOptions()
	if f.configFile != "" {
		var err error
		if opts, err = kupon.LoadOptions(f.configFile); err != nil {
			return err
		}
	}
	opts, err := kupon.ApplyEnv(opts)
	if err != nil {
		return err
	}
	if opts, err = applyFlags(opts, f); err != nil {
		return err
	}
	opts.Debug = opts.Debug || f.verbose

	store, err := openPrefs(f.prefsFile, logger)
	if err != nil {
		return err
	}
	dark := store.Get().DarkMode
	if f.toggleTheme {
		if dark, err = store.ToggleDarkMode(); err != nil {
			return err
		}
		fmt.Printf("Preview theme: %s\n", theme(dark))
	}

	format, err := kupon.ParseFormat(f.format)
	if err != nil {
		return err
	}
	mode, err := kupon.ParseMeasureMode(f.measure)
	if err != nil {
		return err
	}

	g := kupon.NewWithOptions(opts).WithLogger(logger)
	r, err := g.Generate(ctx, mode)
	if err != nil {
		return err
	}

	output := f.outputFile
	if output == "" {
		output = "kupon" + extension(format)
	}
	if err := g.ExportToFile(ctx, r, format, output, dark); err != nil {
		return err
	}

	logger.Debug("layout",
		"paper", opts.PaperSize, "orientation", opts.Orientation,
		"columns", r.Layout.Columns, "rows", r.Layout.Rows,
		"cell_width_mm", r.Layout.CellWidthMm, "cell_height_mm", r.Layout.CellHeightMm,
		"strategy", r.Layout.Strategy)
	fmt.Printf("Wrote %d coupons on %d pages to %s\n", len(r.Items), r.PageCount(), output)
	return nil
}

// applyFlags overrides options with the flags given on the command line.
func applyFlags(o kupon.Options, f flags) (kupon.Options, error) {
	var err error
	flag.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "count":
			o.Count = f.count
		case "start":
			o.StartingNumber = f.start
		case "paper":
			o.PaperSize, err = layout.ParsePaperSize(f.paper)
		case "orientation":
			o.Orientation, err = layout.ParseOrientation(f.orientation)
		case "columns":
			o.Columns = f.columns
		case "rows":
			o.Rows = f.rows
		}
	})
	return o, err
}

func openPrefs(path string, logger *slog.Logger) (*prefs.Store, error) {
	if path == "" {
		var err error
		if path, err = prefs.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := prefs.NewStore(path)
	store.Logger = logger
	store.Load()
	return store, nil
}

func extension(f kupon.Format) string {
	if f == kupon.FormatHTML {
		return ".html"
	}
	return ".pdf"
}

func theme(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
