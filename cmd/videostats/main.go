package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/schollz/progressbar/v3"

	"github.com/TomVdv187/CircusDailyVideoStats/config"
	"github.com/TomVdv187/CircusDailyVideoStats/engine"
	"github.com/TomVdv187/CircusDailyVideoStats/helpers"
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
	"github.com/TomVdv187/CircusDailyVideoStats/store"
)

// ============================================================================
// VIDEOSTATS CLI — Circus Daily video performance from spreadsheet exports
// ============================================================================

const version = "0.3.0"

const storeEnv = "VIDEOSTATS_STORE_DSN"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	targetPath := flag.String("target", "", "Path to the target export, .xlsx or .csv (required)")
	targetSheet := flag.String("target-sheet", "", `Sheet holding the target rows (default "Raw data")`)
	referencePath := flag.String("reference", "", "Path to the reference publisher export")
	referenceSheet := flag.String("reference-sheet", "", "Sheet holding the reference rows (default: first sheet)")
	variantName := flag.String("variant", "", "Pipeline preset: top100, raw-top100, comparison, language")
	configPath := flag.String("config", "", "Path to a JSON run config")
	format := flag.String("format", "json", "Output format: json, pretty, text, csv")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	storeDSN := flag.String("store", "", "Persist each run to a database (sqlite path or mysql:// URL)")
	watch := flag.String("watch", "", `Recompute on a cron schedule, e.g. "@every 15m" or "0 7 * * *"`)
	quiet := flag.Bool("quiet", false, "Disable the load progress bar")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `VideoStats — Circus Daily video performance from spreadsheet exports

Usage:
  videostats --target circus.xlsx --format text
  videostats --target circus.xlsx --reference pro-league.xlsx --variant comparison --format pretty
  videostats --target circus.xlsx --format csv --out leaderboards.csv
  videostats --target circus.xlsx --store history.sqlite --watch "@every 1h"

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  %s    Store DSN when --store and the config omit one

Variants:
  top100       group duplicate titles, rank by streams, keep 100 (default)
  raw-top100   keep the first 100 export rows, then group
  comparison   add a reference publisher selected by title keywords
  language     comparison plus French/Dutch title tagging

Formats:
  json      Full summary as JSON (default)
  pretty    Pretty-printed JSON
  text      Cards, monthly table, leaderboards and benchmarks
  csv       Leaderboards and monthly rollup (ready for Sheets/Excel)
`, storeEnv)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("videostats %s\n", version)
		os.Exit(0)
	}

	if *targetPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --target is required")
		flag.Usage()
		os.Exit(1)
	}

	switch *format {
	case "json", "pretty", "text", "csv":
	default:
		fatalf("Unknown --format %q", *format)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalf("%v", err)
		}
		cfg = loaded
		log.Printf("📋 Loaded config %s", *configPath)
	}
	if *variantName != "" {
		cfg.Variant = *variantName
	}
	if *targetSheet != "" {
		cfg.Sheets.Target = *targetSheet
	}
	if *referenceSheet != "" {
		cfg.Sheets.Reference = *referenceSheet
	}
	if *storeDSN != "" {
		cfg.Store = *storeDSN
	}
	if cfg.Store == "" {
		cfg.Store = os.Getenv(storeEnv)
	}

	opts, err := cfg.Options()
	if err != nil {
		fatalf("Invalid configuration: %v", err)
	}

	// ── Store ─────────────────────────────────────────────────────────────
	var st *store.Store
	if cfg.Store != "" {
		st, err = store.Open(cfg.Store)
		if err != nil {
			fatalf("Failed to open store: %v", err)
		}
		defer st.Close()
		if err := st.Migrate(context.Background()); err != nil {
			fatalf("Failed to migrate store: %v", err)
		}
		log.Printf("💾 Store ready (%s)", st.Driver())
	}

	r := &runner{
		cfg:           cfg,
		opts:          opts,
		targetPath:    *targetPath,
		referencePath: *referencePath,
		format:        *format,
		outFile:       *outFile,
		progress:      !*quiet,
		store:         st,
	}

	// ── Single run ────────────────────────────────────────────────────────
	if *watch == "" {
		if err := r.run(context.Background()); err != nil {
			fatalf("%v", err)
		}
		return
	}

	// ── Watch mode ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(*watch, func() {
		if err := r.run(ctx); err != nil {
			log.Printf("⚠️ Scheduled run failed: %v", err)
		}
	}); err != nil {
		fatalf("Invalid --watch schedule: %v", err)
	}

	if err := r.run(ctx); err != nil {
		log.Printf("⚠️ Initial run failed: %v", err)
	}
	c.Start()
	log.Printf("⏱️ Watching %s (schedule %q), Ctrl-C to stop", *targetPath, *watch)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Printf("👋 Stopped")
}

// ============================================================================
// RUNNER — load → session → render → persist
// ============================================================================

type runner struct {
	cfg           config.Config
	opts          []engine.Option
	targetPath    string
	referencePath string
	format        string
	outFile       string
	progress      bool
	store         *store.Store

	once    sync.Once
	session *engine.Session
}

// run reloads every source into the session and recomputes. A source that
// fails to reload keeps its previous rows.
func (r *runner) run(ctx context.Context) error {
	target, err := r.load(r.targetPath, r.cfg.Sheets.Target)
	if err != nil && r.session == nil {
		return err
	}

	r.once.Do(func() {
		opts := r.opts
		if r.cfg.Fields == nil {
			found := schema.Discover(target.Headers)
			log.Printf("🔍 Auto-Detect: %d fields matched, %d missing %v",
				len(found.Matched), len(found.Missing), found.Missing)
			opts = append(append([]engine.Option(nil), opts...), engine.WithFields(found.Fields))
		}
		r.session = engine.NewSession(opts...)
	})

	if err != nil {
		log.Printf("⚠️ Keeping previous target rows: %v", err)
	} else {
		r.session.SetTarget(target.Rows)
	}

	if r.referencePath != "" {
		reference, err := r.load(r.referencePath, r.cfg.Sheets.Reference)
		if err != nil {
			log.Printf("⚠️ Reference not loaded: %v", err)
		} else {
			r.session.SetReference(reference.Rows)
		}
	}

	summary, err := r.session.Run()
	if errors.Is(err, engine.ErrNotReady) {
		return fmt.Errorf("variant %q needs a loaded --reference: %w", r.cfg.Variant, err)
	}
	if err != nil {
		return err
	}

	if err := r.render(summary); err != nil {
		return err
	}

	if r.store != nil {
		if _, err := r.store.Save(ctx, summary); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}
	return nil
}

func (r *runner) load(path, sheet string) (*helpers.Table, error) {
	format, err := helpers.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == helpers.FormatCSV {
		sheet = ""
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var src io.Reader = f
	if r.progress {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		bar := progressbar.DefaultBytes(info.Size(), "loading "+filepath.Base(path))
		defer bar.Finish()
		src = io.TeeReader(f, bar)
	}

	table, err := helpers.Decode(src, format, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	log.Printf("📊 Parsed %d rows from %s", len(table.Rows), filepath.Base(path))
	return table, nil
}

func (r *runner) render(summary *engine.Summary) error {
	var w io.Writer = os.Stdout
	if r.outFile != "" {
		f, err := os.Create(r.outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch r.format {
	case "csv":
		err = writeCSV(w, summary)
	case "text":
		err = writeText(w, summary)
	default:
		err = writeJSON(w, summary, r.format)
	}
	if err != nil {
		return err
	}
	if r.outFile != "" {
		log.Printf("📄 Output written to %s", r.outFile)
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
