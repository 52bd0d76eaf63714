// Command platecheck reports which objects on a print plate collide with
// each other or leave the printable envelope.
//
//	platecheck [flags] layout.yaml|layout.lisp
//
// It exits 0 when the plate is clear, 1 when any object is flagged and 2
// on error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/chazu/platecheck/pkg/engine"
	"github.com/chazu/platecheck/pkg/kernel/sdfx"
	"github.com/chazu/platecheck/pkg/meshio"
	"github.com/chazu/platecheck/pkg/scene"
)

const (
	exitOK       = 0
	exitCollides = 1
	exitError    = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("platecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	fs.TextVar(&cfg.Mode, "mode", cfg.Mode, "collision mode: compatible or exact")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers in exact mode")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")
	fs.IntVar(&cfg.MeshCells, "mesh-cells", cfg.MeshCells, "tessellation cells for primitive shapes")
	fs.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "directory for fetched models")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Lisp layout evaluation timeout")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: platecheck [flags] layout.yaml|layout.lisp")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitError
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if *configPath != "" {
		fromFile, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "platecheck: %v\n", err)
			return exitError
		}
		Merge(cfg, fromFile, explicit)
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "platecheck: %v\n", err)
		return exitError
	}
	defer log.Sync()

	report, err := check(ctx, cfg, explicit, fs.Arg(0), log)
	if err != nil {
		log.Error("check failed", zap.String("layout", fs.Arg(0)), zap.Error(err))
		fmt.Fprintf(stderr, "platecheck: %v\n", err)
		return exitError
	}

	printReport(stdout, report)
	if !report.OK() {
		return exitCollides
	}
	return exitOK
}

// check loads, builds and checks one layout file.
func check(ctx context.Context, cfg *Config, explicit map[string]bool, path string, log *zap.Logger) (*scene.Report, error) {
	layout, err := loadLayout(path, cfg)
	if err != nil {
		return nil, err
	}

	loader := meshio.NewLoader(filepath.Dir(path), log)
	loader.CacheDir = cfg.CacheDir

	objs, err := scene.Build(ctx, layout, sdfx.NewWithCells(cfg.MeshCells), loader, log)
	if err != nil {
		return nil, err
	}

	opts := detectorOptions(cfg, layout.Detector, explicit)
	opts.Logger = log
	report, err := scene.Check(ctx, objs, layout.Envelope.Box(), opts)
	if err != nil {
		return nil, err
	}

	log.Info("plate checked",
		zap.String("layout", path),
		zap.Stringer("mode", opts.Mode),
		zap.Int("objects", report.Stats.Objects),
		zap.Int("colliding", len(report.Colliding())),
		zap.Int("pairs_tested", report.Stats.PairsTested),
		zap.Int("outside", report.Stats.Outside),
	)
	return report, nil
}

// loadLayout picks the layout reader from the file extension.
func loadLayout(path string, cfg *Config) (*scene.Layout, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return scene.Load(path)
	case ".lisp", ".zy":
		eng := engine.NewEngine()
		eng.Timeout = cfg.Timeout
		return eng.EvaluateFile(path)
	}
	return nil, fmt.Errorf("%s: unsupported layout format, expected .yaml, .yml or .lisp", path)
}

func printReport(w io.Writer, r *scene.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range r.Verdicts {
		status := "ok"
		if v.Colliding {
			status = "COLLIDES"
		}
		fmt.Fprintf(tw, "%s\t%s\n", status, v.Name)
	}
	tw.Flush()

	n := len(r.Colliding())
	if n == 0 {
		fmt.Fprintf(w, "plate clear: %d objects\n", len(r.Verdicts))
		return
	}
	fmt.Fprintf(w, "%d of %d objects collide or leave the envelope\n", n, len(r.Verdicts))
}
