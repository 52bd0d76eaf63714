package main

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/chazu/platecheck/pkg/collision"
	"github.com/chazu/platecheck/pkg/engine"
	"github.com/chazu/platecheck/pkg/kernel/sdfx"
	"github.com/chazu/platecheck/pkg/scene"
)

// Config holds the checker configuration.
type Config struct {
	Mode      collision.Mode `yaml:"mode"`
	Workers   int            `yaml:"workers"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"` // "console" or "json"
	MeshCells int            `yaml:"mesh_cells"` // marching cubes cells along the longest axis
	CacheDir  string         `yaml:"cache_dir"`  // fetched models; empty means a temp dir per run
	Timeout   time.Duration  `yaml:"timeout"`    // Lisp layout evaluation limit
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:      collision.ModeCompatible,
		Workers:   runtime.GOMAXPROCS(0),
		LogLevel:  "info",
		LogFormat: "console",
		MeshCells: sdfx.DefaultMeshCells,
		Timeout:   engine.EvalTimeout,
	}
}

// LoadConfig reads a YAML config file. Fields the file leaves out keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["mode"] {
		cfg.Mode = fromFile.Mode
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	if !explicitFlags["log-format"] {
		cfg.LogFormat = fromFile.LogFormat
	}
	if !explicitFlags["mesh-cells"] {
		cfg.MeshCells = fromFile.MeshCells
	}
	if !explicitFlags["cache-dir"] {
		cfg.CacheDir = fromFile.CacheDir
	}
	if !explicitFlags["timeout"] {
		cfg.Timeout = fromFile.Timeout
	}
}

// detectorOptions resolves the detector settings. A layout's detector block
// overrides the config, and explicit flags override the layout.
func detectorOptions(cfg *Config, d scene.Detector, explicitFlags map[string]bool) collision.Options {
	opts := d.Apply(collision.Options{Mode: cfg.Mode, Workers: cfg.Workers})
	if explicitFlags["mode"] {
		opts.Mode = cfg.Mode
	}
	if explicitFlags["workers"] {
		opts.Workers = cfg.Workers
	}
	return opts
}

// newLogger builds the CLI logger. Output goes to stderr so stdout carries
// only the report.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	encoder := zap.NewProductionEncoderConfig()
	switch format {
	case "json":
	case "console", "":
		format = "console"
		encoder = zap.NewDevelopmentEncoderConfig()
		encoder.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	default:
		return nil, errors.Errorf("unknown log format %q, expected console or json", format)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      false,
		Encoding:         format,
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}
