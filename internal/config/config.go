// Package config loads the strata.toml manifest that configures tracing,
// recording and the executor for CLI runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"strata/internal/trace"
)

// TraceSection configures the live tracer.
type TraceSection struct {
	Level  string `toml:"level"`  // off|error|patch|call|debug
	Mode   string `toml:"mode"`   // stream|ring|both
	Output string `toml:"output"` // file path or "-" for stderr
	Ring   int    `toml:"ring"`   // ring buffer size
}

// RecordSection configures the msgpack recorder.
type RecordSection struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// ExecutorSection configures async scheduling.
type ExecutorSection struct {
	Fuzz bool   `toml:"fuzz"`
	Seed uint64 `toml:"seed"`
}

// Config is the parsed strata.toml.
type Config struct {
	Trace    TraceSection    `toml:"trace"`
	Record   RecordSection   `toml:"record"`
	Executor ExecutorSection `toml:"executor"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Trace:  TraceSection{Level: "off", Mode: "ring", Output: "-", Ring: 4096},
		Record: RecordSection{Dir: "records", Level: "patch"},
	}
}

// Load parses a strata.toml file. Sections left undefined keep their
// defaults; defined values are validated eagerly so a bad manifest fails at
// startup, not mid-run.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if meta.IsDefined("trace", "mode") {
		if _, err := trace.ParseMode(cfg.Trace.Mode); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if meta.IsDefined("record", "level") {
		if _, err := trace.ParseLevel(cfg.Record.Level); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if strings.TrimSpace(cfg.Record.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [record].dir must not be empty", path)
	}
	return cfg, nil
}

// FindStrataToml walks up from startDir to locate strata.toml.
func FindStrataToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "strata.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest manifest above startDir, falling back to the
// defaults when none exists.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := FindStrataToml(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// TraceConfig converts the manifest section into a tracer configuration.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	if level == trace.LevelOff {
		return trace.Config{Level: trace.LevelOff}, nil
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.Ring,
	}, nil
}
