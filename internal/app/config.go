package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"morphgrid/internal/graph"
	"morphgrid/internal/grid"
	"morphgrid/internal/schedule"
	"morphgrid/internal/surface"
)

// ErrConfigFormat is returned for config files with an unsupported extension.
var ErrConfigFormat = errors.New("app: unsupported config file format")

// Config represents the run parameters, from flags or a config file.
type Config struct {
	Resolution         int     `toml:"resolution" yaml:"resolution"`
	FunctionDuration   float64 `toml:"function_duration" yaml:"function_duration"`
	TransitionDuration float64 `toml:"transition_duration" yaml:"transition_duration"`
	Function           string  `toml:"function" yaml:"function"`
	Mode               string  `toml:"mode" yaml:"mode"`
	Strategy           string  `toml:"strategy" yaml:"strategy"`
	Workers            int     `toml:"workers" yaml:"workers"`
	Seed               int64   `toml:"seed" yaml:"seed"`
	Scale              int     `toml:"scale" yaml:"scale"`
	TPS                int     `toml:"tps" yaml:"tps"`
	Size               int     `toml:"size" yaml:"size"`
	LogLevel           string  `toml:"log_level" yaml:"log_level"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Resolution:         200,
		FunctionDuration:   1,
		TransitionDuration: 1,
		Function:           surface.Wave.String(),
		Mode:               schedule.Cycle.String(),
		Strategy:           "tiled",
		Seed:               42,
		Scale:              1,
		TPS:                60,
		Size:               720,
		LogLevel:           "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Resolution, "resolution", c.Resolution, fmt.Sprintf("samples per axis [%d, %d]", grid.MinResolution, grid.MaxResolution))
	fs.Float64Var(&c.FunctionDuration, "function-duration", c.FunctionDuration, "seconds each function is shown")
	fs.Float64Var(&c.TransitionDuration, "transition-duration", c.TransitionDuration, "seconds each morph lasts")
	fs.StringVar(&c.Function, "function", c.Function, "start function: "+strings.Join(functionNames(), ", "))
	fs.StringVar(&c.Mode, "mode", c.Mode, "transition mode: cycle or random")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "evaluation strategy: "+strings.Join(append(grid.Strategies(), "gpu"), ", "))
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines for the tiled strategy (0 = GOMAXPROCS)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random transitions")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second; 0 follows the wall clock")
	fs.IntVar(&c.Size, "size", c.Size, "view edge in pixels")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

func functionNames() []string {
	ids := surface.Functions()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}

// Load merges a TOML or YAML file into c, chosen by extension. Keys missing
// from the file keep their current values.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, path)
	}
	if err != nil {
		return fmt.Errorf("app: parse %s: %w", path, err)
	}
	return nil
}

// LoadFile loads path and then re-applies the flags explicitly set on fs, so
// the command line wins over the file.
func (c *Config) LoadFile(fs *flag.FlagSet, path string) error {
	set := map[string]string{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
	if err := c.Load(path); err != nil {
		return err
	}
	for name, v := range set {
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("app: flag -%s: %w", name, err)
		}
	}
	return nil
}

// FromMap applies flag-style key/value overrides. Values that do not parse
// are ignored.
func (c *Config) FromMap(cfg map[string]string) {
	if cfg == nil {
		return
	}
	if v, ok := cfg["resolution"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Resolution = parsed
		}
	}
	if v, ok := cfg["function_duration"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.FunctionDuration = parsed
		}
	}
	if v, ok := cfg["transition_duration"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.TransitionDuration = parsed
		}
	}
	if v, ok := cfg["function"]; ok {
		c.Function = v
	}
	if v, ok := cfg["mode"]; ok {
		c.Mode = v
	}
	if v, ok := cfg["strategy"]; ok {
		c.Strategy = v
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
}

// Graph converts the run parameters into a validated graph configuration.
func (c *Config) Graph() (graph.Config, error) {
	fn, err := surface.ParseFunctionID(c.Function)
	if err != nil {
		return graph.Config{}, err
	}
	mode, err := schedule.ParseMode(c.Mode)
	if err != nil {
		return graph.Config{}, err
	}
	gc := graph.Config{
		Grid: grid.Config{Resolution: c.Resolution},
		Schedule: schedule.Config{
			FunctionDuration:   float32(c.FunctionDuration),
			TransitionDuration: float32(c.TransitionDuration),
			Start:              fn,
			Mode:               mode,
			Seed:               c.Seed,
		},
	}
	if err := gc.Validate(); err != nil {
		return graph.Config{}, err
	}
	return gc, nil
}

// Validate reports the first invalid parameter.
func (c *Config) Validate() error {
	if _, err := c.Graph(); err != nil {
		return err
	}
	if c.Strategy != "gpu" {
		if _, ok := grid.Evaluators()[c.Strategy]; !ok {
			return fmt.Errorf("%w: %q", grid.ErrUnknownStrategy, c.Strategy)
		}
	}
	return nil
}

// Evaluator builds the CPU evaluator named by Strategy.
func (c *Config) Evaluator() (grid.Evaluator, error) {
	return grid.New(c.Strategy, map[string]string{"workers": strconv.Itoa(c.Workers)})
}
