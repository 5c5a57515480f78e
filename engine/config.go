package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hupe1980/agenttree/scheduler"
)

// DefaultTickInterval is the tick period used by Run when none is configured.
const DefaultTickInterval = 50 * time.Millisecond

// ErrInvalidConfig is returned by LoadConfig for unknown keys or bad values.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config defines tuning parameters for the Engine.
//
// It can be declared in code or read from a TOML file:
//
//	workers = 8
//	tick_interval = "20ms"
//	stop_on_fault = true
type Config struct {
	// Workers sizes the fan-out pool shared by every tree of the engine.
	Workers int `toml:"workers"`

	// TickInterval is the period at which Run ticks each tree.
	TickInterval time.Duration `toml:"tick_interval"`

	// StopOnFault makes the first scheduler fault of any tree end the whole
	// tick pass (Tick) or every ticker (Run). When false only the faulting
	// tree is halted.
	StopOnFault bool `toml:"stop_on_fault"`
}

// DefaultConfig provides the baseline configuration.
var DefaultConfig = Config{
	Workers:      scheduler.DefaultWorkers,
	TickInterval: DefaultTickInterval,
	StopOnFault:  false,
}

// LoadConfig reads a TOML config file. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read engine config: %w", err)
	}

	return ParseConfig(string(data))
}

// ParseConfig decodes a TOML document into a Config based on DefaultConfig.
func ParseConfig(doc string) (Config, error) {
	cfg := DefaultConfig

	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects negative values. Zero values fall back to defaults at use.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("%w: tick_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c Config) tickInterval() time.Duration {
	if c.TickInterval <= 0 {
		return DefaultTickInterval
	}
	return c.TickInterval
}
