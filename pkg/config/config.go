// Package config reads the YAML configuration of the stopwatch.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wraith13/never-stop-watch/pkg/env"
	"github.com/wraith13/never-stop-watch/pkg/prog"
)

// Default tick intervals.
const (
	DefaultFastTick = 36 * time.Millisecond
	DefaultSlowTick = 360 * time.Millisecond
)

// ErrInvalid is wrapped by errors from Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration.
type Config struct {
	// FastTick is the interval of the high-resolution-timer event.
	FastTick time.Duration `yaml:"fast_tick"`
	// SlowTick is the interval of the timer event.
	SlowTick time.Duration `yaml:"slow_tick"`
	DB       string        `yaml:"db"`
	Log      string        `yaml:"log"`
	// Theme is written to the data of the root node before the first render.
	Theme string `yaml:"theme"`
	// Fallback renders nodes of unknown types as placeholders.
	Fallback bool `yaml:"fallback"`
	// MaxHeight crops painted frames when positive.
	MaxHeight int `yaml:"max_height"`
}

// Default returns the configuration used when there is no config file.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.FastTick <= 0 {
		c.FastTick = DefaultFastTick
	}
	if c.SlowTick <= 0 {
		c.SlowTick = DefaultSlowTick
	}
	if c.DB == "" {
		c.DB = defaultDB()
	}
}

// DefaultPath returns the path of the config file: $NSW_CONFIG if set, or
// nsw/config.yaml under the XDG config directory.
func DefaultPath() string {
	if p := os.Getenv(env.NSW_CONFIG); p != "" {
		return p
	}
	return filepath.Join(xdgDir(env.XDG_CONFIG_HOME, ".config"), "nsw", "config.yaml")
}

func defaultDB() string {
	if p := os.Getenv(env.NSW_DB); p != "" {
		return p
	}
	return filepath.Join(xdgDir(env.XDG_DATA_HOME, filepath.Join(".local", "share")), "nsw", "db.bolt")
}

func xdgDir(name, fallback string) string {
	if dir := os.Getenv(name); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv(env.HOME), fallback)
}

// Load reads the config file at path. A missing file yields the default
// configuration. Keys that do not name a field are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads a config from r and applies defaults.
func Decode(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	return c, nil
}

// Validate reports values that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.FastTick < 0:
		return fmt.Errorf("%w: negative fast_tick %v", ErrInvalid, c.FastTick)
	case c.SlowTick < 0:
		return fmt.Errorf("%w: negative slow_tick %v", ErrInvalid, c.SlowTick)
	case c.MaxHeight < 0:
		return fmt.Errorf("%w: negative max_height %d", ErrInvalid, c.MaxHeight)
	}
	return nil
}

// ApplyFlags overrides values with the flags that were given.
func (c *Config) ApplyFlags(f *prog.Flags) {
	if f.DB != "" {
		c.DB = f.DB
	}
	if f.Log != "" {
		c.Log = f.Log
	}
}

// FromFlags loads the config file named by -config, or the default one, and
// applies the flags.
func FromFlags(f *prog.Flags) (Config, error) {
	path := f.Config
	if path == "" {
		path = DefaultPath()
	}
	c, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	c.ApplyFlags(f)
	return c, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }
