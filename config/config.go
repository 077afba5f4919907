// Package config loads the YAML settings shared by bodysync tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/plus3/bodysync/internal/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Log       LogConfig       `yaml:"log"`
	World     WorldConfig     `yaml:"world"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sync      SyncConfig      `yaml:"sync"`
	Stress    StressConfig    `yaml:"stress"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type WorldConfig struct {
	Gravity Vec3 `yaml:"gravity"`
}

type SchedulerConfig struct {
	Tick time.Duration `yaml:"tick"`
}

type SyncConfig struct {
	// Strict turns a stale body handle in the output pass into a panic.
	Strict bool `yaml:"strict"`
}

type StressConfig struct {
	Duration      time.Duration `yaml:"duration"`
	Entities      int           `yaml:"entities"`
	ChurnPerTick  int           `yaml:"churn_per_tick"`
	Writers       int           `yaml:"writers"`
	WriteInterval time.Duration `yaml:"write_interval"`
	Profile       string        `yaml:"profile"`
}

func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info", Encoding: "json"},
		World:     WorldConfig{Gravity: Vec3{Y: -9.81}},
		Scheduler: SchedulerConfig{Tick: 16 * time.Millisecond},
		Stress: StressConfig{
			Duration:      10 * time.Second,
			Entities:      1000,
			ChurnPerTick:  10,
			Writers:       1,
			WriteInterval: 5 * time.Millisecond,
		},
	}
}

// Load reads YAML from r on top of the defaults and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding %q", ErrInvalid, c.Log.Encoding)
	}
	if c.Scheduler.Tick <= 0 {
		return fmt.Errorf("%w: scheduler.tick must be positive", ErrInvalid)
	}
	s := c.Stress
	if s.Duration <= 0 {
		return fmt.Errorf("%w: stress.duration must be positive", ErrInvalid)
	}
	if s.Entities < 0 || s.ChurnPerTick < 0 || s.Writers < 0 {
		return fmt.Errorf("%w: stress counts must not be negative", ErrInvalid)
	}
	if s.Writers > 0 && s.WriteInterval <= 0 {
		return fmt.Errorf("%w: stress.write_interval must be positive", ErrInvalid)
	}
	switch s.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%w: stress.profile %q", ErrInvalid, s.Profile)
	}
	return nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level, c.Log.Encoding)
}
