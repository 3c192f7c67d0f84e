package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/turingsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Name          string  `yaml:"name,omitempty"`
	A             float64 `yaml:"a"`
	B             float64 `yaml:"b"`
	Tau           float64 `yaml:"tau"`
	K             float64 `yaml:"k"`
	Size          int     `yaml:"size"`
	HalfWidth     float64 `yaml:"half_width"`
	TotalTime     float64 `yaml:"total_time"`
	SafetyFactor  float64 `yaml:"safety_factor"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers"`
	Validate      bool    `yaml:"validate"`
	SnapshotEvery int     `yaml:"snapshot_every"`
	HistoryEvery  int     `yaml:"history_every"`
	Init          string  `yaml:"init,omitempty"`

	// SeedSet is true when Seed was read from a file or assigned with Set,
	// so a deliberate seed of 0 can be told apart from an absent one.
	SeedSet bool `yaml:"-"`
}

var ErrUnknownKey = errors.New("config: unknown key")

const (
	DefaultHistoryEvery = 50
	DefaultInit         = "random"
)

func DefaultConfig() *Config {
	return &Config{
		A:            dynamo.DefaultA,
		B:            dynamo.DefaultB,
		Tau:          dynamo.DefaultTau,
		K:            dynamo.DefaultK,
		Size:         dynamo.DefaultSize,
		HalfWidth:    dynamo.DefaultHalfWidth,
		TotalTime:    dynamo.DefaultTotalTime,
		SafetyFactor: dynamo.DefaultSafetyFactor,
		Validate:     true,
		HistoryEvery: DefaultHistoryEvery,
		Init:         DefaultInit,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	var present struct {
		Seed *int64 `yaml:"seed"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, err
	}
	cfg.SeedSet = present.Seed != nil
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Sim converts the file representation into the driver configuration.
func (c *Config) Sim() dynamo.Config {
	return dynamo.Config{
		A:             c.A,
		B:             c.B,
		Tau:           c.Tau,
		K:             c.K,
		Size:          c.Size,
		HalfWidth:     c.HalfWidth,
		TotalTime:     c.TotalTime,
		SafetyFactor:  c.SafetyFactor,
		Seed:          c.Seed,
		Workers:       c.Workers,
		ValidateState: c.Validate,
		SnapshotEvery: c.SnapshotEvery,
	}
}

// Params derives and validates the run parameters.
func (c *Config) Params() (dynamo.Params, error) {
	return dynamo.Derive(c.Sim())
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Set assigns a numeric field by its YAML key. Integer fields are truncated.
func (c *Config) Set(key string, v float64) error {
	switch key {
	case "a":
		c.A = v
	case "b":
		c.B = v
	case "tau":
		c.Tau = v
	case "k":
		c.K = v
	case "size":
		c.Size = int(v)
	case "half_width":
		c.HalfWidth = v
	case "total_time":
		c.TotalTime = v
	case "safety_factor":
		c.SafetyFactor = v
	case "seed":
		c.Seed = int64(v)
		c.SeedSet = true
	case "workers":
		c.Workers = int(v)
	case "snapshot_every":
		c.SnapshotEvery = int(v)
	case "history_every":
		c.HistoryEvery = int(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}
