// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the workload configuration for the ucdemo command.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a stress run against a shared queue.
type Config struct {
	Workers      int     `yaml:"workers"`
	OpsPerWorker int     `yaml:"ops_per_worker"`
	EnqueueRatio float64 `yaml:"enqueue_ratio"`
	Seed         uint64  `yaml:"seed"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Check   CheckConfig   `yaml:"check"`
}

// LogConfig selects the log level and an optional rotated file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// CheckConfig controls the linearizability check of the recorded history.
type CheckConfig struct {
	Enabled bool `yaml:"enabled"`
	// VizPath receives a porcupine visualization when the check fails.
	VizPath string `yaml:"viz_path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:      4,
		OpsPerWorker: 1000,
		EnqueueRatio: 0.5,
		Seed:         1,
		Log:          LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot drive a run.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.OpsPerWorker < 0 {
		return errors.Errorf("ops_per_worker must not be negative, got %d", c.OpsPerWorker)
	}
	if c.EnqueueRatio < 0 || c.EnqueueRatio > 1 {
		return errors.Errorf("enqueue_ratio must be in [0, 1], got %v", c.EnqueueRatio)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
