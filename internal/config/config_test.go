// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ucdemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 8
enqueue_ratio: 0.75
log:
  level: debug
  file: /tmp/ucdemo.log
metrics:
  addr: ":9100"
check:
  enabled: true
  viz_path: viz.html
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 0.75, cfg.EnqueueRatio)
	assert.Equal(t, Default().OpsPerWorker, cfg.OpsPerWorker, "unset keys keep defaults")
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/ucdemo.log", cfg.Log.File)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.True(t, cfg.Check.Enabled)
	assert.Equal(t, "viz.html", cfg.Check.VizPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "workers: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative ops", func(c *Config) { c.OpsPerWorker = -1 }},
		{"ratio above one", func(c *Config) { c.EnqueueRatio = 1.5 }},
		{"ratio below zero", func(c *Config) { c.EnqueueRatio = -0.1 }},
		{"unknown level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "workers: -2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be positive")
}
