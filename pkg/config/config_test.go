// Copyright 2025 CardinalHQ, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fname, []byte(body), 0o644))
	return fname
}

func TestLoadConfigs_Defaults(t *testing.T) {
	cfg, err := LoadConfigs(nil)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 100, 1000, 10000, 100000}, cfg.Sizes)
	assert.Equal(t, []float64{0.7, 0.9, 0.95, 0.99}, cfg.Levels)
	assert.Equal(t, []uint64{0xfeedcafe, 0xdeadbeef, 0xbabeface}, cfg.Seeds)
	assert.Equal(t, "negativeBinomial", cfg.Distribution["type"])
	assert.Equal(t, DefaultDir, cfg.Output.Dir)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
	assert.Equal(t, 1, cfg.Workers)
	assert.False(t, cfg.IsDryrun())
	assert.False(t, cfg.Output.WritesManifest())
}

func TestLoadConfigs_Merge(t *testing.T) {
	first := writeFile(t, "first.yaml", `
sizes: [10, 20]
seeds: [0xfeedcafe]
distribution:
  p: 0.25
output:
  dir: out
`)
	second := writeFile(t, "second.yaml", `
levels: [0.5]
distribution:
  method: gammaPoisson
output:
  format: yaml
  manifest: true
workers: 4
dryrun: true
`)

	cfg, err := LoadConfigs([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20}, cfg.Sizes)
	assert.Equal(t, []float64{0.5}, cfg.Levels)
	assert.Equal(t, []uint64{0xfeedcafe}, cfg.Seeds)
	assert.Equal(t, map[string]any{
		"type":   "negativeBinomial",
		"r":      10,
		"p":      0.25,
		"method": "gammaPoisson",
	}, cfg.Distribution)
	assert.Equal(t, Output{
		Dir:          "out",
		Format:       "yaml",
		NameTemplate: DefaultNameTemplate,
		Manifest:     boolPtr(true),
	}, cfg.Output)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.IsDryrun())
}

func TestLoadConfigs_LaterFileClearsBooleans(t *testing.T) {
	on := writeFile(t, "on.yaml", "dryrun: true\noutput:\n  manifest: true\n")
	off := writeFile(t, "off.yaml", "dryrun: false\noutput:\n  manifest: false\n")
	unset := writeFile(t, "unset.yaml", "workers: 2\n")

	tests := []struct {
		name     string
		files    []string
		dryrun   bool
		manifest bool
	}{
		{"set", []string{on}, true, true},
		{"cleared", []string{on, off}, false, false},
		{"left alone", []string{on, unset}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfigs(tt.files)
			require.NoError(t, err)
			assert.Equal(t, tt.dryrun, cfg.IsDryrun())
			assert.Equal(t, tt.manifest, cfg.Output.WritesManifest())
		})
	}
}

func TestLoadConfigs_DoesNotMutateDefaults(t *testing.T) {
	fname := writeFile(t, "p.yaml", "distribution:\n  p: 0.5\n")
	_, err := LoadConfigs([]string{fname})
	require.NoError(t, err)
	assert.Equal(t, 0.1, Default().Distribution["p"])
}

func TestLoadConfigs_JSON(t *testing.T) {
	fname := writeFile(t, "grid.json", `{"sizes": [5], "levels": [0.9], "seeds": [1, 2]}`)
	cfg, err := LoadConfigs([]string{fname})
	require.NoError(t, err)
	assert.Equal(t, []int{5}, cfg.Sizes)
	assert.Equal(t, []float64{0.9}, cfg.Levels)
	assert.Equal(t, []uint64{1, 2}, cfg.Seeds)
}

func TestLoadConfigs_JSONUnknownField(t *testing.T) {
	fname := writeFile(t, "bad.json", `{"sizes": [5], "colour": "red"}`)
	_, err := LoadConfigs([]string{fname})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), fname))
}

func TestLoadConfigs_YAMLUnknownField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"top level", "level: [0.5]\nsize: [3]\n"},
		{"nested", "output:\n  directory: out\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fname := writeFile(t, "bad.yaml", tt.body)
			_, err := LoadConfigs([]string{fname})
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), fname))
		})
	}
}

func TestLoadConfigs_EmptyYAML(t *testing.T) {
	fname := writeFile(t, "empty.yaml", "")
	cfg, err := LoadConfigs([]string{fname})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigs_MissingFile(t *testing.T) {
	_, err := LoadConfigs([]string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	b, err := MarshalYAML(Default())
	require.NoError(t, err)
	fname := writeFile(t, "effective.yaml", string(b))

	var cfg Config
	require.NoError(t, LoadYAML(fname, &cfg))
	assert.Equal(t, Default().Seeds, cfg.Seeds)
	assert.Equal(t, Default().Output, cfg.Output)
}

func TestNewMapstructureDecoder_RejectsUnknownKeys(t *testing.T) {
	var target struct {
		R int `mapstructure:"r"`
	}
	decoder, err := NewMapstructureDecoder(&target)
	require.NoError(t, err)

	assert.Error(t, decoder.Decode(map[string]any{"r": 3, "q": 1}))
}
