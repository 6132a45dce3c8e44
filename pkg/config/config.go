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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full description of a corpus run. The grid is
// sizes × levels × seeds, enumerated in that order.
type Config struct {
	Sizes        []int          `mapstructure:"sizes" yaml:"sizes" json:"sizes"`
	Levels       []float64      `mapstructure:"levels" yaml:"levels" json:"levels"`
	Seeds        []uint64       `mapstructure:"seeds" yaml:"seeds" json:"seeds"`
	Distribution map[string]any `mapstructure:"distribution" yaml:"distribution" json:"distribution"`
	Output       Output         `mapstructure:"output" yaml:"output" json:"output"`
	Workers      int            `mapstructure:"workers" yaml:"workers" json:"workers"`
	// Dryrun is nil when a file leaves it unset, so a later file can turn
	// it off again.
	Dryrun *bool `mapstructure:"dryrun" yaml:"dryrun" json:"dryrun"`
}

type Output struct {
	Dir          string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Format       string `mapstructure:"format" yaml:"format" json:"format"`
	NameTemplate string `mapstructure:"nameTemplate" yaml:"nameTemplate" json:"nameTemplate"`
	Manifest     *bool  `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
}

func (c *Config) IsDryrun() bool {
	return c.Dryrun != nil && *c.Dryrun
}

func (o Output) WritesManifest() bool {
	return o.Manifest != nil && *o.Manifest
}

func boolPtr(b bool) *bool {
	return &b
}

const (
	DefaultDir          = "tests/cases"
	DefaultFormat       = "toml"
	DefaultNameTemplate = "case_size_{{ .Size }}_lvl_{{ .Level }}_no_{{ .Case }}"
)

// Default returns the reference grid: five sample sizes, four confidence
// levels and three seeds drawn from a negative binomial with r=10, p=0.1.
func Default() *Config {
	return &Config{
		Sizes:  []int{10, 100, 1_000, 10_000, 100_000},
		Levels: []float64{0.7, 0.9, 0.95, 0.99},
		Seeds:  []uint64{0xfeedcafe, 0xdeadbeef, 0xbabeface},
		Distribution: map[string]any{
			"type":   "negativeBinomial",
			"r":      10,
			"p":      0.1,
			"method": "geometric",
		},
		Output: Output{
			Dir:          DefaultDir,
			Format:       DefaultFormat,
			NameTemplate: DefaultNameTemplate,
			Manifest:     boolPtr(false),
		},
		Workers: 1,
		Dryrun:  boolPtr(false),
	}
}

// LoadConfigs loads the named files in order on top of Default().
// Grid dimensions are replaced wholesale by the last file that sets them;
// distribution keys are merged. A boolean set in a later file wins in
// either direction. Unknown keys are an error.
func LoadConfigs(fnames []string) (*Config, error) {
	merged := Default()
	for _, fname := range fnames {
		slog.Info("Loading config", "file", fname)
		config, err := loadConfig(fname)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		merge(merged, config)
	}
	return merged, nil
}

func merge(merged, config *Config) {
	if len(config.Sizes) > 0 {
		merged.Sizes = slices.Clone(config.Sizes)
	}
	if len(config.Levels) > 0 {
		merged.Levels = slices.Clone(config.Levels)
	}
	if len(config.Seeds) > 0 {
		merged.Seeds = slices.Clone(config.Seeds)
	}
	if config.Distribution != nil {
		if merged.Distribution == nil {
			merged.Distribution = make(map[string]any)
		}
		maps.Copy(merged.Distribution, config.Distribution)
	}
	if config.Output.Dir != "" {
		merged.Output.Dir = config.Output.Dir
	}
	if config.Output.Format != "" {
		merged.Output.Format = config.Output.Format
	}
	if config.Output.NameTemplate != "" {
		merged.Output.NameTemplate = config.Output.NameTemplate
	}
	if config.Output.Manifest != nil {
		merged.Output.Manifest = boolPtr(*config.Output.Manifest)
	}
	if config.Workers > 0 {
		merged.Workers = config.Workers
	}
	if config.Dryrun != nil {
		merged.Dryrun = boolPtr(*config.Dryrun)
	}
}

func loadConfig(fname string) (*Config, error) {
	var config Config
	if strings.EqualFold(filepath.Ext(fname), ".json") {
		f, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := JSONDecode(f, &config); err != nil {
			return nil, err
		}
		return &config, nil
	}
	if err := LoadYAML(fname, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadYAML decodes fname into config, rejecting keys Config does not
// define. An empty file leaves config untouched.
func LoadYAML(fname string, config *Config) error {
	b, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func MarshalYAML(config *Config) ([]byte, error) {
	b, err := yaml.Marshal(config)
	if err != nil {
		return nil, err
	}
	return b, nil
}
