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

package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

// Encoder turns a TestCase into the bytes of one fixture document.
type Encoder interface {
	Format() string
	// Extension is appended to the fixture name, including the dot.
	Extension() string
	Encode(tc *TestCase) ([]byte, error)
}

// Formats lists the supported encoder names.
var Formats = []string{"toml", "yaml", "json"}

func NewEncoder(format string) (Encoder, error) {
	switch format {
	case "", "toml":
		return tomlEncoder{}, nil
	case "yaml":
		return yamlEncoder{}, nil
	case "json":
		return jsonEncoder{}, nil
	default:
		return nil, brokenwing.InvalidArgument("unknown fixture format %q, want one of %v", format, Formats)
	}
}

// Decode parses a fixture document written by the encoder for format.
func Decode(format string, b []byte) (*TestCase, error) {
	var tc TestCase
	var err error
	switch format {
	case "", "toml":
		err = toml.Unmarshal(b, &tc)
	case "yaml":
		err = yaml.Unmarshal(b, &tc)
	case "json":
		err = json.Unmarshal(b, &tc)
	default:
		return nil, brokenwing.InvalidArgument("unknown fixture format %q, want one of %v", format, Formats)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s fixture: %w", format, err)
	}
	return &tc, nil
}

type tomlEncoder struct{}

func (tomlEncoder) Format() string    { return "toml" }
func (tomlEncoder) Extension() string { return ".toml" }

func (tomlEncoder) Encode(tc *TestCase) ([]byte, error) {
	b, err := toml.Marshal(tc)
	if err != nil {
		return nil, fmt.Errorf("%w: toml: %w", brokenwing.ErrSerialization, err)
	}
	return b, nil
}

type yamlEncoder struct{}

func (yamlEncoder) Format() string    { return "yaml" }
func (yamlEncoder) Extension() string { return ".yaml" }

// yamlDocument keeps data on one line; a block list would be one line per value.
type yamlDocument struct {
	Size   int     `yaml:"size"`
	Level  float64 `yaml:"level"`
	Case   int     `yaml:"case"`
	CILow  float64 `yaml:"ci_low"`
	CIHigh float64 `yaml:"ci_high"`
	Data   []int64 `yaml:"data,flow"`
}

func (yamlEncoder) Encode(tc *TestCase) ([]byte, error) {
	b, err := yaml.Marshal(yamlDocument(*tc))
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", brokenwing.ErrSerialization, err)
	}
	return b, nil
}

type jsonEncoder struct{}

func (jsonEncoder) Format() string    { return "json" }
func (jsonEncoder) Extension() string { return ".json" }

func (jsonEncoder) Encode(tc *TestCase) ([]byte, error) {
	b, err := json.Marshal(tc)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %w", brokenwing.ErrSerialization, err)
	}
	return append(b, '\n'), nil
}
