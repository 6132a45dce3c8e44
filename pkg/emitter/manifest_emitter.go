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

package emitter

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
	"github.com/cardinalhq/cicorpus/pkg/fixture"
)

const ManifestName = "manifest.yaml"

type Manifest struct {
	Format   string          `yaml:"format"`
	Fixtures []ManifestEntry `yaml:"fixtures"`
}

type ManifestEntry struct {
	File  string  `yaml:"file"`
	Size  int     `yaml:"size"`
	Level float64 `yaml:"level"`
	Case  int     `yaml:"case"`
	Seed  string  `yaml:"seed"`
	// XXHash64 is the hex digest of the file contents.
	XXHash64 string `yaml:"xxhash64"`

	index int
}

// ManifestEmitter records every document it sees and writes a manifest
// listing them in grid order when flushed.
type ManifestEmitter struct {
	mu      sync.Mutex
	dir     string
	format  string
	entries []ManifestEntry
}

var _ Emitter = (*ManifestEmitter)(nil)
var _ Flusher = (*ManifestEmitter)(nil)

func NewManifestEmitter(dir, format string) *ManifestEmitter {
	return &ManifestEmitter{
		dir:    dir,
		format: format,
	}
}

func (e *ManifestEmitter) Emit(_ context.Context, doc *fixture.Document) error {
	entry := ManifestEntry{
		File:     doc.Name,
		Size:     doc.Case.Size,
		Level:    doc.Case.Level,
		Case:     doc.Case.Case,
		Seed:     fmt.Sprintf("%08x", doc.Seed),
		XXHash64: fmt.Sprintf("%016x", xxhash.Sum64(doc.Body)),
		index:    doc.Index,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Manifest returns the entries recorded so far, in grid order.
func (e *ManifestEmitter) Manifest() Manifest {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := slices.Clone(e.entries)
	slices.SortFunc(entries, func(a, b ManifestEntry) int {
		return cmp.Compare(a.index, b.index)
	})
	return Manifest{Format: e.format, Fixtures: entries}
}

func (e *ManifestEmitter) Flush() error {
	b, err := yaml.Marshal(e.Manifest())
	if err != nil {
		return fmt.Errorf("%w: manifest: %w", brokenwing.ErrSerialization, err)
	}
	if err := WriteFileAtomic(filepath.Join(e.dir, ManifestName), b); err != nil {
		return fmt.Errorf("%w: manifest: %w", brokenwing.ErrSerialization, err)
	}
	return nil
}
