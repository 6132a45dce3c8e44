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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
	"github.com/cardinalhq/cicorpus/pkg/fixture"
)

// DirEmitter writes each document to its own file in a directory.
// A file either holds a complete document or does not exist.
type DirEmitter struct {
	dir string
}

var _ Emitter = (*DirEmitter)(nil)

func NewDirEmitter(dir string) (*DirEmitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", brokenwing.ErrSerialization, err)
	}
	return &DirEmitter{dir: dir}, nil
}

func (e *DirEmitter) Dir() string {
	return e.dir
}

func (e *DirEmitter) Emit(ctx context.Context, doc *fixture.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := WriteFileAtomic(filepath.Join(e.dir, doc.Name), doc.Body); err != nil {
		return fmt.Errorf("%w: %w", brokenwing.ErrSerialization, err)
	}
	return nil
}

// WriteFileAtomic writes body to a temporary file next to fname and
// renames it into place.
func WriteFileAtomic(fname string, body []byte) error {
	dir, base := filepath.Split(fname)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing %s: %w", fname, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", fname, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, fname)
}
