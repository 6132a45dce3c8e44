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

	"github.com/cardinalhq/cicorpus/pkg/fixture"
)

// Emitter receives every fixture document the generator produces.
// Implementations must be safe for concurrent use.
type Emitter interface {
	Emit(ctx context.Context, doc *fixture.Document) error
}

// Flusher is implemented by emitters that hold output until the run ends.
type Flusher interface {
	Flush() error
}

// Finisher is implemented by emitters that must tidy up their output
// whether or not the run succeeded.
type Finisher interface {
	Finish() error
}

// FlushAll flushes every emitter that implements Flusher and returns the
// first error.
func FlushAll(emitters []Emitter) error {
	var first error
	for _, e := range emitters {
		if f, ok := e.(Flusher); ok {
			if err := f.Flush(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// FinishAll finishes every emitter that implements Finisher and returns
// the first error.
func FinishAll(emitters []Emitter) error {
	var first error
	for _, e := range emitters {
		if f, ok := e.(Finisher); ok {
			if err := f.Finish(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
