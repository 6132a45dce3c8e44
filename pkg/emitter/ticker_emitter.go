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
	"io"
	"sync"

	"github.com/cardinalhq/cicorpus/pkg/fixture"
)

// TickerEmitter overwrites a single progress line on out.
type TickerEmitter struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

var _ Emitter = (*TickerEmitter)(nil)
var _ Finisher = (*TickerEmitter)(nil)

func NewTickerEmitter(out io.Writer, total int) *TickerEmitter {
	return &TickerEmitter{
		out:   out,
		total: total,
	}
}

func (e *TickerEmitter) Emit(_ context.Context, doc *fixture.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.done++
	percent := 100.0
	if e.total > 0 {
		percent = float64(e.done) / float64(e.total) * 100
	}
	fmt.Fprintf(e.out, "Case %d/%d %.2f%% %s\r", e.done, e.total, percent, doc.Name)
	return nil
}

// Finish ends the progress line so whatever is printed next starts on a
// fresh line.
func (e *TickerEmitter) Finish() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done > 0 {
		fmt.Fprintln(e.out)
	}
	return nil
}
