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
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/cardinalhq/cicorpus/pkg/fixture"
)

// DebugEmitter prints one JSON line per document instead of writing files.
type DebugEmitter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ Emitter = (*DebugEmitter)(nil)

func NewDebugEmitter(out io.Writer) *DebugEmitter {
	return &DebugEmitter{
		out: out,
	}
}

type DebugMessage struct {
	Name   string  `json:"name"`
	Seed   string  `json:"seed"`
	Size   int     `json:"size"`
	Level  float64 `json:"level"`
	Case   int     `json:"case"`
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
	Bytes  int     `json:"bytes"`
}

func (e *DebugEmitter) Emit(_ context.Context, doc *fixture.Document) error {
	msg := DebugMessage{
		Name:   doc.Name,
		Seed:   fmt.Sprintf("%#x", doc.Seed),
		Size:   doc.Case.Size,
		Level:  doc.Case.Level,
		Case:   doc.Case.Case,
		CILow:  doc.Case.CILow,
		CIHigh: doc.Case.CIHigh,
		Bytes:  len(doc.Body),
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal debug message: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.out.Write(b)
	_, _ = e.out.Write([]byte("\n"))
	return nil
}
