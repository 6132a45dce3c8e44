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
	"fmt"
	"math"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

// TestCase is one persisted fixture. The field names are what consumers
// read; their order in the encoded document carries no meaning.
type TestCase struct {
	Size   int     `toml:"size" yaml:"size" json:"size"`
	Level  float64 `toml:"level" yaml:"level" json:"level"`
	Case   int     `toml:"case" yaml:"case" json:"case"`
	CILow  float64 `toml:"ci_low" yaml:"ci_low" json:"ci_low"`
	CIHigh float64 `toml:"ci_high" yaml:"ci_high" json:"ci_high"`
	Data   []int64 `toml:"data" yaml:"data" json:"data"`
}

// NewTestCase assembles a fixture and checks it is internally consistent.
// The data slice is retained, not copied.
func NewTestCase(size int, level float64, caseNo int, low, high float64, data []int64) (*TestCase, error) {
	tc := &TestCase{
		Size:   size,
		Level:  level,
		Case:   caseNo,
		CILow:  low,
		CIHigh: high,
		Data:   data,
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

func (tc *TestCase) Validate() error {
	switch {
	case tc.Size < 2:
		return invalid("size must be at least 2, got %d", tc.Size)
	case len(tc.Data) != tc.Size:
		return invalid("data has %d values, size is %d", len(tc.Data), tc.Size)
	case !(tc.Level > 0 && tc.Level < 1):
		return invalid("level must be in (0, 1), got %v", tc.Level)
	case tc.Case < 1:
		return invalid("case must be at least 1, got %d", tc.Case)
	case !isFinite(tc.CILow) || !isFinite(tc.CIHigh):
		return invalid("interval bounds must be finite, got [%v, %v]", tc.CILow, tc.CIHigh)
	case tc.CILow > tc.CIHigh:
		return invalid("ci_low %v is above ci_high %v", tc.CILow, tc.CIHigh)
	}
	for i, v := range tc.Data {
		if v < 0 {
			return invalid("data[%d] is negative: %d", i, v)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", brokenwing.ErrInvalidTestCase, fmt.Sprintf(format, args...))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
