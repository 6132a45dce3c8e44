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
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
	"github.com/cardinalhq/cicorpus/pkg/config"
)

func TestNewTestCase(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		level   float64
		caseNo  int
		low     float64
		high    float64
		data    []int64
		wantErr bool
	}{
		{
			name: "valid", size: 3, level: 0.95, caseNo: 1,
			low: 1, high: 2, data: []int64{1, 2, 3},
		},
		{
			name: "degenerate interval", size: 2, level: 0.9, caseNo: 2,
			low: 5, high: 5, data: []int64{5, 5},
		},
		{
			name: "length mismatch", size: 3, level: 0.95, caseNo: 1,
			low: 1, high: 2, data: []int64{1, 2}, wantErr: true,
		},
		{
			name: "low above high", size: 2, level: 0.95, caseNo: 1,
			low: 3, high: 2, data: []int64{1, 2}, wantErr: true,
		},
		{
			name: "size too small", size: 1, level: 0.95, caseNo: 1,
			low: 1, high: 1, data: []int64{1}, wantErr: true,
		},
		{
			name: "level out of range", size: 2, level: 1, caseNo: 1,
			low: 1, high: 2, data: []int64{1, 2}, wantErr: true,
		},
		{
			name: "case zero", size: 2, level: 0.5, caseNo: 0,
			low: 1, high: 2, data: []int64{1, 2}, wantErr: true,
		},
		{
			name: "infinite bound", size: 2, level: 0.5, caseNo: 1,
			low: math.Inf(-1), high: 2, data: []int64{1, 2}, wantErr: true,
		},
		{
			name: "negative count", size: 2, level: 0.5, caseNo: 1,
			low: 1, high: 2, data: []int64{1, -2}, wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := NewTestCase(tt.size, tt.level, tt.caseNo, tt.low, tt.high, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, brokenwing.ErrInvalidTestCase)
				assert.Nil(t, tc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.data, tc.Data)
		})
	}
}

func TestEncoders(t *testing.T) {
	tc, err := NewTestCase(4, 0.95, 2, -1.25, 7.5, []int64{90, 0, 131, 47})
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			enc, err := NewEncoder(format)
			require.NoError(t, err)
			assert.Equal(t, format, enc.Format())
			assert.Equal(t, "."+format, enc.Extension())

			b, err := enc.Encode(tc)
			require.NoError(t, err)
			for _, key := range []string{"size", "level", "case", "ci_low", "ci_high", "data"} {
				assert.Contains(t, string(b), key)
			}

			got, err := Decode(format, b)
			require.NoError(t, err)
			assert.Equal(t, tc, got)
		})
	}
}

func TestTOMLLayout(t *testing.T) {
	tc, err := NewTestCase(2, 0.7, 1, 1.5, 2.5, []int64{1, 3})
	require.NoError(t, err)
	enc, err := NewEncoder("toml")
	require.NoError(t, err)
	b, err := enc.Encode(tc)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Contains(t, lines, "size = 2")
	assert.Contains(t, lines, "level = 0.7")
	assert.Contains(t, lines, "case = 1")
	assert.Contains(t, lines, "data = [1, 3]")
}

func TestNewEncoder_Unknown(t *testing.T) {
	_, err := NewEncoder("xml")
	assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
	_, err = Decode("xml", nil)
	assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
}

func TestNamer(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		size    int
		level   float64
		caseNo  int
		seed    uint64
		want    string
		wantErr bool
	}{
		{
			name:    "default template",
			pattern: config.DefaultNameTemplate,
			size:    10, level: 0.95, caseNo: 1,
			want: "case_size_10_lvl_0.95_no_1.toml",
		},
		{
			name:    "short level",
			pattern: config.DefaultNameTemplate,
			size:    100000, level: 0.7, caseNo: 3,
			want: "case_size_100000_lvl_0.7_no_3.toml",
		},
		{
			name:    "sprig functions and seed",
			pattern: `{{ .Seed | upper }}_{{ printf "%06d" .Size }}_{{ .Level | replace "." "p" }}`,
			size:    10, level: 0.99, caseNo: 1, seed: 0xfeedcafe,
			want: "FEEDCAFE_000010_0p99.toml",
		},
		{
			name:    "path separator",
			pattern: "dir/{{ .Size }}",
			size:    10, level: 0.9, caseNo: 1,
			wantErr: true,
		},
		{
			name:    "missing field",
			pattern: "{{ .Nope }}",
			size:    10, level: 0.9, caseNo: 1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNamer(tt.pattern, ".toml")
			require.NoError(t, err)
			got, err := n.Name(tt.size, tt.level, tt.caseNo, tt.seed)
			if tt.wantErr {
				assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewNamer_BadTemplate(t *testing.T) {
	_, err := NewNamer("{{ .Size ", ".toml")
	assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
}
