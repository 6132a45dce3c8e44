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

package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

func defaultSpec(method string) map[string]any {
	return map[string]any{
		"type":   "negativeBinomial",
		"r":      10,
		"p":      0.1,
		"method": method,
	}
}

func toFloats(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func TestNegativeBinomial_Sample(t *testing.T) {
	for _, method := range validMethods {
		t.Run(method, func(t *testing.T) {
			nb, err := NewNegativeBinomial(defaultSpec(method))
			require.NoError(t, err)

			for _, size := range []int{1, 2, 10, 1000} {
				got, err := nb.Sample(0xfeedcafe, size)
				require.NoError(t, err)
				assert.Len(t, got, size)
				for _, v := range got {
					assert.GreaterOrEqual(t, v, int64(0))
				}
			}
		})
	}
}

func TestNegativeBinomial_Deterministic(t *testing.T) {
	for _, method := range validMethods {
		t.Run(method, func(t *testing.T) {
			nb, err := NewNegativeBinomial(defaultSpec(method))
			require.NoError(t, err)

			a, err := nb.Sample(0xdeadbeef, 500)
			require.NoError(t, err)
			b, err := nb.Sample(0xdeadbeef, 500)
			require.NoError(t, err)
			assert.Equal(t, a, b)

			c, err := nb.Sample(0xbabeface, 500)
			require.NoError(t, err)
			assert.NotEqual(t, a, c)
		})
	}
}

func TestNegativeBinomial_PrefixStable(t *testing.T) {
	nb, err := NewNegativeBinomial(defaultSpec(MethodGeometric))
	require.NoError(t, err)

	short, err := nb.Sample(42, 10)
	require.NoError(t, err)
	long, err := nb.Sample(42, 100)
	require.NoError(t, err)
	assert.Equal(t, short, long[:10])
}

func TestNegativeBinomial_ZeroSeed(t *testing.T) {
	nb, err := NewNegativeBinomial(defaultSpec(MethodGeometric))
	require.NoError(t, err)

	a, err := nb.Sample(0, 50)
	require.NoError(t, err)
	b, err := nb.Sample(0, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNegativeBinomial_Moments(t *testing.T) {
	for _, method := range validMethods {
		t.Run(method, func(t *testing.T) {
			nb, err := NewNegativeBinomial(defaultSpec(method))
			require.NoError(t, err)
			assert.Equal(t, 90.0, nb.Mean())
			assert.InDelta(t, 900.0, nb.Variance(), 1e-9)

			got, err := nb.Sample(123, 100_000)
			require.NoError(t, err)
			mean, variance := stat.MeanVariance(toFloats(got), nil)
			assert.InDelta(t, nb.Mean(), mean, 0.5)
			assert.InEpsilon(t, nb.Variance(), variance, 0.05)
		})
	}
}

func TestNegativeBinomial_CertainSuccess(t *testing.T) {
	spec := defaultSpec(MethodGeometric)
	spec["p"] = 1.0
	nb, err := NewNegativeBinomial(spec)
	require.NoError(t, err)

	got, err := nb.Sample(7, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, got)
}

func TestNegativeBinomial_InvalidSize(t *testing.T) {
	nb, err := NewNegativeBinomial(defaultSpec(MethodGeometric))
	require.NoError(t, err)

	for _, size := range []int{0, -1} {
		_, err := nb.Sample(1, size)
		assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
	}
}

func TestNewNegativeBinomial_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec map[string]any
	}{
		{
			name: "zero r",
			spec: map[string]any{"type": "negativeBinomial", "r": 0, "p": 0.1},
		},
		{
			name: "zero p",
			spec: map[string]any{"type": "negativeBinomial", "r": 10, "p": 0.0},
		},
		{
			name: "p above one",
			spec: map[string]any{"type": "negativeBinomial", "r": 10, "p": 1.5},
		},
		{
			name: "unknown method",
			spec: map[string]any{"type": "negativeBinomial", "r": 10, "p": 0.1, "method": "rejection"},
		},
		{
			name: "unknown key",
			spec: map[string]any{"type": "negativeBinomial", "r": 10, "p": 0.1, "n": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNegativeBinomial(tt.spec)
			assert.ErrorIs(t, err, brokenwing.ErrInvalidArgument)
		})
	}
}

func TestNewNegativeBinomialFromSpec_DefaultsMethod(t *testing.T) {
	nb, err := NewNegativeBinomialFromSpec(NegativeBinomialSpec{R: 3, P: 0.5})
	require.NoError(t, err)
	assert.Equal(t, MethodGeometric, nb.Spec().Method)
}
