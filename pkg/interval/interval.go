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

// Package interval computes two-sided Student's t confidence intervals
// for the mean of a sample.
//
// For a sample of size n with mean m and Bessel-corrected standard
// deviation s, the interval at confidence level c is
//
//	m ± t(n-1, (1+c)/2) · s/√n
//
// where t(ν, q) is the q-quantile of Student's t-distribution with ν
// degrees of freedom. A sample with zero variance yields the zero-width
// interval (m, m); that is a valid result, not an error.
package interval

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

// Number is any value a sample can be made of.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// A ConfidenceInterval is a closed interval [Low, High] with Low <= High.
type ConfidenceInterval struct {
	Low  float64
	High float64
}

func (ci ConfidenceInterval) Width() float64 {
	return ci.High - ci.Low
}

func (ci ConfidenceInterval) Midpoint() float64 {
	return ci.Low + (ci.High-ci.Low)/2
}

// Interval returns the two-sided t-interval for the mean of data at the
// given confidence level. It needs at least two finite values and a level
// strictly between 0 and 1.
func Interval[T Number](data []T, level float64) (ConfidenceInterval, error) {
	xs, err := toFloats(data)
	if err != nil {
		return ConfidenceInterval{}, err
	}
	if len(xs) < 2 {
		return ConfidenceInterval{}, brokenwing.InvalidArgument("need at least 2 values, got %d", len(xs))
	}
	if !(level > 0 && level < 1) {
		return ConfidenceInterval{}, brokenwing.InvalidArgument("confidence level must be in (0, 1), got %v", level)
	}

	m := stat.Mean(xs, nil)
	se := stdErr(xs)
	if se == 0 {
		return ConfidenceInterval{Low: m, High: m}, nil
	}
	// Levels within an ulp of 1 leave no room below 1 for the quantile.
	q := 1 - (1-level)/2
	if q >= 1 {
		return ConfidenceInterval{}, brokenwing.InvalidArgument("confidence level %v is too close to 1", level)
	}
	t, err := TQuantile(q, float64(len(xs)-1))
	if err != nil {
		return ConfidenceInterval{}, err
	}
	half := t * se
	return ConfidenceInterval{Low: m - half, High: m + half}, nil
}

// Mean returns the arithmetic mean of data.
func Mean[T Number](data []T) (float64, error) {
	xs, err := toFloats(data)
	if err != nil {
		return 0, err
	}
	if len(xs) == 0 {
		return 0, brokenwing.InvalidArgument("mean of empty sample")
	}
	return stat.Mean(xs, nil), nil
}

// StdErr returns s/√n, with s the standard deviation using n-1 in the
// denominator.
func StdErr[T Number](data []T) (float64, error) {
	xs, err := toFloats(data)
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return 0, brokenwing.InvalidArgument("need at least 2 values, got %d", len(xs))
	}
	return stdErr(xs), nil
}

// TQuantile returns the p-quantile of Student's t-distribution with df
// degrees of freedom.
func TQuantile(p, df float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, brokenwing.InvalidArgument("quantile must be in (0, 1), got %v", p)
	}
	if !(df > 0) || math.IsInf(df, 1) {
		return 0, brokenwing.InvalidArgument("degrees of freedom must be positive and finite, got %v", df)
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p), nil
}

func stdErr(xs []float64) float64 {
	// stat.Variance is the corrected two-pass estimator; rounding can
	// leave it a hair below zero for constant input.
	variance := max(stat.Variance(xs, nil), 0)
	return math.Sqrt(variance / float64(len(xs)))
}

func toFloats[T Number](data []T) ([]float64, error) {
	xs := make([]float64, len(data))
	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, brokenwing.InvalidArgument("value %d is not finite: %v", i, f)
		}
		xs[i] = f
	}
	return xs, nil
}
