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
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
	"github.com/cardinalhq/cicorpus/pkg/config"
)

const (
	MethodGeometric    = "geometric"
	MethodGammaPoisson = "gammaPoisson"
)

var validMethods = []string{MethodGeometric, MethodGammaPoisson}

// NegativeBinomialSpec describes the number of failures observed before
// the R-th success in independent Bernoulli(P) trials.
type NegativeBinomialSpec struct {
	SamplerSpec `mapstructure:",squash"`

	// R is the number of successes to wait for.
	R int `mapstructure:"r" yaml:"r" json:"r"`
	// P is the per-trial success probability, in (0, 1].
	P float64 `mapstructure:"p" yaml:"p" json:"p"`
	// Method selects the draw algorithm: "geometric" (default) or
	// "gammaPoisson". Both have the same marginal distribution.
	Method string `mapstructure:"method" yaml:"method" json:"method"`
}

func (s NegativeBinomialSpec) Validate() error {
	if s.R < 1 {
		return brokenwing.InvalidArgument("r must be at least 1, got %d", s.R)
	}
	if !(s.P > 0 && s.P <= 1) {
		return brokenwing.InvalidArgument("p must be in (0, 1], got %v", s.P)
	}
	if !slices.Contains(validMethods, s.Method) {
		return brokenwing.InvalidArgument("invalid method: %q", s.Method)
	}
	return nil
}

type NegativeBinomial struct {
	spec NegativeBinomialSpec
	// logq is ln(1-p), the scale of the geometric inversion.
	logq float64
}

var _ Sampler = (*NegativeBinomial)(nil)

func NewNegativeBinomial(is map[string]any) (*NegativeBinomial, error) {
	spec := NegativeBinomialSpec{
		Method: MethodGeometric,
	}
	decoder, err := config.NewMapstructureDecoder(&spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(is); err != nil {
		return nil, &brokenwing.DecodeError{
			Name: "negativeBinomial",
			Err:  fmt.Errorf("%w: %w", brokenwing.ErrInvalidArgument, err),
		}
	}
	return NewNegativeBinomialFromSpec(spec)
}

func NewNegativeBinomialFromSpec(spec NegativeBinomialSpec) (*NegativeBinomial, error) {
	if spec.Method == "" {
		spec.Method = MethodGeometric
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &NegativeBinomial{
		spec: spec,
		logq: math.Log1p(-spec.P),
	}, nil
}

func (nb *NegativeBinomial) Spec() NegativeBinomialSpec {
	return nb.spec
}

// Mean is the population mean r(1-p)/p.
func (nb *NegativeBinomial) Mean() float64 {
	return float64(nb.spec.R) * (1 - nb.spec.P) / nb.spec.P
}

// Variance is the population variance r(1-p)/p².
func (nb *NegativeBinomial) Variance() float64 {
	return nb.Mean() / nb.spec.P
}

func (nb *NegativeBinomial) Sample(seed uint64, size int) ([]int64, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	out := make([]int64, size)
	if nb.spec.P == 1 {
		// Every trial succeeds, so there are never any failures.
		return out, nil
	}

	switch nb.spec.Method {
	case MethodGammaPoisson:
		src := rand.NewPCG(seed, seed)
		for i := range out {
			v, err := nb.gammaPoisson(src)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	default:
		rng := MakeRNG(seed)
		for i := range out {
			out[i] = nb.sumOfGeometrics(rng)
		}
	}
	return out, nil
}

// sumOfGeometrics adds R independent geometric failure counts. Each one
// is drawn by inversion: floor(ln U / ln(1-p)) with U uniform on (0, 1].
func (nb *NegativeBinomial) sumOfGeometrics(rng *rand.Rand) int64 {
	var total int64
	for range nb.spec.R {
		u := 1 - rng.Float64()
		total += int64(math.Floor(math.Log(u) / nb.logq))
	}
	return total
}

// gammaPoisson draws λ ~ Gamma(shape=r, rate=p/(1-p)) and then a
// Poisson(λ) count, which is negative binomial in the marginal.
func (nb *NegativeBinomial) gammaPoisson(src rand.Source) (int64, error) {
	p := nb.spec.P
	gamma := distuv.Gamma{Alpha: float64(nb.spec.R), Beta: p / (1 - p), Src: src}
	poisson := distuv.Poisson{Lambda: gamma.Rand(), Src: src}
	v := poisson.Rand()
	if v < 0 || v >= math.MaxInt64 || v != math.Trunc(v) {
		return 0, fmt.Errorf("poisson draw %v: %w", v, errNotInteger)
	}
	return int64(v), nil
}
