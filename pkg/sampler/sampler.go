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

// Package sampler draws deterministic samples of non-negative counts.
//
// Every call to Sample starts a fresh PCG stream from the seed, so the
// same (seed, size) pair always yields the same slice within one build.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

type Sampler interface {
	// Sample returns size variates in draw order.
	Sample(seed uint64, size int) ([]int64, error)
}

type SamplerSpec struct {
	Type string `mapstructure:"type" yaml:"type" json:"type"`
}

// Create builds a Sampler from a distribution spec such as
//
//	{type: negativeBinomial, r: 10, p: 0.1, method: geometric}
func Create(spec map[string]any) (Sampler, error) {
	if spec == nil {
		return nil, brokenwing.InvalidArgument("missing distribution spec")
	}
	typeAny, ok := spec["type"]
	if !ok {
		return nil, brokenwing.InvalidArgument("missing type in distribution spec")
	}
	samplerType, ok := typeAny.(string)
	if !ok {
		return nil, brokenwing.InvalidArgument("type in distribution spec is not a string")
	}
	switch samplerType {
	case "negativeBinomial":
		return NewNegativeBinomial(spec)
	default:
		return nil, &brokenwing.DecodeError{
			Name: samplerType,
			Err:  fmt.Errorf("%w: %w", brokenwing.ErrInvalidArgument, brokenwing.ErrUnknownSampler),
		}
	}
}

// MakeRNG returns a PCG-backed generator for seed. Zero is a valid seed.
func MakeRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func checkSize(size int) error {
	if size <= 0 {
		return brokenwing.InvalidArgument("sample size must be positive, got %d", size)
	}
	return nil
}

var errNotInteger = errors.New("not representable as a count")
