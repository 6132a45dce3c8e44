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

package brokenwing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks bad sizes, levels, seeds or distribution
	// parameters handed to the sampler or the estimator.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSerialization marks a fixture that could not be encoded or written.
	ErrSerialization = errors.New("serialization failure")
	// ErrNameCollision marks two grid points that map to the same file name.
	ErrNameCollision = errors.New("fixture name collision")
	// ErrInvalidTestCase marks a record that fails construction checks.
	ErrInvalidTestCase = errors.New("invalid test case")
	ErrUnknownSampler  = errors.New("unknown sampler")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode spec for %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TripleError carries the grid coordinates of a failed fixture so the
// failure can be reproduced in isolation.
type TripleError struct {
	Size  int
	Level float64
	Seed  uint64
	Case  int
	Err   error
}

func (e *TripleError) Error() string {
	return fmt.Sprintf("size=%d level=%v seed=%#x case=%d: %v", e.Size, e.Level, e.Seed, e.Case, e.Err)
}

func (e *TripleError) Unwrap() error {
	return e.Err
}
