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

package corpus

import (
	"iter"
	"log/slog"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

// Grid is the parameter space of a corpus. Seeds are ordered: the seed at
// position i always produces case i+1.
type Grid struct {
	Sizes  []int
	Levels []float64
	Seeds  []uint64
}

// Triple is one point of the grid.
type Triple struct {
	// Index is the position of the triple in enumeration order.
	Index int
	Size  int
	Level float64
	Seed  uint64
	Case  int
}

func (g Grid) Len() int {
	return len(g.Sizes) * len(g.Levels) * len(g.Seeds)
}

func (g Grid) Validate() error {
	if len(g.Sizes) == 0 || len(g.Levels) == 0 || len(g.Seeds) == 0 {
		return brokenwing.InvalidArgument("grid needs at least one size, level and seed (got %d, %d, %d)",
			len(g.Sizes), len(g.Levels), len(g.Seeds))
	}

	sizes := make(map[int]bool, len(g.Sizes))
	for _, size := range g.Sizes {
		if size < 2 {
			return brokenwing.InvalidArgument("sample size must be at least 2, got %d", size)
		}
		if sizes[size] {
			return brokenwing.InvalidArgument("duplicate sample size %d", size)
		}
		sizes[size] = true
	}

	levels := make(map[float64]bool, len(g.Levels))
	for _, level := range g.Levels {
		if !(level > 0 && level < 1) {
			return brokenwing.InvalidArgument("confidence level must be in (0, 1), got %v", level)
		}
		if levels[level] {
			return brokenwing.InvalidArgument("duplicate confidence level %v", level)
		}
		levels[level] = true
	}

	seeds := make(map[uint64]int, len(g.Seeds))
	for i, seed := range g.Seeds {
		if prev, ok := seeds[seed]; ok {
			slog.Warn("Seed repeated; cases will share data", "seed", seed, "case", i+1, "sameAs", prev+1)
			continue
		}
		seeds[seed] = i
	}
	return nil
}

// Triples enumerates the grid with size outermost and seed innermost.
func (g Grid) Triples() iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		index := 0
		for _, size := range g.Sizes {
			for _, level := range g.Levels {
				for i, seed := range g.Seeds {
					t := Triple{
						Index: index,
						Size:  size,
						Level: level,
						Seed:  seed,
						Case:  i + 1,
					}
					if !yield(t) {
						return
					}
					index++
				}
			}
		}
	}
}
