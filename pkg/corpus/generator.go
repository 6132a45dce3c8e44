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

// Package corpus walks a parameter grid and produces one fixture per
// (size, level, seed) triple.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
	"github.com/cardinalhq/cicorpus/pkg/config"
	"github.com/cardinalhq/cicorpus/pkg/emitter"
	"github.com/cardinalhq/cicorpus/pkg/fixture"
	"github.com/cardinalhq/cicorpus/pkg/interval"
	"github.com/cardinalhq/cicorpus/pkg/sampler"
)

type Generator struct {
	grid     Grid
	sampler  sampler.Sampler
	encoder  fixture.Encoder
	names    []string
	emitters []emitter.Emitter
	workers  int
	metrics  *Metrics
}

type Option func(*Generator)

// WithWorkers bounds how many triples are processed at once. One worker,
// the default, processes the grid strictly in order.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

func WithEmitters(emitters ...emitter.Emitter) Option {
	return func(g *Generator) {
		g.emitters = append(g.emitters, emitters...)
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// Summary describes a completed run.
type Summary struct {
	Fixtures int
	Bytes    int64
	Elapsed  time.Duration
}

func NewGenerator(grid Grid, s sampler.Sampler, enc fixture.Encoder, namer *fixture.Namer, opts ...Option) (*Generator, error) {
	if s == nil || enc == nil || namer == nil {
		return nil, brokenwing.InvalidArgument("generator needs a sampler, an encoder and a namer")
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		grid:    grid,
		sampler: s,
		encoder: enc,
		workers: 1,
	}
	for _, opt := range opts {
		opt(g)
	}

	names, err := assignNames(grid, namer)
	if err != nil {
		return nil, err
	}
	g.names = names
	return g, nil
}

// NewFromConfig builds the sampler, encoder and namer described by cfg.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Generator, error) {
	s, err := sampler.Create(cfg.Distribution)
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}
	enc, err := fixture.NewEncoder(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	namer, err := fixture.NewNamer(cfg.Output.NameTemplate, enc.Extension())
	if err != nil {
		return nil, err
	}
	grid := Grid{
		Sizes:  cfg.Sizes,
		Levels: cfg.Levels,
		Seeds:  cfg.Seeds,
	}
	opts = append([]Option{WithWorkers(cfg.Workers)}, opts...)
	return NewGenerator(grid, s, enc, namer, opts...)
}

// assignNames resolves every file name up front so a template that maps
// two triples onto one file fails before anything is written.
func assignNames(grid Grid, namer *fixture.Namer) ([]string, error) {
	names := make([]string, 0, grid.Len())
	seen := make(map[string]Triple, grid.Len())
	for t := range grid.Triples() {
		name, err := namer.Name(t.Size, t.Level, t.Case, t.Seed)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q for size=%d level=%v case=%d and size=%d level=%v case=%d",
				brokenwing.ErrNameCollision, name,
				prev.Size, prev.Level, prev.Case, t.Size, t.Level, t.Case)
		}
		seen[name] = t
		names = append(names, name)
	}
	return names, nil
}

func (g *Generator) Grid() Grid {
	return g.grid
}

// Names returns the fixture file names in grid order.
func (g *Generator) Names() []string {
	return g.names
}

// Generate produces every fixture of the grid. The first failure stops the
// run and is returned as a *brokenwing.TripleError; fixtures already
// emitted are left as they are.
func (g *Generator) Generate(ctx context.Context) (*Summary, error) {
	start := time.Now()
	slog.Info("Generating corpus",
		"sizes", len(g.grid.Sizes),
		"levels", len(g.grid.Levels),
		"seeds", len(g.grid.Seeds),
		"fixtures", g.grid.Len(),
		"format", g.encoder.Format(),
		"workers", g.workers)

	var fixtures, nbytes atomic.Int64
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for t := range g.grid.Triples() {
		if egctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			n, err := g.generateOne(egctx, t)
			if err != nil {
				return err
			}
			fixtures.Add(1)
			nbytes.Add(int64(n))
			return nil
		})
	}
	err := eg.Wait()
	if ferr := emitter.FinishAll(g.emitters); ferr != nil {
		slog.Warn("Failed to finish emitter output", "error", ferr)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := emitter.FlushAll(g.emitters); err != nil {
		return nil, err
	}

	summary := &Summary{
		Fixtures: int(fixtures.Load()),
		Bytes:    nbytes.Load(),
		Elapsed:  time.Since(start),
	}
	slog.Info("Corpus complete",
		"fixtures", summary.Fixtures,
		"bytes", summary.Bytes,
		"elapsed", summary.Elapsed)
	return summary, nil
}

func (g *Generator) generateOne(ctx context.Context, t Triple) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	fail := func(stage string, err error) (int, error) {
		if !errors.Is(err, context.Canceled) {
			g.metrics.failure(stage)
		}
		return 0, &brokenwing.TripleError{
			Size:  t.Size,
			Level: t.Level,
			Seed:  t.Seed,
			Case:  t.Case,
			Err:   fmt.Errorf("%s: %w", stage, err),
		}
	}

	data, err := g.sampler.Sample(t.Seed, t.Size)
	if err != nil {
		return fail("sample", err)
	}
	ci, err := interval.Interval(data, t.Level)
	if err != nil {
		return fail("estimate", err)
	}
	tc, err := fixture.NewTestCase(t.Size, t.Level, t.Case, ci.Low, ci.High, data)
	if err != nil {
		return fail("assemble", err)
	}
	body, err := g.encoder.Encode(tc)
	if err != nil {
		return fail("encode", err)
	}

	doc := &fixture.Document{
		Index: t.Index,
		Name:  g.names[t.Index],
		Seed:  t.Seed,
		Case:  tc,
		Body:  body,
	}
	for _, e := range g.emitters {
		if err := e.Emit(ctx, doc); err != nil {
			return fail("emit", err)
		}
	}

	slog.Debug("Generated fixture",
		"file", doc.Name,
		"seed", fmt.Sprintf("%#x", t.Seed),
		"ci_low", ci.Low,
		"ci_high", ci.High)
	g.metrics.observe(t.Size, len(body), time.Since(start))
	return len(body), nil
}
