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

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cardinalhq/cicorpus/pkg/config"
	"github.com/cardinalhq/cicorpus/pkg/corpus"
	"github.com/cardinalhq/cicorpus/pkg/emitter"
)

type GenerateOptions struct {
	// MetricsFile, if set, receives the run's metrics in the Prometheus
	// text format.
	MetricsFile string
	Quiet       bool
}

func newGenerateCmd() *cobra.Command {
	var opts GenerateOptions
	cmd := &cobra.Command{
		Use:   "generate [config files...]",
		Short: "Generate the fixture corpus",
		Long: `Generate one fixture per (size, level, seed) grid point. Config files are
merged in order on top of the built-in reference grid; flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigs(args)
			if err != nil {
				return fmt.Errorf("error loading config files: %w", err)
			}
			if err := applyFlags(cmd.Flags(), cfg); err != nil {
				return err
			}
			return Generate(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("out", config.DefaultDir, "directory to write fixtures to")
	flags.String("format", config.DefaultFormat, "fixture format: toml, yaml or json")
	flags.Int("workers", 1, "fixtures to generate concurrently")
	flags.Bool("dryrun", false, "print a summary line per fixture instead of writing files")
	flags.Bool("manifest", false, "write "+emitter.ManifestName+" listing every fixture with its digest")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics to this file in Prometheus text format")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print progress")
	return cmd
}

// applyFlags overrides cfg with every flag set explicitly on the command line.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	if flags.Changed("out") {
		cfg.Output.Dir, err = flags.GetString("out")
	}
	if err == nil && flags.Changed("format") {
		cfg.Output.Format, err = flags.GetString("format")
	}
	if err == nil && flags.Changed("workers") {
		cfg.Workers, err = flags.GetInt("workers")
	}
	if err == nil && flags.Changed("dryrun") {
		var v bool
		v, err = flags.GetBool("dryrun")
		cfg.Dryrun = &v
	}
	if err == nil && flags.Changed("manifest") {
		var v bool
		v, err = flags.GetBool("manifest")
		cfg.Output.Manifest = &v
	}
	return err
}

// Generate runs the corpus described by cfg.
func Generate(ctx context.Context, cfg *config.Config, opts GenerateOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var emitters []emitter.Emitter
	if cfg.IsDryrun() {
		emitters = append(emitters, emitter.NewDebugEmitter(stdout))
	} else {
		de, err := emitter.NewDirEmitter(cfg.Output.Dir)
		if err != nil {
			return err
		}
		emitters = append(emitters, de)
		if cfg.Output.WritesManifest() {
			emitters = append(emitters, emitter.NewManifestEmitter(cfg.Output.Dir, cfg.Output.Format))
		}
	}
	if !opts.Quiet {
		total := len(cfg.Sizes) * len(cfg.Levels) * len(cfg.Seeds)
		emitters = append(emitters, emitter.NewTickerEmitter(stderr, total))
	}

	reg := prometheus.NewRegistry()
	g, err := corpus.NewFromConfig(cfg,
		corpus.WithEmitters(emitters...),
		corpus.WithMetrics(corpus.NewMetrics(reg)))
	if err != nil {
		return err
	}

	summary, err := g.Generate(ctx)
	if opts.MetricsFile != "" {
		if werr := prometheus.WriteToTextfile(opts.MetricsFile, reg); werr != nil {
			err = errors.Join(err, fmt.Errorf("writing metrics: %w", werr))
		}
	}
	if err != nil {
		return err
	}

	if !cfg.IsDryrun() && !opts.Quiet {
		fmt.Fprintf(stdout, "Wrote %d fixtures (%d bytes) to %s in %s\n",
			summary.Fixtures, summary.Bytes, cfg.Output.Dir, summary.Elapsed.Round(time.Millisecond))
	}
	return nil
}
