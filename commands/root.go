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
	"log/slog"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "cicorpus",
		Short: "cicorpus generates reference fixtures for confidence-interval estimators",
		Long: `cicorpus samples deterministic count data over a grid of sample sizes,
confidence levels and seeds, computes the Student's t interval for the mean of
each sample, and writes one fixture per grid point.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every fixture at debug level")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
