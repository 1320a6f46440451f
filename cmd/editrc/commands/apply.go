// Copyright 2025 walteh LLC
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
	"github.com/spf13/cobra"
	"github.com/walteh/editrc/cmd/editrc/opts"
	"github.com/walteh/editrc/pkg/log"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply every edit in a plan",
		Long: `Apply loads the plan file and runs each of its edits.
It will:
1. Load and validate the plan
2. Expand globs and resolve content sources
3. Edit every target, serializing edits of the same file
4. Print a summary of what changed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			out := cmd.OutOrStdout()

			if dryRun {
				logger.Header("apply (dry run)")
			} else {
				logger.Header("apply")
			}

			run, err := runPlan(ctx, out, o.PlanFile, dryRun)
			if run == nil || run.report == nil {
				return err
			}

			logger.LogNewline()
			writeFiles(out, run.plan.BaseDir, run.files)
			logger.LogNewline()
			if serr := writeSummary(out, run.report); serr != nil && err == nil {
				err = serr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show changes without writing them")

	return cmd
}
